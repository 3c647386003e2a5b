package race

import "errors"

// Ошибки race.
var (
	// ErrAllPathsFailed — все пути гонки завершились неуспешно (decoherence).
	ErrAllPathsFailed = errors.New("all execution paths failed")

	// ErrNoPaths — гонка без участников.
	ErrNoPaths = errors.New("no paths to race")
)
