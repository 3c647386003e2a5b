package selector

import "errors"

// Ошибки selector'а.
var (
	// ErrNoCandidates — пустой набор кандидатов.
	// Конфигурация fails closed: пустая группа не проходит валидацию,
	// поэтому в работе эта ошибка означает programming error.
	ErrNoCandidates = errors.New("no candidates to select from")
)
