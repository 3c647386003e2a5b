package config

import "errors"

// Ошибки конфигурации.
var (
	// ErrNoGroups — конфигурация без routing groups.
	ErrNoGroups = errors.New("no routing groups configured")

	// ErrEmptyGroupName — группа без имени.
	ErrEmptyGroupName = errors.New("routing group has empty name")

	// ErrDuplicateGroup — повторяющееся имя группы.
	ErrDuplicateGroup = errors.New("duplicate routing group name")

	// ErrNoPaths — группа без путей.
	ErrNoPaths = errors.New("routing group has no paths")

	// ErrEmptyPathName — путь без имени.
	ErrEmptyPathName = errors.New("path has empty name")

	// ErrDuplicatePath — повторяющееся имя пути внутри группы.
	ErrDuplicatePath = errors.New("duplicate path name in group")

	// ErrInvalidWeight — вес пути не положительный.
	ErrInvalidWeight = errors.New("path weight must be positive")
)
