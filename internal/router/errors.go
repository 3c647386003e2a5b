package router

import "errors"

// Ошибки router'а.
var (
	// ErrUnknownGroup — routing group не сконфигурирована.
	ErrUnknownGroup = errors.New("unknown routing group")
)
