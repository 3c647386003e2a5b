package executor

import "errors"

// Ошибки вызова executor'ов.
var (
	// ErrUnknownPath — нет executor'а для данного имени пути.
	ErrUnknownPath = errors.New("unknown path")

	// ErrInvocationTimeout — попытка превысила per-attempt таймаут.
	ErrInvocationTimeout = errors.New("invocation timeout")

	// ErrInvocationFailed — executor вернул ошибку.
	ErrInvocationFailed = errors.New("invocation failed")

	// ErrHTTPRequest — HTTP-запрос к backend'у завершился ошибкой.
	ErrHTTPRequest = errors.New("http request failed")
)
