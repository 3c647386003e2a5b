package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shaiso/Superpose/internal/domain"
)

const defaultInvokeTimeout = 3 * time.Second

// Executor — интерфейс вызова одного backend'а.
//
// payload непрозрачен: executor передаёт его backend'у как есть.
// ctx несёт per-attempt таймаут, установленный Invoker'ом.
type Executor interface {
	Invoke(ctx context.Context, payload map[string]any) (map[string]any, error)
}

// Registry — реестр executor'ов по имени пути.
type Registry struct {
	executors map[string]Executor
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{executors: make(map[string]Executor)}
}

// Register добавляет executor для пути.
func (r *Registry) Register(pathName string, exec Executor) {
	r.executors[pathName] = exec
}

// Get возвращает executor для пути.
func (r *Registry) Get(pathName string) (Executor, error) {
	exec, ok := r.executors[pathName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPath, pathName)
	}
	return exec, nil
}

// RegisterGroup наполняет реестр executor'ами путей группы.
//
// Типы executor'ов: "http" (default), "delay".
func (r *Registry) RegisterGroup(group *domain.RoutingGroup) error {
	for i := range group.Paths {
		path := &group.Paths[i]

		var exec Executor
		switch path.Executor {
		case "", "http":
			httpExec, err := NewHTTPExecutor(path.Config)
			if err != nil {
				return fmt.Errorf("path %s: %w", path.Name, err)
			}
			exec = httpExec
		case "delay":
			exec = NewDelayExecutor(path.Config)
		default:
			return fmt.Errorf("%w: executor type %q", ErrUnknownPath, path.Executor)
		}

		r.Register(path.Name, exec)
	}
	return nil
}

// Invoker — единая точка вызова executor'ов с обязательным таймаутом.
type Invoker struct {
	registry *Registry
	timeout  time.Duration
}

// NewInvoker создаёт Invoker.
//
// timeout — per-attempt таймаут по умолчанию (default: 3s).
func NewInvoker(registry *Registry, timeout time.Duration) *Invoker {
	if timeout <= 0 {
		timeout = defaultInvokeTimeout
	}
	return &Invoker{registry: registry, timeout: timeout}
}

// Timeout возвращает per-attempt таймаут Invoker'а.
func (inv *Invoker) Timeout() time.Duration {
	return inv.timeout
}

// Invoke вызывает executor пути под таймаутом.
//
// timeout <= 0 означает таймаут Invoker'а по умолчанию.
// Ошибки нормализуются к таксономии пакета: превышение таймаута —
// ErrInvocationTimeout, остальное — ErrInvocationFailed.
func (inv *Invoker) Invoke(ctx context.Context, pathName string, payload map[string]any, timeout time.Duration) (map[string]any, error) {
	exec, err := inv.registry.Get(pathName)
	if err != nil {
		return nil, err
	}

	if timeout <= 0 {
		timeout = inv.timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := exec.Invoke(ctx, payload)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s after %s", ErrInvocationTimeout, pathName, timeout)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInvocationFailed, pathName, err)
	}
	return result, nil
}
