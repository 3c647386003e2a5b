package executor

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// DelayExecutor — синтетический executor с фиксированной задержкой.
//
// Используется в sandbox-режиме и тестах: имитирует backend с заданной
// задержкой и вероятностью ошибки. Поддерживает отмену через context.
//
// Config:
//   - delay_ms (number): задержка ответа в миллисекундах (default: 100)
//   - fail_rate (number): вероятность ошибки в [0, 1] (default: 0)
type DelayExecutor struct {
	delay    time.Duration
	failRate float64
}

// NewDelayExecutor создаёт DelayExecutor из конфигурации пути.
func NewDelayExecutor(config map[string]any) *DelayExecutor {
	delayMs := getNumber(config, "delay_ms", 100)
	if delayMs < 0 {
		delayMs = 0
	}

	failRate := getNumber(config, "fail_rate", 0)
	if failRate < 0 {
		failRate = 0
	}
	if failRate > 1 {
		failRate = 1
	}

	return &DelayExecutor{
		delay:    time.Duration(delayMs * float64(time.Millisecond)),
		failRate: failRate,
	}
}

// Invoke имитирует вызов backend'а.
func (e *DelayExecutor) Invoke(ctx context.Context, payload map[string]any) (map[string]any, error) {
	select {
	case <-time.After(e.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if e.failRate > 0 && rand.Float64() < e.failRate {
		return nil, fmt.Errorf("simulated backend failure")
	}

	return map[string]any{
		"delayed_ms": e.delay.Milliseconds(),
		"echo":       payload,
	}, nil
}

// getNumber извлекает число из map с default значением.
func getNumber(m map[string]any, key string, defaultVal float64) float64 {
	if val, ok := m[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		}
	}
	return defaultVal
}
