package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPExecutor — executor, вызывающий backend по HTTP.
//
// Payload сериализуется в JSON и отправляется POST'ом на URL backend'а.
// Ответ парсится как JSON; не-JSON тело возвращается в поле "body".
//
// Config:
//   - url (string): URL backend'а (обязательно)
//   - headers (map[string]any): дополнительные заголовки
type HTTPExecutor struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// NewHTTPExecutor создаёт HTTPExecutor из конфигурации пути.
func NewHTTPExecutor(config map[string]any) (*HTTPExecutor, error) {
	url := getString(config, "url", "")
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", ErrHTTPRequest)
	}

	return &HTTPExecutor{
		url:     url,
		headers: getHeaders(config),
		client:  &http.Client{},
	}, nil
}

// Invoke выполняет HTTP-вызов backend'а.
func (e *HTTPExecutor) Invoke(ctx context.Context, payload map[string]any) (map[string]any, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: marshal payload: %v", ErrHTTPRequest, err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrHTTPRequest, err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, val := range e.headers {
		req.Header.Set(key, val)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		// Таймаут контекста должен остаться различимым для Invoker'а
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrHTTPRequest, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrHTTPRequest, err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrHTTPRequest, resp.StatusCode, truncate(string(respBody), 200))
	}

	// Парсим ответ: JSON-объект как есть, иначе заворачиваем в "body"
	var parsed map[string]any
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		var fallback any
		if err := json.Unmarshal(respBody, &fallback); err != nil {
			fallback = string(respBody)
		}
		parsed = map[string]any{"body": fallback}
	}
	return parsed, nil
}

// getString извлекает строку из map с default значением.
func getString(m map[string]any, key, defaultVal string) string {
	if val, ok := m[key]; ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return defaultVal
}

// getHeaders извлекает заголовки из конфигурации.
func getHeaders(config map[string]any) map[string]string {
	headers := make(map[string]string)
	raw, ok := config["headers"]
	if !ok || raw == nil {
		return headers
	}

	switch h := raw.(type) {
	case map[string]any:
		for key, val := range h {
			if s, ok := val.(string); ok {
				headers[key] = s
			}
		}
	case map[string]string:
		for key, val := range h {
			headers[key] = val
		}
	}
	return headers
}

// truncate обрезает строку до указанной длины.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
