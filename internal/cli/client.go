package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// RouteResponse — результат маршрутизации из API.
type RouteResponse struct {
	RequestID     string         `json:"request_id"`
	Payload       map[string]any `json:"payload,omitempty"`
	Strategy      string         `json:"strategy"`
	Reason        string         `json:"reason"`
	WinningSource string         `json:"winning_source"`
	LatencyMs     int64          `json:"latency_ms"`
	HedgeCount    int            `json:"hedge_count"`
}

// GroupResponse — routing group из API.
type GroupResponse struct {
	Name               string   `json:"name"`
	Paths              []string `json:"paths"`
	HedgeThresholdMs   int64    `json:"hedge_threshold_ms,omitempty"`
	MaxHedgedRequests  int      `json:"max_hedged_requests,omitempty"`
	SpeculativeEnabled bool     `json:"speculative_enabled"`
}

// PathResponse — путь со статистикой из API.
type PathResponse struct {
	Name             string  `json:"name"`
	Weight           float64 `json:"weight"`
	Executor         string  `json:"executor"`
	SuccessCount     int64   `json:"success_count"`
	TotalCount       int64   `json:"total_count"`
	SuccessRate      float64 `json:"success_rate"`
	AverageLatencyMs float64 `json:"average_latency_ms"`
}

// ObservationResponse — observation из API.
type ObservationResponse struct {
	ID        string `json:"id"`
	PathName  string `json:"path_name"`
	RequestID string `json:"request_id"`
	LatencyMs int64  `json:"latency_ms"`
	Success   bool   `json:"success"`
	Strategy  string `json:"strategy,omitempty"`
	Timestamp string `json:"timestamp"`
	ExpiresAt string `json:"expires_at"`
}

// --- Request types ---

// RouteRequestBody — тело запроса на маршрутизацию.
type RouteRequestBody struct {
	Payload   map[string]any `json:"payload,omitempty"`
	Kind      string         `json:"kind,omitempty"`
	Priority  string         `json:"priority,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
}

// ListObservationsOpts — параметры выборки observations.
type ListObservationsOpts struct {
	SinceSec int
	Limit    int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Superpose API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Routing ---

// Route отправляет запрос на маршрутизацию через группу.
func (c *Client) Route(group string, req RouteRequestBody) (*RouteResponse, error) {
	var result RouteResponse
	err := c.post("/api/v1/groups/"+group+"/route", req, &result)
	return &result, err
}

// --- Groups ---

// ListGroups возвращает все routing groups.
func (c *Client) ListGroups() ([]GroupResponse, error) {
	var groups []GroupResponse
	err := c.list("/api/v1/groups", nil, &groups)
	return groups, err
}

// ListGroupPaths возвращает пути группы со статистикой.
func (c *Client) ListGroupPaths(group string) ([]PathResponse, error) {
	var paths []PathResponse
	err := c.list("/api/v1/groups/"+group+"/paths", nil, &paths)
	return paths, err
}

// --- Observations ---

// ListObservations возвращает свежие observations пути.
func (c *Client) ListObservations(pathName string, opts ListObservationsOpts) ([]ObservationResponse, error) {
	params := url.Values{}
	if opts.SinceSec > 0 {
		params.Set("since_sec", fmt.Sprintf("%d", opts.SinceSec))
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var observations []ObservationResponse
	err := c.list("/api/v1/paths/"+pathName+"/observations", params, &observations)
	return observations, err
}

// --- HTTP helpers ---

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
