package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Superpose/internal/domain"
)

// Route DTOs

// RouteRequestBody — тело запроса на маршрутизацию.
type RouteRequestBody struct {
	Payload   map[string]any `json:"payload,omitempty"`
	Kind      string         `json:"kind,omitempty"`
	Priority  string         `json:"priority,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
}

// RouteResponse — ответ с результатом маршрутизации.
type RouteResponse struct {
	RequestID     uuid.UUID      `json:"request_id"`
	Payload       map[string]any `json:"payload,omitempty"`
	Strategy      string         `json:"strategy"`
	Reason        string         `json:"reason"`
	WinningSource string         `json:"winning_source"`
	LatencyMs     int64          `json:"latency_ms"`
	HedgeCount    int            `json:"hedge_count"`
}

// RouteFromDomain конвертирует domain.RouteResult в RouteResponse.
func RouteFromDomain(r *domain.RouteResult) RouteResponse {
	return RouteResponse{
		RequestID:     r.RequestID,
		Payload:       r.Payload,
		Strategy:      string(r.Strategy),
		Reason:        r.Reason,
		WinningSource: r.WinningSource,
		LatencyMs:     r.LatencyMs,
		HedgeCount:    r.HedgeCount,
	}
}

// Group DTOs

// GroupResponse — ответ с routing group.
type GroupResponse struct {
	Name               string   `json:"name"`
	Paths              []string `json:"paths"`
	HedgeThresholdMs   int64    `json:"hedge_threshold_ms,omitempty"`
	MaxHedgedRequests  int      `json:"max_hedged_requests,omitempty"`
	SpeculativeEnabled bool     `json:"speculative_enabled"`
}

// GroupFromDomain конвертирует domain.RoutingGroup в GroupResponse.
func GroupFromDomain(g *domain.RoutingGroup) GroupResponse {
	return GroupResponse{
		Name:               g.Name,
		Paths:              g.PathNames(),
		HedgeThresholdMs:   g.HedgeThresholdMs,
		MaxHedgedRequests:  g.MaxHedgedRequests,
		SpeculativeEnabled: g.SpeculativeEnabled,
	}
}

// Path DTOs

// PathResponse — путь группы вместе с накопленной статистикой.
type PathResponse struct {
	Name             string  `json:"name"`
	Weight           float64 `json:"weight"`
	Executor         string  `json:"executor"`
	SuccessCount     int64   `json:"success_count"`
	TotalCount       int64   `json:"total_count"`
	SuccessRate      float64 `json:"success_rate"`
	AverageLatencyMs float64 `json:"average_latency_ms"`
}

// PathFromDomain конвертирует путь и его статистику в PathResponse.
func PathFromDomain(p *domain.Path, stats domain.PathStats) PathResponse {
	return PathResponse{
		Name:             p.Name,
		Weight:           p.Weight,
		Executor:         p.Executor,
		SuccessCount:     stats.SuccessCount,
		TotalCount:       stats.TotalCount,
		SuccessRate:      stats.SuccessRate(),
		AverageLatencyMs: stats.AverageLatencyMs(),
	}
}

// Observation DTOs

// ObservationResponse — ответ с одним observation.
type ObservationResponse struct {
	ID        uuid.UUID `json:"id"`
	PathName  string    `json:"path_name"`
	RequestID uuid.UUID `json:"request_id"`
	LatencyMs int64     `json:"latency_ms"`
	Success   bool      `json:"success"`
	Strategy  string    `json:"strategy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ObservationFromDomain конвертирует domain.ExecutionObservation в ObservationResponse.
func ObservationFromDomain(o domain.ExecutionObservation) ObservationResponse {
	return ObservationResponse{
		ID:        o.ID,
		PathName:  o.PathName,
		RequestID: o.RequestID,
		LatencyMs: o.LatencyMs,
		Success:   o.Success,
		Strategy:  o.Strategy,
		Timestamp: o.Timestamp,
		ExpiresAt: o.ExpiresAt,
	}
}
