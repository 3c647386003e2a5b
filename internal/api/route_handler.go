package api

import (
	"encoding/json"
	"net/http"

	"github.com/shaiso/Superpose/internal/domain"
)

// RouteRequest маршрутизирует запрос через группу.
// POST /api/v1/groups/{group}/route
func (h *Handler) RouteRequest(w http.ResponseWriter, r *http.Request) {
	group := r.PathValue("group")
	if group == "" {
		BadRequest(w, "group name required")
		return
	}

	var body RouteRequestBody
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			BadRequest(w, "invalid request body")
			return
		}
	}

	req := domain.NewRouteRequest(group)
	req.Payload = body.Payload
	req.Kind = body.Kind
	req.SessionID = body.SessionID

	switch body.Priority {
	case "", string(domain.PriorityNormal):
		// default
	case string(domain.PriorityHigh):
		req.Priority = domain.PriorityHigh
	default:
		BadRequest(w, "invalid priority: "+body.Priority)
		return
	}

	result, err := h.router.Route(r.Context(), req)
	if HandleRouteError(w, h.logger, err) {
		return
	}

	Success(w, RouteFromDomain(result))
}
