package api

import (
	"net/http"
	"strconv"
	"time"
)

const defaultObservationWindow = time.Hour

// ListGroups возвращает все сконфигурированные routing groups.
// GET /api/v1/groups
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups := h.router.Groups()

	result := make([]GroupResponse, len(groups))
	for i := range groups {
		result[i] = GroupFromDomain(&groups[i])
	}

	List(w, result, len(result))
}

// ListGroupPaths возвращает пути группы со статистикой.
// GET /api/v1/groups/{group}/paths
func (h *Handler) ListGroupPaths(w http.ResponseWriter, r *http.Request) {
	group, ok := h.router.GroupByName(r.PathValue("group"))
	if !ok {
		NotFound(w, "routing group not found")
		return
	}

	result := make([]PathResponse, len(group.Paths))
	for i := range group.Paths {
		stats, _ := h.stats.Get(group.Paths[i].Name)
		result[i] = PathFromDomain(&group.Paths[i], stats)
	}

	List(w, result, len(result))
}

// ListObservations возвращает свежие observations пути (новые первыми).
// GET /api/v1/paths/{name}/observations?since_sec=...&limit=...
func (h *Handler) ListObservations(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		BadRequest(w, "path name required")
		return
	}

	window := defaultObservationWindow
	if sinceStr := r.URL.Query().Get("since_sec"); sinceStr != "" {
		sec, err := strconv.Atoi(sinceStr)
		if err != nil || sec <= 0 {
			BadRequest(w, "invalid since_sec")
			return
		}
		window = time.Duration(sec) * time.Second
	}

	limit := 0 // store подставит свой default
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 {
			BadRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	observations, err := h.store.Query(r.Context(), name, time.Now().Add(-window), limit)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	result := make([]ObservationResponse, len(observations))
	for i, o := range observations {
		result[i] = ObservationFromDomain(o)
	}

	List(w, result, len(result))
}
