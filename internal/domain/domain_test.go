package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// --- RoutingGroup Tests ---

func TestBackups(t *testing.T) {
	group := RoutingGroup{
		Name: "g",
		Paths: []Path{
			{Name: "a", Weight: 1},
			{Name: "b", Weight: 1},
			{Name: "c", Weight: 1},
			{Name: "d", Weight: 1},
		},
	}

	backups := group.Backups("b", 2)
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(backups))
	}
	if backups[0].Name != "a" || backups[1].Name != "c" {
		t.Errorf("unexpected backups: %v, %v", backups[0].Name, backups[1].Name)
	}

	// Primary исключается даже не с первой позиции
	for _, b := range backups {
		if b.Name == "b" {
			t.Error("primary must not appear among backups")
		}
	}

	if got := group.Backups("a", 10); len(got) != 3 {
		t.Errorf("limit above pool size must return all others, got %d", len(got))
	}
}

func TestPathByName(t *testing.T) {
	group := RoutingGroup{Paths: []Path{{Name: "a", Weight: 2}}}

	path, ok := group.PathByName("a")
	if !ok || path.Weight != 2 {
		t.Error("expected to find path a")
	}
	if _, ok := group.PathByName("z"); ok {
		t.Error("missing path must not be found")
	}
}

// --- PathStats Tests ---

func TestPathStats_EmptyDivision(t *testing.T) {
	var st PathStats
	if st.AverageLatencyMs() != 0 {
		t.Error("empty stats must have zero average")
	}
	if st.SuccessRate() != 0 {
		t.Error("empty stats must have zero success rate")
	}
}

// --- Observation Tests ---

func TestObservation_Expired(t *testing.T) {
	obs := NewObservation("a", uuid.New(), 50*time.Millisecond, true, time.Hour)

	if obs.Expired(time.Now()) {
		t.Error("fresh observation must not be expired")
	}
	if !obs.Expired(time.Now().Add(2 * time.Hour)) {
		t.Error("observation past TTL must be expired")
	}
	// Граница: ExpiresAt не после now — истекла
	if !obs.Expired(obs.ExpiresAt) {
		t.Error("observation must expire exactly at ExpiresAt")
	}
	if obs.LatencyMs != 50 {
		t.Errorf("expected latency 50ms, got %d", obs.LatencyMs)
	}
}

// --- RaceResult Tests ---

func TestRaceResult_Efficiency(t *testing.T) {
	r := RaceResult{Winner: "a", WinningLatencyMs: 300, CandidateCount: 3}
	if got := r.Efficiency(); got != 1 {
		t.Errorf("expected efficiency 1, got %v", got)
	}
	if (RaceResult{}).Efficiency() != 0 {
		t.Error("zero candidates must yield zero efficiency")
	}
}

// --- Status Tests ---

func TestRequestStatus_IsTerminal(t *testing.T) {
	terminal := []RequestStatus{RequestStatusResolved, RequestStatusFailed}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s must be terminal", s)
		}
	}

	active := []RequestStatus{RequestStatusDeciding, RequestStatusExecuting}
	for _, s := range active {
		if s.IsTerminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}

// --- Request Tests ---

func TestNewRouteRequest(t *testing.T) {
	req := NewRouteRequest("g")
	if req.Group != "g" {
		t.Errorf("expected group g, got %s", req.Group)
	}
	if req.Priority != PriorityNormal {
		t.Errorf("expected NORMAL priority, got %s", req.Priority)
	}
	if req.HighValue() {
		t.Error("normal request must not be high-value")
	}

	req.Priority = PriorityHigh
	if !req.HighValue() {
		t.Error("high priority request must be high-value")
	}
}
