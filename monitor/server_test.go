package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devskill-org/enersim/simulation"
)

func TestNewServerDisabled(t *testing.T) {
	for _, port := range []int{0, -1} {
		server := NewServer(port)
		if server != nil {
			t.Errorf("NewServer(%d) = %v, want nil", port, server)
		}
		// all methods must be safe on the disabled server
		server.Start()
		server.Publish(simulation.ProgressSnapshot{Step: 1})
		if err := server.Stop(context.Background()); err != nil {
			t.Errorf("Stop on disabled server returned %v", err)
		}
	}
}

func TestStatusHandlerReturnsLastSnapshot(t *testing.T) {
	server := NewServer(18099)
	snapshot := simulation.ProgressSnapshot{
		Step:            42,
		TotalSteps:      96,
		PercentComplete: 43.75,
	}
	server.Publish(snapshot)

	recorder := httptest.NewRecorder()
	server.statusHandler(recorder, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var got simulation.ProgressSnapshot
	if err := json.NewDecoder(recorder.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got != snapshot {
		t.Errorf("status returned %+v, want %+v", got, snapshot)
	}
}

func TestStatusHandlerRejectsPost(t *testing.T) {
	server := NewServer(18099)
	recorder := httptest.NewRecorder()
	server.statusHandler(recorder, httptest.NewRequest(http.MethodPost, "/api/status", nil))
	if recorder.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", recorder.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	server := NewServer(18099)
	server.Publish(simulation.ProgressSnapshot{Step: 10, TotalSteps: 20})

	recorder := httptest.NewRecorder()
	server.healthHandler(recorder, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var health HealthResponse
	if err := json.NewDecoder(recorder.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "healthy" {
		t.Errorf("health status = %q, want healthy", health.Status)
	}
	if health.Progress.Step != 10 {
		t.Errorf("health progress step = %d, want 10", health.Progress.Step)
	}
	if health.System.Goroutines <= 0 {
		t.Errorf("goroutine count = %d, want > 0", health.System.Goroutines)
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	server := NewServer(18099)
	// no broadcast loop running: the buffered channel fills up and Publish
	// must drop instead of blocking
	for i := 0; i < 1000; i++ {
		server.Publish(simulation.ProgressSnapshot{Step: i})
	}
	if got := server.lastSnapshot().Step; got != 999 {
		t.Errorf("last snapshot step = %d, want 999", got)
	}
}
