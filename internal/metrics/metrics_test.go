package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandler_nilMetrics(t *testing.T) {
	var m *Metrics

	// All recorders are safe on nil
	m.ObserveRender(time.Millisecond, 3, 1)
	m.IncSelection(true)
	m.SetZoomScale(2)
	m.IncFeedUpdate("file", nil)
	m.IncShowList()
	m.ObserveHTTPRequest(http.MethodGet, "/map.png", http.StatusOK, time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestHandler_exposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRender(2*time.Millisecond, 5, 1)
	m.IncSelection(true)
	m.IncSelection(false)
	m.SetZoomScale(1.44)
	m.IncFeedUpdate("nats", errors.New("bad payload"))
	m.IncShowList()
	m.ObserveHTTPRequest(http.MethodGet, "/map.png", http.StatusOK, time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	text := string(body)

	for _, want := range []string{
		"propmap_renders_total 1",
		"propmap_markers_drawn_total 5",
		"propmap_markers_skipped_total 1",
		`propmap_selections_total{outcome="selected"} 1`,
		`propmap_selections_total{outcome="cleared"} 1`,
		"propmap_zoom_scale 1.44",
		`propmap_feed_updates_total{result="error",source="nats"} 1`,
		"propmap_show_list_requests_total 1",
		`propmap_http_requests_total{method="GET",path="/map.png",status="200"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
