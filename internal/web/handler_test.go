package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/largenumbers/internal/core/convergence"
)

func TestHandleIndex(t *testing.T) {
	handler := NewHandler(NewHub(1.0 / 6.0))

	tests := []struct {
		name       string
		path       string
		wantStatus int
		contains   []string
	}{
		{
			name:       "chart page",
			path:       "/",
			wantStatus: http.StatusOK,
			contains: []string{
				"<!doctype html>",
				"Law of Large Numbers",
				"<canvas",
				"/events",
			},
		},
		{
			name:       "unknown path",
			path:       "/nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := rec.Body.String()
			for _, want := range tt.contains {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q", want)
				}
			}
		})
	}
}

func TestHandleEvents_FinishedRun(t *testing.T) {
	hub := NewHub(1.0 / 6.0)
	hub.Publish(convergence.Sample{Index: 1, Frequency: 1.0})
	hub.Publish(convergence.Sample{Index: 2, Frequency: 0.5})
	hub.Close()

	handler := NewHandler(hub)
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", got)
	}

	body := rec.Body.String()
	wantInOrder := []string{
		"event: theoretical",
		`"value":0.16666666666666666`,
		"event: sample",
		`{"index":1,"frequency":1}`,
		`{"index":2,"frequency":0.5}`,
		"event: done",
	}
	offset := 0
	for _, want := range wantInOrder {
		idx := strings.Index(body[offset:], want)
		if idx < 0 {
			t.Fatalf("body missing %q after offset %d:\n%s", want, offset, body)
		}
		offset += idx + len(want)
	}
}

func TestHandleEvents_LiveStreamEndsWithRun(t *testing.T) {
	hub := NewHub(1.0 / 6.0)
	handler := NewHandler(hub)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		handler.ServeHTTP(rec, req)
	}()

	hub.Publish(convergence.Sample{Index: 1, Frequency: 0.0})
	hub.Close()
	<-finished

	body := rec.Body.String()
	if !strings.Contains(body, "event: done") {
		t.Errorf("body missing done event:\n%s", body)
	}
}

func TestHandleEvents_ClientDisconnect(t *testing.T) {
	hub := NewHub(1.0 / 6.0)
	handler := NewHandler(hub)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		handler.ServeHTTP(rec, req)
	}()

	cancel()
	<-finished
}
