package web

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// NewHandler builds the HTTP handler for the web display: the chart page
// at the root and the sample stream at /events.
func NewHandler(hub *Hub) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleIndex)
	mux.HandleFunc("/events", handleEvents(hub))
	return mux
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(chartPage)
}

// sampleEvent is the wire form of one plotted point.
type sampleEvent struct {
	Index     uint64  `json:"index"`
	Frequency float64 `json:"frequency"`
}

// theoreticalEvent carries the constant reference value drawn alongside
// the observed series.
type theoreticalEvent struct {
	Value float64 `json:"value"`
}

// handleEvents streams samples as server-sent events: one theoretical
// event up front, then ordered sample events, then a done event when the
// run finishes.
func handleEvents(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		if hub == nil {
			http.Error(w, "no run in progress", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		history, live, cancel := hub.Subscribe()
		defer cancel()

		if err := writeEvent(w, "theoretical", theoreticalEvent{Value: hub.Theoretical()}); err != nil {
			return
		}
		for _, sample := range history {
			if err := writeEvent(w, "sample", sampleEvent{Index: sample.Index, Frequency: sample.Frequency}); err != nil {
				return
			}
		}
		flusher.Flush()

		if live == nil {
			_ = writeEvent(w, "done", struct{}{})
			flusher.Flush()
			return
		}

		for {
			select {
			case <-r.Context().Done():
				return
			case sample, ok := <-live:
				if !ok {
					_ = writeEvent(w, "done", struct{}{})
					flusher.Flush()
					return
				}
				if err := writeEvent(w, "sample", sampleEvent{Index: sample.Index, Frequency: sample.Frequency}); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return fmt.Errorf("write %s event: %w", event, err)
	}
	return nil
}
