package web

import (
	"sync"

	"github.com/louisbranch/largenumbers/internal/core/convergence"
)

// subscriberBuffer caps how far a subscriber may fall behind before
// samples are dropped for it.
const subscriberBuffer = 256

// Hub fans samples out from the single simulation run to any number of
// stream subscribers. It lives entirely on the display side: the
// statistical core has one writer and never sees the hub.
//
// # Ordering
//
// A single publisher appends under the hub lock, so every subscriber
// receives samples in publish order with strictly increasing indices. A
// slow subscriber may miss samples when its buffer fills, but never sees
// them reordered.
type Hub struct {
	mu          sync.Mutex
	theoretical float64
	history     []convergence.Sample
	subs        map[chan convergence.Sample]struct{}
	closed      bool
}

// NewHub creates a hub for one run converging toward the given constant.
func NewHub(theoretical float64) *Hub {
	return &Hub{
		theoretical: theoretical,
		subs:        make(map[chan convergence.Sample]struct{}),
	}
}

// Theoretical reports the constant reference value for the run.
func (h *Hub) Theoretical() float64 {
	if h == nil {
		return 0
	}
	return h.theoretical
}

// Publish records a sample and delivers it to current subscribers. It is
// a no-op once the hub is closed.
func (h *Hub) Publish(sample convergence.Sample) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	h.history = append(h.history, sample)
	for ch := range h.subs {
		select {
		case ch <- sample:
		default:
			// Subscriber is behind; it catches up with later samples.
		}
	}
}

// Subscribe returns a snapshot of the samples published so far plus a
// channel carrying subsequent ones, atomically so no sample is missed or
// duplicated across the boundary. The channel is nil when the run has
// already finished; cancel is always safe to call.
func (h *Hub) Subscribe() (history []convergence.Sample, ch <-chan convergence.Sample, cancel func()) {
	if h == nil {
		return nil, nil, func() {}
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	history = make([]convergence.Sample, len(h.history))
	copy(history, h.history)

	if h.closed {
		return history, nil, func() {}
	}

	sub := make(chan convergence.Sample, subscriberBuffer)
	h.subs[sub] = struct{}{}

	cancel = func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[sub]; ok {
			delete(h.subs, sub)
			close(sub)
		}
	}
	return history, sub, cancel
}

// Close marks the run finished and releases all subscribers. Further
// Publish calls are ignored.
func (h *Hub) Close() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		close(ch)
	}
	h.subs = nil
}
