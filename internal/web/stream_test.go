package web

import (
	"testing"

	"github.com/louisbranch/largenumbers/internal/core/convergence"
)

func TestHub_SubscribeReplaysHistoryInOrder(t *testing.T) {
	hub := NewHub(1.0 / 6.0)
	for i := 1; i <= 5; i++ {
		hub.Publish(convergence.Sample{Index: uint64(i), Frequency: 0.2})
	}

	history, live, cancel := hub.Subscribe()
	defer cancel()

	if live == nil {
		t.Fatal("Subscribe() returned nil channel for a running hub")
	}
	if len(history) != 5 {
		t.Fatalf("history has %d samples, want 5", len(history))
	}
	for i, sample := range history {
		if sample.Index != uint64(i+1) {
			t.Fatalf("history[%d].Index = %d, want %d", i, sample.Index, i+1)
		}
	}
}

func TestHub_LiveSamplesArriveInPublishOrder(t *testing.T) {
	hub := NewHub(1.0 / 6.0)

	_, live, cancel := hub.Subscribe()
	defer cancel()

	for i := 1; i <= 10; i++ {
		hub.Publish(convergence.Sample{Index: uint64(i), Frequency: 0.5})
	}
	hub.Close()

	var last uint64
	for sample := range live {
		if sample.Index != last+1 {
			t.Fatalf("Index = %d, want %d", sample.Index, last+1)
		}
		last = sample.Index
	}
	if last != 10 {
		t.Fatalf("received %d samples, want 10", last)
	}
}

func TestHub_SubscribeAfterClose(t *testing.T) {
	hub := NewHub(1.0 / 6.0)
	hub.Publish(convergence.Sample{Index: 1, Frequency: 1.0})
	hub.Close()

	history, live, cancel := hub.Subscribe()
	defer cancel()

	if live != nil {
		t.Error("Subscribe() after Close should return a nil channel")
	}
	if len(history) != 1 {
		t.Errorf("history has %d samples, want 1", len(history))
	}
}

func TestHub_PublishAfterCloseIsNoop(t *testing.T) {
	hub := NewHub(1.0 / 6.0)
	hub.Close()
	hub.Publish(convergence.Sample{Index: 1, Frequency: 1.0})

	history, _, cancel := hub.Subscribe()
	defer cancel()
	if len(history) != 0 {
		t.Errorf("history has %d samples after closed publish, want 0", len(history))
	}
}

func TestHub_CancelAfterCloseIsSafe(t *testing.T) {
	hub := NewHub(1.0 / 6.0)
	_, _, cancel := hub.Subscribe()
	hub.Close()
	// Must not panic on double release.
	cancel()
}

func TestHub_SlowSubscriberDropsButKeepsOrder(t *testing.T) {
	hub := NewHub(1.0 / 6.0)
	_, live, cancel := hub.Subscribe()
	defer cancel()

	// Overfill the subscriber buffer without draining it.
	for i := 1; i <= subscriberBuffer*2; i++ {
		hub.Publish(convergence.Sample{Index: uint64(i), Frequency: 0.5})
	}
	hub.Close()

	var last uint64
	count := 0
	for sample := range live {
		if sample.Index <= last {
			t.Fatalf("Index %d not increasing after %d", sample.Index, last)
		}
		last = sample.Index
		count++
	}
	if count != subscriberBuffer {
		t.Fatalf("received %d samples, want buffer size %d", count, subscriberBuffer)
	}
}
