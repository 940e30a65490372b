package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/louisbranch/largenumbers/internal/core/convergence"
)

func TestNewRenderer_Validation(t *testing.T) {
	tests := []struct {
		name        string
		trials      uint64
		theoretical float64
		wantErr     bool
	}{
		{name: "valid", trials: 1000, theoretical: 1.0 / 6.0},
		{name: "zero trials", trials: 0, theoretical: 1.0 / 6.0, wantErr: true},
		{name: "negative theoretical", trials: 1000, theoretical: -0.1, wantErr: true},
		{name: "theoretical above one", trials: 1000, theoretical: 1.5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRenderer(&bytes.Buffer{}, tt.trials, tt.theoretical)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewRenderer() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRender_FrameShape(t *testing.T) {
	var buf bytes.Buffer
	renderer, err := NewRenderer(&buf, 1000, 1.0/6.0)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	renderer.Observe(convergence.Sample{Index: 1, Frequency: 1.0})
	renderer.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != plotHeight+2 {
		t.Fatalf("frame has %d lines, want %d", len(lines), plotHeight+2)
	}
	if !strings.Contains(lines[0], "1.0 │") {
		t.Errorf("top row missing y-axis label: %q", lines[0])
	}
	if !strings.Contains(lines[plotHeight-1], "0.0 │") {
		t.Errorf("bottom row missing y-axis label: %q", lines[plotHeight-1])
	}
	if !strings.Contains(buf.String(), observedCell) {
		t.Error("frame missing observed series cell")
	}
	if !strings.Contains(buf.String(), referenceCell) {
		t.Error("frame missing theoretical reference line")
	}
	if !strings.Contains(buf.String(), "trials 1/1000") {
		t.Errorf("status line missing trial counter: %q", lines[len(lines)-1])
	}
}

func TestObserve_LatestSampleWinsColumn(t *testing.T) {
	var buf bytes.Buffer
	renderer, err := NewRenderer(&buf, 1000, 1.0/6.0)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	// Both samples land in the same column; the second overwrites the first.
	renderer.Observe(convergence.Sample{Index: 1, Frequency: 1.0})
	renderer.Observe(convergence.Sample{Index: 2, Frequency: 0.5})

	if got := renderer.columns[0]; got != 0.5 {
		t.Errorf("column 0 = %v, want 0.5 (latest sample)", got)
	}
}

func TestObserve_ClampsBeyondLastColumn(t *testing.T) {
	var buf bytes.Buffer
	renderer, err := NewRenderer(&buf, 10, 1.0/6.0)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	// An index past the advertised trial span must not panic.
	renderer.Observe(convergence.Sample{Index: 5000, Frequency: 0.5})

	if got := renderer.columns[plotWidth-1]; got != 0.5 {
		t.Errorf("last column = %v, want 0.5", got)
	}
}

func TestRowFor_Bounds(t *testing.T) {
	if got := rowFor(1.0); got != 0 {
		t.Errorf("rowFor(1.0) = %d, want 0", got)
	}
	if got := rowFor(0.0); got != plotHeight-1 {
		t.Errorf("rowFor(0.0) = %d, want %d", got, plotHeight-1)
	}
}
