// Package term renders the convergence plot as an animated terminal chart.
//
// It is a display collaborator only: it consumes samples and never touches
// the running counters. Two series are drawn over a [0, 1] y-range: the
// observed relative frequency and the constant theoretical probability.
package term

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/muesli/termenv"

	"github.com/louisbranch/largenumbers/internal/core/convergence"
)

const (
	plotWidth  = 64
	plotHeight = 16

	observedColor  = "#FFD700"
	referenceColor = "#DC143C"

	observedCell  = "•"
	referenceCell = "╌"
)

// Renderer paints the convergence chart into a terminal, redrawing in
// place once per frame.
type Renderer struct {
	out         *termenv.Output
	trials      uint64
	theoretical float64
	columns     []float64
	latest      convergence.Sample
	frames      int
}

// NewRenderer creates a renderer for a run of the given trial count. The
// trial count fixes the x-axis span, so the renderer requires a bounded
// run.
func NewRenderer(w io.Writer, trials uint64, theoretical float64) (*Renderer, error) {
	if w == nil {
		return nil, errors.New("output writer is required")
	}
	if trials == 0 {
		return nil, errors.New("terminal rendering requires a trial limit")
	}
	if theoretical < 0 || theoretical > 1 {
		return nil, fmt.Errorf("theoretical probability %v outside [0, 1]", theoretical)
	}

	columns := make([]float64, plotWidth)
	for i := range columns {
		columns[i] = math.NaN()
	}

	return &Renderer{
		out:         termenv.NewOutput(w),
		trials:      trials,
		theoretical: theoretical,
		columns:     columns,
	}, nil
}

// Observe folds one sample into the chart. Samples map onto columns by
// trial index; when several samples share a column the latest wins, which
// is the value a per-trial redraw would have left on screen anyway.
func (r *Renderer) Observe(sample convergence.Sample) {
	if r == nil || sample.Index == 0 {
		return
	}
	col := int((sample.Index - 1) * plotWidth / r.trials)
	if col >= plotWidth {
		col = plotWidth - 1
	}
	r.columns[col] = sample.Frequency
	r.latest = sample
}

// Render draws the current frame, replacing the previous one in place.
func (r *Renderer) Render() {
	if r == nil {
		return
	}
	if r.frames > 0 {
		r.out.CursorUp(plotHeight + 2)
	}
	fmt.Fprint(r.out, r.frame())
	r.frames++
}

// frame builds the full chart as plotHeight+2 newline-terminated lines:
// the plot rows, the x-axis, and a status line.
func (r *Renderer) frame() string {
	profile := r.out.ColorProfile()
	observed := profile.Color(observedColor)
	reference := profile.Color(referenceColor)
	refRow := rowFor(r.theoretical)

	var b strings.Builder
	for row := 0; row < plotHeight; row++ {
		b.WriteString(gutterLabel(row))
		for col := 0; col < plotWidth; col++ {
			switch {
			case !math.IsNaN(r.columns[col]) && rowFor(r.columns[col]) == row:
				b.WriteString(r.out.String(observedCell).Foreground(observed).String())
			case row == refRow:
				b.WriteString(r.out.String(referenceCell).Foreground(reference).String())
			default:
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("    └")
	b.WriteString(strings.Repeat("─", plotWidth))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("     trials %d/%d   observed %.4f   theoretical %.4f\n",
		r.latest.Index, r.trials, r.latest.Frequency, r.theoretical))
	return b.String()
}

// rowFor maps a frequency in [0, 1] to a plot row, row 0 being the top.
func rowFor(frequency float64) int {
	row := int(math.Round((1 - frequency) * float64(plotHeight-1)))
	if row < 0 {
		row = 0
	}
	if row > plotHeight-1 {
		row = plotHeight - 1
	}
	return row
}

// gutterLabel returns the y-axis gutter for a row, labelling the ends.
func gutterLabel(row int) string {
	switch row {
	case 0:
		return "1.0 │"
	case plotHeight - 1:
		return "0.0 │"
	default:
		return "    │"
	}
}
