// Package output renders installation progress for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorProfile returns the color profile to use for CLI output. NO_COLOR
// disables styling; otherwise the terminal's capabilities are detected.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// Reporter prints one styled line per completed download plus a final count.
// The counter is atomic and the writer is guarded, so Step never serializes
// the workers beyond the final print itself.
type Reporter struct {
	mu    sync.Mutex
	w     io.Writer
	total int
	done  atomic.Int64
	check string
}

// NewReporter creates a Reporter writing to w. A nil writer defaults to
// stderr.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stderr
	}

	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(ColorProfile()))
	check := renderer.NewStyle().Foreground(lipgloss.Color("2")).Render("✓")

	return &Reporter{w: w, check: check}
}

// Begin resets the counter for a run expecting total steps.
func (r *Reporter) Begin(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
	r.done.Store(0)
}

// Step records one completed download and prints its progress line.
func (r *Reporter) Step(msg string) {
	n := r.done.Add(1)

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.w, "%s %s (%d/%d)\n", r.check, msg, n, r.total)
}

// End marks the run as finished.
func (r *Reporter) End() {}

// Quiet discards all progress output. Used for tests and non-interactive
// runs.
type Quiet struct{}

// Begin implements ports.ProgressReporter.
func (Quiet) Begin(int) {}

// Step implements ports.ProgressReporter.
func (Quiet) Step(string) {}

// End implements ports.ProgressReporter.
func (Quiet) End() {}
