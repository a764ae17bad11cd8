// Package progress renders use case progress on the terminal.
package progress

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/govctl/internal/txflow"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// SpinnerProgressReporter shows a spinner while a step is in flight and a
// result line when it settles.
type SpinnerProgressReporter struct {
	mu      sync.Mutex
	out     io.Writer
	spinner *spinner.Spinner
}

// NewSpinnerProgressReporter creates a reporter writing to stderr
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return NewSpinnerProgressReporterTo(os.Stderr)
}

// NewSpinnerProgressReporterTo creates a reporter writing to out
func NewSpinnerProgressReporterTo(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false
	return &SpinnerProgressReporter{out: out, spinner: s}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Spinner {
		r.spinner.Suffix = " " + event.Message
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		return
	}
	if r.spinner.Active() {
		r.spinner.Stop()
	}

	e, ok := event.Metadata.(txflow.Event)
	switch {
	case ok && e.To == txflow.Failed:
		color.New(color.FgRed).Fprintln(r.out, "✗ "+event.Message)
	case ok && e.To == txflow.Confirmed:
		color.New(color.FgGreen).Fprintln(r.out, "✓ "+event.Message)
	case event.Message != "":
		color.New(color.FgWhite).Fprintln(r.out, event.Message)
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.printAround(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.printAround(color.New(color.FgRed), message)
}

// printAround pauses the spinner so the message is not overwritten
func (r *SpinnerProgressReporter) printAround(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	c.Fprintln(r.out, message)
	if wasActive {
		r.spinner.Start()
	}
}

var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
