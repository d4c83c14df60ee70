package progress

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/upcade/vaultctl/internal/usecase"
)

// LineSink prints info and error messages as plain lines, without a spinner.
// Used when the terminal is not interactive.
type LineSink struct {
	out io.Writer
}

// NewLineSink creates a sink writing to stderr
func NewLineSink() *LineSink {
	return &LineSink{out: os.Stderr}
}

// OnProgress prints the stage message once per event
func (s *LineSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Message == "" {
		return
	}
	if event.Total > 0 {
		fmt.Fprintf(s.out, "[%d/%d] %s\n", event.Current, event.Total, event.Message)
		return
	}
	fmt.Fprintln(s.out, event.Message)
}

// Info prints an info message
func (s *LineSink) Info(message string) {
	fmt.Fprintln(s.out, message)
}

// Error prints an error message
func (s *LineSink) Error(message string) {
	fmt.Fprintln(s.out, message)
}

var _ usecase.ProgressSink = (*LineSink)(nil)
