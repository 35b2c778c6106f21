// Package progress reports progress of batch operations such as export.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback for a batch of items. Advance may be
// called from several goroutines.
type Reporter interface {
	Start(total int)
	Advance(message string)
	Finish()
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set. label names the
// operation, e.g. "Exporting".
func NewReporter(label string) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return NewCIReporter(os.Stderr, label)
	}
	return &TerminalReporter{label: label}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	label string
	mu    sync.Mutex
	bar   *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(r.label),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Advance(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		r.bar.Describe(r.label + " " + message)
		_ = r.bar.Add(1)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	w     io.Writer
	label string

	mu      sync.Mutex
	total   int
	current int
}

// NewCIReporter creates a CIReporter writing to w.
func NewCIReporter(w io.Writer, label string) *CIReporter {
	return &CIReporter{w: w, label: label}
}

func (r *CIReporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
	r.current = 0
	fmt.Fprintf(r.w, "%s %d item(s)\n", r.label, total)
}

func (r *CIReporter) Advance(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current++
	fmt.Fprintf(r.w, "[%d/%d] %s\n", r.current, r.total, message)
}

func (r *CIReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "%s complete (%d/%d)\n", r.label, r.current, r.total)
}
