// Package progress reports work to the terminal: a bar for batches, a
// spinner while waiting on a single answer.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback for CLI commands. A negative total
// starts an indeterminate spinner.
type Reporter interface {
	Start(total int, description string)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a TerminalReporter writing to w, or a CIReporter if
// the CI environment variable is set.
func NewReporter(w io.Writer) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{w: w}
	}
	return &TerminalReporter{w: w}
}

// TerminalReporter displays a progress bar or spinner.
type TerminalReporter struct {
	w    io.Writer
	bar  *progressbar.ProgressBar
	stop chan struct{}
	done chan struct{}
}

func (r *TerminalReporter) Start(total int, description string) {
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	}
	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetElapsedTime(true),
		)
	} else {
		opts = append(opts, progressbar.OptionShowCount())
	}
	r.bar = progressbar.NewOptions(total, opts...)

	if total < 0 {
		r.stop = make(chan struct{})
		r.done = make(chan struct{})
		go r.spin()
	}
}

// spin advances the spinner; the bar only redraws when it changes.
func (r *TerminalReporter) spin() {
	defer close(r.done)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = r.bar.Add(1)
		case <-r.stop:
			return
		}
	}
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		if r.stop == nil {
			_ = r.bar.Set(current)
		}
	}
}

func (r *TerminalReporter) Finish() {
	if r.stop != nil {
		close(r.stop)
		<-r.done
		r.stop, r.done = nil, nil
	}
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	w     io.Writer
	total int
}

func (r *CIReporter) Start(total int, description string) {
	r.total = total
	if total < 0 {
		fmt.Fprintf(r.w, "%s...\n", description)
		return
	}
	fmt.Fprintf(r.w, "%s: %d items\n", description, total)
}

func (r *CIReporter) Update(current int, message string) {
	if r.total < 0 {
		fmt.Fprintln(r.w, message)
		return
	}
	fmt.Fprintf(r.w, "[%d/%d] %s\n", current, r.total, message)
}

func (r *CIReporter) Finish() {
	fmt.Fprintln(r.w, "done")
}
