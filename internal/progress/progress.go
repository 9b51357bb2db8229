// Package progress provides a spinner for the filesystem scans.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/klauern/vendorjs/internal/logging"
	"github.com/klauern/vendorjs/internal/ui"
)

// Bar wraps a progressbar spinner. A disabled Bar is a no-op, so callers
// never need to check whether output is interactive.
type Bar struct {
	bar     *progressbar.ProgressBar
	enabled bool
	desc    string
	count   int
}

// Options configures the progress indicator.
type Options struct {
	// Max is the total number of steps; -1 renders an open-ended spinner.
	Max int64
	// Description is the prefix text shown before the indicator.
	Description string
	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer
}

// New creates a progress indicator. It is only rendered when writing to a
// terminal with colors enabled and debug logging off.
func New(opts Options) *Bar {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	b := &Bar{
		enabled: shouldShowProgress(opts.Writer),
		desc:    opts.Description,
	}
	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s started", opts.Description))
		return b
	}

	b.bar = progressbar.NewOptions64(
		opts.Max,
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWriter(opts.Writer),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(ui.IsColorEnabled()),
	)
	return b
}

// Spinner creates an open-ended indicator with the given description.
func Spinner(description string) *Bar {
	return New(Options{Max: -1, Description: description})
}

// Add advances the indicator by n steps.
func (b *Bar) Add(n int) error {
	b.count += n
	if !b.enabled {
		return nil
	}
	return b.bar.Add(n)
}

// Count returns the number of steps recorded so far.
func (b *Bar) Count() int {
	return b.count
}

// Finish completes the indicator and clears it from the terminal.
func (b *Bar) Finish() error {
	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s completed", b.desc), logging.Count(b.count))
		return nil
	}
	return b.bar.Finish()
}

func shouldShowProgress(w io.Writer) bool {
	if !ui.IsColorEnabled() || !ui.IsTerminal(w) {
		return false
	}
	return !logging.Default().Enabled(context.Background(), logging.LevelDebug)
}
