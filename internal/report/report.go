// Package report renders sync events for the operator.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/klauern/vendorjs/internal/sync"
	"github.com/klauern/vendorjs/internal/ui"
)

// Format selects how events are rendered.
type Format string

const (
	// FormatText prints human-readable lines.
	FormatText Format = "text"
	// FormatJSON prints one JSON object per event.
	FormatJSON Format = "json"
)

// ParseFormat converts a flag or config value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// New returns a Reporter writing events to w in the given format.
func New(format Format, w io.Writer) (sync.Reporter, error) {
	switch format {
	case FormatText, "":
		return &Text{w: w}, nil
	case FormatJSON:
		return &JSON{enc: json.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// Text renders events as the plain lines an operator reads.
type Text struct {
	w io.Writer
}

// NewText creates a Text reporter.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// Report writes e.
func (t *Text) Report(e sync.Event) error {
	var lines []string
	switch e.Kind {
	case sync.EventCollision:
		lines = []string{
			ui.Error(fmt.Sprintf("Error. The %s file is included in several packages.", e.Path)),
			fmt.Sprintf("Packages: %s.", strings.Join(e.Packages, ", ")),
		}
	case sync.EventPackageNewer:
		lines = []string{"There is a new file in the package.", e.Path, ""}
	case sync.EventWouldCopy:
		lines = []string{"Newer: " + e.Source, "Target: " + e.Target, ""}
	case sync.EventCopied:
		lines = []string{"Copy " + e.Source, "To " + e.Target, ""}
	case sync.EventNewFilesSummary:
		lines = []string{ui.Success("New files. Copy them into the appropriate package.")}
	case sync.EventNewFile:
		lines = []string{ui.Success(e.Path)}
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(t.w, line); err != nil {
			return err
		}
	}
	return nil
}

// JSON renders one JSON object per line.
type JSON struct {
	enc *json.Encoder
}

// Report writes e.
func (j *JSON) Report(e sync.Event) error {
	return j.enc.Encode(e)
}
