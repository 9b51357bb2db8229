package model

import (
	"fmt"
	"time"
)

// TimestampLayout is the YYYY.MM.DD HH:MM:SS cutoff format. Its fields are
// fixed width and ordered from most to least significant, so string order
// equals chronological order.
const TimestampLayout = "2006.01.02 15:04:05"

// ParseTimestamp parses a cutoff value in the given location.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(TimestampLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q does not match format %s: %w", value, TimestampLayout, err)
	}
	return t, nil
}

// FormatTimestamp renders t in the cutoff format, dropping sub-second precision.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Truncate(time.Second).Format(TimestampLayout)
}

// AtOrAfter reports whether t, formatted in loc, sorts at or after cutoff.
// The cutoff must already be in TimestampLayout.
func AtOrAfter(t time.Time, cutoff string, loc *time.Location) bool {
	return FormatTimestamp(t, loc) >= cutoff
}
