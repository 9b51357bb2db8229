package model

import (
	"fmt"
	"strings"
	"time"
)

// Classification is the outcome of comparing one local file to the packages.
type Classification string

const (
	// Unmatched means no package ships the file.
	Unmatched Classification = "unmatched"
	// PackageNewer means the package copy is as new as or newer than the local file.
	PackageNewer Classification = "package-newer"
	// LocalNewer means the local file is newer and should be copied outward.
	LocalNewer Classification = "local-newer"
)

// IsValid returns true if the classification is recognized
func (c Classification) IsValid() bool {
	switch c {
	case Unmatched, PackageNewer, LocalNewer:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (c Classification) String() string {
	return string(c)
}

// ParseClassification converts a string to a Classification.
func ParseClassification(s string) (Classification, error) {
	c := Classification(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown classification: %q", s)
	}
	return c, nil
}

// LocalFile is a file found under the local resource tree.
type LocalFile struct {
	RelativePath string
	AbsolutePath string
	ModTime      time.Time
}

// Classify compares a local file's modification time with its package
// counterpart at whole-second precision.
func Classify(local, pkg time.Time) Classification {
	if pkg.Unix() >= local.Unix() {
		return PackageNewer
	}
	return LocalNewer
}
