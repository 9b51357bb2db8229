package sync

import (
	"fmt"
	"strings"

	"github.com/klauern/vendorjs/internal/model"
)

// Action is what happened to a classified local file.
type Action string

const (
	// ActionNone means nothing was reported or written.
	ActionNone Action = "none"
	// ActionReported means a package-newer file was reported.
	ActionReported Action = "reported"
	// ActionWouldCopy means a copy was reported but skipped (dry run).
	ActionWouldCopy Action = "would-copy"
	// ActionCopied means the local file was copied into the package.
	ActionCopied Action = "copied"
)

// FileResult is the outcome for one local file at or after the cutoff.
type FileResult struct {
	// RelativePath is the path below the local resources root.
	RelativePath string
	// LocalPath is the absolute path of the local file.
	LocalPath string
	// Package owns the matching file; empty when Unmatched.
	Package string
	// PackagePath is the matching file inside the package; empty when Unmatched.
	PackagePath string
	// Classification is the comparison outcome.
	Classification model.Classification
	// Action is what was done about it.
	Action Action
}

// Result contains the complete outcome of a run.
type Result struct {
	// Vendor is the package group name.
	Vendor string
	// Packages is the number of packages with a JS resources directory.
	Packages int
	// IndexedFiles is the number of files across all packages.
	IndexedFiles int
	// Collisions lists paths shipped by several packages.
	Collisions []model.Collision
	// Withheld is set when collisions prevented the sync phase.
	Withheld bool
	// DryRun is set when copies were only reported.
	DryRun bool
	// Files holds one entry per local file at or after the cutoff.
	Files []FileResult
	// NewFiles lists relative paths no package ships, in walk order.
	NewFiles []string
}

// Copied returns files that were copied into a package.
func (r *Result) Copied() []FileResult {
	return r.filterByAction(ActionCopied)
}

// WouldCopy returns files that a commit run would copy.
func (r *Result) WouldCopy() []FileResult {
	return r.filterByAction(ActionWouldCopy)
}

// PackageNewer returns files whose package copy is at least as new.
func (r *Result) PackageNewer() []FileResult {
	return r.filterByClassification(model.PackageNewer)
}

// LocalNewer returns files whose local copy is newer.
func (r *Result) LocalNewer() []FileResult {
	return r.filterByClassification(model.LocalNewer)
}

// Unmatched returns files no package ships.
func (r *Result) Unmatched() []FileResult {
	return r.filterByClassification(model.Unmatched)
}

// HasCollisions returns true if any path is shipped by several packages.
func (r *Result) HasCollisions() bool {
	return len(r.Collisions) > 0
}

func (r *Result) filterByAction(action Action) []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Action == action {
			out = append(out, f)
		}
	}
	return out
}

func (r *Result) filterByClassification(c model.Classification) []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Classification == c {
			out = append(out, f)
		}
	}
	return out
}

// Summary returns a one-line human-readable summary.
func (r *Result) Summary() string {
	if r.Withheld {
		return fmt.Sprintf("sync withheld: %d file(s) shipped by several packages", len(r.Collisions))
	}

	var parts []string
	if r.DryRun {
		parts = append(parts, fmt.Sprintf("%d would be copied", len(r.WouldCopy())))
	} else {
		parts = append(parts, fmt.Sprintf("%d copied", len(r.Copied())))
	}
	parts = append(parts,
		fmt.Sprintf("%d up to date in package", len(r.PackageNewer())),
		fmt.Sprintf("%d new", len(r.Unmatched())),
	)

	prefix := ""
	if r.DryRun {
		prefix = "dry run: "
	}
	return fmt.Sprintf("%s%d package(s), %d indexed file(s); %s",
		prefix, r.Packages, r.IndexedFiles, strings.Join(parts, ", "))
}
