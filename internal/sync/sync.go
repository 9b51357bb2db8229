package sync

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/klauern/vendorjs/internal/logging"
	"github.com/klauern/vendorjs/internal/model"
	"github.com/klauern/vendorjs/internal/progress"
)

// ErrSyncWithheld is returned when collisions prevented the sync phase.
var ErrSyncWithheld = errors.New("sync withheld: files are shipped by more than one package")

// Options is the resolved, immutable configuration of one run.
type Options struct {
	// Vendor is the package group name, used for reporting only.
	Vendor string
	// VendorDir is the package group root holding one directory per package.
	VendorDir string
	// PackageSubpath is the JS resources directory inside each package.
	PackageSubpath string
	// LocalRoot is the project's own JS resources directory.
	LocalRoot string
	// Cutoff is the earliest modification time a local file must have.
	Cutoff time.Time
	// Location is used to format timestamps. Defaults to time.Local.
	Location *time.Location
	// Commit enables copying; otherwise the run is a dry run.
	Commit bool
	// ReportReverse also reports files whose package copy is newer or equal.
	ReportReverse bool
}

// CutoffString returns the cutoff in model.TimestampLayout.
func (o Options) CutoffString() string {
	return model.FormatTimestamp(o.Cutoff, o.location())
}

// DryRun returns true when no file will be written.
func (o Options) DryRun() bool {
	return !o.Commit
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// Synchronizer runs the index → collision check → classify pipeline.
type Synchronizer struct {
	fs       afero.Fs
	reporter Reporter

	// ShowProgress renders a spinner on stderr while indexing.
	ShowProgress bool
}

// New creates a Synchronizer. A nil fs means the OS filesystem and a nil
// reporter discards events.
func New(fsys afero.Fs, reporter Reporter) *Synchronizer {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if reporter == nil {
		reporter = Discard
	}
	return &Synchronizer{fs: fsys, reporter: reporter}
}

// Index builds the package index for opts.VendorDir.
func (s *Synchronizer) Index(opts Options) (model.PackageIndex, error) {
	if opts.VendorDir == "" {
		return nil, errors.New("package group directory is not set")
	}

	ix := NewIndexer(s.fs, opts.PackageSubpath)
	if s.ShowProgress {
		bar := progress.Spinner("Indexing packages")
		ix.Progress = func(model.PackageFile) { _ = bar.Add(1) }
		defer func() { _ = bar.Finish() }()
	}
	return ix.Build(opts.VendorDir)
}

// Check indexes the package group and reports collisions without touching
// the local tree. It returns ErrSyncWithheld when collisions exist.
func (s *Synchronizer) Check(opts Options) (*Result, error) {
	result, _, err := s.check(opts)
	return result, err
}

// Run performs a full reconciliation. Collisions abort the sync phase with
// ErrSyncWithheld; the returned Result is always non-nil.
func (s *Synchronizer) Run(opts Options) (*Result, error) {
	defer logging.Timer("sync")()

	logging.Debug("starting sync",
		logging.Package(opts.Vendor),
		logging.Path(opts.LocalRoot),
		slog.String("cutoff", opts.CutoffString()),
		slog.Bool("dry_run", opts.DryRun()),
		slog.Bool("report_reverse", opts.ReportReverse),
	)

	result, index, err := s.check(opts)
	if err != nil {
		return result, err
	}

	if err := NewClassifier(s.fs, opts, s.reporter).Classify(index, result); err != nil {
		return result, err
	}

	logging.Info("sync finished",
		slog.Int("copied", len(result.Copied())),
		slog.Int("would_copy", len(result.WouldCopy())),
		slog.Int("package_newer", len(result.PackageNewer())),
		slog.Int("new", len(result.NewFiles)),
	)
	return result, nil
}

func (s *Synchronizer) check(opts Options) (*Result, model.PackageIndex, error) {
	result := &Result{
		Vendor: opts.Vendor,
		DryRun: opts.DryRun(),
	}

	index, err := s.Index(opts)
	if err != nil {
		return result, nil, err
	}
	result.Packages = len(index)
	result.IndexedFiles = index.FileCount()

	collisions, unique, err := ReportCollisions(index, s.reporter)
	result.Collisions = collisions
	if err != nil {
		return result, index, fmt.Errorf("failed to report collisions: %w", err)
	}
	if !unique {
		result.Withheld = true
		return result, index, ErrSyncWithheld
	}
	return result, index, nil
}
