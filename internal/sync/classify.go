package sync

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/klauern/vendorjs/internal/logging"
	"github.com/klauern/vendorjs/internal/model"
)

// Classifier walks the local resource tree and compares every file at or
// after the cutoff against the package index.
type Classifier struct {
	fs       afero.Fs
	opts     Options
	reporter Reporter
}

// NewClassifier creates a Classifier. A nil reporter discards events.
func NewClassifier(fsys afero.Fs, opts Options, reporter Reporter) *Classifier {
	if reporter == nil {
		reporter = Discard
	}
	return &Classifier{fs: fsys, opts: opts, reporter: reporter}
}

// Classify walks opts.LocalRoot and fills result with one FileResult per
// file at or after the cutoff. It does not check for collisions: when a
// path is shipped by several packages the first package in natural order
// is used.
func (c *Classifier) Classify(index model.PackageIndex, result *Result) error {
	defer logging.Timer("classify")()

	cutoff := c.opts.CutoffString()
	loc := c.opts.location()
	lookup := index.Lookup()

	err := walkFiles(c.fs, c.opts.LocalRoot, func(path string, info os.FileInfo) error {
		if !model.AtOrAfter(info.ModTime(), cutoff, loc) {
			return nil
		}

		local := model.LocalFile{
			RelativePath: relativePath(c.opts.LocalRoot, path),
			AbsolutePath: path,
			ModTime:      info.ModTime(),
		}

		fr, err := c.classifyFile(local, lookup)
		if err != nil {
			return err
		}
		result.Files = append(result.Files, fr)
		if fr.Classification == model.Unmatched {
			result.NewFiles = append(result.NewFiles, fr.RelativePath)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan local resources: %w", err)
	}

	if len(result.NewFiles) == 0 {
		return nil
	}
	if err := c.reporter.Report(NewFilesSummaryEvent()); err != nil {
		return err
	}
	for _, rel := range result.NewFiles {
		if err := c.reporter.Report(NewFileEvent(rel)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Classifier) classifyFile(local model.LocalFile, lookup map[string]model.PackageFile) (FileResult, error) {
	fr := FileResult{
		RelativePath:   local.RelativePath,
		LocalPath:      local.AbsolutePath,
		Classification: model.Unmatched,
		Action:         ActionNone,
	}

	pf, ok := lookup[local.RelativePath]
	if !ok {
		logging.Debug("no package ships file", logging.Path(local.RelativePath))
		return fr, nil
	}
	fr.Package = pf.Package
	fr.PackagePath = pf.AbsolutePath

	pkgInfo, err := c.fs.Stat(pf.AbsolutePath)
	if err != nil {
		return fr, fmt.Errorf("failed to stat package file %q: %w", pf.AbsolutePath, err)
	}
	fr.Classification = model.Classify(local.ModTime, pkgInfo.ModTime())

	logging.Debug("classified file",
		logging.Path(local.RelativePath),
		logging.Package(pf.Package),
		logging.Classification(fr.Classification),
	)

	switch fr.Classification {
	case model.PackageNewer:
		if c.opts.ReportReverse {
			fr.Action = ActionReported
			return fr, c.reporter.Report(PackageNewerEvent(pf.AbsolutePath))
		}
	case model.LocalNewer:
		if !c.opts.Commit {
			fr.Action = ActionWouldCopy
			return fr, c.reporter.Report(WouldCopyEvent(local.AbsolutePath, pf.AbsolutePath))
		}
		if _, err := copyFile(c.fs, local.AbsolutePath, pf.AbsolutePath); err != nil {
			return fr, err
		}
		fr.Action = ActionCopied
		logging.Info("copied file into package",
			logging.Path(local.AbsolutePath),
			logging.Target(pf.AbsolutePath),
			logging.Package(pf.Package),
		)
		return fr, c.reporter.Report(CopiedEvent(local.AbsolutePath, pf.AbsolutePath))
	}
	return fr, nil
}
