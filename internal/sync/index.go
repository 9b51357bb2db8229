package sync

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"

	"github.com/klauern/vendorjs/internal/logging"
	"github.com/klauern/vendorjs/internal/model"
)

// DefaultPackageSubpath is where packages keep their shippable JS sources.
var DefaultPackageSubpath = filepath.Join("resources", "js")

// Indexer builds a model.PackageIndex from a package group directory.
type Indexer struct {
	fs      afero.Fs
	subpath string

	// Progress, if set, is called once per indexed file.
	Progress func(model.PackageFile)
}

// NewIndexer creates an Indexer reading packages' subpath directories.
// An empty subpath means DefaultPackageSubpath.
func NewIndexer(fsys afero.Fs, subpath string) *Indexer {
	if subpath == "" {
		subpath = DefaultPackageSubpath
	}
	return &Indexer{fs: fsys, subpath: subpath}
}

// Build indexes every package directly below root. Packages without the JS
// subpath are left out of the index. Root must exist; failing to read it,
// or any directory below a package's JS root, is returned as an error.
func (ix *Indexer) Build(root string) (model.PackageIndex, error) {
	defer logging.Timer("index")()

	entries, err := afero.ReadDir(ix.fs, root)
	if err != nil {
		return nil, fmt.Errorf("failed to read package group %q: %w", root, err)
	}

	index := make(model.PackageIndex)
	for _, entry := range entries {
		name := entry.Name()
		packageDir := filepath.Join(root, name)

		// Stat follows symlinks so path-repository packages are indexed too.
		info, err := ix.fs.Stat(packageDir)
		if err != nil || !info.IsDir() {
			continue
		}

		jsDir := filepath.Join(packageDir, ix.subpath)
		ok, err := ix.isDir(jsDir)
		if err != nil {
			return nil, err
		}
		if !ok {
			logging.Debug("package has no JS resources", logging.Package(name))
			continue
		}

		files := make([]model.PackageFile, 0)
		err = walkFiles(ix.fs, jsDir, func(path string, _ os.FileInfo) error {
			f := model.PackageFile{
				Package:      name,
				RelativePath: relativePath(jsDir, path),
				AbsolutePath: path,
			}
			files = append(files, f)
			if ix.Progress != nil {
				ix.Progress(f)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to index package %q: %w", name, err)
		}

		index[name] = files
		logging.Debug("indexed package", logging.Package(name), logging.Count(len(files)))
	}

	logging.Info("package index built",
		logging.Path(root),
		logging.Count(index.FileCount()),
		"packages", len(index),
	)
	return index, nil
}

// isDir reports whether path is a directory. A missing path, or one whose
// parent is a regular file, is not an error.
func (ix *Indexer) isDir(path string) (bool, error) {
	info, err := ix.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	return info.IsDir(), nil
}
