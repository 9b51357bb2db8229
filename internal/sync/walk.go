package sync

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/klauern/vendorjs/internal/logging"
)

// walkFunc is called for every regular file found by walkFiles.
type walkFunc func(path string, info os.FileInfo) error

// walkFiles calls fn for every regular file below root, depth first, in
// lexical order. Symlinks to regular files are reported with the target's
// info; symlinked directories are not descended.
func walkFiles(fsys afero.Fs, root string, fn walkFunc) error {
	entries, err := afero.ReadDir(fsys, root)
	if err != nil {
		return fmt.Errorf("failed to read directory %q: %w", root, err)
	}

	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		info := entry

		if entry.Mode()&os.ModeSymlink != 0 {
			resolved, err := fsys.Stat(path)
			if err != nil {
				logging.Debug("skipping dangling symlink", logging.Path(path), logging.Err(err))
				continue
			}
			if resolved.IsDir() {
				logging.Debug("skipping symlinked directory", logging.Path(path))
				continue
			}
			info = resolved
		}

		if info.IsDir() {
			if err := walkFiles(fsys, path, fn); err != nil {
				return err
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if err := fn(path, info); err != nil {
			return err
		}
	}
	return nil
}

// relativePath strips root and the following separator from path.
func relativePath(root, path string) string {
	root = filepath.Clean(root)
	return strings.TrimPrefix(path, root+string(filepath.Separator))
}
