package sync

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/klauern/vendorjs/internal/logging"
)

// copyFile overwrites dst with the bytes of src, keeping dst's permission
// bits. The write happens in place: there is no temp file and rename.
func copyFile(fsys afero.Fs, src, dst string) (int64, error) {
	dstInfo, err := fsys.Stat(dst)
	if err != nil {
		return 0, fmt.Errorf("failed to stat target %q: %w", dst, err)
	}

	srcFile, err := fsys.Open(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open source %q: %w", src, err)
	}
	defer func() { _ = srcFile.Close() }()

	// #nosec G304 - dst comes from the package index
	dstFile, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_TRUNC, dstInfo.Mode().Perm())
	if err != nil {
		return 0, fmt.Errorf("failed to open target %q: %w", dst, err)
	}

	n, err := io.Copy(dstFile, srcFile)
	if err != nil {
		_ = dstFile.Close()
		return n, fmt.Errorf("failed to copy content to %q: %w", dst, err)
	}
	if err := dstFile.Close(); err != nil {
		return n, fmt.Errorf("failed to close target %q: %w", dst, err)
	}

	logging.Debug("copied file", logging.Path(src), logging.Target(dst), "bytes", n)
	return n, nil
}
