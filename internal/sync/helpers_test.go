package sync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauern/vendorjs/internal/util"
)

var (
	t0 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	t1 = time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	t2 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
)

// project is an on-disk layout with vendor/<group>/<pkg>/resources/js and
// a local resources/js tree.
type project struct {
	dir       string
	vendorDir string
	localRoot string
}

func newProject(t *testing.T) *project {
	t.Helper()
	dir := t.TempDir()
	p := &project{
		dir:       dir,
		vendorDir: filepath.Join(dir, "vendor", "acme"),
		localRoot: filepath.Join(dir, "resources", "js"),
	}
	for _, d := range []string{p.vendorDir, p.localRoot} {
		if err := os.MkdirAll(d, 0o750); err != nil {
			t.Fatalf("failed to create %s: %v", d, err)
		}
	}
	return p
}

func (p *project) packageFile(t *testing.T, pkg, rel, content string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(p.vendorDir, pkg, "resources", "js", filepath.FromSlash(rel))
	util.WriteFileAt(t, path, content, mtime)
	return path
}

func (p *project) localFile(t *testing.T, rel, content string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(p.localRoot, filepath.FromSlash(rel))
	util.WriteFileAt(t, path, content, mtime)
	return path
}

func (p *project) options(cutoff time.Time) Options {
	return Options{
		Vendor:         "acme",
		VendorDir:      p.vendorDir,
		PackageSubpath: DefaultPackageSubpath,
		LocalRoot:      p.localRoot,
		Cutoff:         cutoff,
		Location:       time.UTC,
	}
}
