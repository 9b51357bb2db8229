package e2e

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Fixture provides helpers for creating project trees in E2E tests.
type Fixture struct {
	t       *testing.T
	baseDir string
}

// NewFixture creates a new fixture helper rooted at the given directory.
func NewFixture(t *testing.T, baseDir string) *Fixture {
	t.Helper()
	return &Fixture{
		t:       t,
		baseDir: baseDir,
	}
}

// WriteFile writes content to a file relative to the fixture base directory
// and sets its modification time. Parent directories are created as needed.
func (f *Fixture) WriteFile(relPath, content string, mtime time.Time) string {
	f.t.Helper()
	fullPath := f.Path(relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		f.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(fullPath, mtime, mtime); err != nil {
			f.t.Fatalf("failed to set mtime on %s: %v", fullPath, err)
		}
	}
	return fullPath
}

// PackageFile writes a file inside vendor/<group>/<pkg>/resources/js.
func (f *Fixture) PackageFile(group, pkg, rel, content string, mtime time.Time) string {
	f.t.Helper()
	return f.WriteFile(filepath.Join("vendor", group, pkg, "resources", "js", rel), content, mtime)
}

// LocalFile writes a file inside the project's resources/js.
func (f *Fixture) LocalFile(rel, content string, mtime time.Time) string {
	f.t.Helper()
	return f.WriteFile(filepath.Join("resources", "js", rel), content, mtime)
}

// MkdirAll creates a directory and all parent directories relative to the base.
func (f *Fixture) MkdirAll(relPath string) string {
	f.t.Helper()
	fullPath := f.Path(relPath)

	if err := os.MkdirAll(fullPath, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// Path returns the full path for a relative path.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.baseDir, filepath.FromSlash(relPath))
}

// ModTime returns the modification time of a fixture file.
func (f *Fixture) ModTime(relPath string) time.Time {
	f.t.Helper()
	info, err := os.Stat(f.Path(relPath))
	if err != nil {
		f.t.Fatalf("failed to stat %s: %v", relPath, err)
	}
	return info.ModTime()
}
