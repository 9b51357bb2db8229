// Package model defines the data types shared by the indexer, the collision
// detector and the sync classifier.
package model

import (
	"sort"

	"github.com/maruel/natural"
)

// PackageFile is one file shipped inside a vendor package's JS resources.
type PackageFile struct {
	// Package is the name of the owning package directory.
	Package string
	// RelativePath is the path below the package's JS root.
	RelativePath string
	// AbsolutePath is the full filesystem path.
	AbsolutePath string
}

// PackageIndex maps a package directory name to the files it ships.
// Packages without a JS resources directory are absent from the index.
type PackageIndex map[string][]PackageFile

// Packages returns the package names in natural order.
func (idx PackageIndex) Packages() []string {
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	SortNatural(names)
	return names
}

// FileCount returns the total number of files across all packages.
func (idx PackageIndex) FileCount() int {
	n := 0
	for _, files := range idx {
		n += len(files)
	}
	return n
}

// Lookup flattens the index into a relative path lookup table.
// When a path is owned by several packages the first package in natural
// order wins; callers are expected to have rejected collisions beforehand.
func (idx PackageIndex) Lookup() map[string]PackageFile {
	lookup := make(map[string]PackageFile, idx.FileCount())
	for _, name := range idx.Packages() {
		for _, f := range idx[name] {
			if _, ok := lookup[f.RelativePath]; !ok {
				lookup[f.RelativePath] = f
			}
		}
	}
	return lookup
}

// CollisionSet maps a relative path to every package that ships it.
type CollisionSet map[string][]string

// Collision is a relative path claimed by more than one package.
type Collision struct {
	RelativePath string
	Packages     []string
}

// Duplicates returns the paths owned by two or more packages, ordered by
// path, with owners in natural order.
func (cs CollisionSet) Duplicates() []Collision {
	var out []Collision
	for path, owners := range cs {
		if len(owners) < 2 {
			continue
		}
		sorted := make([]string, len(owners))
		copy(sorted, owners)
		SortNatural(sorted)
		out = append(out, Collision{RelativePath: path, Packages: sorted})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RelativePath < out[j].RelativePath
	})
	return out
}

// SortNatural sorts names in place so that embedded numbers compare by value
// ("pkg2" before "pkg10").
func SortNatural(names []string) {
	sort.Sort(natural.StringSlice(names))
}
