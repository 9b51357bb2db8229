package sync

import (
	"github.com/klauern/vendorjs/internal/logging"
	"github.com/klauern/vendorjs/internal/model"
)

// DetectCollisions inverts the index into relative path → owning packages.
// The verdict is true when every relative path has exactly one owner.
func DetectCollisions(index model.PackageIndex) (model.CollisionSet, bool) {
	set := make(model.CollisionSet)
	for _, name := range index.Packages() {
		for _, f := range index[name] {
			set[f.RelativePath] = append(set[f.RelativePath], name)
		}
	}

	for _, owners := range set {
		if len(owners) > 1 {
			return set, false
		}
	}
	return set, true
}

// ReportCollisions runs DetectCollisions and reports one collision event per
// duplicated path, in path order, with owners in natural order.
func ReportCollisions(index model.PackageIndex, reporter Reporter) ([]model.Collision, bool, error) {
	set, unique := DetectCollisions(index)
	if unique {
		return nil, true, nil
	}

	duplicates := set.Duplicates()
	for _, c := range duplicates {
		logging.Warn("file shipped by several packages",
			logging.Path(c.RelativePath),
			"packages", c.Packages,
		)
		if err := reporter.Report(CollisionEvent(c.RelativePath, c.Packages)); err != nil {
			return duplicates, false, err
		}
	}
	return duplicates, false, nil
}
