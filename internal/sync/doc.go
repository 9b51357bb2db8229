// Package sync reconciles a project's local JavaScript resources against the
// copies shipped inside installed vendor packages.
//
// # Pipeline
//
// A run is strictly sequential:
//
//  1. Index: every immediate subdirectory of the package group that has a
//     JS resources directory (resources/js by default) is walked, producing
//     a model.PackageIndex of relative path → absolute path per package.
//  2. Collision check: the index is inverted into relative path → owners.
//     A path shipped by two or more packages is reported and the sync phase
//     is withheld for the whole run (ErrSyncWithheld).
//  3. Classify: the local tree is walked once. Files modified before the
//     cutoff are ignored. The rest are classified against the index:
//     model.Unmatched (no package ships it), model.PackageNewer (the package
//     copy is at least as new) or model.LocalNewer (the local copy should be
//     propagated outward).
//
// # Dry run and commit
//
// LocalNewer files are copied over the package file only when
// Options.Commit is set; otherwise a would-copy event is reported. Copies
// overwrite the target in place. An interrupted copy can leave a partial
// file; re-running repairs it because the local file is still newer.
// After a successful copy the target's modification time is "now", so a
// second run classifies it as PackageNewer and does nothing.
//
// # Events
//
// Every observable outcome is delivered to a Reporter as an Event:
//
//	s := sync.New(afero.NewOsFs(), sync.ReporterFunc(func(e sync.Event) error {
//	    fmt.Println(e.Kind, e.Source, e.Target)
//	    return nil
//	}))
//	result, err := s.Run(opts)
//
// Decisions are timestamp-only, at whole-second precision.
package sync
