package sync

import (
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/klauern/vendorjs/internal/model"
	"github.com/klauern/vendorjs/internal/util"
)

func TestOptions(t *testing.T) {
	opts := Options{Cutoff: time.Date(2024, 5, 6, 7, 8, 9, 500, time.UTC), Location: time.UTC}
	if got := opts.CutoffString(); got != "2024.05.06 07:08:09" {
		t.Errorf("CutoffString() = %q", got)
	}
	if !opts.DryRun() {
		t.Error("options without Commit should be a dry run")
	}
	opts.Commit = true
	if opts.DryRun() {
		t.Error("options with Commit should not be a dry run")
	}
}

// The alpha/beta scenario: x.js is newer locally, z.js is new, y.js only
// exists in a package.
func TestRun_EndToEnd(t *testing.T) {
	tests := map[string]struct {
		commit    bool
		wantEvent EventKind
		wantBytes string
	}{
		"dry run": {commit: false, wantEvent: EventWouldCopy, wantBytes: "alpha x"},
		"commit":  {commit: true, wantEvent: EventCopied, wantBytes: "local x"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := newProject(t)
			alphaX := p.packageFile(t, "alpha", "x.js", "alpha x", t0)
			p.packageFile(t, "beta", "y.js", "beta y", t0)
			localX := p.localFile(t, "x.js", "local x", t2)
			p.localFile(t, "z.js", "local z", t2)

			rec := &Recorder{}
			opts := p.options(t1)
			opts.Commit = tt.commit

			result, err := New(afero.NewOsFs(), rec).Run(opts)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			want := []Event{
				{Kind: tt.wantEvent, Source: localX, Target: alphaX},
				NewFilesSummaryEvent(),
				NewFileEvent("z.js"),
			}
			if !reflect.DeepEqual(rec.Events, want) {
				t.Errorf("events = %+v\nwant %+v", rec.Events, want)
			}

			if got := util.ReadFile(t, alphaX); got != tt.wantBytes {
				t.Errorf("alpha x.js = %q, want %q", got, tt.wantBytes)
			}
			if result.Packages != 2 || result.IndexedFiles != 2 {
				t.Errorf("Packages=%d IndexedFiles=%d, want 2/2", result.Packages, result.IndexedFiles)
			}
			if len(result.LocalNewer()) != 1 || result.LocalNewer()[0].Package != "alpha" {
				t.Errorf("LocalNewer() = %+v", result.LocalNewer())
			}
			if !reflect.DeepEqual(result.NewFiles, []string{"z.js"}) {
				t.Errorf("NewFiles = %v", result.NewFiles)
			}
			for _, f := range result.Files {
				if f.RelativePath == "y.js" {
					t.Error("package-only file y.js must never be visited")
				}
			}
		})
	}
}

func TestRun_SkipsFilesBeforeCutoff(t *testing.T) {
	p := newProject(t)
	pkgPath := p.packageFile(t, "alpha", "old.js", "pkg", t0)
	p.localFile(t, "old.js", "local", t1.Add(-time.Second))
	p.localFile(t, "stale-new.js", "local", t0)

	rec := &Recorder{}
	opts := p.options(t1)
	opts.Commit = true
	opts.ReportReverse = true

	result, err := New(afero.NewOsFs(), rec).Run(opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.Events) != 0 {
		t.Errorf("expected no events, got %+v", rec.Events)
	}
	if len(result.Files) != 0 {
		t.Errorf("expected no classified files, got %+v", result.Files)
	}
	if got := util.ReadFile(t, pkgPath); got != "pkg" {
		t.Errorf("package file modified: %q", got)
	}
}

func TestRun_CutoffIsInclusive(t *testing.T) {
	p := newProject(t)
	p.localFile(t, "edge.js", "x", t1)

	rec := &Recorder{}
	result, err := New(nil, rec).Run(p.options(t1))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !reflect.DeepEqual(result.NewFiles, []string{"edge.js"}) {
		t.Errorf("NewFiles = %v, want [edge.js]", result.NewFiles)
	}
}

func TestRun_PackageNewer(t *testing.T) {
	tests := map[string]struct {
		pkgTime       time.Time
		localOffset   time.Duration
		reportReverse bool
		wantEvents    int
		wantAction    Action
	}{
		"package newer, silent":       {pkgTime: t2.Add(time.Hour), wantAction: ActionNone},
		"package newer, reported":     {pkgTime: t2.Add(time.Hour), reportReverse: true, wantEvents: 1, wantAction: ActionReported},
		"equal mtime, reported":       {pkgTime: t2, reportReverse: true, wantEvents: 1, wantAction: ActionReported},
		"sub-second newer local only": {pkgTime: t2, localOffset: 400 * time.Millisecond, wantAction: ActionNone},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := newProject(t)
			pkgPath := p.packageFile(t, "alpha", "lib/util.js", "package", tt.pkgTime)
			p.localFile(t, "lib/util.js", "local", t2.Add(tt.localOffset))

			for _, commit := range []bool{false, true} {
				rec := &Recorder{}
				opts := p.options(t1)
				opts.Commit = commit
				opts.ReportReverse = tt.reportReverse

				result, err := New(nil, rec).Run(opts)
				if err != nil {
					t.Fatalf("Run() error = %v", err)
				}
				if len(rec.Events) != tt.wantEvents {
					t.Errorf("commit=%v: %d events, want %d: %+v", commit, len(rec.Events), tt.wantEvents, rec.Events)
				}
				if tt.wantEvents == 1 && !reflect.DeepEqual(rec.Events[0], PackageNewerEvent(pkgPath)) {
					t.Errorf("event = %+v", rec.Events[0])
				}
				if len(result.Files) != 1 {
					t.Fatalf("Files = %+v", result.Files)
				}
				f := result.Files[0]
				if f.Classification != model.PackageNewer || f.Action != tt.wantAction {
					t.Errorf("file = %+v, want package-newer/%s", f, tt.wantAction)
				}
				if got := util.ReadFile(t, pkgPath); got != "package" {
					t.Errorf("commit=%v: package file modified: %q", commit, got)
				}
			}
		})
	}
}

func TestRun_CommitIsIdempotent(t *testing.T) {
	p := newProject(t)
	pkgPath := p.packageFile(t, "alpha", "x.js", "old", t0)
	localPath := p.localFile(t, "x.js", "new", t2)

	opts := p.options(t1)
	opts.Commit = true

	first := &Recorder{}
	result, err := New(nil, first).Run(opts)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if len(result.Copied()) != 1 {
		t.Fatalf("first run Copied() = %+v", result.Copied())
	}
	if !reflect.DeepEqual(first.Events, []Event{CopiedEvent(localPath, pkgPath)}) {
		t.Errorf("first run events = %+v", first.Events)
	}
	if got := util.ReadFile(t, pkgPath); got != "new" {
		t.Errorf("package file = %q, want copied content", got)
	}

	second := &Recorder{}
	result, err = New(nil, second).Run(opts)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if len(second.Events) != 0 {
		t.Errorf("second run events = %+v, want none", second.Events)
	}
	if len(result.Copied()) != 0 || len(result.PackageNewer()) != 1 {
		t.Errorf("second run result = %+v", result.Files)
	}
}

func TestRun_KeepsTargetPermissions(t *testing.T) {
	p := newProject(t)
	pkgPath := p.packageFile(t, "alpha", "x.js", "old", t0)
	if err := os.Chmod(pkgPath, 0o644); err != nil {
		t.Fatal(err)
	}
	util.SetModTime(t, pkgPath, t0)
	p.localFile(t, "x.js", "new content", t2)

	opts := p.options(t1)
	opts.Commit = true
	if _, err := New(nil, nil).Run(opts); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	info, err := os.Stat(pkgPath)
	util.AssertNoError(t, err)
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestRun_CollisionWithholdsSync(t *testing.T) {
	p := newProject(t)
	pkgA := p.packageFile(t, "pkg10", "shared.js", "a", t0)
	p.packageFile(t, "pkg2", "shared.js", "b", t0)
	p.packageFile(t, "pkg2", "unrelated.js", "u", t0)
	p.localFile(t, "unrelated.js", "newer", t2)
	p.localFile(t, "shared.js", "newer", t2)
	p.localFile(t, "brand-new.js", "new", t2)

	rec := &Recorder{}
	opts := p.options(t1)
	opts.Commit = true

	result, err := New(nil, rec).Run(opts)
	if !errors.Is(err, ErrSyncWithheld) {
		t.Fatalf("Run() error = %v, want ErrSyncWithheld", err)
	}
	if !result.Withheld || !result.HasCollisions() {
		t.Errorf("result = %+v, want withheld with collisions", result)
	}

	want := []Event{CollisionEvent("shared.js", []string{"pkg2", "pkg10"})}
	if !reflect.DeepEqual(rec.Events, want) {
		t.Errorf("events = %+v, want %+v", rec.Events, want)
	}
	if len(result.Files) != 0 {
		t.Errorf("sync phase ran: %+v", result.Files)
	}
	if got := util.ReadFile(t, pkgA); got != "a" {
		t.Errorf("package file modified: %q", got)
	}
}

func TestCheck(t *testing.T) {
	p := newProject(t)
	p.packageFile(t, "alpha", "x.js", "", t0)
	p.packageFile(t, "beta", "y.js", "", t0)
	p.localFile(t, "x.js", "", t2)

	rec := &Recorder{}
	result, err := New(nil, rec).Check(p.options(t1))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if result.Withheld || len(rec.Events) != 0 || len(result.Files) != 0 {
		t.Errorf("Check() result = %+v events = %+v", result, rec.Events)
	}

	p.packageFile(t, "gamma", "x.js", "", t0)
	if _, err := New(nil, rec).Check(p.options(t1)); !errors.Is(err, ErrSyncWithheld) {
		t.Errorf("Check() error = %v, want ErrSyncWithheld", err)
	}
}

func TestRun_MissingVendorDir(t *testing.T) {
	p := newProject(t)
	opts := p.options(t1)
	opts.VendorDir = ""
	if _, err := New(nil, nil).Run(opts); err == nil {
		t.Error("expected error for empty vendor dir")
	}

	opts.VendorDir = p.dir + "/vendor/missing"
	if _, err := New(nil, nil).Run(opts); err == nil {
		t.Error("expected error for missing vendor dir")
	}
}

func TestRun_MissingLocalRootIsFatal(t *testing.T) {
	p := newProject(t)
	p.packageFile(t, "alpha", "x.js", "", t0)
	opts := p.options(t1)
	opts.LocalRoot = p.dir + "/resources/missing"

	if _, err := New(nil, nil).Run(opts); err == nil {
		t.Error("expected error for missing local root")
	}
}

func TestRun_ReporterErrorAborts(t *testing.T) {
	p := newProject(t)
	p.packageFile(t, "alpha", "x.js", "old", t0)
	p.localFile(t, "x.js", "new", t2)

	boom := errors.New("broken pipe")
	_, err := New(nil, ReporterFunc(func(Event) error { return boom })).Run(p.options(t1))
	if !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
}

func TestClassifier_WithMemFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	util.WriteMemFile(t, fs, "/app/vendor/acme/alpha/resources/js/x.js", "pkg", t0)
	util.WriteMemFile(t, fs, "/app/resources/js/x.js", "local", t2)
	util.WriteMemFile(t, fs, "/app/resources/js/nested/deep/new.js", "n", t2)

	opts := Options{
		VendorDir: "/app/vendor/acme",
		LocalRoot: "/app/resources/js",
		Cutoff:    t1,
		Location:  time.UTC,
		Commit:    true,
	}

	index, err := NewIndexer(fs, "").Build(opts.VendorDir)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	rec := &Recorder{}
	result := &Result{}
	if err := NewClassifier(fs, opts, rec).Classify(index, result); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	data, err := afero.ReadFile(fs, "/app/vendor/acme/alpha/resources/js/x.js")
	util.AssertNoError(t, err)
	if string(data) != "local" {
		t.Errorf("package file = %q, want local content", data)
	}
	if got := rec.OfKind(EventNewFile); len(got) != 1 || got[0].Path != "nested/deep/new.js" {
		t.Errorf("new file events = %+v", got)
	}
	if len(rec.OfKind(EventCopied)) != 1 {
		t.Errorf("copied events = %+v", rec.OfKind(EventCopied))
	}
}

func TestClassifier_DuplicatePathPicksFirstPackage(t *testing.T) {
	fs := afero.NewMemMapFs()
	util.WriteMemFile(t, fs, "/v/b10/resources/js/x.js", "", t0)
	util.WriteMemFile(t, fs, "/v/b2/resources/js/x.js", "", t0)
	util.WriteMemFile(t, fs, "/local/x.js", "", t2)

	opts := Options{VendorDir: "/v", LocalRoot: "/local", Cutoff: t1, Location: time.UTC}
	index, err := NewIndexer(fs, "").Build("/v")
	util.AssertNoError(t, err)

	rec := &Recorder{}
	result := &Result{}
	util.AssertNoError(t, NewClassifier(fs, opts, rec).Classify(index, result))

	if len(result.Files) != 1 || result.Files[0].Package != "b2" {
		t.Errorf("Files = %+v, want match against b2", result.Files)
	}
}
