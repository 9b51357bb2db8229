package sync

// EventKind identifies a reportable outcome.
type EventKind string

const (
	// EventCollision: a relative path is shipped by several packages.
	EventCollision EventKind = "collision"
	// EventPackageNewer: the package copy is at least as new as the local file.
	EventPackageNewer EventKind = "package_newer"
	// EventWouldCopy: dry run, the local file would be copied into the package.
	EventWouldCopy EventKind = "would_copy"
	// EventCopied: the local file was copied into the package.
	EventCopied EventKind = "copied"
	// EventNewFilesSummary precedes the list of files no package ships.
	EventNewFilesSummary EventKind = "new_files"
	// EventNewFile names one local file no package ships.
	EventNewFile EventKind = "new_file"
)

// Event is a single report item. Which fields are set depends on Kind:
// Path and Packages for collisions, Path for package_newer (absolute path
// inside the package) and new_file (relative path), Source and Target for
// would_copy and copied.
type Event struct {
	Kind     EventKind `json:"event"`
	Path     string    `json:"path,omitempty"`
	Packages []string  `json:"packages,omitempty"`
	Source   string    `json:"source,omitempty"`
	Target   string    `json:"target,omitempty"`
}

// CollisionEvent reports a path owned by several packages.
func CollisionEvent(relativePath string, packages []string) Event {
	return Event{Kind: EventCollision, Path: relativePath, Packages: packages}
}

// PackageNewerEvent reports a package file at least as new as the local one.
func PackageNewerEvent(packagePath string) Event {
	return Event{Kind: EventPackageNewer, Path: packagePath}
}

// WouldCopyEvent reports a copy skipped because of dry-run mode.
func WouldCopyEvent(source, target string) Event {
	return Event{Kind: EventWouldCopy, Source: source, Target: target}
}

// CopiedEvent reports a completed copy.
func CopiedEvent(source, target string) Event {
	return Event{Kind: EventCopied, Source: source, Target: target}
}

// NewFilesSummaryEvent introduces the list of unmatched files.
func NewFilesSummaryEvent() Event {
	return Event{Kind: EventNewFilesSummary}
}

// NewFileEvent names one unmatched local file.
func NewFileEvent(relativePath string) Event {
	return Event{Kind: EventNewFile, Path: relativePath}
}

// Reporter receives events as they happen. An error aborts the run.
type Reporter interface {
	Report(Event) error
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Event) error

// Report calls f(e).
func (f ReporterFunc) Report(e Event) error {
	return f(e)
}

// Discard is a Reporter that drops every event.
var Discard Reporter = ReporterFunc(func(Event) error { return nil })

// Recorder keeps every event it receives, in order.
type Recorder struct {
	Events []Event
}

// Report appends e.
func (r *Recorder) Report(e Event) error {
	r.Events = append(r.Events, e)
	return nil
}

// OfKind returns the recorded events of the given kind.
func (r *Recorder) OfKind(kind EventKind) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
