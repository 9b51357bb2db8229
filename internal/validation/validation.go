// Package validation resolves command-line input into sync options and
// reports every problem with it before any scanning happens.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/vendorjs/internal/config"
	"github.com/klauern/vendorjs/internal/logging"
	"github.com/klauern/vendorjs/internal/model"
	"github.com/klauern/vendorjs/internal/sync"
	"github.com/klauern/vendorjs/internal/util"
)

// ErrInvalidInput matches every validation failure via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// Field names used to group messages.
const (
	FieldVendor    = "vendor"
	FieldSince     = "since"
	FieldPreset    = "preset"
	FieldResources = "resources"
)

// requiredMessage is shared by every missing-value failure.
const requiredMessage = "(vendor and since) or preset field is required."

// Error represents a validation failure with context.
type Error struct {
	// Field is the name of the input that failed validation
	Field string
	// Message describes the validation failure
	Message string
	// Err is the underlying error (if any)
	Err error
}

// Error returns a formatted validation error message.
func (ve *Error) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("validation failed for %q: %s: %v", ve.Field, ve.Message, ve.Err)
	}
	return fmt.Sprintf("validation failed for %q: %s", ve.Field, ve.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (ve *Error) Unwrap() error {
	return ve.Err
}

// Is makes every validation Error match ErrInvalidInput.
func (ve *Error) Is(target error) bool {
	return target == ErrInvalidInput
}

// Errors collects multiple validation errors.
type Errors []error

// Error returns a formatted error message for all validation failures.
func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	return fmt.Sprintf("%d validation errors:\n- %s", len(ve), errors.Join(ve...))
}

// Unwrap exposes the collected errors to errors.Is/As.
func (ve Errors) Unwrap() []error {
	return ve
}

// Is makes Errors match ErrInvalidInput.
func (ve Errors) Is(target error) bool {
	return target == ErrInvalidInput
}

// Group is the set of messages reported for one field.
type Group struct {
	Field    string
	Messages []string
}

// Grouped returns the messages of every *Error grouped by field, in the
// order each field first failed. Other errors are grouped under "input".
func (ve Errors) Grouped() []Group {
	var groups []Group
	index := make(map[string]int)

	for _, err := range ve {
		field, msg := "input", err.Error()
		var fe *Error
		if errors.As(err, &fe) {
			field, msg = fe.Field, fe.Message
		}

		i, ok := index[field]
		if !ok {
			i = len(groups)
			index[field] = i
			groups = append(groups, Group{Field: field})
		}
		if !contains(groups[i].Messages, msg) {
			groups[i].Messages = append(groups[i].Messages, msg)
		}
	}
	return groups
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Result contains the outcome of a validation check.
type Result struct {
	// Valid indicates whether all validations passed
	Valid bool
	// Warnings contains non-fatal validation issues
	Warnings []string
	// Errors contains validation failures that prevent the operation
	Errors []error
}

// AddError adds an error to the validation result.
func (r *Result) AddError(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// AddWarning adds a warning to the validation result.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error returns the collected failures as Errors, or nil.
func (r *Result) Error() error {
	if !r.HasErrors() {
		return nil
	}
	return Errors(r.Errors)
}

// Input is the raw command-line input of an update or check run.
type Input struct {
	// Vendor is the --vendor value
	Vendor string
	// Since is the --since value
	Since string
	// Preset is the --preset value
	Preset string
	// Ice is the --ice shorthand for the ice preset
	Ice bool
	// Commit is the --doit value
	Commit bool
	// ReportReverse is the --show-newer value
	ReportReverse bool
	// ProjectDir is the project root; relative config paths resolve against it
	ProjectDir string
	// GroupOnly skips the cutoff and local tree checks; used when only the
	// package group is indexed
	GroupOnly bool
}

// presetName returns the selected preset, or "" for explicit mode.
func (in Input) presetName() string {
	if in.Preset != "" {
		return in.Preset
	}
	if in.Ice {
		return config.IcePreset
	}
	return ""
}

// Resolve validates in against cfg and returns the options of the run.
// env supplies preset cutoffs and may be nil. On failure the returned
// error is Errors and matches ErrInvalidInput.
func Resolve(in Input, cfg *config.Config, env *config.Env) (sync.Options, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	result := &Result{Valid: true}

	vendor, since, known := resolvePreset(in, cfg, env, result)

	loc, err := cfg.Location()
	if err != nil {
		return sync.Options{}, err
	}

	projectDir := in.ProjectDir
	if projectDir == "" {
		if projectDir, err = os.Getwd(); err != nil {
			return sync.Options{}, fmt.Errorf("failed to determine working directory: %w", err)
		}
	}

	opts := sync.Options{
		Vendor:         vendor,
		PackageSubpath: cfg.Paths.PackageSubpath,
		LocalRoot:      util.ExpandPath(cfg.Paths.ResourcesDir, projectDir),
		Location:       loc,
		Commit:         in.Commit,
		ReportReverse:  in.ReportReverse,
	}

	switch {
	case !known:
	case vendor == "":
		result.AddError(&Error{Field: FieldVendor, Message: requiredMessage})
	default:
		opts.VendorDir = filepath.Join(util.ExpandPath(cfg.Paths.VendorDir, projectDir), vendor)
		if !util.IsDir(opts.VendorDir) {
			result.AddError(&Error{
				Field:   FieldVendor,
				Message: fmt.Sprintf("The %s directory does not exist.", opts.VendorDir),
			})
		}
	}

	switch {
	case !known, in.GroupOnly:
	case since == "":
		result.AddError(&Error{Field: FieldSince, Message: requiredMessage})
	default:
		cutoff, err := model.ParseTimestamp(since, loc)
		if err != nil {
			result.AddError(&Error{
				Field:   FieldSince,
				Message: fmt.Sprintf("The since field must match the format %s.", displayLayout),
				Err:     err,
			})
		} else {
			opts.Cutoff = cutoff
		}
	}

	if !in.GroupOnly && !util.IsDir(opts.LocalRoot) {
		result.AddError(&Error{
			Field:   FieldResources,
			Message: fmt.Sprintf("The %s directory does not exist.", opts.LocalRoot),
		})
	}

	if result.HasErrors() {
		logging.Debug("input rejected", logging.Count(len(result.Errors)))
		return sync.Options{}, result.Error()
	}
	return opts, nil
}

// displayLayout is model.TimestampLayout written for humans.
const displayLayout = "YYYY.MM.DD HH:MM:SS"

// resolvePreset returns the vendor and cutoff of the run, taken from the
// preset when one is selected. known is false when the preset is undefined.
func resolvePreset(in Input, cfg *config.Config, env *config.Env, result *Result) (vendor, since string, known bool) {
	name := in.presetName()
	if name == "" {
		return strings.TrimSpace(in.Vendor), strings.TrimSpace(in.Since), true
	}

	if in.Ice && in.Preset != "" && in.Preset != config.IcePreset {
		result.AddError(&Error{
			Field:   FieldPreset,
			Message: fmt.Sprintf("The ice flag cannot be combined with preset %s.", in.Preset),
		})
	}
	if in.Vendor != "" || in.Since != "" {
		result.AddError(&Error{
			Field:   FieldPreset,
			Message: "The preset cannot be combined with vendor or since.",
		})
	}

	preset, ok := cfg.Preset(name)
	if !ok {
		result.AddError(&Error{
			Field:   FieldPreset,
			Message: fmt.Sprintf("The %s preset does not exist.", name),
		})
		return "", "", false
	}

	since = preset.Since
	if since == "" && preset.SinceEnv != "" {
		since, _ = env.Lookup(preset.SinceEnv)
	}
	logging.Debug("resolved preset", logging.Operation(name), logging.Package(preset.Vendor))
	return strings.TrimSpace(preset.Vendor), strings.TrimSpace(since), true
}
