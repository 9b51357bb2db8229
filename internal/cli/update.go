package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/klauern/vendorjs/internal/config"
	"github.com/klauern/vendorjs/internal/logging"
	"github.com/klauern/vendorjs/internal/report"
	"github.com/klauern/vendorjs/internal/sync"
	"github.com/klauern/vendorjs/internal/ui"
	"github.com/klauern/vendorjs/internal/validation"
)

// groupFlags select the package group, explicitly or through a preset.
func groupFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "vendor",
			Usage: "Package group directory name under the vendor directory",
		},
		&cli.StringFlag{
			Name:  "preset",
			Usage: "Take the package group and cutoff from a configured preset",
		},
		&cli.BoolFlag{
			Name:  "ice",
			Usage: "Shorthand for --preset ice",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Output format: text or json (default from config)",
		},
	}
}

func (a *app) updateCommand() *cli.Command {
	flags := append(groupFlags(),
		&cli.StringFlag{
			Name:  "since",
			Usage: "Only consider local files modified at or after this time (YYYY.MM.DD HH:MM:SS)",
		},
		&cli.BoolFlag{
			Name:    "doit",
			Aliases: []string{"commit"},
			Usage:   "Copy locally newer files into the packages (default is a dry run)",
		},
		&cli.BoolFlag{
			Name:  "show-newer",
			Usage: "Also report files whose package copy is newer",
		},
	)

	return &cli.Command{
		Name:      "update",
		Aliases:   []string{"update:packagejs"},
		Usage:     "Update the resources/js directory of packages from the project's resources/js",
		UsageText: "vendorjs update [options]",
		Description: `Compare the project's resources/js files modified since the cutoff with
   the same files inside the vendor packages of one group. Locally newer files
   are reported, and copied into their package with --doit. Files shipped by
   more than one package abort the run before anything is compared.

   Examples:
     vendorjs update --vendor acme --since "2024.01.01 00:00:00"
     vendorjs update --vendor acme --since "2024.01.01 00:00:00" --doit
     vendorjs update --ice --show-newer`,
		Flags:  flags,
		Action: a.runUpdate,
	}
}

func (a *app) runUpdate(_ context.Context, cmd *cli.Command) error {
	opts, err := a.resolveOptions(cmd, false)
	if err != nil {
		return err
	}

	reporter, format, err := a.reporter(cmd)
	if err != nil {
		return err
	}

	s := sync.New(afero.NewOsFs(), reporter)
	s.ShowProgress = format == report.FormatText

	result, err := s.Run(opts)
	if errors.Is(err, sync.ErrSyncWithheld) {
		return cli.Exit(ui.StatusError(result.Summary()), ExitWithheld)
	}
	if err != nil {
		return err
	}

	logging.Info("run complete", slog.String("summary", result.Summary()))
	return nil
}

func (a *app) checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Report files shipped by more than one package of a group",
		UsageText: "vendorjs check [--vendor NAME | --preset NAME | --ice]",
		Flags:     groupFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			opts, err := a.resolveOptions(cmd, true)
			if err != nil {
				return err
			}

			reporter, _, err := a.reporter(cmd)
			if err != nil {
				return err
			}

			result, err := sync.New(afero.NewOsFs(), reporter).Check(opts)
			if errors.Is(err, sync.ErrSyncWithheld) {
				return cli.Exit(ui.StatusError(result.Summary()), ExitWithheld)
			}
			if err != nil {
				return err
			}

			logging.Info("no collisions",
				logging.Package(opts.Vendor),
				slog.Int("packages", result.Packages),
				slog.Int("files", result.IndexedFiles),
			)
			return nil
		},
	}
}

// resolveOptions validates the command's flags. Validation failures are
// printed grouped by field and returned as an invalid-input exit.
func (a *app) resolveOptions(cmd *cli.Command, groupOnly bool) (sync.Options, error) {
	in := validation.Input{
		Vendor:        cmd.String("vendor"),
		Preset:        cmd.String("preset"),
		Ice:           cmd.Bool("ice"),
		ProjectDir:    a.projectDir,
		GroupOnly:     groupOnly,
		Since:         stringFlag(cmd, "since"),
		Commit:        boolFlag(cmd, "doit"),
		ReportReverse: boolFlag(cmd, "show-newer"),
	}

	var env *config.Env
	if in.Preset != "" || in.Ice {
		var err error
		if env, err = a.cfg.ReadEnv(a.projectDir); err != nil {
			return sync.Options{}, fmt.Errorf("failed to read env files: %w", err)
		}
	}

	opts, err := validation.Resolve(in, a.cfg, env)
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		a.printValidation(verrs)
		return opts, cli.Exit("", ExitInvalidInput)
	}
	return opts, err
}

// printValidation writes each failing field followed by its messages.
func (a *app) printValidation(errs validation.Errors) {
	for _, g := range errs.Grouped() {
		_, _ = fmt.Fprintln(a.stderr, g.Field)
		_, _ = fmt.Fprintln(a.stderr, ui.Error(strings.Join(g.Messages, "\n")))
	}
}

// reporter builds the event reporter for the --format flag or config.
func (a *app) reporter(cmd *cli.Command) (sync.Reporter, report.Format, error) {
	value := a.cfg.Output.Format
	if cmd.IsSet("format") {
		value = cmd.String("format")
	}
	format, err := report.ParseFormat(value)
	if err != nil {
		return nil, "", cli.Exit(err.Error(), ExitInvalidInput)
	}
	r, err := report.New(format, a.stdout)
	if err != nil {
		return nil, "", err
	}
	return r, format, nil
}

// stringFlag returns the flag value, or "" when cmd does not define it.
func stringFlag(cmd *cli.Command, name string) string {
	if !hasFlag(cmd, name) {
		return ""
	}
	return cmd.String(name)
}

func boolFlag(cmd *cli.Command, name string) bool {
	return hasFlag(cmd, name) && cmd.Bool(name)
}

func hasFlag(cmd *cli.Command, name string) bool {
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}
