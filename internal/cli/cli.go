// Package cli provides the command-line interface for vendorjs.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/vendorjs/internal/config"
	"github.com/klauern/vendorjs/internal/logging"
	"github.com/klauern/vendorjs/internal/sync"
	"github.com/klauern/vendorjs/internal/ui"
	"github.com/klauern/vendorjs/internal/validation"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitFatal        = 1
	ExitInvalidInput = 2
	ExitWithheld     = 3
)

// app carries state shared by all commands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfg        *config.Config
	projectDir string
}

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	return newApp(os.Stdout, os.Stderr).Run(ctx, args)
}

// newApp builds the root command writing the report to stdout and
// diagnostics to stderr.
func newApp(stdout, stderr io.Writer) *cli.Command {
	a := &app{stdout: stdout, stderr: stderr}

	return &cli.Command{
		Name:      "vendorjs",
		Usage:     "Reconcile resources/js with the JS shipped by vendor packages",
		Version:   Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "Color output: auto, always or never (default from config)",
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to the user config file",
				Sources: cli.EnvVars("VENDORJS_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "project",
				Aliases: []string{"C"},
				Usage:   "Project root (default: working directory)",
			},
		},
		Before: a.before,
		// Exit codes are handled by main.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Commands: []*cli.Command{
			a.updateCommand(),
			a.checkCommand(),
			a.packagesCommand(),
			a.configCommand(),
			versionCommand(),
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	projectDir, err := resolveProjectDir(cmd.String("project"))
	if err != nil {
		return ctx, err
	}
	a.projectDir = projectDir

	userPath := cmd.String("config")
	if userPath == "" {
		userPath = config.FilePath()
	}
	cfg, err := config.LoadFiles(userPath, projectDir)
	if err != nil {
		return ctx, fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	if err := a.configureColors(cmd); err != nil {
		return ctx, err
	}
	return ctx, a.configureLogging(cmd)
}

// resolveProjectDir returns the absolute project root.
func resolveProjectDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid project directory %q: %w", dir, err)
	}
	return abs, nil
}

// configureColors sets up color output based on CLI flags and config.
func (a *app) configureColors(cmd *cli.Command) error {
	if cmd.Bool("no-color") {
		ui.DisableColors()
		return nil
	}

	value := a.cfg.Output.Color
	if cmd.IsSet("color") {
		value = cmd.String("color")
	}
	mode, err := ui.ParseColorMode(value)
	if err != nil {
		return err
	}
	ui.ConfigureColors(mode, a.stdout)
	return nil
}

// configureLogging sets up the logging level based on CLI flags and config.
func (a *app) configureLogging(cmd *cli.Command) error {
	opts := logging.DefaultOptions()
	opts.Output = a.stderr
	opts.JSON = a.cfg.Log.JSON

	if a.cfg.Log.Level != "" {
		level, err := logging.ParseLevel(a.cfg.Log.Level)
		if err != nil {
			return err
		}
		opts.Level = level
	}

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") && opts.Level > slog.LevelInfo {
		opts.Level = slog.LevelInfo
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured",
		slog.String("level", opts.Level.String()),
		logging.Path(a.projectDir),
	)

	return nil
}

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	switch {
	case errors.Is(err, validation.ErrInvalidInput):
		return ExitInvalidInput
	case errors.Is(err, sync.ErrSyncWithheld):
		return ExitWithheld
	default:
		return ExitFatal
	}
}
