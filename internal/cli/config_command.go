package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/klauern/vendorjs/internal/config"
	"github.com/klauern/vendorjs/internal/ui"
)

func (a *app) configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect or initialise configuration",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration as YAML",
				Action: func(_ context.Context, _ *cli.Command) error {
					data, err := a.cfg.YAML()
					if err != nil {
						return fmt.Errorf("failed to encode config: %w", err)
					}
					_, err = a.stdout.Write(data)
					return err
				},
			},
			{
				Name:  "path",
				Usage: "Print the configuration file locations",
				Action: func(_ context.Context, cmd *cli.Command) error {
					userPath := cmd.String("config")
					if userPath == "" {
						userPath = config.FilePath()
					}
					_, _ = fmt.Fprintf(a.stdout, "user:    %s\n", userPath)
					_, err := fmt.Fprintf(a.stdout, "project: %s\n", config.ProjectFilePath(a.projectDir))
					return err
				},
			},
			{
				Name:  "init",
				Usage: "Write the default configuration to the user config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing config file",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					if config.Exists() && !cmd.Bool("force") {
						return errors.New("config file already exists (use --force to overwrite)")
					}
					if err := config.Default().Save(); err != nil {
						return fmt.Errorf("failed to write config: %w", err)
					}
					_, err := fmt.Fprintln(a.stdout, ui.StatusSuccess("wrote "+config.FilePath()))
					return err
				},
			},
		},
	}
}
