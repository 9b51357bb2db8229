package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/klauern/vendorjs/internal/logging"
	"github.com/klauern/vendorjs/internal/report"
	"github.com/klauern/vendorjs/internal/sync"
	"github.com/klauern/vendorjs/internal/ui"
)

// PackageSummary describes one indexed package.
type PackageSummary struct {
	Name  string `json:"name"`
	Files int    `json:"files"`
}

func (a *app) packagesCommand() *cli.Command {
	return &cli.Command{
		Name:      "packages",
		Usage:     "List the packages of a group that ship JS resources",
		UsageText: "vendorjs packages [--vendor NAME | --preset NAME | --ice] [--format json]",
		Flags:     groupFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			opts, err := a.resolveOptions(cmd, true)
			if err != nil {
				return err
			}

			_, format, err := a.reporter(cmd)
			if err != nil {
				return err
			}

			s := sync.New(afero.NewOsFs(), nil)
			s.ShowProgress = format == report.FormatText
			index, err := s.Index(opts)
			if err != nil {
				return err
			}

			summaries := make([]PackageSummary, 0, len(index))
			for _, name := range index.Packages() {
				summaries = append(summaries, PackageSummary{Name: name, Files: len(index[name])})
			}
			logging.Debug("listed packages", logging.Package(opts.Vendor), logging.Count(len(summaries)))

			if format == report.FormatJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}
			return a.printPackages(opts.VendorDir, summaries)
		},
	}
}

func (a *app) printPackages(vendorDir string, summaries []PackageSummary) error {
	if len(summaries) == 0 {
		_, err := fmt.Fprintf(a.stdout, "No packages with JS resources in %s\n", vendorDir)
		return err
	}

	re := lipgloss.NewRenderer(a.stdout)
	header := re.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1)
	cell := re.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(re.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("PACKAGE", "FILES").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	total := 0
	for _, s := range summaries {
		t.Row(s.Name, strconv.Itoa(s.Files))
		total += s.Files
	}

	_, _ = fmt.Fprintln(a.stdout, t.Render())
	_, err := fmt.Fprintln(a.stdout, ui.Dim(fmt.Sprintf("%d package(s), %d file(s)", len(summaries), total)))
	return err
}
