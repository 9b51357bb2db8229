package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	ucli "github.com/urfave/cli/v3"

	"github.com/klauern/vendorjs/internal/cli"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	err := cli.Run(ctx, args)
	if err == nil {
		return cli.ExitOK
	}

	var exitErr ucli.ExitCoder
	switch {
	case errors.As(err, &exitErr):
		if msg := exitErr.Error(); msg != "" {
			_, _ = fmt.Fprintln(stderr, msg)
		}
	default:
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return cli.ExitCode(err)
}
