package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/justyntemme/retrocall/pkg/version"
)

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:    version.Name(),
		Usage:   "Vintage phone call effect",
		Version: version.Version() + " " + version.Commit(),
		Commands: []*cli.Command{
			renderCommand(),
			simulateCommand(),
			responseCommand(),
			paramsCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
