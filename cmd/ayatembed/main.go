package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "ayatembed",
		Usage: "Serve and generate embeddable Quran verse cards",
		Commands: []*cli.Command{
			serveCommand(),
			snippetCommand(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
