package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"github.com/zourit/zourit/cmd/zourit/migrate"
	"github.com/zourit/zourit/cmd/zourit/secret"
	"github.com/zourit/zourit/cmd/zourit/serve"
	"github.com/zourit/zourit/internal/logutil"
)

func main() {
	var verbose bool
	app := &cli.App{
		Name:  "zourit",
		Usage: "Small CRUD service with token auth, role gates and versioned schema migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "Enable debug logging",
				Destination: &verbose,
			},
		},
		Before: func(*cli.Context) error {
			logutil.Console(verbose)
			return nil
		},
		Commands: []*cli.Command{
			serve.Cmd(),
			migrate.Cmd(),
			secret.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}
