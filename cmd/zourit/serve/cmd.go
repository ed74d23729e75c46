package serve

import (
	"errors"

	"github.com/urfave/cli/v2"
	"github.com/zourit/zourit/auth"
	"github.com/zourit/zourit/httpapi"
	"github.com/zourit/zourit/internal/cmdflags"
	"github.com/zourit/zourit/internal/httpserver"
	"github.com/zourit/zourit/internal/logutil"
	"github.com/zourit/zourit/store"
)

func Cmd() *cli.Command {
	bindAddr := "localhost:3000"
	dbPath := "zourit.db"
	migrationsDir := "migrations"
	secretVar := ""
	lifetime := auth.DefaultTokenLifetime
	var production bool
	return &cli.Command{
		Name:  "serve",
		Usage: "Apply pending migrations and start the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "bind",
				Usage:       "Address to bind the HTTP server to",
				Value:       bindAddr,
				Destination: &bindAddr,
			},
			cmdflags.Database(&dbPath),
			cmdflags.Migrations(&migrationsDir),
			cmdflags.SecretEnvVar(&secretVar),
			&cli.DurationFlag{
				Name:        "token-lifetime",
				Usage:       "How long issued session tokens stay valid",
				Value:       lifetime,
				Destination: &lifetime,
			},
			&cli.BoolFlag{
				Name:        "production",
				Usage:       "Refuse to start with the development fallback secret",
				Destination: &production,
			},
		},
		Action: func(ctx *cli.Context) error {
			log := logutil.GetOrDefault(ctx.Context)
			secret, fallback := auth.SecretFromEnv(secretVar, nil, nil)
			if fallback {
				if production {
					return errors.New("refusing to start in production without a signing secret, set " + secretVar)
				}
				log.Warn().Str("envvar", secretVar).Msg("Signing secret not set, using the development fallback. Do NOT run this in production")
			}
			st, err := store.Open(ctx.Context, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			// migrations run to completion before the listener starts, a
			// failed script means the process must not serve traffic
			err = st.ApplyMigrations(ctx.Context, migrationsDir)
			if err != nil {
				return err
			}
			handler, err := httpapi.AsHandler(ctx.Context, st, httpapi.Config{
				Secret:        secret,
				TokenLifetime: lifetime,
			})
			if err != nil {
				return err
			}
			return httpserver.Serve(ctx.Context, bindAddr, handler)
		},
	}
}
