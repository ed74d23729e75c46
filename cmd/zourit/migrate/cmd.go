package migrate

import (
	"github.com/urfave/cli/v2"
	"github.com/zourit/zourit/internal/cmdflags"
	"github.com/zourit/zourit/internal/logutil"
	"github.com/zourit/zourit/store"
)

func Cmd() *cli.Command {
	dbPath := "zourit.db"
	migrationsDir := "migrations"
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending schema migrations and exit",
		Flags: []cli.Flag{
			cmdflags.Database(&dbPath),
			cmdflags.Migrations(&migrationsDir),
		},
		Action: func(ctx *cli.Context) error {
			st, err := store.Open(ctx.Context, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			err = st.ApplyMigrations(ctx.Context, migrationsDir)
			if err != nil {
				return err
			}
			applied, err := st.AppliedMigrations(ctx.Context)
			if err != nil {
				return err
			}
			log := logutil.GetOrDefault(ctx.Context)
			log.Info().
				Int("total", len(applied)).Msg("Schema is up to date")
			return nil
		},
	}
}
