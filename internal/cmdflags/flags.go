package cmdflags

import (
	"github.com/urfave/cli/v2"
	"github.com/zourit/zourit/auth"
)

func Database(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "db",
		Aliases:     []string{"d"},
		Usage:       "Path to the sqlite database file",
		Value:       *out,
		Destination: out,
	}
}

func Migrations(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "migrations",
		Aliases:     []string{"m"},
		Usage:       "Directory holding the .sql migration scripts",
		EnvVars:     []string{"MIGRATIONS_PATH"},
		Value:       *out,
		Destination: out,
	}
}

func SecretEnvVar(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = auth.SecretEnvVar
	}
	return &cli.StringFlag{
		Name:        "secret-envvar-name",
		Usage:       "Name of the environment variable that holds the token signing secret. The secret itself should not be passed as an argument",
		Value:       *out,
		Destination: out,
	}
}
