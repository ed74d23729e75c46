package secret

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/zourit/zourit/auth"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:  "secret",
		Usage: fmt.Sprintf("Generate a random signing secret suitable for %v", auth.SecretEnvVar),
		Action: func(ctx *cli.Context) error {
			buf := make([]byte, 32)
			_, err := rand.Read(buf)
			if err != nil {
				return fmt.Errorf("unable to generate secret, cause %w", err)
			}
			fmt.Fprintln(ctx.App.Writer, base64.StdEncoding.EncodeToString(buf))
			return nil
		},
	}
}
