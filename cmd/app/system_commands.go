package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokenizer/cmd/app/commands"
	"github.com/allisson/tokenizer/internal/app"
	"github.com/allisson/tokenizer/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "dev-server",
			Usage: "Start the local tokenization server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunDevServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run dev server database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "seal-secret",
			Usage: "Encrypt a client secret with a KMS keeper for CLIENT_SECRET_KEEPER_URI",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "keeper-uri",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "gocloud.dev/secrets keeper URI (e.g., base64key://..., awskms://...)",
				},
				&cli.StringFlag{
					Name:    "secret",
					Aliases: []string{"s"},
					Usage:   "Client secret to seal (omit to read from stdin)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunSealSecret(
					ctx,
					container.SecretKeeper(),
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("keeper-uri"),
					cmd.String("secret"),
				)
			},
		},
	}
}
