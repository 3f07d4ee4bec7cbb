package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokenizer/cmd/app/commands"
	"github.com/allisson/tokenizer/internal/app"
	"github.com/allisson/tokenizer/internal/config"
	tokenizationUseCase "github.com/allisson/tokenizer/internal/tokenization/usecase"
)

func encryptedFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "encrypted",
		Aliases: []string{"e"},
		Value:   false,
		Usage:   "Send values through the encrypted session when enabled",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func typeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "type",
		Aliases: []string{"t"},
		Value:   "string",
		Usage:   "Data type: string, integer, long, float, double or boolean",
	}
}

// withTokenizationUseCase loads and validates client configuration, then runs fn
// with a fully wired tokenization use case.
func withTokenizationUseCase(
	ctx context.Context,
	fn func(container *app.Container, useCase tokenizationUseCase.TokenizationUseCase) error,
) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	container := app.NewContainer(cfg)
	defer func() { _ = container.Shutdown(ctx) }()

	useCase, err := container.TokenizationUseCase()
	if err != nil {
		return err
	}
	return fn(container, useCase)
}

func getTokenizationCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "tokenize",
			Usage: "Tokenize a single value",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "value",
					Aliases:  []string{"v"},
					Required: true,
					Usage:    "Value to tokenize",
				},
				typeFlag(),
				encryptedFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withTokenizationUseCase(
					ctx,
					func(container *app.Container, useCase tokenizationUseCase.TokenizationUseCase) error {
						return commands.RunTokenize(
							ctx,
							useCase,
							container.Logger(),
							commands.DefaultIO().Writer,
							cmd.String("value"),
							cmd.String("type"),
							cmd.Bool("encrypted"),
							cmd.String("format"),
						)
					},
				)
			},
		},
		{
			Name:  "detokenize",
			Usage: "Resolve a single token back to its value",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "token",
					Required: true,
					Usage:    "Token to resolve",
				},
				encryptedFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withTokenizationUseCase(
					ctx,
					func(container *app.Container, useCase tokenizationUseCase.TokenizationUseCase) error {
						return commands.RunDetokenize(
							ctx,
							useCase,
							container.Logger(),
							commands.DefaultIO().Writer,
							cmd.String("token"),
							cmd.Bool("encrypted"),
							cmd.String("format"),
						)
					},
				)
			},
		},
		{
			Name:  "batch-tokenize",
			Usage: "Tokenize values read from stdin, one per line",
			Flags: []cli.Flag{
				typeFlag(),
				encryptedFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withTokenizationUseCase(
					ctx,
					func(container *app.Container, useCase tokenizationUseCase.TokenizationUseCase) error {
						return commands.RunBatchTokenize(
							ctx,
							useCase,
							container.Logger(),
							commands.DefaultIO(),
							cmd.String("type"),
							cmd.Bool("encrypted"),
							cmd.String("format"),
						)
					},
				)
			},
		},
		{
			Name:  "batch-detokenize",
			Usage: "Resolve tokens read from stdin, one per line",
			Flags: []cli.Flag{
				encryptedFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withTokenizationUseCase(
					ctx,
					func(container *app.Container, useCase tokenizationUseCase.TokenizationUseCase) error {
						return commands.RunBatchDetokenize(
							ctx,
							useCase,
							container.Logger(),
							commands.DefaultIO(),
							cmd.Bool("encrypted"),
							cmd.String("format"),
						)
					},
				)
			},
		},
	}
}
