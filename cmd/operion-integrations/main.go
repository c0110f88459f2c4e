package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dukex/operion-integrations/pkg/apiclient"
	"github.com/dukex/operion-integrations/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const serviceName = "operion-integrations"

func newCommand() *cli.Command {
	return &cli.Command{
		Name:                  serviceName,
		Usage:                 "Run DeepL, Lemlist and Google Analytics integration nodes",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			NewNodesCommand(),
			NewExecuteCommand(),
			NewServeCommand(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json)",
				Value:   "text",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "credentials",
				Usage:   "Credential store URL (file://path, redis://..., postgres://...)",
				Sources: cli.EnvVars("CREDENTIALS_URL"),
			},
			&cli.DurationFlag{
				Name:    "http-timeout",
				Usage:   "Timeout for a single upstream API request",
				Value:   apiclient.DefaultTimeout,
				Sources: cli.EnvVars("HTTP_TIMEOUT"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export OpenTelemetry traces over OTLP/HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"), command.String("log-format"))

			return ctx, nil
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newCommand().Run(ctx, os.Args)
	if err != nil {
		logger := log.WithModule(serviceName)
		logger.Error("Command failed", "error", err)

		stop()
		os.Exit(1)
	}
}
