package main

import (
	"context"
	"log/slog"

	"github.com/dukex/operion-integrations/pkg/cmd"
	"github.com/dukex/operion-integrations/pkg/credentials"
	"github.com/dukex/operion-integrations/pkg/log"
	"github.com/dukex/operion-integrations/pkg/otelhelper"
	"github.com/dukex/operion-integrations/pkg/registry"
	cli "github.com/urfave/cli/v3"
)

// runtime holds what executing nodes needs: a credential store, a tracer and the
// registry wired to both.
type runtime struct {
	logger   *slog.Logger
	source   credentials.Source
	registry *registry.Registry
	shutdown otelhelper.ShutdownFunc
}

func openRuntime(ctx context.Context, command *cli.Command, module string) (*runtime, error) {
	logger := log.WithModule(module)

	source, err := cmd.NewCredentialSource(ctx, logger, command.String("credentials"))
	if err != nil {
		return nil, err
	}

	tracer, shutdown, err := cmd.NewTracer(ctx, command.Bool("tracing"), serviceName)
	if err != nil {
		_ = source.Close()

		return nil, err
	}

	return &runtime{
		logger:   logger,
		source:   source,
		registry: cmd.NewRegistry(logger, source, command.Duration("http-timeout"), tracer),
		shutdown: shutdown,
	}, nil
}

// catalog returns a registry for describing node types. It needs no credentials.
func catalog() *registry.Registry {
	logger := log.WithModule("catalog")

	return cmd.NewRegistry(logger, credentials.NewStaticProvider(nil), 0, nil)
}

func (r *runtime) Close(ctx context.Context) {
	if err := r.shutdown(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
	}

	if err := r.source.Close(); err != nil {
		r.logger.ErrorContext(ctx, "Failed to close credential store", "error", err)
	}
}
