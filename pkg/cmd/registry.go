// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"
	"time"

	"github.com/dukex/operion-integrations/pkg/apiclient"
	"github.com/dukex/operion-integrations/pkg/credentials"
	"github.com/dukex/operion-integrations/pkg/registry"
	"go.opentelemetry.io/otel/trace"
)

// NewRegistry wires every integration node to an HTTP transport with the given
// timeout and the credential provider.
func NewRegistry(log *slog.Logger, provider credentials.Provider, timeout time.Duration, tracer trace.Tracer) *registry.Registry {
	transport := apiclient.NewHTTPTransport(log.With("module", "transport"), timeout)

	opts := []apiclient.Option{apiclient.WithLogger(log.With("module", "apiclient"))}
	if tracer != nil {
		opts = append(opts, apiclient.WithTracer(tracer))
	}

	reg := registry.NewIntegrationRegistry(log, provider, transport, opts...)

	log.Info("Registered integration nodes", "count", len(reg.GetAvailableNodes()))

	return reg
}
