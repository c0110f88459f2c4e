package registry

import (
	"log/slog"

	"github.com/dukex/operion-integrations/pkg/apiclient"
	"github.com/dukex/operion-integrations/pkg/credentials"
	"github.com/dukex/operion-integrations/pkg/nodes/deepl"
	"github.com/dukex/operion-integrations/pkg/nodes/googleanalytics"
	"github.com/dukex/operion-integrations/pkg/nodes/lemlist"
)

// RegisterIntegrationNodes registers the vendor API nodes. All of them share the
// credential provider and transport.
func (r *Registry) RegisterIntegrationNodes(provider credentials.Provider, transport apiclient.Transport, opts ...apiclient.Option) {
	logger := r.logger.With("module", "nodes")

	r.RegisterNode(deepl.NewFactory(provider, transport, logger, opts...))
	r.RegisterNode(lemlist.NewFactory(provider, transport, logger, opts...))
	r.RegisterNode(googleanalytics.NewFactory(provider, transport, logger, opts...))
}

// NewIntegrationRegistry returns a registry holding every integration node.
func NewIntegrationRegistry(logger *slog.Logger, provider credentials.Provider, transport apiclient.Transport, opts ...apiclient.Option) *Registry {
	reg := NewRegistry(logger)
	reg.RegisterIntegrationNodes(provider, transport, opts...)

	return reg
}
