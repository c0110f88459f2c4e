package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/operion-integrations/pkg/credentials"
)

// NewCredentialSource opens the credential store named by credentialsURL. The
// scheme picks the backend: file://path, redis://..., postgres://... An empty
// URL yields a store without credentials.
func NewCredentialSource(ctx context.Context, logger *slog.Logger, credentialsURL string) (credentials.Source, error) {
	if credentialsURL == "" {
		logger.WarnContext(ctx, "No credentials URL configured, integration nodes will fail with missing credentials")

		return credentials.NewStaticProvider(nil), nil
	}

	provider := parseCredentialProvider(credentialsURL)

	logger.InfoContext(ctx, "Opening credential store", "provider", provider)

	switch provider {
	case "redis", "rediss":
		return credentials.NewRedisProvider(ctx, credentialsURL, credentials.DefaultRedisKeyPrefix)
	case "postgres", "postgresql":
		return credentials.NewPostgresProvider(ctx, logger, credentialsURL)
	case "file":
		return credentials.NewFileProvider(strings.TrimPrefix(credentialsURL, "file://"))
	default:
		return nil, fmt.Errorf("unsupported credentials provider %q", provider)
	}
}

// parseCredentialProvider returns the URL scheme. Plain paths are files.
func parseCredentialProvider(credentialsURL string) string {
	scheme, _, found := strings.Cut(credentialsURL, "://")
	if !found {
		return "file"
	}

	return strings.ToLower(scheme)
}
