// Package apiclient is the generic REST client shared by the integration nodes.
//
// A Client is configured once per vendor (base URL, credential type, how the
// credential is injected, how error bodies are read) and then used to send single
// requests or to drain paginated collections. Credentials are resolved from the
// injected provider on every Send.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukex/operion-integrations/pkg/credentials"
	"github.com/dukex/operion-integrations/pkg/log"
	"github.com/dukex/operion-integrations/pkg/otelhelper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName       = "github.com/dukex/operion-integrations/pkg/apiclient"
	DefaultUserAgent = "operion"
)

// Config describes one vendor API.
type Config struct {
	// Name prefixes normalized error messages, e.g. "DeepL".
	Name           string
	BaseURL        string
	CredentialType string
	Auth           Authenticator
	// DefaultHeaders are applied before caller headers. Content-Type defaults to
	// application/json and User-Agent to DefaultUserAgent unless set here.
	DefaultHeaders map[string]string
	ExtractMessage MessageExtractor
}

// Option customizes a Client.
type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

type Client struct {
	config      Config
	credentials credentials.Provider
	transport   Transport
	logger      *slog.Logger
	tracer      trace.Tracer
}

func New(config Config, provider credentials.Provider, transport Transport, opts ...Option) *Client {
	client := &Client{
		config:      config,
		credentials: provider,
		transport:   transport,
		logger:      log.WithModule("apiclient"),
		tracer:      otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(client)
	}

	client.logger = client.logger.With("service", config.Name)

	return client
}

// Send performs a single request and returns the decoded JSON payload unchanged.
func (c *Client) Send(ctx context.Context, req Request) (any, error) {
	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "apiclient.Send",
		attribute.String(otelhelper.ServiceKey, c.config.Name),
		attribute.String(otelhelper.CredentialTypeKey, c.config.CredentialType),
		attribute.String("http.request.method", req.Method),
	)
	defer span.End()

	result, err := c.send(ctx, req)
	if err != nil {
		otelhelper.SetError(span, RedactError(err))

		return nil, err
	}

	return result, nil
}

func (c *Client) send(ctx context.Context, req Request) (any, error) {
	credential, err := c.resolveCredential(ctx)
	if err != nil {
		return nil, err
	}

	transportReq := c.buildRequest(req)

	if c.config.Auth != nil {
		err = c.config.Auth.Authenticate(withHTTPClient(ctx, c.transport), credential, transportReq)
		if err != nil {
			return nil, err
		}
	}

	c.logger.DebugContext(ctx, "Sending API request",
		"method", transportReq.Method,
		"url", transportReq.URL,
		"has_body", transportReq.Body != nil,
	)

	result, err := c.transport.Do(ctx, transportReq)
	if err != nil {
		return nil, normalizeError(c.config.Name, c.config.ExtractMessage, err)
	}

	return result, nil
}

func (c *Client) resolveCredential(ctx context.Context) (credentials.Credential, error) {
	if c.credentials == nil {
		return nil, fmt.Errorf("%w: no credential provider configured", ErrMissingCredential)
	}

	credential, err := c.credentials.GetCredentials(ctx, c.config.CredentialType)
	if err != nil {
		if errors.Is(err, credentials.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMissingCredential, c.config.CredentialType)
		}

		return nil, fmt.Errorf("failed to resolve credential %s: %w", c.config.CredentialType, err)
	}

	if len(credential) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingCredential, c.config.CredentialType)
	}

	return credential, nil
}

func (c *Client) buildRequest(req Request) *TransportRequest {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("User-Agent", DefaultUserAgent)

	for key, value := range c.config.DefaultHeaders {
		header.Set(key, value)
	}

	for key, value := range req.Headers {
		header.Set(key, value)
	}

	target := req.URI
	if target == "" {
		target = strings.TrimRight(c.config.BaseURL, "/") + req.Path
	}

	query := make(map[string]any, len(req.Query))
	for key, value := range req.Query {
		query[key] = value
	}

	var body map[string]any
	if len(req.Body) > 0 {
		body = req.Body
	}

	return &TransportRequest{
		Method: strings.ToUpper(req.Method),
		URL:    target,
		Header: header,
		Query:  query,
		Body:   body,
	}
}
