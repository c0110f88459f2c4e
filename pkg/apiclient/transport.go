package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const DefaultTimeout = 30 * time.Second

// Transport performs one resolved request. On an HTTP error status it returns a
// *TransportFailure; network and decoding problems come back as plain errors.
type Transport interface {
	Do(ctx context.Context, req *TransportRequest) (any, error)
}

// HTTPClientProvider is implemented by transports backed by an *http.Client.
// Authenticators making their own requests, such as OAuth2 token refreshes, use
// that client.
type HTTPClientProvider interface {
	HTTPClient() *http.Client
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *TransportRequest) (any, error)

func (f TransportFunc) Do(ctx context.Context, req *TransportRequest) (any, error) {
	return f(ctx, req)
}

// HTTPTransport sends JSON requests through a retryablehttp client configured for
// a single attempt: failures are surfaced to the caller immediately.
type HTTPTransport struct {
	client *retryablehttp.Client
	logger *slog.Logger
}

func NewHTTPTransport(logger *slog.Logger, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if logger == nil {
		logger = slog.Default()
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.HTTPClient.Timeout = timeout
	client.Logger = redactingLogger{logger: logger}
	client.CheckRetry = func(ctx context.Context, _ *http.Response, _ error) (bool, error) {
		return false, ctx.Err()
	}
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &HTTPTransport{client: client, logger: logger}
}

// HTTPClient returns the underlying client, for side requests such as OAuth2
// token refreshes that should share the timeout.
func (t *HTTPTransport) HTTPClient() *http.Client {
	return t.client.HTTPClient
}

func (t *HTTPTransport) Do(ctx context.Context, req *TransportRequest) (any, error) {
	target, err := buildURL(req.URL, req.Query)
	if err != nil {
		return nil, err
	}

	var body any
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}

		body = payload
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}

		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		t.logger.DebugContext(ctx, "Upstream returned error status",
			"method", req.Method,
			"url", req.URL,
			"status_code", resp.StatusCode,
		)

		failure := &TransportFailure{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			RawBody:    raw,
		}

		var decoded any
		if json.Unmarshal(raw, &decoded) == nil {
			failure.Body = decoded
		}

		return nil, failure
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var decoded any

	err = json.Unmarshal(raw, &decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", req.URL, err)
	}

	return decoded, nil
}

// buildURL appends query values to base. Slice values become repeated keys.
func buildURL(base string, query map[string]any) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid request url %q: %w", base, err)
	}

	if len(query) == 0 {
		return parsed.String(), nil
	}

	values := parsed.Query()

	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		switch v := query[key].(type) {
		case nil:
		case []string:
			for _, item := range v {
				values.Add(key, item)
			}
		case []any:
			for _, item := range v {
				values.Add(key, fmt.Sprint(item))
			}
		default:
			values.Set(key, fmt.Sprint(v))
		}
	}

	parsed.RawQuery = values.Encode()

	return parsed.String(), nil
}
