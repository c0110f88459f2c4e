package apiclient_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dukex/operion-integrations/pkg/apiclient"
	"github.com/dukex/operion-integrations/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// recordingTransport records every request and replays scripted responses.
type recordingTransport struct {
	mu        sync.Mutex
	requests  []*apiclient.TransportRequest
	responses []func(req *apiclient.TransportRequest) (any, error)
}

func (r *recordingTransport) Do(_ context.Context, req *apiclient.TransportRequest) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests = append(r.requests, req)

	if len(r.responses) == 0 {
		return map[string]any{}, nil
	}

	next := r.responses[0]
	if len(r.responses) > 1 {
		r.responses = r.responses[1:]
	}

	return next(req)
}

func respond(payload any) func(*apiclient.TransportRequest) (any, error) {
	return func(*apiclient.TransportRequest) (any, error) {
		return payload, nil
	}
}

func fail(err error) func(*apiclient.TransportRequest) (any, error) {
	return func(*apiclient.TransportRequest) (any, error) {
		return nil, err
	}
}

func testProvider() credentials.Provider {
	return credentials.NewStaticProvider(map[string]credentials.Credential{
		"testApi": {"apiKey": "secret-key", "token": "bearer-token"},
	})
}

func testConfig() apiclient.Config {
	return apiclient.Config{
		Name:           "Test",
		BaseURL:        "https://api.example.com/v2",
		CredentialType: "testApi",
		Auth:           apiclient.QueryKeyAuth{Param: "auth_key", Field: "apiKey"},
		ExtractMessage: apiclient.MessageField,
	}
}

func newTestClient(transport apiclient.Transport) *apiclient.Client {
	return apiclient.New(testConfig(), testProvider(), transport)
}

func TestClient_Send_Body(t *testing.T) {
	t.Parallel()

	t.Run("empty body is omitted", func(t *testing.T) {
		t.Parallel()

		transport := &recordingTransport{}
		client := newTestClient(transport)

		_, err := client.Send(context.Background(), apiclient.Request{Method: "POST", Path: "/translate", Body: map[string]any{}})
		require.NoError(t, err)

		_, err = client.Send(context.Background(), apiclient.Request{Method: "GET", Path: "/languages"})
		require.NoError(t, err)

		require.Len(t, transport.requests, 2)
		assert.Nil(t, transport.requests[0].Body)
		assert.Nil(t, transport.requests[1].Body)
	})

	t.Run("non-empty body is sent unchanged", func(t *testing.T) {
		t.Parallel()

		transport := &recordingTransport{}
		client := newTestClient(transport)
		body := map[string]any{"text": "Hallo", "nested": map[string]any{"a": 1.0}, "list": []any{"x"}}

		_, err := client.Send(context.Background(), apiclient.Request{Method: "POST", Path: "/translate", Body: body})
		require.NoError(t, err)

		require.Len(t, transport.requests, 1)
		assert.Equal(t, body, transport.requests[0].Body)
	})
}

func TestClient_Send_HeaderPrecedence(t *testing.T) {
	t.Parallel()

	transport := &recordingTransport{}
	config := testConfig()
	config.DefaultHeaders = map[string]string{"Accept": "application/json", "X-Vendor": "default"}
	client := apiclient.New(config, testProvider(), transport)

	_, err := client.Send(context.Background(), apiclient.Request{
		Method: "GET",
		Path:   "/usage",
		Headers: map[string]string{
			"Content-Type": "text/plain",
			"X-Vendor":     "caller",
			"X-Extra":      "1",
		},
	})
	require.NoError(t, err)

	header := transport.requests[0].Header
	assert.Equal(t, "text/plain", header.Get("Content-Type"))
	assert.Equal(t, "caller", header.Get("X-Vendor"))
	assert.Equal(t, "1", header.Get("X-Extra"))
	assert.Equal(t, "application/json", header.Get("Accept"))
	assert.Equal(t, apiclient.DefaultUserAgent, header.Get("User-Agent"))
}

func TestClient_Send_Target(t *testing.T) {
	t.Parallel()

	transport := &recordingTransport{}
	client := newTestClient(transport)

	_, err := client.Send(context.Background(), apiclient.Request{Method: "get", Path: "/languages", Query: map[string]any{"type": "target"}})
	require.NoError(t, err)

	_, err = client.Send(context.Background(), apiclient.Request{Method: "GET", Path: "/ignored", URI: "https://api-free.example.com/v2/languages"})
	require.NoError(t, err)

	require.Len(t, transport.requests, 2)
	assert.Equal(t, "GET", transport.requests[0].Method)
	assert.Equal(t, "https://api.example.com/v2/languages", transport.requests[0].URL)
	assert.Equal(t, map[string]any{"type": "target", "auth_key": "secret-key"}, transport.requests[0].Query)
	assert.Equal(t, "https://api-free.example.com/v2/languages", transport.requests[1].URL)
}

func TestClient_Send_DoesNotMutateCallerQuery(t *testing.T) {
	t.Parallel()

	transport := &recordingTransport{}
	client := newTestClient(transport)
	query := map[string]any{"type": "source"}

	_, err := client.Send(context.Background(), apiclient.Request{Method: "GET", Path: "/languages", Query: query})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"type": "source"}, query)
}

func TestClient_Send_MissingCredential(t *testing.T) {
	t.Parallel()

	providers := map[string]credentials.Provider{
		"not stored": credentials.NewStaticProvider(nil),
		"nil credential": credentials.ProviderFunc(func(context.Context, string) (credentials.Credential, error) {
			return nil, nil
		}),
		"empty key field": credentials.NewStaticProvider(map[string]credentials.Credential{
			"testApi": {"other": "value"},
		}),
	}

	for name, provider := range providers {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			transport := &recordingTransport{}
			client := apiclient.New(testConfig(), provider, transport)

			_, err := client.Send(context.Background(), apiclient.Request{Method: "GET", Path: "/usage"})
			require.ErrorIs(t, err, apiclient.ErrMissingCredential)
			assert.True(t, apiclient.IsMissingCredential(err))
			assert.Empty(t, transport.requests)
		})
	}
}

func TestClient_Send_ProviderFailure(t *testing.T) {
	t.Parallel()

	storeDown := errors.New("store unavailable")
	transport := &recordingTransport{}
	provider := credentials.ProviderFunc(func(context.Context, string) (credentials.Credential, error) {
		return nil, storeDown
	})
	client := apiclient.New(testConfig(), provider, transport)

	_, err := client.Send(context.Background(), apiclient.Request{Method: "GET", Path: "/usage"})
	require.ErrorIs(t, err, storeDown)
	assert.False(t, apiclient.IsMissingCredential(err))
	assert.Empty(t, transport.requests)
}

func TestClient_Send_ErrorNormalization(t *testing.T) {
	t.Parallel()

	t.Run("message field", func(t *testing.T) {
		t.Parallel()

		failure := &apiclient.TransportFailure{
			StatusCode: http.StatusForbidden,
			RawBody:    []byte(`{"message":"Invalid key"}`),
			Body:       map[string]any{"message": "Invalid key"},
		}
		client := newTestClient(&recordingTransport{responses: []func(*apiclient.TransportRequest) (any, error){fail(failure)}})

		_, err := client.Send(context.Background(), apiclient.Request{Method: "GET", Path: "/usage"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403")
		assert.Contains(t, err.Error(), "Invalid key")
		assert.Equal(t, "Test error response [403]: Invalid key", err.Error())

		apiErr := &apiclient.APIError{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
		assert.Equal(t, http.StatusForbidden, apiclient.StatusCode(err))
		require.ErrorIs(t, err, failure)
	})

	t.Run("unrecognized body is returned unchanged", func(t *testing.T) {
		t.Parallel()

		failure := &apiclient.TransportFailure{StatusCode: http.StatusBadGateway, RawBody: []byte("<html>bad gateway</html>")}
		client := newTestClient(&recordingTransport{responses: []func(*apiclient.TransportRequest) (any, error){fail(failure)}})

		_, err := client.Send(context.Background(), apiclient.Request{Method: "GET", Path: "/usage"})
		assert.Same(t, failure, err)
		assert.Equal(t, http.StatusBadGateway, apiclient.StatusCode(err))
	})

	t.Run("transport error is returned unchanged", func(t *testing.T) {
		t.Parallel()

		transportErr := errors.New("connection reset by peer")
		client := newTestClient(&recordingTransport{responses: []func(*apiclient.TransportRequest) (any, error){fail(transportErr)}})

		_, err := client.Send(context.Background(), apiclient.Request{Method: "GET", Path: "/usage"})
		assert.Same(t, transportErr, err)
		assert.Zero(t, apiclient.StatusCode(err))
	})

	t.Run("raw body extractor", func(t *testing.T) {
		t.Parallel()

		config := testConfig()
		config.Name = "Lemlist"
		config.ExtractMessage = apiclient.RawBody
		failure := &apiclient.TransportFailure{StatusCode: http.StatusNotFound, RawBody: []byte("Campaign not found")}
		client := apiclient.New(config, testProvider(), &recordingTransport{
			responses: []func(*apiclient.TransportRequest) (any, error){fail(failure)},
		})

		_, err := client.Send(context.Background(), apiclient.Request{Method: "GET", Path: "/campaigns/x"})
		require.Error(t, err)
		assert.Equal(t, "Lemlist error response [404]: Campaign not found", err.Error())
	})

	t.Run("nested error message extractor", func(t *testing.T) {
		t.Parallel()

		config := testConfig()
		config.Name = "Google Analytics"
		config.ExtractMessage = apiclient.NestedErrorMessage
		failure := &apiclient.TransportFailure{
			StatusCode: http.StatusBadRequest,
			Body: map[string]any{"error": map[string]any{
				"code": 400.0, "message": "Invalid viewId", "status": "INVALID_ARGUMENT",
			}},
		}
		client := apiclient.New(config, testProvider(), &recordingTransport{
			responses: []func(*apiclient.TransportRequest) (any, error){fail(failure)},
		})

		_, err := client.Send(context.Background(), apiclient.Request{Method: "POST", Path: "/v4/reports:batchGet"})
		require.Error(t, err)
		assert.Equal(t, "Google Analytics error response [400]: Invalid viewId", err.Error())
	})
}

func TestAuthenticators(t *testing.T) {
	t.Parallel()

	credential := credentials.Credential{"apiKey": "lemlist-key", "token": "bearer-token"}

	t.Run("basic key", func(t *testing.T) {
		t.Parallel()

		req := &apiclient.TransportRequest{Header: http.Header{}}
		err := apiclient.BasicKeyAuth{Field: "apiKey"}.Authenticate(context.Background(), credential, req)
		require.NoError(t, err)

		expected := "Basic " + base64.StdEncoding.EncodeToString([]byte(":lemlist-key"))
		assert.Equal(t, expected, req.Header.Get("Authorization"))
	})

	t.Run("bearer", func(t *testing.T) {
		t.Parallel()

		req := &apiclient.TransportRequest{Header: http.Header{}}
		err := apiclient.BearerAuth{Field: "token"}.Authenticate(context.Background(), credential, req)
		require.NoError(t, err)
		assert.Equal(t, "Bearer bearer-token", req.Header.Get("Authorization"))
	})

	t.Run("query key creates query map", func(t *testing.T) {
		t.Parallel()

		req := &apiclient.TransportRequest{Header: http.Header{}}
		err := apiclient.QueryKeyAuth{Param: "auth_key", Field: "apiKey"}.Authenticate(context.Background(), credential, req)
		require.NoError(t, err)
		assert.Equal(t, "lemlist-key", req.Query["auth_key"])
	})

	t.Run("missing field", func(t *testing.T) {
		t.Parallel()

		req := &apiclient.TransportRequest{Header: http.Header{}}
		err := apiclient.BearerAuth{Field: "accessToken"}.Authenticate(context.Background(), credential, req)
		require.ErrorIs(t, err, apiclient.ErrMissingCredential)
	})
}

func TestOAuth2Auth(t *testing.T) {
	t.Parallel()

	t.Run("valid access token is used as is", func(t *testing.T) {
		t.Parallel()

		req := &apiclient.TransportRequest{Header: http.Header{}}
		credential := credentials.Credential{"accessToken": "ya29.token"}

		err := apiclient.OAuth2Auth{}.Authenticate(context.Background(), credential, req)
		require.NoError(t, err)
		assert.Equal(t, "Bearer ya29.token", req.Header.Get("Authorization"))
	})

	t.Run("expired token is refreshed", func(t *testing.T) {
		t.Parallel()

		var refreshCalls atomic.Int32

		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			refreshCalls.Add(1)

			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			assert.Equal(t, "refresh-1", r.PostForm.Get("refresh_token"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"fresh-token","token_type":"Bearer","expires_in":3600}`))
		}))
		defer tokenServer.Close()

		credential := credentials.Credential{
			"accessToken":  "stale-token",
			"refreshToken": "refresh-1",
			"clientId":     "client",
			"clientSecret": "secret",
			"expiry":       time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
		}
		req := &apiclient.TransportRequest{Header: http.Header{}}
		auth := apiclient.OAuth2Auth{Endpoint: oauth2.Endpoint{TokenURL: tokenServer.URL, AuthStyle: oauth2.AuthStyleInParams}}

		err := auth.Authenticate(context.Background(), credential, req)
		require.NoError(t, err)
		assert.Equal(t, "Bearer fresh-token", req.Header.Get("Authorization"))
		assert.Equal(t, int32(1), refreshCalls.Load())
	})

	t.Run("token url from credential", func(t *testing.T) {
		t.Parallel()

		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"from-refresh","token_type":"Bearer","expires_in":3600}`))
		}))
		defer tokenServer.Close()

		credential := credentials.Credential{"refreshToken": "refresh-2", "tokenUrl": tokenServer.URL}
		req := &apiclient.TransportRequest{Header: http.Header{}}

		err := apiclient.OAuth2Auth{Endpoint: oauth2.Endpoint{AuthStyle: oauth2.AuthStyleInParams}}.Authenticate(context.Background(), credential, req)
		require.NoError(t, err)
		assert.Equal(t, "Bearer from-refresh", req.Header.Get("Authorization"))
	})

	t.Run("no tokens", func(t *testing.T) {
		t.Parallel()

		req := &apiclient.TransportRequest{Header: http.Header{}}
		err := apiclient.OAuth2Auth{}.Authenticate(context.Background(), credentials.Credential{"clientId": "c"}, req)
		require.ErrorIs(t, err, apiclient.ErrMissingCredential)
	})

	t.Run("invalid expiry", func(t *testing.T) {
		t.Parallel()

		req := &apiclient.TransportRequest{Header: http.Header{}}
		credential := credentials.Credential{"accessToken": "a", "expiry": "tomorrow"}
		err := apiclient.OAuth2Auth{}.Authenticate(context.Background(), credential, req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), fmt.Sprintf("%q", "tomorrow"))
	})
}

func countingProvider(calls *atomic.Int32) credentials.Provider {
	return credentials.ProviderFunc(func(_ context.Context, _ string) (credentials.Credential, error) {
		n := calls.Add(1)

		return credentials.Credential{"apiKey": fmt.Sprintf("key-%d", n)}, nil
	})
}

func TestClient_ResolvesCredentialPerRequest(t *testing.T) {
	t.Parallel()

	t.Run("send", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		transport := &recordingTransport{}
		client := apiclient.New(testConfig(), countingProvider(&calls), transport)

		for range 3 {
			_, err := client.Send(context.Background(), apiclient.Request{Method: "GET", Path: "/usage"})
			require.NoError(t, err)
		}

		require.Len(t, transport.requests, 3)
		assert.Equal(t, int32(3), calls.Load())
		assert.Equal(t, "key-1", transport.requests[0].Query["auth_key"])
		assert.Equal(t, "key-3", transport.requests[2].Query["auth_key"])
	})

	t.Run("drain pages", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		transport := &recordingTransport{responses: []func(*apiclient.TransportRequest) (any, error){
			respond(makePage(0, 2)),
			respond(makePage(2, 1)),
			respond([]any{}),
		}}
		client := apiclient.New(testConfig(), countingProvider(&calls), transport)

		items, err := client.DrainAll(context.Background(), apiclient.Request{Method: "GET", Path: "/campaigns"},
			apiclient.OffsetPagination{Limit: 2})
		require.NoError(t, err)

		assert.Len(t, items, 3)
		require.Len(t, transport.requests, 3)
		assert.Equal(t, int32(len(transport.requests)), calls.Load())
	})
}

type countingRoundTripper struct {
	calls atomic.Int32
}

func (c *countingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls.Add(1)

	return http.DefaultTransport.RoundTrip(req)
}

// clientTransport is a recordingTransport that also exposes an http.Client.
type clientTransport struct {
	recordingTransport

	client *http.Client
}

func (c *clientTransport) HTTPClient() *http.Client {
	return c.client
}

func TestClient_OAuth2RefreshUsesTransportClient(t *testing.T) {
	t.Parallel()

	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh-token","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenServer.Close()

	roundTripper := &countingRoundTripper{}
	transport := &clientTransport{client: &http.Client{Transport: roundTripper, Timeout: time.Second}}

	config := testConfig()
	config.CredentialType = "oauthApi"
	config.Auth = apiclient.OAuth2Auth{Endpoint: oauth2.Endpoint{TokenURL: tokenServer.URL, AuthStyle: oauth2.AuthStyleInParams}}

	provider := credentials.NewStaticProvider(map[string]credentials.Credential{
		"oauthApi": {"refreshToken": "refresh-1", "clientId": "client", "clientSecret": "secret"},
	})

	client := apiclient.New(config, provider, transport)

	_, err := client.Send(context.Background(), apiclient.Request{Method: "GET", Path: "/reports"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), roundTripper.calls.Load())
	require.Len(t, transport.requests, 1)
	assert.Equal(t, "Bearer fresh-token", transport.requests[0].Header.Get("Authorization"))
}
