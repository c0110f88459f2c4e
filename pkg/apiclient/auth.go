package apiclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dukex/operion-integrations/pkg/credentials"
	"golang.org/x/oauth2"
)

// Authenticator injects credential material into a resolved request.
type Authenticator interface {
	Authenticate(ctx context.Context, credential credentials.Credential, req *TransportRequest) error
}

func requireField(credential credentials.Credential, field string) (string, error) {
	value := credential.Get(field)
	if value == "" {
		return "", fmt.Errorf("%w: field %q is empty", ErrMissingCredential, field)
	}

	return value, nil
}

// QueryKeyAuth sends an API key as a query parameter.
type QueryKeyAuth struct {
	Param string
	Field string
}

func (a QueryKeyAuth) Authenticate(_ context.Context, credential credentials.Credential, req *TransportRequest) error {
	key, err := requireField(credential, a.Field)
	if err != nil {
		return err
	}

	if req.Query == nil {
		req.Query = map[string]any{}
	}

	req.Query[a.Param] = key

	return nil
}

// BasicKeyAuth sends "Authorization: Basic base64(:apiKey)", an API key as the
// password with an empty user name.
type BasicKeyAuth struct {
	Field string
}

func (a BasicKeyAuth) Authenticate(_ context.Context, credential credentials.Credential, req *TransportRequest) error {
	key, err := requireField(credential, a.Field)
	if err != nil {
		return err
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(":" + key))
	req.Header.Set("Authorization", "Basic "+encoded)

	return nil
}

// BearerAuth sends a static token as "Authorization: Bearer <token>".
type BearerAuth struct {
	Field string
}

func (a BearerAuth) Authenticate(_ context.Context, credential credentials.Credential, req *TransportRequest) error {
	token, err := requireField(credential, a.Field)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)

	return nil
}

// withHTTPClient makes oauth2 token requests go through the transport's client.
func withHTTPClient(ctx context.Context, transport Transport) context.Context {
	provider, ok := transport.(HTTPClientProvider)
	if !ok {
		return ctx
	}

	return context.WithValue(ctx, oauth2.HTTPClient, provider.HTTPClient())
}

// Credential fields read by OAuth2Auth.
const (
	OAuth2AccessTokenField  = "accessToken"
	OAuth2RefreshTokenField = "refreshToken"
	OAuth2ClientIDField     = "clientId"
	OAuth2ClientSecretField = "clientSecret"
	OAuth2TokenURLField     = "tokenUrl"
	OAuth2ExpiryField       = "expiry"
)

// OAuth2Auth sends a bearer token obtained from an oauth2 token source built from
// the credential. An expired access token is refreshed through the token endpoint
// when a refresh token is present. Refreshed tokens are not written back.
type OAuth2Auth struct {
	Endpoint oauth2.Endpoint
	Scopes   []string
}

func (a OAuth2Auth) Authenticate(ctx context.Context, credential credentials.Credential, req *TransportRequest) error {
	token := &oauth2.Token{
		AccessToken:  credential.Get(OAuth2AccessTokenField),
		RefreshToken: credential.Get(OAuth2RefreshTokenField),
		TokenType:    "Bearer",
	}

	if token.AccessToken == "" && token.RefreshToken == "" {
		return fmt.Errorf("%w: no access or refresh token", ErrMissingCredential)
	}

	if expiry := credential.Get(OAuth2ExpiryField); expiry != "" {
		parsed, err := time.Parse(time.RFC3339, expiry)
		if err != nil {
			return fmt.Errorf("invalid oauth2 token expiry %q: %w", expiry, err)
		}

		token.Expiry = parsed
	} else if token.AccessToken == "" {
		// Force a refresh.
		token.Expiry = time.Unix(1, 0)
	}

	endpoint := a.Endpoint
	if tokenURL := credential.Get(OAuth2TokenURLField); tokenURL != "" {
		endpoint.TokenURL = tokenURL
	}

	config := &oauth2.Config{
		ClientID:     credential.Get(OAuth2ClientIDField),
		ClientSecret: credential.Get(OAuth2ClientSecretField),
		Endpoint:     endpoint,
		Scopes:       a.Scopes,
	}

	current, err := config.TokenSource(ctx, token).Token()
	if err != nil {
		return fmt.Errorf("failed to obtain oauth2 token: %w", err)
	}

	req.Header.Set("Authorization", current.Type()+" "+current.AccessToken)

	return nil
}
