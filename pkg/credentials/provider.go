// Package credentials resolves named credential sets for integration clients.
//
// A credential type (for example "deepLApi") names a set of secret string fields
// (for example "apiKey"). Providers look the set up on every call; callers must not
// cache the returned value.
package credentials

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when no credential is stored for a credential type.
var ErrNotFound = errors.New("credential not found")

// Credential is an opaque set of secret fields.
type Credential map[string]string

// Get returns the value of field. Lookups fall back to a case-insensitive match
// because some stores (viper) lower-case keys.
func (c Credential) Get(field string) string {
	if v, ok := c[field]; ok {
		return v
	}

	for k, v := range c {
		if strings.EqualFold(k, field) {
			return v
		}
	}

	return ""
}

// Provider looks up the credential stored for a credential type.
type Provider interface {
	GetCredentials(ctx context.Context, credentialType string) (Credential, error)
}

// Source is a Provider owning resources that must be released.
type Source interface {
	Provider
	Close() error
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, credentialType string) (Credential, error)

func (f ProviderFunc) GetCredentials(ctx context.Context, credentialType string) (Credential, error) {
	return f(ctx, credentialType)
}

// StaticProvider serves credentials from memory.
type StaticProvider struct {
	credentials map[string]Credential
}

func NewStaticProvider(credentials map[string]Credential) *StaticProvider {
	copied := make(map[string]Credential, len(credentials))
	for k, v := range credentials {
		copied[k] = v
	}

	return &StaticProvider{credentials: copied}
}

func (p *StaticProvider) GetCredentials(_ context.Context, credentialType string) (Credential, error) {
	credential, ok := p.credentials[credentialType]
	if !ok || len(credential) == 0 {
		return nil, ErrNotFound
	}

	return credential, nil
}

func (p *StaticProvider) Close() error {
	return nil
}
