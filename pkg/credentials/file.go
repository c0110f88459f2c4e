package credentials

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const envPrefix = "OPERION_CREDENTIALS"

// FileProvider reads credentials from a YAML, JSON or TOML file of the form
//
//	credentials:
//	  deepLApi:
//	    apiKey: "..."
//
// The file is re-read on every lookup so rotated secrets are picked up without a
// restart. Environment variables such as OPERION_CREDENTIALS_CREDENTIALS_DEEPLAPI_APIKEY
// override file values.
type FileProvider struct {
	mu    sync.Mutex
	path  string
	viper *viper.Viper
}

func NewFileProvider(path string) (*FileProvider, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", path, err)
	}

	return &FileProvider{path: path, viper: v}, nil
}

func (p *FileProvider) GetCredentials(_ context.Context, credentialType string) (Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.viper.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", p.path, err)
	}

	key := "credentials." + credentialType

	fields := p.viper.GetStringMapString(key)
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	credential := make(Credential, len(fields))
	for field := range fields {
		// Get consults env overrides, GetStringMapString does not.
		credential[field] = p.viper.GetString(key + "." + field)
	}

	return credential, nil
}

func (p *FileProvider) Close() error {
	return nil
}
