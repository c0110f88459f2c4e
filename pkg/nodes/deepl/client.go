// Package deepl provides the DeepL translation node.
package deepl

import (
	"github.com/dukex/operion-integrations/pkg/apiclient"
)

const (
	NodeType       = "deepl"
	CredentialType = "deepLApi"
	BaseURL        = "https://api.deepl.com/v2"
	FreeBaseURL    = "https://api-free.deepl.com/v2"
)

// ClientConfig describes the DeepL API: the key travels as the auth_key query
// parameter and errors carry a "message" field.
func ClientConfig() apiclient.Config {
	return apiclient.Config{
		Name:           "DeepL",
		BaseURL:        BaseURL,
		CredentialType: CredentialType,
		Auth:           apiclient.QueryKeyAuth{Param: "auth_key", Field: "apiKey"},
		ExtractMessage: apiclient.MessageField,
	}
}
