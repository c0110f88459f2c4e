// Package lemlist provides the Lemlist outreach node.
package lemlist

import (
	"github.com/dukex/operion-integrations/pkg/apiclient"
)

const (
	NodeType       = "lemlist"
	CredentialType = "lemlistApi"
	BaseURL        = "https://api.lemlist.com/api"
)

// ClientConfig describes the Lemlist API: HTTP Basic with the API key as the
// password, and error bodies reported verbatim.
func ClientConfig() apiclient.Config {
	return apiclient.Config{
		Name:           "Lemlist",
		BaseURL:        BaseURL,
		CredentialType: CredentialType,
		Auth:           apiclient.BasicKeyAuth{Field: "apiKey"},
		ExtractMessage: apiclient.RawBody,
	}
}
