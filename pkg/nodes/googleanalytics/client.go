// Package googleanalytics provides the Google Analytics reporting node.
package googleanalytics

import (
	"github.com/dukex/operion-integrations/pkg/apiclient"
	"golang.org/x/oauth2/endpoints"
)

const (
	NodeType       = "googleanalytics"
	CredentialType = "googleAnalyticsOAuth2"
	BaseURL        = "https://analyticsreporting.googleapis.com"

	// ProfilesURL lists every view the credential can read.
	ProfilesURL = "https://www.googleapis.com/analytics/v3/management/accounts/~all/webproperties/~all/profiles"

	// ViewsPageSize is the largest max-results the management API accepts.
	ViewsPageSize = 1000
)

var Scopes = []string{
	"https://www.googleapis.com/auth/analytics",
	"https://www.googleapis.com/auth/analytics.readonly",
}

// ClientConfig describes the Analytics Reporting API v4 with OAuth2 bearer tokens
// refreshed against Google's token endpoint.
func ClientConfig() apiclient.Config {
	return apiclient.Config{
		Name:           "Google Analytics",
		BaseURL:        BaseURL,
		CredentialType: CredentialType,
		Auth:           apiclient.OAuth2Auth{Endpoint: endpoints.Google, Scopes: Scopes},
		ExtractMessage: apiclient.NestedErrorMessage,
	}
}
