package apiclient_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dukex/operion-integrations/pkg/apiclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactSecrets(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "deepl auth key in transport error",
			input:    `Get "http://127.0.0.1:32857/languages?auth_key=SECRET-DEEPL-KEY": dial tcp: connection refused`,
			expected: `Get "http://127.0.0.1:32857/languages?auth_key=REDACTED": dial tcp: connection refused`,
		},
		{
			name:     "key among other params",
			input:    "https://api.example.com/v2/translate?text=Hello&auth_key=abc123&target_lang=DE",
			expected: "https://api.example.com/v2/translate?text=Hello&auth_key=REDACTED&target_lang=DE",
		},
		{
			name:     "case insensitive names",
			input:    "https://example.com/?Access_Token=tok&page=2",
			expected: "https://example.com/?Access_Token=REDACTED&page=2",
		},
		{
			name:     "suffix match is not a parameter",
			input:    "https://example.com/?monkey=banana",
			expected: "https://example.com/?monkey=banana",
		},
		{
			name:     "plain text",
			input:    "HTTP 403: invalid key",
			expected: "HTTP 403: invalid key",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, apiclient.RedactSecrets(tc.input))
		})
	}
}

func TestRedactError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, apiclient.RedactError(nil))

	plain := errors.New("connection reset")
	assert.Same(t, plain, apiclient.RedactError(plain))

	leaking := fmt.Errorf(`Get "https://api.deepl.com/v2/languages?auth_key=SECRET": %w`, context.Canceled)
	redacted := apiclient.RedactError(leaking)

	require.Error(t, redacted)
	assert.NotContains(t, redacted.Error(), "SECRET")
	assert.Contains(t, redacted.Error(), "auth_key=REDACTED")
	require.ErrorIs(t, redacted, context.Canceled)

	failure := &apiclient.TransportFailure{StatusCode: 401, RawBody: []byte("bad")}
	wrapped := apiclient.RedactError(fmt.Errorf("https://x/?token=abc: %w", failure))
	assert.Equal(t, 401, apiclient.StatusCode(wrapped))
}
