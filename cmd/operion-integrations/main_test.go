package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukex/operion-integrations/pkg/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	command := newCommand()
	command.Writer = &out
	command.ErrWriter = io.Discard
	command.Reader = strings.NewReader(stdin)

	err := command.Run(context.Background(), append([]string{serviceName}, args...))

	return out.String(), err
}

func TestNodesList_Table(t *testing.T) {
	out, err := run(t, "", "nodes", "list")
	require.NoError(t, err)

	assert.Contains(t, strings.ToLower(out), "description")
	assert.Contains(t, out, "deepl")
	assert.Contains(t, out, "googleanalytics")
	assert.Contains(t, out, "lemlist")
}

func TestNodesList_JSON(t *testing.T) {
	out, err := run(t, "", "nodes", "list", "--output", "json")
	require.NoError(t, err)

	var nodeTypes []web.NodeTypeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &nodeTypes))
	require.Len(t, nodeTypes, 3)
	assert.Equal(t, "deepl", nodeTypes[0].Type)
}

func TestNodesList_YAML(t *testing.T) {
	out, err := run(t, "", "nodes", "list", "-o", "yaml")
	require.NoError(t, err)

	var nodeTypes []web.NodeTypeResponse
	require.NoError(t, yaml.Unmarshal([]byte(out), &nodeTypes))
	require.Len(t, nodeTypes, 3)
	assert.Equal(t, "lemlist", nodeTypes[2].Type)
}

func TestNodesList_UnsupportedOutput(t *testing.T) {
	_, err := run(t, "", "nodes", "list", "--output", "xml")
	require.ErrorIs(t, err, ErrUnsupportedOutput)
}

func TestNodesSchema(t *testing.T) {
	out, err := run(t, "", "nodes", "schema", "deepl")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, schema["properties"], "target_lang")

	_, err = run(t, "", "nodes", "schema")
	require.ErrorIs(t, err, ErrMissingNodeType)

	_, err = run(t, "", "nodes", "schema", "hubspot")
	require.Error(t, err)
}

func TestExecute_MissingCredentialFromStdin(t *testing.T) {
	config := `{"operation": "language.translate", "text": "Hello", "target_lang": "{{ .variables.lang }}"}`

	out, err := run(t, config, "execute", "--node", "deepl", "--config=-", "--id", "translate", "--var", "lang=DE")
	require.ErrorIs(t, err, ErrNodeFailed)

	var response web.ExecuteNodeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "translate", response.NodeID)
	require.Contains(t, response.Results, "error")
	assert.Contains(t, response.Results["error"].Data["error"], "no credentials got returned")
}

func TestExecute_InvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte("operation: team.archive\n"), 0o600))

	_, err := run(t, "", "execute", "--node", "lemlist", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid node configuration")
}

func TestExecute_DryRun(t *testing.T) {
	config := "operation: lead.get\nemail: \"{{ .variables.email }}\"\n"

	out, err := run(t, config, "execute", "--node", "lemlist", "--config=-", "--dry-run", "--var", "email=jane@example.com")
	require.NoError(t, err)

	var response web.ValidateNodeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.True(t, response.Valid)

	_, err = run(t, config, "execute", "--node", "lemlist", "--config=-", "--dry-run", "--var", "email=jane")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email failed on email")
}

func TestReadNodeConfig(t *testing.T) {
	config, err := readNodeConfig("-", strings.NewReader("operation: team.get\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"operation": "team.get"}, config)

	config, err = readNodeConfig("-", strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, config)

	_, err = readNodeConfig("-", strings.NewReader("- a\n- b\n"))
	require.ErrorIs(t, err, ErrConfigNotAnObject)

	_, err = readNodeConfig(filepath.Join(t.TempDir(), "missing.json"), nil)
	require.Error(t, err)
}

func TestParseVariables(t *testing.T) {
	variables, err := parseVariables([]string{"lang=DE", "query=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"lang": "DE", "query": "a=b"}, variables)

	_, err = parseVariables([]string{"lang"})
	require.ErrorIs(t, err, ErrInvalidVariable)
}

func TestAPI_Endpoints(t *testing.T) {
	app := NewAPI(slog.Default(), catalog()).App()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Operion Integrations API", string(body))

	for _, path := range []string{"/livez", "/health", "/nodes", "/nodes/deepl"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		_ = resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
