package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortConstructors(t *testing.T) {
	t.Parallel()

	input := NewInputPort("deepl-1", "main", "Main input")
	assert.Equal(t, "deepl-1:main", input.ID)
	assert.Equal(t, PortDirectionInput, input.GetDirection())

	output := NewOutputPort("deepl-1", "success", "Items", map[string]any{"type": "object"})
	assert.Equal(t, "deepl-1:success", output.ID)
	assert.Equal(t, "deepl-1", output.NodeID)
	assert.Equal(t, PortDirectionOutput, output.GetDirection())
	assert.Equal(t, "object", output.Schema["type"])
}

func TestNewExecutionContext(t *testing.T) {
	t.Parallel()

	execCtx := NewExecutionContext("exec-1", nil)
	assert.Equal(t, "exec-1", execCtx.ID)
	assert.NotNil(t, execCtx.NodeResults)
	assert.NotNil(t, execCtx.Variables)
	assert.NotNil(t, execCtx.TriggerData)
	assert.NotNil(t, execCtx.Metadata)

	withVars := NewExecutionContext("exec-2", map[string]any{"lang": "DE"})
	assert.Equal(t, "DE", withVars.Variables["lang"])
}

func TestExecutionContext_JSON(t *testing.T) {
	t.Parallel()

	execCtx := NewExecutionContext("exec-1", map[string]any{"target": "FR"})
	execCtx.NodeResults["fetch:success"] = NodeResult{
		NodeID: "fetch",
		Data:   map[string]any{"count": 2.0},
		Status: string(NodeStatusSuccess),
	}

	raw, err := json.Marshal(execCtx)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "exec-1", decoded["id"])
	assert.NotContains(t, decoded, "workflow_id")
	assert.Contains(t, decoded["node_results"], "fetch:success")
}
