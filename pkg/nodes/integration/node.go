// Package integration holds the pieces shared by the vendor API nodes: ports,
// configuration decoding and result shaping.
package integration

import (
	"github.com/dukex/operion-integrations/pkg/models"
)

const (
	InputPortMain     = "main"
	OutputPortSuccess = "success"
	OutputPortError   = "error"
)

// Base implements the port and identity part of models.Node. Vendor nodes embed
// it and provide Execute and Validate.
type Base struct {
	NodeID   string
	NodeType string
}

func (b Base) ID() string {
	return b.NodeID
}

func (b Base) Type() string {
	return b.NodeType
}

func (b Base) GetInputPorts() []models.InputPort {
	return []models.InputPort{
		models.NewInputPort(b.NodeID, InputPortMain, "Main input for triggering the API call"),
	}
}

func (b Base) GetOutputPorts() []models.OutputPort {
	return []models.OutputPort{
		models.NewOutputPort(b.NodeID, OutputPortSuccess, "Items returned by the API", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"items": map[string]any{"type": "array"},
				"count": map[string]any{"type": "number"},
			},
		}),
		models.NewOutputPort(b.NodeID, OutputPortError, "Error information when the API call fails", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"error":       map[string]any{"type": "string"},
				"success":     map[string]any{"type": "boolean"},
				"status_code": map[string]any{"type": "number"},
				"problem":     map[string]any{"type": "object"},
			},
		}),
	}
}

func (b Base) InputRequirements() models.InputRequirements {
	return models.InputRequirements{
		RequiredPorts: []string{InputPortMain},
		OptionalPorts: []string{},
		WaitMode:      models.WaitModeAll,
	}
}
