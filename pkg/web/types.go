// Package web provides the HTTP API for listing and executing integration nodes.
package web

import "github.com/dukex/operion-integrations/pkg/models"

// NodeTypeResponse describes a registered node type.
type NodeTypeResponse struct {
	Type        string         `json:"type"             yaml:"type"`
	Name        string         `json:"name"             yaml:"name"`
	Description string         `json:"description"      yaml:"description"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// ExecuteNodeRequest is the body of POST /nodes/:type/execute and
// POST /nodes/:type/validate.
type ExecuteNodeRequest struct {
	ID          string         `json:"id,omitempty"           validate:"omitempty,max=128"`
	Config      map[string]any `json:"config"                 validate:"required"`
	Variables   map[string]any `json:"variables,omitempty"`
	TriggerData map[string]any `json:"trigger_data,omitempty"`
}

// ValidateNodeResponse is returned by POST /nodes/:type/validate when the
// configuration is accepted.
type ValidateNodeResponse struct {
	Valid bool `json:"valid"`
}

// ExecuteNodeResponse carries the port results of a single node execution.
type ExecuteNodeResponse struct {
	ExecutionID string                       `json:"execution_id"`
	NodeID      string                       `json:"node_id"`
	NodeType    string                       `json:"node_type"`
	Results     map[string]models.NodeResult `json:"results"`
}
