// Package models defines the node contract integration nodes implement for the
// workflow host.
package models

import (
	"context"
	"time"
)

// Node is a configured node instance. Execute receives the results that arrived on
// its input ports and returns results keyed by output port name.
type Node interface {
	ID() string
	Type() string
	Execute(ctx context.Context, execCtx ExecutionContext, inputs map[string]NodeResult) (map[string]NodeResult, error)
	GetInputPorts() []InputPort
	GetOutputPorts() []OutputPort
	InputRequirements() InputRequirements
	Validate(config map[string]any) error
}

// NodeResult represents the result of a node execution.
type NodeResult struct {
	NodeID    string         `json:"node_id"`
	Data      map[string]any `json:"data"`
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Error     string         `json:"error,omitempty"`
}

// NodeStatus defines the possible states of a node execution.
type NodeStatus string

const (
	NodeStatusSuccess NodeStatus = "success"
	NodeStatusError   NodeStatus = "error"
)
