package models

// ExecutionContext carries the data a node can reference while it runs. NodeResults
// is keyed by "{node_id}:{port_name}".
type ExecutionContext struct {
	ID          string                `json:"id"`
	WorkflowID  string                `json:"workflow_id,omitempty"`
	NodeResults map[string]NodeResult `json:"node_results,omitempty"`
	TriggerData map[string]any        `json:"trigger_data,omitempty"`
	Variables   map[string]any        `json:"variables,omitempty"`
	Metadata    map[string]any        `json:"metadata,omitempty"`
}

// NewExecutionContext returns an execution context with initialized maps.
func NewExecutionContext(id string, variables map[string]any) ExecutionContext {
	if variables == nil {
		variables = map[string]any{}
	}

	return ExecutionContext{
		ID:          id,
		NodeResults: map[string]NodeResult{},
		TriggerData: map[string]any{},
		Variables:   variables,
		Metadata:    map[string]any{},
	}
}
