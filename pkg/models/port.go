package models

// Port is a named connection point on a node.
type Port struct {
	ID          string         `json:"id"` // "{nodeID}:{portName}"
	NodeID      string         `json:"node_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema,omitempty"`
}

type InputPort struct {
	Port
}

type OutputPort struct {
	Port
}

// PortDirection represents the direction of data flow for a port.
type PortDirection string

const (
	PortDirectionInput  PortDirection = "input"
	PortDirectionOutput PortDirection = "output"
)

func (p InputPort) GetDirection() PortDirection {
	return PortDirectionInput
}

func (p OutputPort) GetDirection() PortDirection {
	return PortDirectionOutput
}

// MakePortID creates a port ID from node ID and port name.
func MakePortID(nodeID, portName string) string {
	return nodeID + ":" + portName
}

// NewInputPort builds an input port owned by nodeID.
func NewInputPort(nodeID, name, description string) InputPort {
	return InputPort{Port: Port{
		ID:          MakePortID(nodeID, name),
		NodeID:      nodeID,
		Name:        name,
		Description: description,
	}}
}

// NewOutputPort builds an output port owned by nodeID.
func NewOutputPort(nodeID, name, description string, schema map[string]any) OutputPort {
	return OutputPort{Port: Port{
		ID:          MakePortID(nodeID, name),
		NodeID:      nodeID,
		Name:        name,
		Description: description,
		Schema:      schema,
	}}
}
