package models

import "time"

// InputRequirements defines how the host collects inputs before running a node.
type InputRequirements struct {
	RequiredPorts []string       `json:"required_ports"`
	OptionalPorts []string       `json:"optional_ports"`
	WaitMode      InputWaitMode  `json:"wait_mode"`
	Timeout       *time.Duration `json:"timeout,omitempty"`
}

// InputWaitMode defines different strategies for waiting for inputs.
type InputWaitMode string

// WaitModeAll waits for all required ports to have inputs before executing.
const WaitModeAll InputWaitMode = "all"
