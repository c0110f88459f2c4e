// Package protocol defines the contract between the node registry and node
// implementations.
package protocol

import (
	"context"

	"github.com/dukex/operion-integrations/pkg/models"
)

// NodeFactory creates node instances and describes the node type.
type NodeFactory interface {
	// Create builds a node from an already schema-validated configuration.
	Create(ctx context.Context, id string, config map[string]any) (models.Node, error)

	// ID is the node type, e.g. "deepl".
	ID() string

	Name() string

	Description() string

	// Schema is the JSON schema of the node configuration.
	Schema() map[string]any
}
