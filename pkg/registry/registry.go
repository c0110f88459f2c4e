// Package registry keeps the node factories available to the host and creates
// validated node instances from them.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/dukex/operion-integrations/pkg/models"
	"github.com/dukex/operion-integrations/pkg/protocol"
	"github.com/dukex/operion-integrations/pkg/template"
	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrNodeTypeNotRegistered = errors.New("node type not registered")
	ErrInvalidNodeConfig     = errors.New("invalid node configuration")
)

type Registry struct {
	logger        *slog.Logger
	mu            sync.RWMutex
	nodeFactories map[string]protocol.NodeFactory
}

func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}

	return &Registry{
		logger:        log,
		nodeFactories: make(map[string]protocol.NodeFactory),
	}
}

// RegisterNode adds a factory, replacing any factory with the same ID.
func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nodeFactories[factory.ID()] = factory
	r.logger.Debug("Registered node factory", "node_type", factory.ID())
}

// GetAvailableNodes returns the registered factories sorted by ID.
func (r *Registry) GetAvailableNodes() []protocol.NodeFactory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factories := make([]protocol.NodeFactory, 0, len(r.nodeFactories))
	for _, factory := range r.nodeFactories {
		factories = append(factories, factory)
	}

	sort.Slice(factories, func(i, j int) bool {
		return factories[i].ID() < factories[j].ID()
	})

	return factories
}

func (r *Registry) GetNodeFactory(nodeType string) (protocol.NodeFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.nodeFactories[nodeType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeTypeNotRegistered, nodeType)
	}

	return factory, nil
}

// CreateNode validates config against the factory schema and builds the node.
// The check runs on the raw config. Templates always render to strings, so a
// template in a non-string field such as "limit" is rejected here.
func (r *Registry) CreateNode(ctx context.Context, nodeType, id string, config map[string]any) (models.Node, error) {
	factory, err := r.GetNodeFactory(nodeType)
	if err != nil {
		return nil, err
	}

	if config == nil {
		config = map[string]any{}
	}

	err = validateJSONSchema(config, factory.Schema())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNodeConfig, err)
	}

	node, err := factory.Create(ctx, id, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s node: %w", nodeType, err)
	}

	return node, nil
}

// ValidateNode checks config the way an execution would see it: the raw config
// against the schema, then the config rendered against execCtx against the
// node's own rules. No request is sent.
func (r *Registry) ValidateNode(ctx context.Context, nodeType string, config map[string]any, execCtx models.ExecutionContext) error {
	if config == nil {
		config = map[string]any{}
	}

	node, err := r.CreateNode(ctx, nodeType, nodeType+"-validate", config)
	if err != nil {
		return err
	}

	rendered, err := template.RenderConfig(config, execCtx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNodeConfig, err)
	}

	err = node.Validate(rendered)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNodeConfig, err)
	}

	return nil
}

func IsNodeTypeNotRegistered(err error) bool {
	return errors.Is(err, ErrNodeTypeNotRegistered)
}

func IsInvalidNodeConfig(err error) bool {
	return errors.Is(err, ErrInvalidNodeConfig)
}

// validateJSONSchema validates node configuration against a JSON schema.
func validateJSONSchema(config map[string]any, schema map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	dataLoader := gojsonschema.NewGoLoader(config)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, resultErr := range result.Errors() {
			message := resultErr.String()
			if isTemplatedTypeError(resultErr) {
				message += " (templates render to strings)"
			}

			messages = append(messages, message)
		}

		return fmt.Errorf("JSON schema validation failed: %s", strings.Join(messages, "; "))
	}

	return nil
}

func isTemplatedTypeError(resultErr gojsonschema.ResultError) bool {
	if resultErr.Type() != "invalid_type" {
		return false
	}

	value, ok := resultErr.Value().(string)

	return ok && strings.Contains(value, "{{")
}
