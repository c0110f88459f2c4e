package deepl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukex/operion-integrations/pkg/apiclient"
	"github.com/dukex/operion-integrations/pkg/models"
	"github.com/dukex/operion-integrations/pkg/nodes/integration"
	"github.com/dukex/operion-integrations/pkg/template"
)

// Node translates text and lists languages through the DeepL API.
type Node struct {
	integration.Base

	config map[string]any
	client *apiclient.Client
	runner *integration.Runner
}

func NewNode(id string, config map[string]any, client *apiclient.Client, logger *slog.Logger) *Node {
	base := integration.Base{NodeID: id, NodeType: NodeType}

	return &Node{
		Base:   base,
		config: config,
		client: client,
		runner: integration.NewRunner(base, logger),
	}
}

func (n *Node) Execute(ctx context.Context, execCtx models.ExecutionContext, _ map[string]models.NodeResult) (map[string]models.NodeResult, error) {
	rendered, err := template.RenderConfig(n.config, execCtx)
	if err != nil {
		return n.runner.Fail(ctx, fmt.Errorf("%w: %w", integration.ErrInvalidConfig, err)), nil
	}

	var cfg Config

	err = integration.DecodeConfig(rendered, &cfg)
	if err != nil {
		return n.runner.Fail(ctx, err), nil
	}

	return n.runner.Run(ctx, execCtx, cfg.Operation, func(ctx context.Context) ([]any, error) {
		return n.run(ctx, cfg)
	}), nil
}

func (n *Node) run(ctx context.Context, cfg Config) ([]any, error) {
	switch cfg.Operation {
	case OperationTranslate:
		resp, err := n.client.Send(ctx, cfg.translateRequest())
		if err != nil {
			return nil, err
		}

		return integration.FieldItems(resp, "translations"), nil
	case OperationLanguagesGetAll:
		resp, err := n.client.Send(ctx, cfg.languagesRequest())
		if err != nil {
			return nil, err
		}

		return integration.ToItems(resp), nil
	default:
		return nil, fmt.Errorf("%w: unsupported operation %q", integration.ErrInvalidConfig, cfg.Operation)
	}
}

// Validate checks a configuration without templates.
func (n *Node) Validate(config map[string]any) error {
	var cfg Config

	return integration.DecodeConfig(config, &cfg)
}
