package lemlist

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/dukex/operion-integrations/pkg/apiclient"
	"github.com/dukex/operion-integrations/pkg/models"
	"github.com/dukex/operion-integrations/pkg/nodes/integration"
	"github.com/dukex/operion-integrations/pkg/template"
)

// Node manages Lemlist campaigns, leads, activities and unsubscribes.
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
	case OperationActivityGetAll:
		return n.list(ctx, cfg, "/activities", cfg.activityQuery())
	case OperationCampaignGetAll:
		return n.list(ctx, cfg, "/campaigns", nil)
	case OperationUnsubscribeGetAll:
		return n.list(ctx, cfg, "/unsubscribes", nil)
	case OperationLeadCreate:
		query := map[string]any{}
		if cfg.Deduplicate {
			query["deduplicate"] = true
		}

		return n.single(ctx, apiclient.Request{Method: "POST", Path: cfg.leadPath(), Query: query, Body: cfg.Lead.body()})
	case OperationLeadGet:
		return n.single(ctx, apiclient.Request{Method: "GET", Path: "/leads/" + url.PathEscape(cfg.Email)})
	case OperationLeadDelete:
		return n.single(ctx, apiclient.Request{Method: "DELETE", Path: cfg.leadPath(), Query: map[string]any{"action": "remove"}})
	case OperationLeadUnsubscribe:
		return n.single(ctx, apiclient.Request{Method: "DELETE", Path: cfg.leadPath()})
	case OperationTeamGet:
		return n.single(ctx, apiclient.Request{Method: "GET", Path: "/team"})
	case OperationUnsubscribeAdd:
		return n.single(ctx, apiclient.Request{Method: "POST", Path: "/unsubscribes/" + url.PathEscape(cfg.Email)})
	case OperationUnsubscribeDelete:
		return n.single(ctx, apiclient.Request{Method: "DELETE", Path: "/unsubscribes/" + url.PathEscape(cfg.Email)})
	default:
		return nil, fmt.Errorf("%w: unsupported operation %q", integration.ErrInvalidConfig, cfg.Operation)
	}
}

// list drains the collection when return_all is set, otherwise fetches one page
// of at most limit items.
func (n *Node) list(ctx context.Context, cfg Config, path string, query map[string]any) ([]any, error) {
	req := apiclient.Request{Method: "GET", Path: path, Query: query}

	if cfg.ReturnAll {
		return n.client.DrainAll(ctx, req, apiclient.OffsetPagination{Limit: apiclient.DefaultPageSize})
	}

	if req.Query == nil {
		req.Query = map[string]any{}
	}

	req.Query["limit"] = cfg.limit()

	resp, err := n.client.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	return integration.ToItems(resp), nil
}

func (n *Node) single(ctx context.Context, req apiclient.Request) ([]any, error) {
	resp, err := n.client.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	return integration.ToItems(resp), nil
}

// Validate checks a configuration without templates.
func (n *Node) Validate(config map[string]any) error {
	var cfg Config

	return integration.DecodeConfig(config, &cfg)
}
