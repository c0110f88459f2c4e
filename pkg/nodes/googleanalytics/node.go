package googleanalytics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukex/operion-integrations/pkg/apiclient"
	"github.com/dukex/operion-integrations/pkg/models"
	"github.com/dukex/operion-integrations/pkg/nodes/integration"
	"github.com/dukex/operion-integrations/pkg/template"
)

// Node reads reports, user activity and views from Google Analytics.
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
	case OperationReportGet:
		return n.getReport(ctx, cfg)
	case OperationUserActivitySearch:
		return n.searchUserActivity(ctx, cfg)
	case OperationViewGetAll:
		return n.listViews(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported operation %q", integration.ErrInvalidConfig, cfg.Operation)
	}
}

func (n *Node) getReport(ctx context.Context, cfg Config) ([]any, error) {
	req, err := cfg.reportRequest()
	if err != nil {
		return nil, err
	}

	resp, err := n.client.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	if cfg.simple() {
		return flattenReports(resp), nil
	}

	return integration.ToItems(reportsOf(resp)), nil
}

func (n *Node) searchUserActivity(ctx context.Context, cfg Config) ([]any, error) {
	req := cfg.userActivityRequest()

	if cfg.ReturnAll {
		return n.client.DrainAllByToken(ctx, req, apiclient.TokenPagination{
			ItemsField:     "sessions",
			TokenParam:     "pageToken",
			NextTokenField: "nextPageToken",
			InBody:         true,
		})
	}

	req.Body["pageSize"] = cfg.limit()

	resp, err := n.client.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	return integration.FieldItems(resp, "sessions"), nil
}

func (n *Node) listViews(ctx context.Context, cfg Config) ([]any, error) {
	req := apiclient.Request{Method: "GET", URI: ProfilesURL, Query: map[string]any{}}
	if cfg.ReturnAll {
		return n.client.DrainAll(ctx, req, apiclient.OffsetPagination{
			Limit:       ViewsPageSize,
			ItemsField:  "items",
			LimitParam:  "max-results",
			OffsetParam: "start-index",
			FirstOffset: 1,
		})
	}

	req.Query["max-results"] = cfg.limit()

	resp, err := n.client.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	return integration.FieldItems(resp, "items"), nil
}

// Validate checks a configuration without templates.
func (n *Node) Validate(config map[string]any) error {
	var cfg Config

	return integration.DecodeConfig(config, &cfg)
}
