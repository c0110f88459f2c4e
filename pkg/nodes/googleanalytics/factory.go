package googleanalytics

import (
	"context"
	"log/slog"

	"github.com/dukex/operion-integrations/pkg/apiclient"
	"github.com/dukex/operion-integrations/pkg/credentials"
	"github.com/dukex/operion-integrations/pkg/models"
	"github.com/dukex/operion-integrations/pkg/protocol"
)

type Factory struct {
	client *apiclient.Client
	logger *slog.Logger
}

func NewFactory(provider credentials.Provider, transport apiclient.Transport, logger *slog.Logger, opts ...apiclient.Option) protocol.NodeFactory {
	return NewFactoryWithClient(apiclient.New(ClientConfig(), provider, transport, opts...), logger)
}

func NewFactoryWithClient(client *apiclient.Client, logger *slog.Logger) *Factory {
	return &Factory{client: client, logger: logger}
}

func (f *Factory) Create(_ context.Context, id string, config map[string]any) (models.Node, error) {
	return NewNode(id, config, f.client, f.logger), nil
}

func (f *Factory) ID() string {
	return NodeType
}

func (f *Factory) Name() string {
	return "Google Analytics"
}

func (f *Factory) Description() string {
	return "Reads reports, user activity and views from Google Analytics"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type":        "string",
				"description": "Operation to perform",
				"enum":        []string{OperationReportGet, OperationUserActivitySearch, OperationViewGetAll},
			},
			"view_id": map[string]any{
				"type":        "string",
				"description": "Analytics view ID. Supports templating",
			},
			"return_all": map[string]any{
				"type":    "boolean",
				"default": false,
			},
			"limit": map[string]any{
				"type":    "integer",
				"default": apiclient.DefaultPageSize,
				"minimum": 1,
			},
			"simple": map[string]any{
				"type":        "boolean",
				"description": "Flatten report rows into dimension/total items",
				"default":     true,
			},
			"use_resource_quotas": map[string]any{"type": "boolean", "default": false},
			"date_range": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"start_date": map[string]any{"type": "string", "examples": []string{"2024-01-01", "2024-01-01T00:00:00Z"}},
					"end_date":   map[string]any{"type": "string"},
				},
				"required": []string{"start_date", "end_date"},
			},
			"metrics": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"expression":      map[string]any{"type": "string", "examples": []string{"ga:users"}},
						"alias":           map[string]any{"type": "string"},
						"formatting_type": map[string]any{"type": "string", "enum": []string{"INTEGER", "FLOAT", "CURRENCY", "PERCENT", "TIME"}},
					},
					"required": []string{"expression"},
				},
			},
			"dimensions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":              map[string]any{"type": "string", "examples": []string{"ga:country"}},
						"histogram_buckets": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
					"required": []string{"name"},
				},
			},
			"include_empty_rows": map[string]any{"type": "boolean", "default": false},
			"hide_totals":        map[string]any{"type": "boolean", "default": false},
			"hide_value_ranges":  map[string]any{"type": "boolean", "default": false},
			"user_id": map[string]any{
				"type":        "string",
				"description": "Client or user ID whose activity is searched",
			},
			"activity_types": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
					"enum": []string{"PAGEVIEW", "SCREENVIEW", "GOAL", "ECOMMERCE", "EVENT"},
				},
			},
		},
		"required": []string{"operation"},
		"allOf": []any{
			map[string]any{
				"if":   map[string]any{"properties": map[string]any{"operation": map[string]any{"const": OperationReportGet}}},
				"then": map[string]any{"required": []string{"view_id"}},
			},
			map[string]any{
				"if":   map[string]any{"properties": map[string]any{"operation": map[string]any{"const": OperationUserActivitySearch}}},
				"then": map[string]any{"required": []string{"view_id", "user_id"}},
			},
		},
		"examples": []map[string]any{
			{
				"operation":  OperationReportGet,
				"view_id":    "123456",
				"date_range": map[string]any{"start_date": "2024-01-01", "end_date": "2024-01-31"},
				"metrics":    []map[string]any{{"expression": "ga:users"}},
				"dimensions": []map[string]any{{"name": "ga:country"}},
			},
			{"operation": OperationUserActivitySearch, "view_id": "123456", "user_id": "42.1", "return_all": true},
		},
	}
}
