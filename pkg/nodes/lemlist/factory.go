package lemlist

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
	return "Lemlist"
}

func (f *Factory) Description() string {
	return "Manages Lemlist campaigns, leads, activities, team and unsubscribes"
}

func requiredFor(operation string, fields ...string) map[string]any {
	return map[string]any{
		"if": map[string]any{
			"properties": map[string]any{"operation": map[string]any{"const": operation}},
		},
		"then": map[string]any{"required": fields},
	}
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type":        "string",
				"description": "Operation to perform",
				"enum":        Operations,
			},
			"return_all": map[string]any{
				"type":        "boolean",
				"description": "Fetch every page of the collection",
				"default":     false,
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of items when return_all is false",
				"default":     apiclient.DefaultPageSize,
				"minimum":     1,
				"maximum":     100,
			},
			"type": map[string]any{
				"type":        "string",
				"description": "Activity type filter",
				"enum":        ActivityTypes,
			},
			"campaign_id": map[string]any{
				"type":        "string",
				"description": "Campaign ID. Supports templating",
			},
			"email": map[string]any{
				"type":        "string",
				"description": "Lead email. Supports templating",
				"examples":    []string{"jane@example.com", "{{ .trigger_data.webhook.email }}"},
			},
			"deduplicate": map[string]any{
				"type":        "boolean",
				"description": "Do not add the lead if it exists in another campaign",
				"default":     false,
			},
			"lead": map[string]any{
				"type":        "object",
				"description": "Lead details sent on lead.create",
				"properties": map[string]any{
					"firstName":   map[string]any{"type": "string"},
					"lastName":    map[string]any{"type": "string"},
					"companyName": map[string]any{"type": "string"},
					"icebreaker":  map[string]any{"type": "string"},
					"phone":       map[string]any{"type": "string"},
					"picture":     map[string]any{"type": "string"},
					"linkedinUrl": map[string]any{"type": "string"},
				},
				"additionalProperties": false,
			},
		},
		"required": []string{"operation"},
		"allOf": []any{
			requiredFor(OperationLeadCreate, "campaign_id", "email"),
			requiredFor(OperationLeadGet, "email"),
			requiredFor(OperationLeadDelete, "campaign_id", "email"),
			requiredFor(OperationLeadUnsubscribe, "campaign_id", "email"),
			requiredFor(OperationUnsubscribeAdd, "email"),
			requiredFor(OperationUnsubscribeDelete, "email"),
		},
		"examples": []map[string]any{
			{"operation": OperationActivityGetAll, "return_all": true, "type": "emailsOpened"},
			{"operation": OperationLeadCreate, "campaign_id": "cam_123", "email": "jane@example.com", "lead": map[string]any{"firstName": "Jane"}},
		},
	}
}
