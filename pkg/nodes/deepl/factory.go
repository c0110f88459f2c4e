package deepl

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
	return "DeepL"
}

func (f *Factory) Description() string {
	return "Translates text and lists supported languages with the DeepL API"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type":        "string",
				"description": "Operation to perform",
				"enum":        []string{OperationTranslate, OperationLanguagesGetAll},
			},
			"use_free_api": map[string]any{
				"type":        "boolean",
				"description": "Send requests to the DeepL API Free host",
				"default":     false,
			},
			"text": map[string]any{
				"type":        "string",
				"description": "Text to translate. Supports templating",
				"examples":    []string{"Hello world", "{{ index .node_results \"fetch:success\" \"body\" }}"},
			},
			"target_lang": map[string]any{
				"type":        "string",
				"description": "Language code to translate into, e.g. DE or EN-GB",
			},
			"source_lang": map[string]any{
				"type":        "string",
				"description": "Language code of the text. Detected when empty",
			},
			"split_sentences": map[string]any{
				"type":        "string",
				"description": "Whether the text is split into sentences",
				"enum":        []string{"0", "1", "nonewlines"},
				"default":     "1",
			},
			"preserve_formatting": map[string]any{
				"type":        "boolean",
				"description": "Keep the original formatting",
				"default":     false,
			},
			"formality": map[string]any{
				"type":        "string",
				"description": "Formality of the translation",
				"enum":        []string{"default", "more", "less"},
			},
			"language_type": map[string]any{
				"type":        "string",
				"description": "List source or target languages",
				"enum":        []string{"source", "target"},
			},
		},
		"required": []string{"operation"},
		"allOf": []any{
			map[string]any{
				"if": map[string]any{
					"properties": map[string]any{"operation": map[string]any{"const": OperationTranslate}},
				},
				"then": map[string]any{"required": []string{"text", "target_lang"}},
			},
		},
		"examples": []map[string]any{
			{"operation": OperationTranslate, "text": "Hello", "target_lang": "DE"},
			{"operation": OperationLanguagesGetAll, "language_type": "target"},
		},
	}
}
