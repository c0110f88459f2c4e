package deepl

import (
	"github.com/dukex/operion-integrations/pkg/apiclient"
)

const (
	OperationTranslate       = "language.translate"
	OperationLanguagesGetAll = "language.getAll"
)

// Config is the typed configuration of a DeepL node.
type Config struct {
	Operation  string `json:"operation"   validate:"required,oneof=language.translate language.getAll"`
	UseFreeAPI bool   `json:"use_free_api"`

	Text               string `json:"text"                validate:"required_if=Operation language.translate"`
	TargetLang         string `json:"target_lang"         validate:"required_if=Operation language.translate"`
	SourceLang         string `json:"source_lang"`
	SplitSentences     string `json:"split_sentences"     validate:"omitempty,oneof=0 1 nonewlines"`
	PreserveFormatting bool   `json:"preserve_formatting"`
	Formality          string `json:"formality"           validate:"omitempty,oneof=default more less"`

	LanguageType string `json:"language_type" validate:"omitempty,oneof=source target"`
}

func (c Config) translateRequest() apiclient.Request {
	query := map[string]any{
		"text":        c.Text,
		"target_lang": c.TargetLang,
	}

	if c.SourceLang != "" {
		query["source_lang"] = c.SourceLang
	}

	if c.SplitSentences != "" {
		query["split_sentences"] = c.SplitSentences
	}

	if c.PreserveFormatting {
		query["preserve_formatting"] = "1"
	}

	if c.Formality != "" {
		query["formality"] = c.Formality
	}

	return c.target(apiclient.Request{Method: "GET", Path: "/translate", Query: query})
}

func (c Config) languagesRequest() apiclient.Request {
	query := map[string]any{}
	if c.LanguageType != "" {
		query["type"] = c.LanguageType
	}

	return c.target(apiclient.Request{Method: "GET", Path: "/languages", Query: query})
}

// target routes free-plan keys to the free API host.
func (c Config) target(req apiclient.Request) apiclient.Request {
	if c.UseFreeAPI {
		req.URI = FreeBaseURL + req.Path
	}

	return req
}
