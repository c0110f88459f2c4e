// Package template renders Go text/template expressions embedded in node
// configuration values.
package template

import (
	"fmt"
	"maps"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/dukex/operion-integrations/pkg/models"
)

const delimiter = "{{"

// NeedsTemplating reports whether input contains a template action.
func NeedsTemplating(input string) bool {
	return strings.Contains(input, delimiter)
}

// ContextData builds the data exposed to templates for an execution.
func ContextData(execCtx models.ExecutionContext) map[string]any {
	nodeResults := make(map[string]any, len(execCtx.NodeResults))
	for portID, result := range execCtx.NodeResults {
		nodeResults[portID] = result.Data
	}

	return map[string]any{
		"node_results": nodeResults,
		"variables":    execCtx.Variables,
		"vars":         execCtx.Variables,
		"trigger_data": execCtx.TriggerData,
		"metadata":     execCtx.Metadata,
		"env":          getEnvVars(),
		"execution": map[string]any{
			"id":          execCtx.ID,
			"workflow_id": execCtx.WorkflowID,
		},
	}
}

// RenderString executes templateStr against data. Strings without a template
// action are returned untouched.
func RenderString(templateStr string, data any) (string, error) {
	if !NeedsTemplating(templateStr) {
		return templateStr, nil
	}

	tmpl, err := template.
		New("config").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"now": func() string {
				return time.Now().UTC().Format(time.RFC3339)
			},
			"upper": strings.ToUpper,
			"lower": strings.ToLower,
			"trim":  strings.TrimSpace,
		}).
		Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template '%s': %w", templateStr, err)
	}

	var buf strings.Builder

	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template '%s': %w", templateStr, err)
	}

	return buf.String(), nil
}

// RenderConfig returns a copy of config with every templated string rendered
// against the execution context. Non-string values are kept as they are.
func RenderConfig(config map[string]any, execCtx models.ExecutionContext) (map[string]any, error) {
	data := ContextData(execCtx)

	rendered, err := renderValue(config, data)
	if err != nil {
		return nil, err
	}

	out, _ := rendered.(map[string]any)
	if out == nil {
		out = map[string]any{}
	}

	return out, nil
}

func renderValue(value any, data map[string]any) (any, error) {
	switch v := value.(type) {
	case string:
		return RenderString(v, data)
	case map[string]any:
		out := maps.Clone(v)
		for key, item := range v {
			rendered, err := renderValue(item, data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}

			out[key] = rendered
		}

		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			rendered, err := renderValue(item, data)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}

			out[i] = rendered
		}

		return out, nil
	case []string:
		out := make([]string, len(v))
		for i, item := range v {
			rendered, err := RenderString(item, data)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}

			out[i] = rendered
		}

		return out, nil
	default:
		return value, nil
	}
}

// getEnvVars returns environment variables as a map.
func getEnvVars() map[string]any {
	envMap := make(map[string]any)

	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if ok {
			envMap[key] = value
		}
	}

	return envMap
}
