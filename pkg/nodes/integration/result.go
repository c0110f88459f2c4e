package integration

import (
	"errors"
	"net/http"
	"time"

	"github.com/dukex/operion-integrations/pkg/apiclient"
	"github.com/dukex/operion-integrations/pkg/models"
	"github.com/moogar0880/problems"
)

// SuccessResult puts items on the success port.
func SuccessResult(nodeID string, items []any) map[string]models.NodeResult {
	if items == nil {
		items = []any{}
	}

	return map[string]models.NodeResult{
		OutputPortSuccess: {
			NodeID: nodeID,
			Data: map[string]any{
				"items": items,
				"count": len(items),
			},
			Status:    string(models.NodeStatusSuccess),
			Timestamp: time.Now().UTC(),
		},
	}
}

// ErrorResult puts err on the error port together with an RFC 7807 problem.
// Credentials carried in request URLs are masked.
func ErrorResult(nodeID string, err error) map[string]models.NodeResult {
	problem := Problem(err).WithInstance(nodeID)
	message := apiclient.RedactSecrets(err.Error())

	data := map[string]any{
		"error":   message,
		"success": false,
		"problem": problem,
	}

	if status := apiclient.StatusCode(err); status != 0 {
		data["status_code"] = status
	}

	return map[string]models.NodeResult{
		OutputPortError: {
			NodeID:    nodeID,
			Data:      data,
			Status:    string(models.NodeStatusError),
			Timestamp: time.Now().UTC(),
			Error:     message,
		},
	}
}

// Problem classifies a node failure.
func Problem(err error) *problems.Problem {
	detail := apiclient.RedactSecrets(err.Error())

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return problems.NewStatusProblem(http.StatusBadRequest).
			WithType("invalid_config").
			WithDetail(detail)
	case apiclient.IsMissingCredential(err):
		return problems.NewStatusProblem(http.StatusUnauthorized).
			WithType("missing_credential").
			WithDetail(detail)
	}

	if status := apiclient.StatusCode(err); status != 0 {
		return problems.NewStatusProblem(status).
			WithType("api_error").
			WithDetail(detail)
	}

	return problems.NewStatusProblem(http.StatusBadGateway).
		WithType("upstream_error").
		WithDetail(detail)
}

// ToItems turns a decoded response into node items: arrays are spread, objects
// become a single item and an empty response yields none.
func ToItems(resp any) []any {
	switch v := resp.(type) {
	case nil:
		return []any{}
	case []any:
		return v
	default:
		return []any{v}
	}
}

// FieldItems reads the array stored under field of an object response.
func FieldItems(resp any, field string) []any {
	envelope, ok := resp.(map[string]any)
	if !ok {
		return []any{}
	}

	return ToItems(envelope[field])
}
