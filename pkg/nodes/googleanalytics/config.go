package googleanalytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/dukex/operion-integrations/pkg/apiclient"
	"github.com/dukex/operion-integrations/pkg/nodes/integration"
)

const (
	OperationReportGet          = "report.get"
	OperationUserActivitySearch = "userActivity.search"
	OperationViewGetAll         = "view.getAll"
)

const reportDateLayout = "2006-01-02"

// Config is the typed configuration of a Google Analytics node.
type Config struct {
	Operation string `json:"operation" validate:"required,oneof=report.get userActivity.search view.getAll"`

	ViewID    string `json:"view_id"    validate:"required_if=Operation report.get,required_if=Operation userActivity.search"`
	ReturnAll bool   `json:"return_all"`
	Limit     int    `json:"limit"      validate:"omitempty,min=1,max=100000"`

	// report.get
	Simple            *bool       `json:"simple"`
	UseResourceQuotas bool        `json:"use_resource_quotas"`
	DateRange         *DateRange  `json:"date_range"`
	Metrics           []Metric    `json:"metrics"    validate:"omitempty,dive"`
	Dimensions        []Dimension `json:"dimensions" validate:"omitempty,dive"`
	IncludeEmptyRows  bool        `json:"include_empty_rows"`
	HideTotals        bool        `json:"hide_totals"`
	HideValueRanges   bool        `json:"hide_value_ranges"`

	// userActivity.search
	UserID        string   `json:"user_id"        validate:"required_if=Operation userActivity.search"`
	ActivityTypes []string `json:"activity_types" validate:"omitempty,dive,oneof=PAGEVIEW SCREENVIEW GOAL ECOMMERCE EVENT"`
}

type DateRange struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date"   validate:"required"`
}

type Metric struct {
	Expression     string `json:"expression"      validate:"required"`
	Alias          string `json:"alias"`
	FormattingType string `json:"formatting_type" validate:"omitempty,oneof=INTEGER FLOAT CURRENCY PERCENT TIME"`
}

type Dimension struct {
	Name             string   `json:"name" validate:"required"`
	HistogramBuckets []string `json:"histogram_buckets"`
}

func (c Config) simple() bool {
	return c.Simple == nil || *c.Simple
}

func (c Config) limit() int {
	if c.Limit <= 0 {
		return apiclient.DefaultPageSize
	}

	return c.Limit
}

// reportRequest builds the batchGet call for a single report.
func (c Config) reportRequest() (apiclient.Request, error) {
	report := map[string]any{"viewId": c.ViewID}

	if c.DateRange != nil {
		start, err := normalizeDate(c.DateRange.StartDate)
		if err != nil {
			return apiclient.Request{}, err
		}

		end, err := normalizeDate(c.DateRange.EndDate)
		if err != nil {
			return apiclient.Request{}, err
		}

		report["dateRanges"] = []any{map[string]any{"startDate": start, "endDate": end}}
	}

	if len(c.Metrics) > 0 {
		metrics := make([]any, 0, len(c.Metrics))
		for _, metric := range c.Metrics {
			entry := map[string]any{"expression": metric.Expression}
			if metric.Alias != "" {
				entry["alias"] = metric.Alias
			}

			if metric.FormattingType != "" {
				entry["formattingType"] = metric.FormattingType
			}

			metrics = append(metrics, entry)
		}

		report["metrics"] = metrics
	}

	if len(c.Dimensions) > 0 {
		dimensions := make([]any, 0, len(c.Dimensions))
		for _, dimension := range c.Dimensions {
			entry := map[string]any{"name": dimension.Name}
			if len(dimension.HistogramBuckets) > 0 {
				entry["histogramBuckets"] = dimension.HistogramBuckets
			}

			dimensions = append(dimensions, entry)
		}

		report["dimensions"] = dimensions
	}

	if c.IncludeEmptyRows {
		report["includeEmptyRows"] = true
	}

	if c.HideTotals {
		report["hideTotals"] = true
	}

	if c.HideValueRanges {
		report["hideValueRanges"] = true
	}

	query := map[string]any{}
	if c.UseResourceQuotas {
		query["useResourceQuotas"] = true
	}

	return apiclient.Request{
		Method: "POST",
		Path:   "/v4/reports:batchGet",
		Query:  query,
		Body:   map[string]any{"reportRequests": []any{report}},
	}, nil
}

func (c Config) userActivityRequest() apiclient.Request {
	body := map[string]any{
		"viewId": c.ViewID,
		"user":   map[string]any{"userId": c.UserID},
	}

	if len(c.ActivityTypes) > 0 {
		body["activityTypes"] = c.ActivityTypes
	}

	return apiclient.Request{Method: "POST", Path: "/v4/userActivity:search", Body: body}
}

// normalizeDate accepts RFC 3339 timestamps or plain dates and returns the UTC
// calendar date.
func normalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", reportDateLayout} {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC().Format(reportDateLayout), nil
		}
	}

	return "", fmt.Errorf("%w: invalid date %q", integration.ErrInvalidConfig, value)
}
