package googleanalytics

import (
	"strings"
)

// flattenReports turns the first report into one item per row, keyed by
// dimension name, with the first date range's metric values joined under
// "total".
func flattenReports(resp any) []any {
	reports := reportsOf(resp)
	if len(reports) == 0 {
		return []any{}
	}

	report, _ := reports[0].(map[string]any)
	header, _ := report["columnHeader"].(map[string]any)
	dimensions, _ := header["dimensions"].([]any)
	data, _ := report["data"].(map[string]any)
	rows, _ := data["rows"].([]any)

	items := make([]any, 0, len(rows))

	for _, rawRow := range rows {
		row, _ := rawRow.(map[string]any)
		values, _ := row["dimensions"].([]any)

		item := map[string]any{}

		for i, dimension := range dimensions {
			name, _ := dimension.(string)
			if i < len(values) {
				item[name] = values[i]
			}
		}

		item["total"] = joinMetricValues(row["metrics"])
		items = append(items, item)
	}

	return items
}

func joinMetricValues(raw any) string {
	metrics, _ := raw.([]any)
	if len(metrics) == 0 {
		return ""
	}

	first, _ := metrics[0].(map[string]any)
	values, _ := first["values"].([]any)

	parts := make([]string, 0, len(values))
	for _, value := range values {
		text, _ := value.(string)
		parts = append(parts, text)
	}

	return strings.Join(parts, ",")
}

func reportsOf(resp any) []any {
	envelope, _ := resp.(map[string]any)
	reports, _ := envelope["reports"].([]any)

	return reports
}
