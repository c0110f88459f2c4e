package apiclient

import (
	"context"
	"fmt"

	"github.com/dukex/operion-integrations/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultPageSize = 100

// OffsetPagination drives DrainAll.
type OffsetPagination struct {
	// Limit is the fixed page size. Zero means DefaultPageSize.
	Limit int
	// ItemsField names the envelope key holding the page items. Empty means the
	// response itself is the item array.
	ItemsField string
	// InBody sends limit and offset in the request body instead of the query.
	InBody bool
	// MaxPages caps the number of requests. Zero means unbounded: the drain only
	// stops on an empty page.
	MaxPages int
	// LimitParam and OffsetParam rename the paging fields. Empty means "limit"
	// and "offset".
	LimitParam  string
	OffsetParam string
	// FirstOffset is the offset of the first item, 1 for APIs with a 1-based
	// start index.
	FirstOffset int
}

func (p OffsetPagination) params() (string, string) {
	limitParam, offsetParam := p.LimitParam, p.OffsetParam
	if limitParam == "" {
		limitParam = "limit"
	}

	if offsetParam == "" {
		offsetParam = "offset"
	}

	return limitParam, offsetParam
}

// TokenPagination drives DrainAllByToken.
type TokenPagination struct {
	ItemsField string
	// TokenParam is the request field carrying the page token, e.g. "pageToken".
	TokenParam string
	// NextTokenField is the response field holding the next token, e.g. "nextPageToken".
	NextTokenField string
	InBody         bool
	MaxPages       int
}

// DrainAll fetches every page of an offset/limit collection, one request at a
// time, until a page comes back empty. Items keep server order. If any page fails
// the accumulated items are dropped and only the error is returned.
func (c *Client) DrainAll(ctx context.Context, req Request, pagination OffsetPagination) ([]any, error) {
	limit := pagination.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "apiclient.DrainAll",
		attribute.String(otelhelper.ServiceKey, c.config.Name),
		attribute.Int("operion.pagination.limit", limit),
	)
	defer span.End()

	limitParam, offsetParam := pagination.params()

	items := make([]any, 0)
	offset := pagination.FirstOffset
	pages := 0

	for {
		if pagination.MaxPages > 0 && pages >= pagination.MaxPages {
			err := fmt.Errorf("%w: %d pages", ErrPageLimitExceeded, pagination.MaxPages)
			otelhelper.SetError(span, RedactError(err))

			return nil, err
		}

		pageReq := req.clone()
		params := pageReq.Query
		if pagination.InBody {
			params = pageReq.Body
		}

		params[limitParam] = limit
		params[offsetParam] = offset

		resp, err := c.Send(ctx, pageReq)
		if err != nil {
			otelhelper.SetError(span, RedactError(err), attribute.Int(otelhelper.PageOffsetKey, offset))

			return nil, err
		}

		page, err := extractItems(resp, pagination.ItemsField)
		if err != nil {
			otelhelper.SetError(span, RedactError(err))

			return nil, err
		}

		pages++

		c.logger.DebugContext(ctx, "Fetched page", "offset", offset, "items", len(page))

		items = append(items, page...)
		offset += limit

		if len(page) == 0 {
			break
		}
	}

	span.SetAttributes(
		attribute.Int(otelhelper.PageCountKey, pages),
		attribute.Int(otelhelper.ItemCountKey, len(items)),
	)

	return items, nil
}

// DrainAllByToken fetches every page of a cursor-token collection until the
// response carries no next token. Same ordering and failure rules as DrainAll.
func (c *Client) DrainAllByToken(ctx context.Context, req Request, pagination TokenPagination) ([]any, error) {
	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "apiclient.DrainAllByToken",
		attribute.String(otelhelper.ServiceKey, c.config.Name),
	)
	defer span.End()

	items := make([]any, 0)
	token := ""
	pages := 0

	for {
		if pagination.MaxPages > 0 && pages >= pagination.MaxPages {
			err := fmt.Errorf("%w: %d pages", ErrPageLimitExceeded, pagination.MaxPages)
			otelhelper.SetError(span, RedactError(err))

			return nil, err
		}

		pageReq := req.clone()
		if token != "" {
			if pagination.InBody {
				pageReq.Body[pagination.TokenParam] = token
			} else {
				pageReq.Query[pagination.TokenParam] = token
			}
		}

		resp, err := c.Send(ctx, pageReq)
		if err != nil {
			otelhelper.SetError(span, RedactError(err))

			return nil, err
		}

		page, err := extractItems(resp, pagination.ItemsField)
		if err != nil {
			otelhelper.SetError(span, RedactError(err))

			return nil, err
		}

		pages++

		items = append(items, page...)

		token = nextToken(resp, pagination.NextTokenField)
		if token == "" {
			break
		}
	}

	span.SetAttributes(
		attribute.Int(otelhelper.PageCountKey, pages),
		attribute.Int(otelhelper.ItemCountKey, len(items)),
	)

	return items, nil
}

// extractItems reads one page. A missing envelope field or a null payload is an
// empty page.
func extractItems(resp any, field string) ([]any, error) {
	if resp == nil {
		return nil, nil
	}

	value := resp

	if field != "" {
		envelope, ok := resp.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: expected object with %q, got %T", ErrUnexpectedPayload, field, resp)
		}

		value, ok = envelope[field]
		if !ok || value == nil {
			return nil, nil
		}
	}

	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected array, got %T", ErrUnexpectedPayload, value)
	}

	return items, nil
}

func nextToken(resp any, field string) string {
	envelope, ok := resp.(map[string]any)
	if !ok {
		return ""
	}

	token, _ := envelope[field].(string)

	return token
}
