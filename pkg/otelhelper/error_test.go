package otelhelper

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := StartSpan(context.Background(), provider.Tracer("test"), "apiclient.Send",
		attribute.String(ServiceKey, "DeepL"),
	)
	SetError(span, errors.New("DeepL error response [403]: Invalid key"), attribute.Int("http.status_code", 403))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "DeepL error response [403]: Invalid key", spans[0].Status().Description)
	assert.Contains(t, spans[0].Attributes(), attribute.String(ServiceKey, "DeepL"))

	events := spans[0].Events()
	require.NotEmpty(t, events)
	assert.Equal(t, "error_occurred", events[len(events)-1].Name)
}

type statusError struct{ status int }

func (e *statusError) Error() string   { return "upstream failed" }
func (e *statusError) HTTPStatus() int { return e.status }

func TestSetError_RecordsHTTPStatus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := StartSpan(context.Background(), provider.Tracer("test"), "apiclient.Send")
	SetError(span, fmt.Errorf("wrapped: %w", &statusError{status: 429}))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Attributes(), attribute.Int(HTTPStatusCodeKey, 429))
}
