package otelhelper

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const HTTPStatusCodeKey = "http.response.status_code"

// statusCoder is implemented by errors carrying an upstream HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// SetError marks the span as failed. Errors exposing an upstream HTTP status also
// get the status recorded as a span attribute.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	var sc statusCoder
	if errors.As(err, &sc) {
		span.SetAttributes(attribute.Int(HTTPStatusCodeKey, sc.HTTPStatus()))
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.AddEvent("error_occurred", trace.WithAttributes(
		attrs...,
	))
}
