package integration

import (
	"context"
	"log/slog"

	"github.com/dukex/operion-integrations/pkg/apiclient"
	"github.com/dukex/operion-integrations/pkg/models"
	"github.com/dukex/operion-integrations/pkg/otelhelper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/dukex/operion-integrations/pkg/nodes/integration"

// Operation performs one configured API operation and returns its items.
type Operation func(ctx context.Context) ([]any, error)

// Runner executes operations for a node, tracing and logging each run.
type Runner struct {
	base   Base
	logger *slog.Logger
	tracer trace.Tracer
}

func NewRunner(base Base, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		base:   base,
		logger: logger.With("node_id", base.NodeID, "node_type", base.NodeType),
		tracer: otel.Tracer(tracerName),
	}
}

// Run executes op and routes its outcome to the success or error port.
func (r *Runner) Run(ctx context.Context, execCtx models.ExecutionContext, operation string, op Operation) map[string]models.NodeResult {
	ctx, span := otelhelper.StartSpan(ctx, r.tracer, "node.Execute",
		attribute.String(otelhelper.NodeIDKey, r.base.NodeID),
		attribute.String(otelhelper.NodeTypeKey, r.base.NodeType),
		attribute.String(otelhelper.ExecutionIDKey, execCtx.ID),
		attribute.String("operion.node.operation", operation),
	)
	defer span.End()

	items, err := op(ctx)
	if err != nil {
		otelhelper.SetError(span, apiclient.RedactError(err))
		r.logger.ErrorContext(ctx, "Node operation failed",
			"operation", operation,
			"execution_id", execCtx.ID,
			"error", apiclient.RedactSecrets(err.Error()),
		)

		return ErrorResult(r.base.NodeID, err)
	}

	span.SetAttributes(attribute.Int(otelhelper.ItemCountKey, len(items)))
	r.logger.DebugContext(ctx, "Node operation completed",
		"operation", operation,
		"execution_id", execCtx.ID,
		"items", len(items),
	)

	return SuccessResult(r.base.NodeID, items)
}

// Fail routes err to the error port without running anything, for failures
// detected before the operation starts (templating, config decoding).
func (r *Runner) Fail(ctx context.Context, err error) map[string]models.NodeResult {
	r.logger.WarnContext(ctx, "Node configuration rejected", "error", apiclient.RedactSecrets(err.Error()))

	return ErrorResult(r.base.NodeID, err)
}
