package subst

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider; spans are no-ops until the
// application installs one with otel.SetTracerProvider.
var tracer = otel.Tracer(TracerName)

// startExecuteSpan starts a span for one template execution.
func startExecuteSpan(ctx context.Context, templateName string, sourceLength int) (context.Context, trace.Span) {
	return tracer.Start(ctx, SpanNameExecute,
		trace.WithAttributes(
			attribute.String(SpanAttrTemplateName, templateName),
			attribute.Int(SpanAttrSourceLength, sourceLength),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// endSpan completes a span, recording err if non-nil.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
