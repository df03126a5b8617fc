package subst

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer installs an in-memory exporter and points the package
// tracer at it for the duration of the test.
func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer(TracerName)

	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(previous)
		tracer = otel.Tracer(TracerName)
	})
	return exporter
}

func spanAttrs(span tracetest.SpanStub) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value, len(span.Attributes))
	for _, kv := range span.Attributes {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestTracing_Execute(t *testing.T) {
	exporter := setupTestTracer(t)
	engine := MustNew()

	_, err := engine.Execute(context.Background(), testIntroSource, testIntroParams())
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]

	assert.Equal(t, SpanNameExecute, span.Name)
	assert.Equal(t, codes.Ok, span.Status.Code)

	attrs := spanAttrs(span)
	assert.Equal(t, InlineTemplateName, attrs[SpanAttrTemplateName].AsString())
	assert.Equal(t, int64(len(testIntroSource)), attrs[SpanAttrSourceLength].AsInt64())
	assert.Equal(t, int64(2), attrs[SpanAttrPlaceholders].AsInt64())
}

func TestTracing_ExecuteTemplateError(t *testing.T) {
	exporter := setupTestTracer(t)
	engine := MustNew()
	engine.MustRegisterTemplate("intro", testIntroSource)

	_, err := engine.ExecuteTemplate(context.Background(), "intro", map[string]string{})
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]

	assert.Equal(t, codes.Error, span.Status.Code)
	assert.Equal(t, "intro", spanAttrs(span)[SpanAttrTemplateName].AsString())
	require.NotEmpty(t, span.Events)
	assert.Equal(t, "exception", span.Events[0].Name)
}

func TestTracing_ExecuteTemplateLoadedFromStorage(t *testing.T) {
	exporter := setupTestTracer(t)
	ctx := context.Background()

	storage := NewMemoryStorage()
	require.NoError(t, storage.Save(ctx, &StoredTemplate{Name: "intro", Source: testIntroSource}))
	engine := MustNew(WithStorage(storage))

	_, err := engine.ExecuteTemplate(ctx, "intro", testIntroParams())
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]

	var eventNames []string
	for _, ev := range span.Events {
		eventNames = append(eventNames, ev.Name)
	}
	assert.Contains(t, eventNames, SpanEventLoaded)
	assert.Equal(t, int64(len(testIntroSource)), spanAttrs(span)[SpanAttrSourceLength].AsInt64())
}
