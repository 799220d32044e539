package observe

import (
	"context"
	"errors"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestTracer() (*tracetest.SpanRecorder, Tracer) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return recorder, newTracer(tp.Tracer("test"))
}

func TestComputeMeta_SpanName(t *testing.T) {
	tests := []struct {
		meta ComputeMeta
		want string
	}{
		{ComputeMeta{Namespace: "context"}, "cache.compute.context"},
		{ComputeMeta{Namespace: "response", Category: "pods"}, "cache.compute.response"},
	}
	for _, tt := range tests {
		if got := tt.meta.SpanName(); got != tt.want {
			t.Errorf("SpanName() = %q, want %q", got, tt.want)
		}
	}
}

func TestTracer_SpanAttributes(t *testing.T) {
	recorder, tracer := newTestTracer()

	meta := ComputeMeta{
		Namespace: "response",
		Category:  "deployments",
		Resource:  "prod/Deployment/api",
		Degraded:  true,
	}

	_, span := tracer.StartSpan(context.Background(), meta)
	tracer.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	if spans[0].Name() != "cache.compute.response" {
		t.Errorf("span name = %q", spans[0].Name())
	}

	attrs := make(map[string]any)
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	if attrs["cache.namespace"] != "response" {
		t.Errorf("cache.namespace = %v", attrs["cache.namespace"])
	}
	if attrs["cache.category"] != "deployments" {
		t.Errorf("cache.category = %v", attrs["cache.category"])
	}
	if attrs["cache.resource"] != "prod/Deployment/api" {
		t.Errorf("cache.resource = %v", attrs["cache.resource"])
	}
	if attrs["cache.degraded"] != true {
		t.Errorf("cache.degraded = %v", attrs["cache.degraded"])
	}
}

func TestTracer_EndSpanRecordsError(t *testing.T) {
	recorder, tracer := newTestTracer()

	_, span := tracer.StartSpan(context.Background(), ComputeMeta{Namespace: "context"})
	tracer.EndSpan(span, errors.New("provider timeout"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected the error to be recorded as a span event")
	}
}

func TestNoopTracer_NoPanic(t *testing.T) {
	tracer := newNoopTracer()
	ctx := context.Background()

	_, span := tracer.StartSpan(ctx, ComputeMeta{Namespace: "context"})
	tracer.EndSpan(span, nil)

	_, span = tracer.StartSpan(ctx, ComputeMeta{Namespace: "response"})
	tracer.EndSpan(span, errors.New("x"))
}
