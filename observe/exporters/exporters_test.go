package exporters

import (
	"context"
	"strings"
	"testing"
)

func TestTracing_StdoutSucceeds(t *testing.T) {
	exp, err := NewTracingExporter(context.Background(), "stdout")
	if err != nil {
		t.Fatalf("NewTracingExporter(stdout): %v", err)
	}
	if exp == nil {
		t.Fatal("expected non-nil exporter")
	}
	_ = exp.Shutdown(context.Background())
}

func TestTracing_UnknownNameFails(t *testing.T) {
	_, err := NewTracingExporter(context.Background(), "bogus")
	if err == nil {
		t.Fatal("expected error for unknown exporter")
	}
	if !strings.Contains(err.Error(), "unknown exporter") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTracing_OtlpMissingEndpointFails(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	_, err := NewTracingExporter(context.Background(), "otlp")
	if err == nil {
		t.Fatal("expected error when no OTLP endpoint is configured")
	}
}

func TestTracing_OtlpWithEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	exp, err := NewTracingExporter(context.Background(), "otlp")
	if err != nil {
		t.Fatalf("NewTracingExporter(otlp): %v", err)
	}
	// Lazy connection; creation succeeds without a live collector.
	_ = exp.Shutdown(context.Background())
}

func TestTracing_JaegerMissingEndpointFails(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_JAEGER_ENDPOINT", "")
	_, err := NewTracingExporter(context.Background(), "jaeger")
	if err == nil {
		t.Fatal("expected error when no Jaeger endpoint is configured")
	}
}

func TestTracing_NoneReturnsDiscard(t *testing.T) {
	exp, err := NewTracingExporter(context.Background(), "none")
	if err != nil {
		t.Fatalf("NewTracingExporter(none): %v", err)
	}
	if exp == nil {
		t.Fatal("expected non-nil discard exporter")
	}
	_ = exp.Shutdown(context.Background())
}

func TestMetrics_StdoutSucceeds(t *testing.T) {
	rdr, err := NewMetricsReader(context.Background(), "stdout")
	if err != nil {
		t.Fatalf("NewMetricsReader(stdout): %v", err)
	}
	if rdr == nil {
		t.Fatal("expected non-nil reader")
	}
	_ = rdr.Shutdown(context.Background())
}

func TestMetrics_PrometheusReturnsReader(t *testing.T) {
	rdr, err := NewMetricsReader(context.Background(), "prometheus")
	if err != nil {
		t.Fatalf("NewMetricsReader(prometheus): %v", err)
	}
	if rdr == nil {
		t.Fatal("expected non-nil reader")
	}
	_ = rdr.Shutdown(context.Background())
}

func TestMetrics_NoneReturnsDiscard(t *testing.T) {
	rdr, err := NewMetricsReader(context.Background(), "none")
	if err != nil {
		t.Fatalf("NewMetricsReader(none): %v", err)
	}
	if rdr == nil {
		t.Fatal("expected non-nil reader")
	}
	_ = rdr.Shutdown(context.Background())
}

func TestMetrics_UnknownNameFails(t *testing.T) {
	_, err := NewMetricsReader(context.Background(), "bogus")
	if err == nil {
		t.Fatal("expected error for unknown metrics exporter")
	}
	if !strings.Contains(err.Error(), "unknown metrics exporter") {
		t.Errorf("unexpected error: %v", err)
	}
}
