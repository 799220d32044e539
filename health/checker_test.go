package health

import (
	"context"
	"errors"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestResultConstructors(t *testing.T) {
	h := Healthy("fine")
	if h.Status != StatusHealthy || h.Message != "fine" {
		t.Errorf("Healthy() = %+v", h)
	}
	if h.Timestamp.IsZero() {
		t.Error("Healthy() should stamp the time")
	}

	d := Degraded("slow")
	if d.Status != StatusDegraded {
		t.Errorf("Degraded() status = %v", d.Status)
	}

	cause := errors.New("boom")
	u := Unhealthy("broken", cause)
	if u.Status != StatusUnhealthy || !errors.Is(u.Error, cause) {
		t.Errorf("Unhealthy() = %+v", u)
	}
}

func TestResult_WithDetails(t *testing.T) {
	r := Healthy("ok").WithDetails(map[string]any{"keys": 3})
	if r.Details["keys"] != 3 {
		t.Errorf("Details = %v", r.Details)
	}
}

func TestCheckerFunc(t *testing.T) {
	c := NewCheckerFunc("probe", func(ctx context.Context) Result {
		return Healthy("ok")
	})
	if c.Name() != "probe" {
		t.Errorf("Name() = %q", c.Name())
	}
	if got := c.Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("Check() status = %v", got.Status)
	}
}
