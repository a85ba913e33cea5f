package tracing

import (
	"context"
	"testing"

	"zephyr-hq/zephyr/pkg/config"
)

func TestNewDisabled(t *testing.T) {
	tracer, err := New(&config.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if tracer.Enabled() {
		t.Error("tracer reports enabled")
	}

	// Spans from a disabled tracer must be usable without recording.
	ctx, span := tracer.Start(context.Background(), "rules.evaluate")
	if ctx == nil {
		t.Fatal("Start() returned nil context")
	}
	if span.IsRecording() {
		t.Error("noop span is recording")
	}
	span.End()

	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewNilConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) expected error")
	}
}

func TestNoopSpanUsable(t *testing.T) {
	// NoopSpan must tolerate the full span API without panicking.
	NoopSpan.AddEvent("ignored")
	NoopSpan.End()
	if NoopSpan.IsRecording() {
		t.Error("NoopSpan is recording")
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{"always", SamplerAlways, 0, false},
		{"never", SamplerNever, 0, false},
		{"ratio valid", SamplerRatio, 0.25, false},
		{"ratio too high", SamplerRatio, 1.5, true},
		{"ratio negative", SamplerRatio, -0.1, true},
		{"unknown", "sometimes", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createSampler() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && sampler == nil {
				t.Error("createSampler() returned nil sampler")
			}
		})
	}
}
