package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"zephyr-hq/zephyr/pkg/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"ERROR", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("NewWithWriter() error = %v", err)
	}

	logger.Info("catalog loaded", slog.Int("rules", 7))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if record["msg"] != "catalog loaded" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["rules"] != float64(7) {
		t.Errorf("rules = %v", record["rules"])
	}
}

func TestNewWithWriterLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&config.LoggingConfig{Level: "warn", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("NewWithWriter() error = %v", err)
	}

	logger.Info("should be filtered")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Error("info record emitted at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn record missing")
	}
}

func TestNewWithWriterInvalidFormat(t *testing.T) {
	_, err := NewWithWriter(&config.LoggingConfig{Level: "info", Format: "xml"}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("NewWithWriter() error = %v", err)
	}

	Component(logger, "engine").Info("ready")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["component"] != "engine" {
		t.Errorf("component = %v", record["component"])
	}
}

func TestContextCorrelation(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("NewWithWriter() error = %v", err)
	}

	ctx := WithEvaluationID(context.Background(), "eval-123")
	ctx = WithRequestID(ctx, "req-456")
	logger.InfoContext(ctx, "decision made")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["evaluation_id"] != "eval-123" {
		t.Errorf("evaluation_id = %v", record["evaluation_id"])
	}
	if record["request_id"] != "req-456" {
		t.Errorf("request_id = %v", record["request_id"])
	}

	if EvaluationID(context.Background()) != "" {
		t.Error("EvaluationID on empty context should be empty")
	}
}
