package controller

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"zephyr-hq/zephyr/pkg/config"
	"zephyr-hq/zephyr/pkg/history"
	"zephyr-hq/zephyr/pkg/rules"
	"zephyr-hq/zephyr/pkg/rules/engine"
	"zephyr-hq/zephyr/pkg/rules/source"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng, err := engine.New(source.NewDefaultSource(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	t.Cleanup(func() { eng.Close() })
	return eng
}

func newTestStore(t *testing.T) *history.Store {
	t.Helper()
	cfg := &config.HistoryConfig{
		Enabled:      true,
		Path:         filepath.Join(t.TempDir(), "decisions.db"),
		MaxOpenConns: 2,
		MaxIdleConns: 1,
		BusyTimeout:  time.Second,
	}
	store, err := history.NewStore(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("history.NewStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func hotRoomFacts() rules.Facts {
	return rules.Facts{
		"temperature":  rules.Number(32),
		"humidity":     rules.Number(55),
		"occupancy":    rules.Text("OCCUPIED"),
		"time_of_day":  rules.Text("AFTERNOON"),
		"windows_open": rules.Bool(false),
	}
}

func TestFileSensorSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensors.yaml")
	snapshot := `
temperature: 27.5
humidity: 60
occupancy: OCCUPIED
time_of_day: EVENING
windows_open: false
`
	if err := os.WriteFile(path, []byte(snapshot), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	facts, err := NewFileSensorSource(path).Facts(context.Background())
	if err != nil {
		t.Fatalf("Facts() error = %v", err)
	}

	if got := facts["temperature"]; got.Kind() != rules.KindNumber || got.AsNumber() != 27.5 {
		t.Errorf("temperature = %v", got)
	}
	if got := facts["occupancy"]; got.Kind() != rules.KindText || got.AsText() != "OCCUPIED" {
		t.Errorf("occupancy = %v", got)
	}
	if got := facts["windows_open"]; got.Kind() != rules.KindBool || got.AsBool() {
		t.Errorf("windows_open = %v", got)
	}
}

func TestFileSensorSourceMissingFile(t *testing.T) {
	_, err := NewFileSensorSource(filepath.Join(t.TempDir(), "missing.yaml")).Facts(context.Background())
	if err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}

func TestFileSensorSourceRejectsMalformedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensors.yaml")
	if err := os.WriteFile(path, []byte("temperature: [27, 28]\n"), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	_, err := NewFileSensorSource(path).Facts(context.Background())
	if err == nil {
		t.Fatal("expected error for sequence fact value")
	}
}

func TestRunOnceRecordsDecision(t *testing.T) {
	eng := newTestEngine(t)
	store := newTestStore(t)
	sensors := NewStaticSensorSource(hotRoomFacts())

	cfg := config.NewDefaultConfig()
	ctrl := New(eng, sensors, store, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	decision, err := ctrl.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if decision.Fallback {
		t.Error("hot occupied room fell back")
	}
	if decision.Action.Mode != rules.ModeCool {
		t.Errorf("mode = %q, want COOL", decision.Action.Mode)
	}

	records, err := store.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].ID != decision.EvaluationID {
		t.Errorf("recorded ID = %q, want %q", records[0].ID, decision.EvaluationID)
	}
}

func TestRunOnceWithoutStore(t *testing.T) {
	eng := newTestEngine(t)
	sensors := NewStaticSensorSource(hotRoomFacts())

	ctrl := New(eng, sensors, nil, config.NewDefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	decision, err := ctrl.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if decision == nil {
		t.Fatal("RunOnce() returned nil decision")
	}
}

func TestRunOnceSensorFailure(t *testing.T) {
	eng := newTestEngine(t)
	sensors := NewFileSensorSource(filepath.Join(t.TempDir(), "missing.yaml"))

	ctrl := New(eng, sensors, nil, config.NewDefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := ctrl.RunOnce(context.Background()); err == nil {
		t.Fatal("RunOnce() expected error when sensors unavailable")
	}
}

func TestStartAndStop(t *testing.T) {
	eng := newTestEngine(t)
	sensors := NewStaticSensorSource(hotRoomFacts())

	cfg := config.NewDefaultConfig()
	cfg.Controller.Enabled = true
	ctrl := New(eng, sensors, nil, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ctrl.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !ctrl.IsRunning() {
		t.Error("controller not running after Start")
	}

	// Starting twice is a no-op.
	if err := ctrl.Start(ctx); err != nil {
		t.Errorf("second Start() error = %v", err)
	}

	ctrl.Stop()
	if ctrl.IsRunning() {
		t.Error("controller still running after Stop")
	}
}

func TestStartInvalidSchedule(t *testing.T) {
	eng := newTestEngine(t)
	sensors := NewStaticSensorSource(hotRoomFacts())

	cfg := config.NewDefaultConfig()
	cfg.Controller.Schedule = "not a cron expression"
	ctrl := New(eng, sensors, nil, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := ctrl.Start(context.Background()); err == nil {
		t.Fatal("Start() expected error for invalid schedule")
	}
}
