package controller

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"zephyr-hq/zephyr/pkg/rules"
)

// SensorSource supplies the current fact snapshot for scheduled
// evaluations.
type SensorSource interface {
	// Facts returns the current sensor readings as facts.
	Facts(ctx context.Context) (rules.Facts, error)
}

// FileSensorSource reads facts from a YAML file maintained by external
// collectors. The file is re-read on every call so updated readings are
// picked up without a restart.
//
// Snapshot format:
//
//	temperature: 27.5
//	humidity: 60
//	occupancy: OCCUPIED
//	time_of_day: EVENING
//	windows_open: false
type FileSensorSource struct {
	path string
}

// NewFileSensorSource creates a sensor source reading from path.
func NewFileSensorSource(path string) *FileSensorSource {
	return &FileSensorSource{path: path}
}

// Facts reads and decodes the snapshot file.
func (s *FileSensorSource) Facts(ctx context.Context) (rules.Facts, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sensor snapshot %q: %w", s.path, err)
	}

	var facts rules.Facts
	if err := yaml.Unmarshal(data, &facts); err != nil {
		return nil, fmt.Errorf("failed to parse sensor snapshot %q: %w", s.path, err)
	}

	return facts, nil
}

// StaticSensorSource serves a fixed fact snapshot. It is useful in tests and
// for one-shot CLI evaluations.
type StaticSensorSource struct {
	mu    sync.RWMutex
	facts rules.Facts
}

// NewStaticSensorSource creates a sensor source serving the given facts.
func NewStaticSensorSource(facts rules.Facts) *StaticSensorSource {
	return &StaticSensorSource{facts: facts}
}

// Facts returns the current snapshot.
func (s *StaticSensorSource) Facts(ctx context.Context) (rules.Facts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.facts, nil
}

// SetFacts replaces the snapshot.
func (s *StaticSensorSource) SetFacts(facts rules.Facts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts = facts
}
