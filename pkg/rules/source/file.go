package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"zephyr-hq/zephyr/pkg/rules"
	"zephyr-hq/zephyr/pkg/rules/engine"
)

// FileSource loads rule catalogs from YAML files on disk.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a new file-based catalog source.
// The path can be either a single file or a directory. If it's a directory,
// all .yaml and .yml files are loaded and their rules concatenated in
// lexical walk order, so the catalog order stays deterministic.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{
		path:   path,
		logger: logger,
	}
}

// Load loads the catalog from the configured path.
func (s *FileSource) Load(ctx context.Context) (*rules.Catalog, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path %q: %w", s.path, err)
	}

	var catalog *rules.Catalog
	if info.IsDir() {
		catalog, err = s.loadDirectory()
	} else {
		catalog, err = s.loadFile(s.path)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("loaded catalog from source",
		"path", s.path,
		"rule_count", len(catalog.Rules),
	)

	return catalog, nil
}

// loadDirectory merges all catalog files under the directory into one
// catalog named after the directory.
func (s *FileSource) loadDirectory() (*rules.Catalog, error) {
	merged := &rules.Catalog{Name: filepath.Base(s.path)}

	err := filepath.Walk(s.path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		catalog, err := s.loadFile(path)
		if err != nil {
			return err
		}

		merged.Rules = append(merged.Rules, catalog.Rules...)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to load catalog directory %q: %w", s.path, err)
	}

	return merged, nil
}

// loadFile parses a single catalog file.
func (s *FileSource) loadFile(path string) (*rules.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}

	var catalog rules.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %q: %w", path, err)
	}

	if catalog.Name == "" {
		catalog.Name = filepath.Base(path)
	}

	s.logger.Debug("loaded catalog file",
		"path", path,
		"catalog", catalog.Name,
		"rule_count", len(catalog.Rules),
	)

	return &catalog, nil
}

// Watch watches the catalog path for changes and sends debounced events on
// the returned channel. The channel is closed when the context is cancelled.
func (s *FileSource) Watch(ctx context.Context) (<-chan engine.Event, error) {
	watcher, err := NewFileWatcher(nil, s.logger)
	if err != nil {
		return nil, err
	}

	eventCh := make(chan engine.Event)

	go func() {
		defer close(eventCh)
		if err := watcher.Watch(ctx, s.path, func(event engine.Event) {
			select {
			case eventCh <- event:
			case <-ctx.Done():
			}
		}); err != nil {
			s.logger.Error("catalog watcher stopped", "error", err)
		}
	}()

	return eventCh, nil
}
