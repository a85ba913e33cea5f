package source

import (
	"context"
	"sync"

	"zephyr-hq/zephyr/pkg/rules"
	"zephyr-hq/zephyr/pkg/rules/engine"
)

// MemorySource is an in-memory catalog source. It backs the embedded
// default catalog and is handy for tests.
type MemorySource struct {
	mu      sync.Mutex
	catalog *rules.Catalog
}

// NewMemorySource creates a new in-memory catalog source.
func NewMemorySource(catalog *rules.Catalog) *MemorySource {
	return &MemorySource{catalog: catalog}
}

// NewDefaultSource returns a memory source holding the shipped default
// catalog.
func NewDefaultSource() *MemorySource {
	return NewMemorySource(rules.DefaultCatalog())
}

// Load returns the catalog stored in memory.
func (s *MemorySource) Load(ctx context.Context) (*rules.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog, nil
}

// Watch returns a channel that never sends events.
func (s *MemorySource) Watch(ctx context.Context) (<-chan engine.Event, error) {
	eventCh := make(chan engine.Event)

	go func() {
		<-ctx.Done()
		close(eventCh)
	}()

	return eventCh, nil
}

// SetCatalog replaces the stored catalog (for testing).
func (s *MemorySource) SetCatalog(catalog *rules.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = catalog
}
