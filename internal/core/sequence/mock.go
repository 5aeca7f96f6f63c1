package sequence

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Mock is an in-memory Generator for tests.
type Mock struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMock creates a mock generator starting every prefix at 1.
func NewMock() *Mock {
	return &Mock{counters: make(map[string]int64)}
}

// Next implements Generator.
func (m *Mock) Next(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[cfg.Prefix]++
	pad := cfg.PadWidth
	if pad == 0 {
		pad = 5
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, pad, m.counters[cfg.Prefix]), nil
}

// SetNext implements Generator.
func (m *Mock) SetNext(ctx context.Context, cfg Config, period time.Time, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[cfg.Prefix] = value
	return nil
}
