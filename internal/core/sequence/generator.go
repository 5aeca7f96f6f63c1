// Package sequence provides domain contracts for record auto-numbering.
// Implementations live in the infrastructure layer.
package sequence

import (
	"context"
	"time"
)

// Generator allocates sequential record numbers scoped by tenant context.
// Counting rows and formatting count+1 is not an acceptable implementation:
// it collides under concurrent creation. Implementations must use an atomic
// per-(tenant, stage, prefix) counter.
type Generator interface {
	// Next generates the next number, e.g. SO-00005.
	Next(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)

	// SetNext sets the next counter value (for data migration).
	SetNext(ctx context.Context, cfg Config, period time.Time, value int64) error
}
