// Package tx defines the transaction boundary the domain layer depends on.
// The postgres implementation lives in infrastructure; services only ever
// see these interfaces.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction.
type Manager interface {
	// RunInTransaction begins a transaction, runs fn with the transaction
	// carried in ctx, and commits on nil / rolls back on error. Nested
	// calls join the transaction already in ctx instead of opening a new
	// one.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds read-only transactions for query-heavy paths.
type ReadOnlyManager interface {
	Manager

	// ReadOnly runs fn in a read-only transaction; writes inside fn fail.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
