// Package sequence implements tenant-scoped record numbering on PostgreSQL.
// Numbers are allocated from an atomic counter row per (tenant, stage, key),
// never derived from row counts, so concurrent creates cannot collide.
package sequence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	core "inventa/internal/core/sequence"
	"inventa/internal/core/tenant"
)

// Querier is the minimal database interface the service needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Compile-time check.
var _ core.Generator = (*Service)(nil)

type cachedRange struct {
	current int64
	max     int64
}

// Service allocates record numbers from the sys_sequences table.
// One instance serves all tenants: counter rows and the in-memory range
// cache are both keyed by the tenant scope.
type Service struct {
	querier Querier

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// New creates a new sequence service. Pass the pool, not a transaction:
// counter allocation runs outside business transactions on purpose, so a
// rolled-back create burns a number instead of blocking other writers.
func New(querier Querier) *Service {
	return &Service{
		querier: querier,
		ranges:  make(map[string]*cachedRange),
	}
}

// Next generates the next number, e.g. SO-00005.
func (s *Service) Next(ctx context.Context, cfg core.Config, opts *core.Options, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("sequence service is not initialized")
	}
	if opts == nil {
		opts = core.DefaultOptions()
	}

	tc := tenant.MustFromContext(ctx)
	key := buildKey(cfg, period)

	var (
		num int64
		err error
	)
	switch opts.Strategy {
	case core.StrategyCached:
		num, err = s.nextCached(ctx, tc, key, opts)
	default:
		num, err = s.nextStrict(ctx, tc, key)
	}
	if err != nil {
		return "", err
	}

	return formatNumber(cfg, period, num), nil
}

// nextStrict allocates one number with an atomic upsert.
func (s *Service) nextStrict(ctx context.Context, tc tenant.Context, key string) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (tenant_id, stage_id, key, current_val)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (tenant_id, stage_id, key)
		DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, tc.TenantID, tc.StageID, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

// nextCached serves numbers from an in-memory range, reserving a new range
// from the database when the current one is exhausted. Restarts may leave
// gaps; ordering within one process is still dense.
func (s *Service) nextCached(ctx context.Context, tc tenant.Context, key string, opts *core.Options) (int64, error) {
	cacheKey := tc.TenantID + ":" + tc.StageID + ":" + key

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, exists := s.ranges[cacheKey]
	if !exists {
		rng = &cachedRange{}
		s.ranges[cacheKey] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		var newMax int64
		err := s.querier.QueryRow(ctx, `
			INSERT INTO sys_sequences (tenant_id, stage_id, key, current_val)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (tenant_id, stage_id, key)
			DO UPDATE SET current_val = sys_sequences.current_val + $4
			RETURNING current_val
		`, tc.TenantID, tc.StageID, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		// current_val is the last value of the reserved range
		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNext sets the next counter value (for data migration).
func (s *Service) SetNext(ctx context.Context, cfg core.Config, period time.Time, value int64) error {
	tc := tenant.MustFromContext(ctx)
	key := buildKey(cfg, period)

	var result int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (tenant_id, stage_id, key, current_val)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, stage_id, key)
		DO UPDATE SET current_val = $4
		RETURNING current_val
	`, tc.TenantID, tc.StageID, key, value).Scan(&result)

	// Drop any cached range for this key
	s.cacheMu.Lock()
	delete(s.ranges, tc.TenantID+":"+tc.StageID+":"+key)
	s.cacheMu.Unlock()

	return err
}

// buildKey creates the counter key based on config and period.
func buildKey(cfg core.Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "month":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case "year":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

// formatNumber creates the final number string.
func formatNumber(cfg core.Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}

	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), padWidth, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
}

// ParseNumber extracts the numeric part from a formatted number.
// Returns -1 if parsing fails.
func ParseNumber(formatted string) int64 {
	var num int64
	patterns := []string{
		"%*[^-]-%*d-%d",
		"%*[^-]-%d",
	}

	for _, pattern := range patterns {
		if _, err := fmt.Sscanf(formatted, pattern, &num); err == nil {
			return num
		}
	}

	return -1
}
