package sequence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	core "inventa/internal/core/sequence"
	"inventa/internal/core/tenant"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
	calls        int
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	// Strict passes (tenant, stage, key); cached and SetNext pass a fourth
	// int64 argument.
	var increment int64 = 1
	if len(args) == 4 {
		if val, ok := args[3].(int64); ok {
			increment = val
		}
		if val, ok := args[3].(int); ok {
			increment = int64(val)
		}
	}

	m.currentValue += increment
	return &mockRow{val: m.currentValue}
}

func scopedCtx() context.Context {
	return tenant.WithContext(context.Background(), tenant.New("1000", "DEV"))
}

func TestNext_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := scopedCtx()
	cfg := core.DefaultConfig("SO")

	num, err := svc.Next(ctx, cfg, nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "SO-00001" {
		t.Errorf("expected SO-00001, got %s", num)
	}

	num, err = svc.Next(ctx, cfg, nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "SO-00002" {
		t.Errorf("expected SO-00002, got %s", num)
	}
}

func TestNext_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := scopedCtx()
	cfg := core.DefaultConfig("ITM")

	opts := &core.Options{
		Strategy:  core.StrategyCached,
		RangeSize: 10,
	}

	// First call reserves 1..10; DB counter jumps to 10.
	num, err := svc.Next(ctx, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ITM-00001" {
		t.Errorf("expected ITM-00001, got %s", num)
	}
	if q.currentValue != 10 {
		t.Errorf("expected DB value 10, got %d", q.currentValue)
	}

	// Second call is served from memory, no DB round trip.
	callsBefore := q.calls
	num, err = svc.Next(ctx, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ITM-00002" {
		t.Errorf("expected ITM-00002, got %s", num)
	}
	if q.calls != callsBefore {
		t.Errorf("expected no extra DB call, got %d", q.calls-callsBefore)
	}
}

func TestNext_CachedRangeExhaustion(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := scopedCtx()
	cfg := core.DefaultConfig("WH")

	opts := &core.Options{
		Strategy:  core.StrategyCached,
		RangeSize: 2,
	}

	for i := 1; i <= 3; i++ {
		num, err := svc.Next(ctx, cfg, opts, time.Now())
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		want := map[int]string{1: "WH-00001", 2: "WH-00002", 3: "WH-00003"}[i]
		if num != want {
			t.Errorf("call %d: expected %s, got %s", i, want, num)
		}
	}

	// Two reservations of 2 each.
	if q.currentValue != 4 {
		t.Errorf("expected DB value 4, got %d", q.currentValue)
	}
}

func TestNext_TenantIsolation(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	cfg := core.DefaultConfig("SO")
	opts := &core.Options{Strategy: core.StrategyCached, RangeSize: 5}

	ctxA := tenant.WithContext(context.Background(), tenant.New("1000", "DEV"))
	ctxB := tenant.WithContext(context.Background(), tenant.New("2000", "DEV"))

	if _, err := svc.Next(ctxA, cfg, opts, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := q.calls

	// Another tenant must not share the cached range.
	if _, err := svc.Next(ctxB, cfg, opts, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.calls != calls+1 {
		t.Errorf("expected a fresh reservation for second tenant")
	}
}

func TestSetNext_DropsCachedRange(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := scopedCtx()
	cfg := core.DefaultConfig("SO")
	opts := &core.Options{Strategy: core.StrategyCached, RangeSize: 10}

	if _, err := svc.Next(ctx, cfg, opts, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.SetNext(ctx, cfg, time.Now(), 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The next call must reserve a new range instead of serving stale
	// numbers from memory.
	calls := q.calls
	if _, err := svc.Next(ctx, cfg, opts, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.calls != calls+1 {
		t.Errorf("expected new reservation after SetNext")
	}
}

func TestFormatNumber(t *testing.T) {
	period := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cfg  core.Config
		num  int64
		want string
	}{
		{
			name: "default padding",
			cfg:  core.DefaultConfig("SO"),
			num:  5,
			want: "SO-00005",
		},
		{
			name: "zero pad width falls back to 5",
			cfg:  core.Config{Prefix: "ITM"},
			num:  42,
			want: "ITM-00042",
		},
		{
			name: "with year",
			cfg:  core.Config{Prefix: "SO", PadWidth: 5, IncludeYear: true},
			num:  7,
			want: "SO-2026-00007",
		},
		{
			name: "wide padding",
			cfg:  core.Config{Prefix: "WH", PadWidth: 8},
			num:  123,
			want: "WH-00000123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatNumber(tt.cfg, period, tt.num)
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestBuildKey(t *testing.T) {
	period := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	if got := buildKey(core.Config{Prefix: "SO", ResetPeriod: "never"}, period); got != "SO" {
		t.Errorf("expected SO, got %s", got)
	}
	if got := buildKey(core.Config{Prefix: "SO", ResetPeriod: "year"}, period); got != "SO_2026" {
		t.Errorf("expected SO_2026, got %s", got)
	}
	if got := buildKey(core.Config{Prefix: "SO", ResetPeriod: "month"}, period); got != "SO_2026_08" {
		t.Errorf("expected SO_2026_08, got %s", got)
	}
}

func TestParseNumber(t *testing.T) {
	if got := ParseNumber("SO-00005"); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
	if got := ParseNumber("SO-2026-00017"); got != 17 {
		t.Errorf("expected 17, got %d", got)
	}
	if got := ParseNumber("garbage"); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
}
