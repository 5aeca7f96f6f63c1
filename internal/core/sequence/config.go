// Package sequence provides domain contracts for tenant-scoped record
// numbering (e.g. SO-00005).
package sequence

// Strategy defines the number allocation strategy.
type Strategy int

const (
	// StrategyStrict allocates every number with an atomic counter upsert.
	// Guarantees dense numbering, one round trip per number.
	StrategyStrict Strategy = iota

	// StrategyCached reserves ranges of numbers in memory.
	// Much faster, but may produce gaps if the application restarts.
	StrategyCached
)

// Options configuration for number generation.
type Options struct {
	// Strategy to use for number generation
	Strategy Strategy
	// RangeSize is the number of values to reserve at once in Cached strategy.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g. "SO", "WH", "ITM")
	Prefix string

	// PadWidth is the minimum number width (default 5)
	PadWidth int

	// IncludeYear adds the year between prefix and number
	IncludeYear bool

	// ResetPeriod: "year", "month", "never"
	ResetPeriod string
}

// DefaultConfig returns the standard PREFIX-00001 numbering.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		PadWidth:    5,
		ResetPeriod: "never",
	}
}
