package entity

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Attributes holds the per-record custom fields stored as JSONB.
// It implements sql.Scanner and driver.Valuer so repositories can map the
// column directly. Decoding goes through json.Number: the default decoder
// turns every number into a float64, which silently loses precision on
// quantities.
type Attributes map[string]any

// Scan implements sql.Scanner for the JSONB column.
func (a *Attributes) Scan(src any) error {
	if src == nil {
		*a = nil
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("attributes: cannot scan %T", src)
	}
	if len(raw) == 0 {
		*a = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return fmt.Errorf("attributes: decode: %w", err)
	}
	*a = m
	return nil
}

// Value implements driver.Valuer for the JSONB column.
func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Has reports whether the key is present, nil values included.
func (a Attributes) Has(key string) bool {
	if a == nil {
		return false
	}
	_, ok := a[key]
	return ok
}

// GetString returns the value as a string, or "" on absence or type
// mismatch.
func (a Attributes) GetString(key string) string {
	if a == nil {
		return ""
	}
	v, _ := a[key].(string)
	return v
}

// GetBool returns the value as a bool, false on absence or mismatch.
func (a Attributes) GetBool(key string) bool {
	if a == nil {
		return false
	}
	v, _ := a[key].(bool)
	return v
}

// GetDecimal returns the value as a decimal with full precision. Use this
// for quantities; float64 access would round.
func (a Attributes) GetDecimal(key string) decimal.Decimal {
	if a == nil {
		return decimal.Zero
	}
	switch v := a[key].(type) {
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d
		}
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(v)
	}
	return decimal.Zero
}

// Set stores a value, allocating the map on first use.
func (a *Attributes) Set(key string, value any) Attributes {
	if *a == nil {
		*a = make(Attributes)
	}
	(*a)[key] = value
	return *a
}

// Clone returns a shallow copy, nil in nil out.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
