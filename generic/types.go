/*
Package generic holds the domain-agnostic building blocks shared by the
payroll, leave and finance packages.

KEY CONCEPTS:
  - Date:    A calendar day pinned to UTC (time.go)
  - Period:  An inclusive [Start, End] range of dates (period.go)
  - Money:   decimal.Decimal helpers; amounts never use float64
  - IDs:     Prefixed random identifiers for stored records
  - Errors:  Sentinel and structured errors shared by stores and services (errors.go)

DESIGN PRINCIPLES:
  1. Precision: Money uses decimal.Decimal to avoid floating-point drift
  2. Calendar dates carry no zone, so weekday checks are stable
  3. Zero values mean "no data" and are always safe to compute with
*/
package generic

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY
// =============================================================================

// MinutesPerHour converts stored minutes to billable hours.
var MinutesPerHour = decimal.NewFromInt(60)

// MustParseDecimal parses s, returning zero on malformed input.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RoundMoney rounds to cents for display and persistence of totals.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// SumMoney adds all values.
func SumMoney(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

// NewID returns a random identifier such as "wl-3f2c9a1e...".
func NewID(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
