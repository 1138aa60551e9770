package payroll

import (
	"sort"

	"github.com/paralelo/workforce/generic"
	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE RESOLVER
// =============================================================================

// ResolveRate returns the hourly rate in effect for the employee on target.
//
// The rate is the one from the most recent record effective on or before
// target. When every record is effective after target, the oldest record's
// rate is used instead of zero. Records sharing an effective date resolve to
// the last-written one. Zero is returned only when there is no usable rate
// data or target is the zero Date.
func ResolveRate(e Employee, target generic.Date) decimal.Decimal {
	if len(e.Rates) == 0 || target.IsZero() {
		return decimal.Zero
	}

	var applicable, oldest *RateRecord
	for i := range e.Rates {
		r := &e.Rates[i]
		if r.EffectiveDate.IsZero() {
			continue
		}
		if r.EffectiveDate.BeforeOrEqual(target) &&
			(applicable == nil || r.EffectiveDate.AfterOrEqual(applicable.EffectiveDate)) {
			applicable = r
		}
		if oldest == nil || r.EffectiveDate.BeforeOrEqual(oldest.EffectiveDate) {
			oldest = r
		}
	}

	chosen := applicable
	if chosen == nil {
		chosen = oldest
	}
	if chosen == nil || chosen.Rate.IsNegative() {
		return decimal.Zero
	}
	return chosen.Rate
}

// ResolveRateOn is ResolveRate for a YYYY-MM-DD string. Unparseable dates
// resolve to zero.
func ResolveRateOn(e Employee, date string) decimal.Decimal {
	target, err := generic.ParseDate(date)
	if err != nil {
		return decimal.Zero
	}
	return ResolveRate(e, target)
}

// RateHistory returns a copy of the rates, most recent first. Among records
// with the same effective date the last-written one comes first, matching
// the record ResolveRate picks.
func RateHistory(rates []RateRecord) []RateRecord {
	out := make([]RateRecord, 0, len(rates))
	for i := len(rates) - 1; i >= 0; i-- {
		out = append(out, rates[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveDate.After(out[j].EffectiveDate)
	})
	return out
}
