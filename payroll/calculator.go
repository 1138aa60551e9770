package payroll

import (
	"github.com/paralelo/workforce/generic"
	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYROLL CALCULATOR
// =============================================================================

// Payslip is the pay of one employee for one period. Amounts are unrounded;
// formatting is up to the caller.
type Payslip struct {
	EmployeeID EmployeeID
	Period     generic.Period
	Rate       decimal.Decimal
	Totals     Totals
	Base       decimal.Decimal // TotalMinutes/60 * Rate
	Bonus      decimal.Decimal // BonusMinutes/60 * Rate (Sunday 100% bonus)
	Extra      decimal.Decimal
	Discount   decimal.Decimal
	Total      decimal.Decimal // Base + Bonus + Extra - Discount
}

// Compute calculates the payslip of e for period.
//
// The rate is resolved on period.End and applied to every hour in the
// period, so a raise effective mid-period applies to the whole period.
// Sunday minutes are already inside Base; Bonus pays them a second time.
// adj may be nil.
func Compute(e Employee, logs []WorkLog, period generic.Period, policy StatusPolicy, adj *Adjustment) Payslip {
	totals := Aggregate(logs, e.ID, period, policy)
	return price(e, totals, period, adj)
}

func price(e Employee, totals Totals, period generic.Period, adj *Adjustment) Payslip {
	rate := ResolveRate(e, period.End)

	slip := Payslip{
		EmployeeID: e.ID,
		Period:     period,
		Rate:       rate,
		Totals:     totals,
		Base:       minutesToPay(totals.TotalMinutes, rate),
		Bonus:      minutesToPay(totals.BonusMinutes, rate),
		Extra:      decimal.Zero,
		Discount:   decimal.Zero,
	}
	if adj != nil {
		slip.Extra = adj.Extra
		slip.Discount = adj.Discount
	}
	slip.Total = slip.Base.Add(slip.Bonus).Add(slip.Extra).Sub(slip.Discount)
	return slip
}

func minutesToPay(minutes int64, rate decimal.Decimal) decimal.Decimal {
	if minutes == 0 || rate.IsZero() {
		return decimal.Zero
	}
	return rate.Mul(decimal.NewFromInt(minutes)).Div(generic.MinutesPerHour)
}
