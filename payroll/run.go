package payroll

import (
	"sort"

	"github.com/paralelo/workforce/generic"
	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYROLL RUN - Payslips for every payable employee
// =============================================================================

type RunOptions struct {
	Policy StatusPolicy
	// SkipIdle drops employees without minutes in the period (report view).
	SkipIdle bool
}

type Line struct {
	Name    string
	JobType JobType
	Payslip
}

type RunTotals struct {
	TotalMinutes int64
	BonusMinutes int64
	Base         decimal.Decimal
	Bonus        decimal.Decimal
	Extra        decimal.Decimal
	Discount     decimal.Decimal
	Net          decimal.Decimal
}

type RunResult struct {
	Period generic.Period
	Policy StatusPolicy
	Lines  []Line
	Totals RunTotals
}

// Run computes a payslip for each payable employee. adjustments are keyed by
// employee and applied as-is; see AdjustmentsFor.
func Run(employees []Employee, logs []WorkLog, period generic.Period, adjustments map[EmployeeID]Adjustment, opts RunOptions) RunResult {
	policy := opts.Policy
	if policy == "" {
		policy = AnyStatus
	}
	totals := AggregateAll(logs, period, policy)

	result := RunResult{
		Period: period,
		Policy: policy,
		Lines:  []Line{},
		Totals: RunTotals{
			Base:     decimal.Zero,
			Bonus:    decimal.Zero,
			Extra:    decimal.Zero,
			Discount: decimal.Zero,
			Net:      decimal.Zero,
		},
	}

	for _, e := range employees {
		if !e.IsPayable() {
			continue
		}
		t := totals[e.ID]
		if opts.SkipIdle && t.TotalMinutes <= 0 {
			continue
		}
		var adj *Adjustment
		if a, ok := adjustments[e.ID]; ok {
			adj = &a
		}
		slip := price(e, t, period, adj)
		result.Lines = append(result.Lines, Line{Name: e.Name, JobType: e.JobType, Payslip: slip})

		result.Totals.TotalMinutes += t.TotalMinutes
		result.Totals.BonusMinutes += t.BonusMinutes
		result.Totals.Base = result.Totals.Base.Add(slip.Base)
		result.Totals.Bonus = result.Totals.Bonus.Add(slip.Bonus)
		result.Totals.Extra = result.Totals.Extra.Add(slip.Extra)
		result.Totals.Discount = result.Totals.Discount.Add(slip.Discount)
		result.Totals.Net = result.Totals.Net.Add(slip.Total)
	}

	sort.SliceStable(result.Lines, func(i, j int) bool {
		if result.Lines[i].Name != result.Lines[j].Name {
			return result.Lines[i].Name < result.Lines[j].Name
		}
		return result.Lines[i].EmployeeID < result.Lines[j].EmployeeID
	})
	return result
}

// AdjustmentsFor indexes the adjustments that apply to period. Manual
// adjustments are monthly, so they only apply when period is exactly one
// calendar month.
func AdjustmentsFor(adjustments []Adjustment, period generic.Period) map[EmployeeID]Adjustment {
	out := make(map[EmployeeID]Adjustment)
	month := generic.MonthOf(period.Start)
	if !month.Start.Equal(period.Start) || !month.End.Equal(period.End) {
		return out
	}
	key := period.MonthKey()
	for _, a := range adjustments {
		if a.Month == key {
			out[a.EmployeeID] = a
		}
	}
	return out
}
