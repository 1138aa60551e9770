package finance

import (
	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/leave"
	"github.com/paralelo/workforce/payroll"
	"github.com/shopspring/decimal"
)

// TrailingDays is the length of the daily minutes chart on the dashboard.
const TrailingDays = 7

type Dashboard struct {
	Month           generic.Period
	MonthRevenue    decimal.Decimal
	ActiveEmployees int
	NewEmployees    int // started this month
	MonthMinutes    int64
	PendingLeave    int
	Daily           []payroll.DayMinutes // last TrailingDays days, today included
}

// BuildDashboard summarises the month containing today. Minutes are counted
// under policy so the figures can match either payroll view.
func BuildDashboard(today generic.Date, employees []payroll.Employee, logs []payroll.WorkLog, revenues []Revenue, requests []leave.Request, policy payroll.StatusPolicy) Dashboard {
	month := generic.MonthOf(today)
	d := Dashboard{
		Month:        month,
		MonthRevenue: decimal.Zero,
		PendingLeave: leave.CountPending(requests),
	}

	for _, r := range revenues {
		if month.Contains(r.Date) {
			d.MonthRevenue = d.MonthRevenue.Add(r.Amount)
		}
	}

	for _, e := range employees {
		if !e.IsPayable() {
			continue
		}
		d.ActiveEmployees++
		if month.Contains(e.StartDate) {
			d.NewEmployees++
		}
	}

	for _, t := range payroll.AggregateAll(logs, month, policy) {
		d.MonthMinutes += t.TotalMinutes
	}

	trailing := generic.Period{Start: today.AddDays(-(TrailingDays - 1)), End: today}
	d.Daily = payroll.MinutesByDay(logs, trailing, policy)
	return d
}
