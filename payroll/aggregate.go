package payroll

import "github.com/paralelo/workforce/generic"

// =============================================================================
// WORK LOG AGGREGATOR
// =============================================================================

// Totals are the worked minutes of one employee over a period.
// BonusMinutes is the Sunday subset of TotalMinutes, never additional to it.
type Totals struct {
	TotalMinutes int64
	BonusMinutes int64
}

func (t Totals) Add(o Totals) Totals {
	return Totals{
		TotalMinutes: t.TotalMinutes + o.TotalMinutes,
		BonusMinutes: t.BonusMinutes + o.BonusMinutes,
	}
}

// Aggregate sums the minutes of employeeID's logs dated inside period and
// accepted by policy. Logs dated on a Sunday also count as bonus minutes.
// Logs with a zero date or negative minutes are skipped.
func Aggregate(logs []WorkLog, employeeID EmployeeID, period generic.Period, policy StatusPolicy) Totals {
	var t Totals
	for _, log := range logs {
		if !counts(log, employeeID, period, policy) {
			continue
		}
		t.TotalMinutes += log.TotalMinutes
		if log.Date.IsSunday() {
			t.BonusMinutes += log.TotalMinutes
		}
	}
	return t
}

// AggregateAll groups Aggregate over every employee present in logs.
func AggregateAll(logs []WorkLog, period generic.Period, policy StatusPolicy) map[EmployeeID]Totals {
	out := make(map[EmployeeID]Totals)
	for _, log := range logs {
		if !counts(log, log.EmployeeID, period, policy) {
			continue
		}
		t := Totals{TotalMinutes: log.TotalMinutes}
		if log.Date.IsSunday() {
			t.BonusMinutes = log.TotalMinutes
		}
		out[log.EmployeeID] = out[log.EmployeeID].Add(t)
	}
	return out
}

// MinutesByDay sums minutes of all employees per day of period, in order.
func MinutesByDay(logs []WorkLog, period generic.Period, policy StatusPolicy) []DayMinutes {
	days := period.Days()
	index := make(map[generic.Date]int, len(days))
	out := make([]DayMinutes, len(days))
	for i, d := range days {
		index[d] = i
		out[i] = DayMinutes{Date: d}
	}
	for _, log := range logs {
		i, ok := index[log.Date]
		if !ok || log.TotalMinutes < 0 || !policy.Accepts(log.Status) {
			continue
		}
		out[i].Minutes += log.TotalMinutes
	}
	return out
}

// DayMinutes is one bar of the dashboard's daily hours chart.
type DayMinutes struct {
	Date    generic.Date
	Minutes int64
}

func counts(log WorkLog, employeeID EmployeeID, period generic.Period, policy StatusPolicy) bool {
	return log.EmployeeID == employeeID &&
		log.TotalMinutes >= 0 &&
		period.Contains(log.Date) &&
		policy.Accepts(log.Status)
}
