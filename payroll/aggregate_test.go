package payroll_test

import (
	"testing"

	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/payroll"
	"github.com/stretchr/testify/assert"
)

func wlog(emp, date string, minutes int64, status payroll.Status) payroll.WorkLog {
	return payroll.WorkLog{
		ID:           payroll.WorkLogID(emp + "-" + date),
		EmployeeID:   payroll.EmployeeID(emp),
		Date:         d(date),
		TotalMinutes: minutes,
		Status:       status,
	}
}

func period(start, end string) generic.Period {
	return generic.Period{Start: d(start), End: d(end)}
}

// July 2024: the 7th, 14th, 21st and 28th are Sundays.
func julyLogs() []payroll.WorkLog {
	return []payroll.WorkLog{
		wlog("ana", "2024-07-01", 450, payroll.StatusApproved),
		wlog("ana", "2024-07-02", 480, payroll.StatusPending),
		wlog("ana", "2024-07-07", 300, payroll.StatusApproved), // Sunday
		wlog("ana", "2024-07-14", 120, payroll.StatusRejected), // Sunday
		wlog("ana", "2024-08-01", 480, payroll.StatusApproved), // outside July
		wlog("joao", "2024-07-07", 400, payroll.StatusApproved),
	}
}

func TestAggregate_Empty(t *testing.T) {
	got := payroll.Aggregate(nil, "ana", period("2024-07-01", "2024-07-31"), payroll.AnyStatus)
	assert.Equal(t, payroll.Totals{}, got)
}

func TestAggregate_AnyStatus_CountsEveryEntry(t *testing.T) {
	got := payroll.Aggregate(julyLogs(), "ana", period("2024-07-01", "2024-07-31"), payroll.AnyStatus)

	assert.Equal(t, int64(450+480+300+120), got.TotalMinutes)
	assert.Equal(t, int64(300+120), got.BonusMinutes)
}

func TestAggregate_ApprovedOnly_SkipsPendingAndRejected(t *testing.T) {
	got := payroll.Aggregate(julyLogs(), "ana", period("2024-07-01", "2024-07-31"), payroll.ApprovedOnly)

	assert.Equal(t, int64(450+300), got.TotalMinutes)
	assert.Equal(t, int64(300), got.BonusMinutes)
}

func TestAggregate_RangeIsInclusive(t *testing.T) {
	got := payroll.Aggregate(julyLogs(), "ana", period("2024-07-02", "2024-07-07"), payroll.AnyStatus)
	assert.Equal(t, payroll.Totals{TotalMinutes: 780, BonusMinutes: 300}, got)
}

func TestAggregate_SkipsUndatedAndNegativeEntries(t *testing.T) {
	logs := []payroll.WorkLog{
		{EmployeeID: "ana", TotalMinutes: 500, Status: payroll.StatusApproved},
		wlog("ana", "2024-07-03", -60, payroll.StatusApproved),
		wlog("ana", "2024-07-04", 60, payroll.StatusApproved),
	}
	got := payroll.Aggregate(logs, "ana", period("2024-07-01", "2024-07-31"), payroll.AnyStatus)
	assert.Equal(t, payroll.Totals{TotalMinutes: 60}, got)
}

func TestAggregate_Additive(t *testing.T) {
	// GIVEN: [start, mid] and [mid+1, end] split the month
	// THEN: Their sum equals the aggregate over the whole month
	logs := julyLogs()
	whole := payroll.Aggregate(logs, "ana", period("2024-07-01", "2024-07-31"), payroll.AnyStatus)

	for _, mid := range []string{"2024-07-01", "2024-07-06", "2024-07-07", "2024-07-20", "2024-07-30"} {
		m := d(mid)
		first := payroll.Aggregate(logs, "ana", generic.Period{Start: d("2024-07-01"), End: m}, payroll.AnyStatus)
		second := payroll.Aggregate(logs, "ana", generic.Period{Start: m.AddDays(1), End: d("2024-07-31")}, payroll.AnyStatus)
		assert.Equal(t, whole, first.Add(second), "split at %s", mid)
	}
}

func TestAggregate_BonusNeverExceedsTotal(t *testing.T) {
	logs := julyLogs()
	for _, p := range []generic.Period{
		period("2024-07-01", "2024-07-31"),
		period("2024-07-07", "2024-07-07"),
		period("2024-06-01", "2024-08-31"),
	} {
		for _, policy := range []payroll.StatusPolicy{payroll.AnyStatus, payroll.ApprovedOnly} {
			for _, emp := range []payroll.EmployeeID{"ana", "joao", "nobody"} {
				got := payroll.Aggregate(logs, emp, p, policy)
				assert.LessOrEqual(t, got.BonusMinutes, got.TotalMinutes)
			}
		}
	}
}

func TestAggregate_SundayIsCalendarDay(t *testing.T) {
	// 2024-07-06 is a Saturday and 2024-07-08 a Monday; only the 7th is a bonus day
	logs := []payroll.WorkLog{
		wlog("ana", "2024-07-06", 100, payroll.StatusApproved),
		wlog("ana", "2024-07-07", 200, payroll.StatusApproved),
		wlog("ana", "2024-07-08", 400, payroll.StatusApproved),
	}
	got := payroll.Aggregate(logs, "ana", period("2024-07-01", "2024-07-31"), payroll.AnyStatus)
	assert.Equal(t, int64(200), got.BonusMinutes)
}

func TestAggregateAll_MatchesPerEmployee(t *testing.T) {
	logs := julyLogs()
	p := period("2024-07-01", "2024-07-31")
	all := payroll.AggregateAll(logs, p, payroll.ApprovedOnly)

	for _, emp := range []payroll.EmployeeID{"ana", "joao"} {
		assert.Equal(t, payroll.Aggregate(logs, emp, p, payroll.ApprovedOnly), all[emp], string(emp))
	}
}

func TestMinutesByDay(t *testing.T) {
	days := payroll.MinutesByDay(julyLogs(), period("2024-07-06", "2024-07-08"), payroll.AnyStatus)

	assert.Len(t, days, 3)
	assert.Equal(t, int64(0), days[0].Minutes)
	assert.Equal(t, int64(700), days[1].Minutes)
	assert.Equal(t, d("2024-07-08"), days[2].Date)
}
