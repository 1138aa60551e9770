package payroll_test

import (
	"testing"

	"github.com/paralelo/workforce/payroll"
	"github.com/stretchr/testify/assert"
)

func TestCompute_ZeroLogs_AllZero(t *testing.T) {
	e := employee("ana", rate("25.00", "2020-01-01"))

	slip := payroll.Compute(e, nil, period("2024-07-01", "2024-07-31"), payroll.AnyStatus, nil)

	assert.True(t, slip.Base.IsZero())
	assert.True(t, slip.Bonus.IsZero())
	assert.True(t, slip.Total.IsZero())
	assertDec(t, "25", slip.Rate)
}

func TestCompute_NoRateHistory_AllZero(t *testing.T) {
	e := employee("ana")
	logs := []payroll.WorkLog{wlog("ana", "2024-07-07", 480, payroll.StatusApproved)}

	slip := payroll.Compute(e, logs, period("2024-07-01", "2024-07-31"), payroll.AnyStatus, nil)

	assert.Equal(t, int64(480), slip.Totals.TotalMinutes)
	assert.True(t, slip.Rate.IsZero())
	assert.True(t, slip.Total.IsZero())
}

func TestCompute_SundayRoundTrip(t *testing.T) {
	// GIVEN: Rate 10.00 from 2024-01-01 and 480 minutes on Sunday 2024-01-07
	// WHEN: Computing January 2024
	// THEN: Base 80, Sunday bonus 80, total 160
	e := employee("ana", rate("10.00", "2024-01-01"))
	logs := []payroll.WorkLog{wlog("ana", "2024-01-07", 480, payroll.StatusApproved)}

	slip := payroll.Compute(e, logs, period("2024-01-01", "2024-01-31"), payroll.AnyStatus, nil)

	assert.Equal(t, payroll.Totals{TotalMinutes: 480, BonusMinutes: 480}, slip.Totals)
	assertDec(t, "80.00", slip.Base)
	assertDec(t, "80.00", slip.Bonus)
	assertDec(t, "160.00", slip.Total)
}

func TestCompute_PeriodBeforeRaise_UsesOldRate(t *testing.T) {
	e := employee("ana", rate("12.50", "2023-01-01"), rate("15.00", "2024-06-01"))
	logs := []payroll.WorkLog{wlog("ana", "2024-05-15", 120, payroll.StatusApproved)}

	slip := payroll.Compute(e, logs, period("2024-05-01", "2024-05-31"), payroll.AnyStatus, nil)

	assertDec(t, "12.50", slip.Rate)
	assertDec(t, "25", slip.Total)
}

func TestCompute_PeriodAfterRaise_UsesNewRate(t *testing.T) {
	e := employee("ana", rate("12.50", "2023-01-01"), rate("15.00", "2024-06-01"))
	logs := []payroll.WorkLog{wlog("ana", "2024-06-10", 120, payroll.StatusApproved)}

	slip := payroll.Compute(e, logs, period("2024-06-01", "2024-06-30"), payroll.AnyStatus, nil)

	assertDec(t, "15.00", slip.Rate)
	assertDec(t, "30", slip.Total)
}

func TestCompute_MidPeriodRaise_AppliesToWholePeriod(t *testing.T) {
	// GIVEN: A raise effective mid-month
	// THEN: The period-end rate pays every hour of the month
	e := employee("ana", rate("10.00", "2024-01-01"), rate("20.00", "2024-07-15"))
	logs := []payroll.WorkLog{
		wlog("ana", "2024-07-02", 60, payroll.StatusApproved),
		wlog("ana", "2024-07-20", 60, payroll.StatusApproved),
	}

	slip := payroll.Compute(e, logs, period("2024-07-01", "2024-07-31"), payroll.AnyStatus, nil)

	assertDec(t, "20", slip.Rate)
	assertDec(t, "40", slip.Base)
}

func TestCompute_Adjustments(t *testing.T) {
	e := employee("ana", rate("12.00", "2024-01-01"))
	logs := []payroll.WorkLog{
		wlog("ana", "2024-07-01", 450, payroll.StatusApproved), // Monday
		wlog("ana", "2024-07-07", 90, payroll.StatusApproved),  // Sunday
	}
	adj := &payroll.Adjustment{EmployeeID: "ana", Month: "2024-07", Extra: dec("50"), Discount: dec("20.25")}

	slip := payroll.Compute(e, logs, period("2024-07-01", "2024-07-31"), payroll.AnyStatus, adj)

	assertDec(t, "108", slip.Base)  // 540 min = 9h * 12
	assertDec(t, "18", slip.Bonus)  // 90 min = 1.5h * 12
	assertDec(t, "50", slip.Extra)
	assertDec(t, "20.25", slip.Discount)
	assertDec(t, "155.75", slip.Total)
}

func TestCompute_PolicyChangesTotals(t *testing.T) {
	e := employee("ana", rate("10.00", "2024-01-01"))
	logs := julyLogs()

	all := payroll.Compute(e, logs, period("2024-07-01", "2024-07-31"), payroll.AnyStatus, nil)
	approved := payroll.Compute(e, logs, period("2024-07-01", "2024-07-31"), payroll.ApprovedOnly, nil)

	assert.True(t, approved.Total.LessThan(all.Total))
	assertDec(t, "125", approved.Base) // 750 min
}

func TestCompute_FractionalMinutes(t *testing.T) {
	e := employee("ana", rate("12.50", "2023-01-01"))
	logs := []payroll.WorkLog{wlog("ana", "2024-07-01", 465, payroll.StatusPending)}

	slip := payroll.Compute(e, logs, period("2024-07-01", "2024-07-31"), payroll.AnyStatus, nil)

	assertDec(t, "96.875", slip.Base)
}
