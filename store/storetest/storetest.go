// Package storetest holds the behaviour every store.Store implementation
// must share. Backends call Run from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/paralelo/workforce/finance"
	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/leave"
	"github.com/paralelo/workforce/payroll"
	"github.com/paralelo/workforce/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) store.Store

// Run exercises s against the store.Store contract.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"Employees", testEmployees},
		{"EmployeeCascade", testEmployeeCascade},
		{"WorkLogs", testWorkLogs},
		{"Adjustments", testAdjustments},
		{"Houses", testHouses},
		{"RevenuesAndExpenses", testRevenuesAndExpenses},
		{"LeaveRequests", testLeaveRequests},
		{"Holidays", testHolidays},
		{"PayrollRuns", testPayrollRuns},
		{"Reset", testReset},
		{"ServiceOverStore", testServiceOverStore},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, newStore(t))
		})
	}
}

// =============================================================================
// FIXTURES
// =============================================================================

func d(s string) generic.Date { return generic.MustDate(s) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ana() payroll.Employee {
	return payroll.Employee{
		ID:        "ana",
		Name:      "Ana Silva",
		Email:     "ana@example.com",
		Role:      payroll.RoleEmployee,
		JobType:   payroll.JobByTime,
		StartDate: d("2024-01-15"),
		Rates: []payroll.RateRecord{
			{Rate: dec("12.50"), EffectiveDate: d("2024-01-01")},
			{Rate: dec("10.00"), EffectiveDate: d("2023-01-01")},
		},
	}
}

func joao() payroll.Employee {
	return payroll.Employee{
		ID:        "joao",
		Name:      "João Costa",
		Role:      payroll.RoleEmployee,
		JobType:   payroll.JobByProduction,
		StartDate: d("2024-03-01"),
		Rates:     []payroll.RateRecord{{Rate: dec("15"), EffectiveDate: d("2024-03-01")}},
	}
}

func timeLog(id, emp, date string, status payroll.Status) payroll.WorkLog {
	return payroll.WorkLog{
		ID:           payroll.WorkLogID(id),
		EmployeeID:   payroll.EmployeeID(emp),
		Date:         d(date),
		TotalMinutes: 450,
		Status:       status,
		Detail:       payroll.TimeDetail{Start: "08:00", End: "16:00"},
	}
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func testEmployees(t *testing.T, s store.Store) {
	ctx := context.Background()

	require.NoError(t, s.CreateEmployee(ctx, joao()))
	require.NoError(t, s.CreateEmployee(ctx, ana()))
	assert.ErrorIs(t, s.CreateEmployee(ctx, ana()), generic.ErrDuplicateID)

	got, err := s.GetEmployee(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", got.Name)
	assert.Equal(t, payroll.JobByTime, got.JobType)
	assert.Equal(t, d("2024-01-15"), got.StartDate)
	assert.Nil(t, got.HouseID)
	require.Len(t, got.Rates, 2, "rates come back in write order")
	assertDec(t, "12.50", got.Rates[0].Rate)
	assert.Equal(t, d("2023-01-01"), got.Rates[1].EffectiveDate)

	// WHEN: the profile is updated and a rate is added
	updated := ana()
	updated.Name = "Ana Maria Silva"
	updated.Rates = nil
	require.NoError(t, s.UpdateEmployee(ctx, updated))
	require.NoError(t, s.AddRate(ctx, "ana", payroll.RateRecord{Rate: dec("13"), EffectiveDate: d("2024-01-01")}))

	// THEN: rates are untouched by the update and the new one is last
	got, err = s.GetEmployee(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria Silva", got.Name)
	require.Len(t, got.Rates, 3)
	assertDec(t, "13", got.Rates[2].Rate)
	assertDec(t, "13", payroll.ResolveRate(*got, d("2024-06-01")))

	list, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, payroll.EmployeeID("ana"), list[0].ID, "ordered by name")
	assert.Len(t, list[0].Rates, 3)
	assert.Len(t, list[1].Rates, 1)

	_, err = s.GetEmployee(ctx, "ghost")
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)
	assert.ErrorIs(t, s.UpdateEmployee(ctx, payroll.Employee{ID: "ghost", Name: "x"}), generic.ErrEmployeeNotFound)
	assert.ErrorIs(t, s.AddRate(ctx, "ghost", payroll.RateRecord{Rate: dec("1"), EffectiveDate: d("2024-01-01")}), generic.ErrEmployeeNotFound)
	assert.ErrorIs(t, s.DeleteEmployee(ctx, "ghost"), generic.ErrEmployeeNotFound)
}

func testEmployeeCascade(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateEmployee(ctx, ana()))
	require.NoError(t, s.CreateEmployee(ctx, joao()))
	require.NoError(t, s.SaveWorkLog(ctx, timeLog("w1", "ana", "2024-07-01", payroll.StatusPending)))
	require.NoError(t, s.SaveWorkLog(ctx, timeLog("w2", "joao", "2024-07-01", payroll.StatusPending)))
	require.NoError(t, s.SaveAdjustment(ctx, payroll.Adjustment{EmployeeID: "ana", Month: "2024-07", Extra: dec("5"), Discount: dec("0")}))
	req, err := leave.NewRequest("ana", generic.Period{Start: d("2024-09-02"), End: d("2024-09-06")}, "", d("2024-08-01"), nil)
	require.NoError(t, err)
	require.NoError(t, s.SaveLeaveRequest(ctx, req))

	// WHEN
	require.NoError(t, s.DeleteEmployee(ctx, "ana"))

	// THEN
	logs, err := s.ListWorkLogs(ctx, payroll.WorkLogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, payroll.EmployeeID("joao"), logs[0].EmployeeID)

	adjs, err := s.ListAdjustments(ctx, "2024-07")
	require.NoError(t, err)
	assert.Empty(t, adjs)

	reqs, err := s.ListLeaveRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

// =============================================================================
// WORK LOGS
// =============================================================================

func testWorkLogs(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateEmployee(ctx, ana()))
	require.NoError(t, s.CreateEmployee(ctx, joao()))

	production := payroll.WorkLog{
		ID:           "w3",
		EmployeeID:   "joao",
		Date:         d("2024-07-07"),
		TotalMinutes: 400,
		Status:       payroll.StatusApproved,
		Detail:       payroll.ProductionDetail{Departures: 10, Stayovers: 5},
	}
	require.NoError(t, s.SaveWorkLog(ctx, timeLog("w1", "ana", "2024-07-01", payroll.StatusPending)))
	require.NoError(t, s.SaveWorkLog(ctx, timeLog("w2", "ana", "2024-07-02", payroll.StatusApproved)))
	require.NoError(t, s.SaveWorkLog(ctx, production))
	require.NoError(t, s.SaveWorkLog(ctx, timeLog("w4", "ana", "2024-08-01", payroll.StatusApproved)))

	assert.ErrorIs(t, s.SaveWorkLog(ctx, timeLog("w9", "ghost", "2024-07-01", payroll.StatusPending)), generic.ErrEmployeeNotFound)

	got, err := s.GetWorkLog(ctx, "w3")
	require.NoError(t, err)
	assert.Equal(t, production, *got, "production detail survives storage")

	got, err = s.GetWorkLog(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, payroll.TimeDetail{Start: "08:00", End: "16:00"}, got.Detail)

	all, err := s.ListWorkLogs(ctx, payroll.WorkLogFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, payroll.WorkLogID("w4"), all[0].ID, "newest first")
	assert.Equal(t, payroll.WorkLogID("w1"), all[3].ID)

	july, err := s.ListWorkLogs(ctx, payroll.WorkLogFilter{
		EmployeeID: "ana",
		From:       d("2024-07-01"),
		To:         d("2024-07-31"),
		Status:     payroll.StatusApproved,
	})
	require.NoError(t, err)
	require.Len(t, july, 1)
	assert.Equal(t, payroll.WorkLogID("w2"), july[0].ID)

	// WHEN: an entry is saved again under the same ID
	edited := timeLog("w1", "ana", "2024-07-03", payroll.StatusRejected)
	edited.TotalMinutes = 120
	require.NoError(t, s.SaveWorkLog(ctx, edited))

	got, err = s.GetWorkLog(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, d("2024-07-03"), got.Date)
	assert.Equal(t, int64(120), got.TotalMinutes)
	assert.Equal(t, payroll.StatusRejected, got.Status)

	require.NoError(t, s.DeleteWorkLog(ctx, "w1"))
	_, err = s.GetWorkLog(ctx, "w1")
	assert.ErrorIs(t, err, generic.ErrWorkLogNotFound)
	assert.ErrorIs(t, s.DeleteWorkLog(ctx, "w1"), generic.ErrWorkLogNotFound)
}

func testAdjustments(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateEmployee(ctx, ana()))
	require.NoError(t, s.CreateEmployee(ctx, joao()))

	require.NoError(t, s.SaveAdjustment(ctx, payroll.Adjustment{EmployeeID: "ana", Month: "2024-07", Extra: dec("10"), Discount: dec("0")}))
	require.NoError(t, s.SaveAdjustment(ctx, payroll.Adjustment{EmployeeID: "joao", Month: "2024-07", Extra: dec("0"), Discount: dec("3.25")}))
	require.NoError(t, s.SaveAdjustment(ctx, payroll.Adjustment{EmployeeID: "ana", Month: "2024-08", Extra: dec("1"), Discount: dec("1")}))
	// upsert
	require.NoError(t, s.SaveAdjustment(ctx, payroll.Adjustment{EmployeeID: "ana", Month: "2024-07", Extra: dec("20"), Discount: dec("2")}))

	adjs, err := s.ListAdjustments(ctx, "2024-07")
	require.NoError(t, err)
	require.Len(t, adjs, 2)
	assert.Equal(t, payroll.EmployeeID("ana"), adjs[0].EmployeeID)
	assertDec(t, "20", adjs[0].Extra)
	assertDec(t, "2", adjs[0].Discount)
	assertDec(t, "3.25", adjs[1].Discount)

	assert.ErrorIs(t, s.SaveAdjustment(ctx, payroll.Adjustment{EmployeeID: "ghost", Month: "2024-07"}), generic.ErrEmployeeNotFound)
}

// =============================================================================
// FINANCE
// =============================================================================

func testHouses(t *testing.T, s store.Store) {
	ctx := context.Background()

	first, err := s.SaveHouse(ctx, finance.House{Name: "Casa Azul", Address: "Rua A", Rent: dec("800")})
	require.NoError(t, err)
	second, err := s.SaveHouse(ctx, finance.House{Name: "Casa Verde", Rent: dec("650.50")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	first.Rent = dec("900")
	_, err = s.SaveHouse(ctx, first)
	require.NoError(t, err)

	houses, err := s.ListHouses(ctx)
	require.NoError(t, err)
	require.Len(t, houses, 2)
	assertDec(t, "900", houses[0].Rent)
	assert.Equal(t, "Rua A", houses[0].Address)

	// GIVEN: an employee living in the first house
	resident := ana()
	resident.HouseID = &first.ID
	require.NoError(t, s.CreateEmployee(ctx, resident))

	// WHEN
	require.NoError(t, s.DeleteHouse(ctx, first.ID))

	// THEN
	e, err := s.GetEmployee(ctx, "ana")
	require.NoError(t, err)
	assert.Nil(t, e.HouseID)
	assert.ErrorIs(t, s.DeleteHouse(ctx, first.ID), generic.ErrRecordNotFound)
}

func testRevenuesAndExpenses(t *testing.T, s store.Store) {
	ctx := context.Background()

	require.NoError(t, s.SaveRevenue(ctx, finance.Revenue{ID: "r1", Description: "Cleaning", Client: "Hotel Mar", Date: d("2024-11-05"), Amount: dec("3000"), Status: finance.RevenueReceived}))
	require.NoError(t, s.SaveRevenue(ctx, finance.Revenue{ID: "r2", Description: "Laundry", Client: "Hotel Sol", Date: d("2024-11-20"), Amount: dec("1200.40"), Status: finance.RevenuePending}))
	require.NoError(t, s.SaveExpense(ctx, finance.Expense{ID: "e1", Description: "Products", Category: "Supplies", Date: d("2024-11-08"), Amount: dec("250.50"), Status: finance.ExpensePaid}))

	revenues, err := s.ListRevenues(ctx)
	require.NoError(t, err)
	require.Len(t, revenues, 2)
	assert.Equal(t, "r2", revenues[0].ID)
	assert.Equal(t, "Hotel Sol", revenues[0].Client)
	assertDec(t, "1200.40", revenues[0].Amount)
	assert.Equal(t, finance.RevenuePending, revenues[0].Status)

	expenses, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Supplies", expenses[0].Category)
	assert.Equal(t, d("2024-11-08"), expenses[0].Date)

	require.NoError(t, s.DeleteRevenue(ctx, "r1"))
	require.NoError(t, s.DeleteExpense(ctx, "e1"))
	assert.ErrorIs(t, s.DeleteRevenue(ctx, "r1"), generic.ErrRecordNotFound)
	assert.ErrorIs(t, s.DeleteExpense(ctx, "e1"), generic.ErrRecordNotFound)

	revenues, err = s.ListRevenues(ctx)
	require.NoError(t, err)
	assert.Len(t, revenues, 1)
}

// =============================================================================
// LEAVE
// =============================================================================

func testLeaveRequests(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateEmployee(ctx, ana()))

	older, err := leave.NewRequest("ana", generic.Period{Start: d("2024-09-02"), End: d("2024-09-06")}, "Family", d("2024-08-28"), nil)
	require.NoError(t, err)
	newer, err := leave.NewRequest("ana", generic.Period{Start: d("2024-12-20"), End: d("2024-12-27")}, "Férias", d("2024-11-10"), nil)
	require.NoError(t, err)
	require.NoError(t, s.SaveLeaveRequest(ctx, older))
	require.NoError(t, s.SaveLeaveRequest(ctx, newer))

	orphan := newer
	orphan.ID = "orphan"
	orphan.EmployeeID = "ghost"
	assert.ErrorIs(t, s.SaveLeaveRequest(ctx, orphan), generic.ErrEmployeeNotFound)

	require.NoError(t, newer.Approve("admin"))
	require.NoError(t, s.SaveLeaveRequest(ctx, newer))

	got, err := s.GetLeaveRequest(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, newer, *got)
	assert.Equal(t, 6, got.DaysRequested)

	list, err := s.ListLeaveRequests(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, leave.StatusPending, list[1].Status)

	_, err = s.GetLeaveRequest(ctx, "missing")
	assert.ErrorIs(t, err, generic.ErrLeaveRequestNotFound)
}

func testHolidays(t *testing.T, s store.Store) {
	ctx := context.Background()

	require.NoError(t, s.SaveHoliday(ctx, generic.Holiday{ID: "h2", Date: d("2000-12-25"), Name: "Christmas", Recurring: true}))
	require.NoError(t, s.SaveHoliday(ctx, generic.Holiday{ID: "h1", Date: d("2000-01-01"), Name: "New Year", Recurring: true}))
	assert.ErrorIs(t, s.SaveHoliday(ctx, generic.Holiday{ID: "h3", Date: d("2000-12-25"), Name: "Christmas"}), generic.ErrDuplicateID)

	holidays, err := s.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.Equal(t, "h1", holidays[0].ID)
	assert.True(t, holidays[1].Recurring)
	assert.True(t, holidays.IsHoliday(d("2024-12-25")))
}

// =============================================================================
// PAYROLL RUNS
// =============================================================================

func testPayrollRuns(t *testing.T, s store.Store) {
	ctx := context.Background()
	closedAt := time.Date(2024, 8, 1, 2, 0, 0, 0, time.UTC)

	july := store.NewPayrollRunRecord(payroll.RunResult{
		Period: generic.MonthPeriod(2024, time.July),
		Policy: payroll.ApprovedOnly,
		Lines: []payroll.Line{{
			Name:    "Ana Silva",
			Payslip: payroll.Payslip{EmployeeID: "ana", Rate: dec("12.50"), Totals: payroll.Totals{TotalMinutes: 480}, Total: dec("100")},
		}},
		Totals: payroll.RunTotals{TotalMinutes: 480, Net: dec("100")},
	}, closedAt)
	june := store.NewPayrollRunRecord(payroll.RunResult{Period: generic.MonthPeriod(2024, time.June), Policy: payroll.AnyStatus}, closedAt)

	require.NoError(t, s.SavePayrollRun(ctx, june))
	require.NoError(t, s.SavePayrollRun(ctx, july))

	again := july
	again.ID = "another"
	assert.ErrorIs(t, s.SavePayrollRun(ctx, again), generic.ErrAlreadyClosed)

	closed, err := s.IsMonthClosed(ctx, "2024-07")
	require.NoError(t, err)
	assert.True(t, closed)
	closed, err = s.IsMonthClosed(ctx, "2024-09")
	require.NoError(t, err)
	assert.False(t, closed)

	runs, err := s.ListPayrollRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	got := runs[0]
	assert.Equal(t, "2024-07", got.Month)
	assert.Equal(t, july.ID, got.ID)
	assert.Equal(t, payroll.ApprovedOnly, got.Policy)
	assert.Equal(t, d("2024-07-31"), got.Period.End)
	assert.True(t, closedAt.Equal(got.ClosedAt))
	assert.Equal(t, int64(480), got.Minutes)
	assertDec(t, "100", got.Net)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Ana Silva", got.Lines[0].Name)
	assertDec(t, "12.50", got.Lines[0].Rate)
	assert.Equal(t, "2024-06", runs[1].Month)
}

func testReset(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateEmployee(ctx, ana()))
	require.NoError(t, s.SaveWorkLog(ctx, timeLog("w1", "ana", "2024-07-01", payroll.StatusPending)))
	_, err := s.SaveHouse(ctx, finance.House{Name: "Casa", Rent: dec("1")})
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))

	employees, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)
	logs, err := s.ListWorkLogs(ctx, payroll.WorkLogFilter{})
	require.NoError(t, err)
	assert.Empty(t, logs)

	h, err := s.SaveHouse(ctx, finance.House{Name: "Casa", Rent: dec("1")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), h.ID, "house ids restart after reset")
}

// testServiceOverStore runs the payroll service on stored data: July 2024
// with a Sunday entry for each employee.
func testServiceOverStore(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateEmployee(ctx, ana()))
	require.NoError(t, s.CreateEmployee(ctx, joao()))

	sunday := timeLog("w1", "ana", "2024-07-07", payroll.StatusApproved)
	sunday.TotalMinutes = 480
	weekday := timeLog("w2", "ana", "2024-07-08", payroll.StatusPending)
	weekday.TotalMinutes = 480
	require.NoError(t, s.SaveWorkLog(ctx, sunday))
	require.NoError(t, s.SaveWorkLog(ctx, weekday))
	require.NoError(t, s.SaveAdjustment(ctx, payroll.Adjustment{EmployeeID: "ana", Month: "2024-07", Extra: dec("10"), Discount: dec("4.25")}))

	svc := payroll.NewService(s)
	result, err := svc.Run(ctx, generic.MonthPeriod(2024, time.July), payroll.RunOptions{})
	require.NoError(t, err)

	require.Len(t, result.Lines, 2)
	// ana: 960 min at 12.50 = 200, Sunday bonus 100, +10 -4.25
	assertDec(t, "200", result.Lines[0].Base)
	assertDec(t, "100", result.Lines[0].Bonus)
	assertDec(t, "305.75", result.Lines[0].Total)
	assert.True(t, result.Lines[1].Total.IsZero())

	slip, err := svc.Payslip(ctx, "ana", generic.MonthPeriod(2024, time.July), payroll.ApprovedOnly)
	require.NoError(t, err)
	assertDec(t, "205.75", slip.Total)
}
