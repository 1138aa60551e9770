package finance_test

import (
	"testing"

	"github.com/paralelo/workforce/finance"
	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/leave"
	"github.com/paralelo/workforce/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) generic.Date { return generic.MustDate(s) }

func dec(s string) decimal.Decimal { return generic.MustParseDecimal(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: want %s, got %s", msg, want, got.String())
}

func november() generic.Period {
	return generic.MonthPeriod(2024, 11)
}

func payrollRun(lines ...payroll.Line) payroll.RunResult {
	return payroll.RunResult{Period: november(), Lines: lines}
}

func line(id payroll.EmployeeID, name, total string) payroll.Line {
	return payroll.Line{Name: name, Payslip: payroll.Payslip{EmployeeID: id, Total: dec(total)}}
}

// =============================================================================
// STATEMENT
// =============================================================================

func TestBuildStatement_Totals(t *testing.T) {
	// GIVEN: one received and one pending revenue, a paid and a pending
	// expense, a house and two paid employees
	revenues := []finance.Revenue{
		{ID: "r1", Description: "Cleaning", Client: "Hotel Mar", Date: d("2024-11-05"), Amount: dec("3000"), Status: finance.RevenueReceived},
		{ID: "r2", Description: "Laundry", Client: "Hotel Sol", Date: d("2024-11-20"), Amount: dec("1200"), Status: finance.RevenuePending},
		{ID: "r3", Description: "October", Client: "Hotel Mar", Date: d("2024-10-30"), Amount: dec("9999"), Status: finance.RevenuePending},
	}
	expenses := []finance.Expense{
		{ID: "e1", Description: "Products", Category: "Supplies", Date: d("2024-11-08"), Amount: dec("250.50"), Status: finance.ExpensePaid},
		{ID: "e2", Description: "Fuel", Category: "Transport", Date: d("2024-11-12"), Amount: dec("80"), Status: finance.ExpensePending},
	}
	houses := []finance.House{
		{ID: 1, Name: "Casa Azul", Rent: dec("800")},
		{ID: 2, Name: "Free", Rent: dec("0")},
	}
	run := payrollRun(line("ana", "Ana Silva", "1000"), line("joao", "João Costa", "500.25"), line("rui", "Rui", "0"))

	// WHEN
	st := finance.BuildStatement(november(), revenues, expenses, houses, run)

	// THEN
	assertDec(t, "4200", st.TotalRevenue, "revenue")
	assertDec(t, "1500.25", st.TotalPayroll, "payroll")
	assertDec(t, "800", st.TotalRent, "rent")
	assertDec(t, "330.50", st.TotalMisc, "misc")
	assertDec(t, "2630.75", st.TotalExpenses, "expenses")
	assertDec(t, "1569.25", st.Balance, "balance")
	assertDec(t, "2380.25", st.Payable, "payable")
	assertDec(t, "1200", st.Receivable, "receivable")
	assert.Len(t, st.Items, 7, "zero payroll lines and zero rents are left out")
}

func TestBuildStatement_ItemsNewestFirst(t *testing.T) {
	revenues := []finance.Revenue{
		{ID: "r1", Description: "a", Date: d("2024-11-05"), Amount: dec("10"), Status: finance.RevenueReceived},
		{ID: "r2", Description: "b", Date: d("2024-11-20"), Amount: dec("10"), Status: finance.RevenueReceived},
	}
	houses := []finance.House{{ID: 7, Name: "Casa", Rent: dec("100")}}

	st := finance.BuildStatement(november(), revenues, nil, houses, payrollRun())

	require.Len(t, st.Items, 3)
	assert.Equal(t, "rent-7", st.Items[0].ID)
	assert.Equal(t, d("2024-11-30"), st.Items[0].Date)
	assert.Equal(t, finance.StatusCalculated, st.Items[0].Status)
	assert.Equal(t, "r2", st.Items[1].ID)
	assert.Equal(t, "r1", st.Items[2].ID)
}

func TestBuildStatement_BalanceMatchesReplay(t *testing.T) {
	revenues := []finance.Revenue{{ID: "r", Description: "x", Date: d("2024-11-01"), Amount: dec("100"), Status: finance.RevenueReceived}}
	expenses := []finance.Expense{{ID: "e", Description: "y", Date: d("2024-11-02"), Amount: dec("30"), Status: finance.ExpensePaid}}
	houses := []finance.House{{ID: 1, Name: "h", Rent: dec("50")}}

	st := finance.BuildStatement(november(), revenues, expenses, houses, payrollRun(line("ana", "Ana", "40")))

	assertDec(t, "-20", st.Balance, "balance")
	assert.True(t, st.Balance.Equal(finance.Replay(st.Items)))
}

func TestBuildStatement_Empty(t *testing.T) {
	st := finance.BuildStatement(november(), nil, nil, nil, payroll.RunResult{})

	assert.NotNil(t, st.Items)
	assert.Empty(t, st.Items)
	assert.True(t, st.Balance.IsZero())
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestBuildDashboard(t *testing.T) {
	today := d("2024-11-21")

	ana := payroll.Employee{ID: "ana", Role: payroll.RoleEmployee, StartDate: d("2024-01-15")}
	joao := payroll.Employee{ID: "joao", Role: payroll.RoleEmployee, StartDate: d("2024-11-04")}
	admin := payroll.Employee{ID: "admin", Role: payroll.RoleAdmin, StartDate: d("2024-11-01")}

	logs := []payroll.WorkLog{
		{ID: "1", EmployeeID: "ana", Date: d("2024-11-21"), TotalMinutes: 480, Status: payroll.StatusApproved},
		{ID: "2", EmployeeID: "joao", Date: d("2024-11-20"), TotalMinutes: 300, Status: payroll.StatusPending},
		{ID: "3", EmployeeID: "ana", Date: d("2024-11-14"), TotalMinutes: 200, Status: payroll.StatusApproved},
		{ID: "4", EmployeeID: "ana", Date: d("2024-10-31"), TotalMinutes: 999, Status: payroll.StatusApproved},
	}
	revenues := []finance.Revenue{
		{Date: d("2024-11-02"), Amount: dec("100")},
		{Date: d("2024-12-01"), Amount: dec("500")},
	}
	requests := []leave.Request{{Status: leave.StatusPending}, {Status: leave.StatusApproved}}

	dash := finance.BuildDashboard(today, []payroll.Employee{ana, joao, admin}, logs, revenues, requests, payroll.AnyStatus)

	assertDec(t, "100", dash.MonthRevenue, "month revenue")
	assert.Equal(t, 2, dash.ActiveEmployees)
	assert.Equal(t, 1, dash.NewEmployees)
	assert.Equal(t, int64(980), dash.MonthMinutes)
	assert.Equal(t, 1, dash.PendingLeave)

	require.Len(t, dash.Daily, finance.TrailingDays)
	assert.Equal(t, d("2024-11-15"), dash.Daily[0].Date)
	assert.Equal(t, today, dash.Daily[6].Date)
	assert.Equal(t, int64(480), dash.Daily[6].Minutes)
	assert.Equal(t, int64(300), dash.Daily[5].Minutes)

	approved := finance.BuildDashboard(today, nil, logs, nil, nil, payroll.ApprovedOnly)
	assert.Equal(t, int64(680), approved.MonthMinutes)
	assert.Equal(t, int64(0), approved.Daily[5].Minutes)
}
