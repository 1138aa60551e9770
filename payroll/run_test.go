package payroll_test

import (
	"context"
	"errors"
	"testing"

	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staff() []payroll.Employee {
	admin := employee("admin")
	admin.Role = payroll.RoleAdmin
	admin.Name = "Admin"

	ana := employee("ana", rate("10.00", "2024-01-01"))
	ana.Name = "Ana Silva"

	joao := employee("joao", rate("15.00", "2023-01-01"))
	joao.Name = "João Costa"
	joao.JobType = payroll.JobByProduction

	idle := employee("rui", rate("11.00", "2023-01-01"))
	idle.Name = "Rui Idle"

	return []payroll.Employee{joao, admin, idle, ana}
}

func TestRun_AllPayableEmployees(t *testing.T) {
	logs := append(julyLogs(), wlog("admin", "2024-07-01", 600, payroll.StatusApproved))

	result := payroll.Run(staff(), logs, period("2024-07-01", "2024-07-31"), nil, payroll.RunOptions{})

	require.Len(t, result.Lines, 3, "admins are not paid through payroll")
	assert.Equal(t, "Ana Silva", result.Lines[0].Name)
	assert.Equal(t, "João Costa", result.Lines[1].Name)
	assert.Equal(t, "Rui Idle", result.Lines[2].Name)
	assert.Equal(t, payroll.AnyStatus, result.Policy)

	// ana: 1350 min (420 on Sundays) at 10; joao: 400 Sunday min at 15
	assertDec(t, "225", result.Lines[0].Base)
	assertDec(t, "70", result.Lines[0].Bonus)
	assertDec(t, "100", result.Lines[1].Base)
	assertDec(t, "100", result.Lines[1].Bonus)
	assert.True(t, result.Lines[2].Total.IsZero())

	assert.Equal(t, int64(1750), result.Totals.TotalMinutes)
	assert.Equal(t, int64(820), result.Totals.BonusMinutes)
	assertDec(t, "495", result.Totals.Net)
}

func TestRun_ReportView_SkipsIdleAndUnapproved(t *testing.T) {
	result := payroll.Run(staff(), julyLogs(), period("2024-07-01", "2024-07-31"), nil,
		payroll.RunOptions{Policy: payroll.ApprovedOnly, SkipIdle: true})

	require.Len(t, result.Lines, 2)
	assert.Equal(t, int64(750), result.Lines[0].Totals.TotalMinutes)
	assertDec(t, "125", result.Lines[0].Base)
}

func TestRun_WithAdjustments(t *testing.T) {
	p := period("2024-07-01", "2024-07-31")
	adjustments := payroll.AdjustmentsFor([]payroll.Adjustment{
		{EmployeeID: "rui", Month: "2024-07", Extra: dec("40"), Discount: dec("0")},
		{EmployeeID: "ana", Month: "2024-06", Extra: dec("999"), Discount: dec("0")},
	}, p)

	result := payroll.Run(staff(), julyLogs(), p, adjustments, payroll.RunOptions{})

	assertDec(t, "40", result.Lines[2].Total)
	assertDec(t, "40", result.Totals.Extra)
	assertDec(t, "535", result.Totals.Net)
}

func TestAdjustmentsFor_OnlyWholeMonths(t *testing.T) {
	adjs := []payroll.Adjustment{{EmployeeID: "ana", Month: "2024-07", Extra: dec("10"), Discount: dec("0")}}

	assert.Len(t, payroll.AdjustmentsFor(adjs, period("2024-07-01", "2024-07-31")), 1)
	assert.Empty(t, payroll.AdjustmentsFor(adjs, period("2024-07-01", "2024-07-15")))
	assert.Empty(t, payroll.AdjustmentsFor(adjs, period("2024-06-15", "2024-07-31")))
}

// =============================================================================
// SERVICE
// =============================================================================

type fakeSource struct {
	employees   []payroll.Employee
	logs        []payroll.WorkLog
	adjustments []payroll.Adjustment
	err         error
}

func (f *fakeSource) ListEmployees(context.Context) ([]payroll.Employee, error) {
	return f.employees, f.err
}

func (f *fakeSource) GetEmployee(_ context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, generic.ErrEmployeeNotFound
}

func (f *fakeSource) ListWorkLogs(_ context.Context, filter payroll.WorkLogFilter) ([]payroll.WorkLog, error) {
	var out []payroll.WorkLog
	for _, l := range f.logs {
		if filter.Matches(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeSource) ListAdjustments(_ context.Context, month string) ([]payroll.Adjustment, error) {
	var out []payroll.Adjustment
	for _, a := range f.adjustments {
		if a.Month == month {
			out = append(out, a)
		}
	}
	return out, nil
}

func TestService_Run(t *testing.T) {
	src := &fakeSource{
		employees:   staff(),
		logs:        julyLogs(),
		adjustments: []payroll.Adjustment{{EmployeeID: "ana", Month: "2024-07", Extra: dec("0"), Discount: dec("5")}},
	}
	svc := payroll.NewService(src)

	result, err := svc.Run(context.Background(), period("2024-07-01", "2024-07-31"), payroll.RunOptions{})

	require.NoError(t, err)
	assertDec(t, "290", result.Lines[0].Total)
	assertDec(t, "490", result.Totals.Net)
}

func TestService_Run_InvalidPeriod(t *testing.T) {
	svc := payroll.NewService(&fakeSource{})

	_, err := svc.Run(context.Background(), period("2024-07-31", "2024-07-01"), payroll.RunOptions{})

	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
}

func TestService_Run_SourceError(t *testing.T) {
	boom := errors.New("boom")
	svc := payroll.NewService(&fakeSource{err: boom})

	_, err := svc.Run(context.Background(), period("2024-07-01", "2024-07-31"), payroll.RunOptions{})

	assert.ErrorIs(t, err, boom)
}

func TestService_Payslip(t *testing.T) {
	svc := payroll.NewService(&fakeSource{employees: staff(), logs: julyLogs()})

	slip, err := svc.Payslip(context.Background(), "joao", period("2024-07-01", "2024-07-31"), payroll.ApprovedOnly)
	require.NoError(t, err)
	assertDec(t, "200", slip.Total)

	_, err = svc.Payslip(context.Background(), "ghost", period("2024-07-01", "2024-07-31"), payroll.AnyStatus)
	assert.True(t, generic.IsNotFound(err))
}
