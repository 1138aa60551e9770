/*
store.go - Persistence interface for the workforce service

PURPOSE:
  Defines the boundary between the HTTP layer and the database. The
  calculation packages (payroll, leave, finance) never touch storage: the
  API loads a snapshot through Store and hands plain slices to them.

KEY INTERFACES:
  Store:  Everything the API and the month-close scheduler persist
  payroll.Source (embedded): The read side payroll.Service needs

IMPLEMENTATIONS:
  - store/sqlite: SQLite via sqlx, schema managed by goose migrations
  - store/memory: In-memory, for tests and the "memory" driver

CONVENTIONS:
  - Lookups of a missing record return an error wrapping generic.ErrNotFound
  - Create of an existing ID returns generic.ErrDuplicateID
  - Writes referencing a missing employee return generic.ErrEmployeeNotFound
  - Deleting an employee deletes its rates, work logs, adjustments and leave
  - Lists are ordered: employees by name, work logs newest first,
    revenues and expenses newest first, leave by creation date newest first
*/
package store

import (
	"context"
	"time"

	"github.com/paralelo/workforce/finance"
	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/leave"
	"github.com/paralelo/workforce/payroll"
	"github.com/shopspring/decimal"
)

type Store interface {
	payroll.Source

	// Employees
	CreateEmployee(ctx context.Context, e payroll.Employee) error
	// UpdateEmployee replaces the profile fields. Rates are left untouched.
	UpdateEmployee(ctx context.Context, e payroll.Employee) error
	DeleteEmployee(ctx context.Context, id payroll.EmployeeID) error
	// AddRate appends to the employee's rate history.
	AddRate(ctx context.Context, id payroll.EmployeeID, r payroll.RateRecord) error

	// Work logs. SaveWorkLog inserts or replaces by ID.
	SaveWorkLog(ctx context.Context, w payroll.WorkLog) error
	GetWorkLog(ctx context.Context, id payroll.WorkLogID) (*payroll.WorkLog, error)
	DeleteWorkLog(ctx context.Context, id payroll.WorkLogID) error

	// SaveAdjustment upserts by (employee, month).
	SaveAdjustment(ctx context.Context, a payroll.Adjustment) error

	// Houses. SaveHouse assigns an ID when h.ID is zero.
	ListHouses(ctx context.Context) ([]finance.House, error)
	SaveHouse(ctx context.Context, h finance.House) (finance.House, error)
	DeleteHouse(ctx context.Context, id int64) error

	ListRevenues(ctx context.Context) ([]finance.Revenue, error)
	SaveRevenue(ctx context.Context, r finance.Revenue) error
	DeleteRevenue(ctx context.Context, id string) error

	ListExpenses(ctx context.Context) ([]finance.Expense, error)
	SaveExpense(ctx context.Context, e finance.Expense) error
	DeleteExpense(ctx context.Context, id string) error

	// Leave. SaveLeaveRequest inserts or replaces by ID.
	ListLeaveRequests(ctx context.Context) ([]leave.Request, error)
	GetLeaveRequest(ctx context.Context, id leave.RequestID) (*leave.Request, error)
	SaveLeaveRequest(ctx context.Context, r leave.Request) error

	ListHolidays(ctx context.Context) (generic.HolidayList, error)
	SaveHoliday(ctx context.Context, h generic.Holiday) error

	// Closed payroll months. SavePayrollRun returns generic.ErrAlreadyClosed
	// when the month already has a record.
	SavePayrollRun(ctx context.Context, r PayrollRunRecord) error
	ListPayrollRuns(ctx context.Context) ([]PayrollRunRecord, error)
	IsMonthClosed(ctx context.Context, month string) (bool, error)

	// Reset deletes all data.
	Reset(ctx context.Context) error
	Close() error
}

// =============================================================================
// PAYROLL RUN RECORD - Snapshot written when a month is closed
// =============================================================================

// PayrollRunRecord freezes a payroll run so later rate or log edits do not
// change what was reported for a closed month.
type PayrollRunRecord struct {
	ID       string
	Month    string // YYYY-MM
	Period   generic.Period
	Policy   payroll.StatusPolicy
	Lines    []PayrollRunLine
	Net      decimal.Decimal
	Minutes  int64
	ClosedAt time.Time
}

type PayrollRunLine struct {
	EmployeeID   payroll.EmployeeID `json:"employee_id"`
	Name         string             `json:"name"`
	TotalMinutes int64              `json:"total_minutes"`
	BonusMinutes int64              `json:"bonus_minutes"`
	Rate         decimal.Decimal    `json:"rate"`
	Total        decimal.Decimal    `json:"total"`
}

// NewPayrollRunRecord snapshots result as the closing record of its month.
func NewPayrollRunRecord(result payroll.RunResult, closedAt time.Time) PayrollRunRecord {
	lines := make([]PayrollRunLine, 0, len(result.Lines))
	for _, l := range result.Lines {
		lines = append(lines, PayrollRunLine{
			EmployeeID:   l.EmployeeID,
			Name:         l.Name,
			TotalMinutes: l.Totals.TotalMinutes,
			BonusMinutes: l.Totals.BonusMinutes,
			Rate:         l.Rate,
			Total:        l.Total,
		})
	}
	return PayrollRunRecord{
		ID:       generic.NewID("run"),
		Month:    result.Period.MonthKey(),
		Period:   result.Period,
		Policy:   result.Policy,
		Lines:    lines,
		Net:      result.Totals.Net,
		Minutes:  result.Totals.TotalMinutes,
		ClosedAt: closedAt.UTC(),
	}
}
