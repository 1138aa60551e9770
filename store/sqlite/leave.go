package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/leave"
	"github.com/paralelo/workforce/payroll"
	"github.com/paralelo/workforce/store"
	"github.com/shopspring/decimal"
)

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

type leaveRow struct {
	ID            string       `db:"id"`
	EmployeeID    string       `db:"employee_id"`
	StartDate     generic.Date `db:"start_date"`
	EndDate       generic.Date `db:"end_date"`
	DaysRequested int          `db:"days_requested"`
	Status        string       `db:"status"`
	Reason        string       `db:"reason"`
	CreatedAt     generic.Date `db:"created_at"`
	DecidedBy     string       `db:"decided_by"`
}

func (r leaveRow) toDomain() leave.Request {
	return leave.Request{
		ID:            leave.RequestID(r.ID),
		EmployeeID:    payroll.EmployeeID(r.EmployeeID),
		Period:        generic.Period{Start: r.StartDate, End: r.EndDate},
		DaysRequested: r.DaysRequested,
		Status:        leave.Status(r.Status),
		Reason:        r.Reason,
		CreatedAt:     r.CreatedAt,
		DecidedBy:     r.DecidedBy,
	}
}

const leaveColumns = `id, employee_id, start_date, end_date, days_requested, status, reason, created_at, decided_by`

func (s *Store) ListLeaveRequests(ctx context.Context) ([]leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []leaveRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+leaveColumns+` FROM leave_requests ORDER BY created_at DESC, id`); err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	out := make([]leave.Request, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) GetLeaveRequest(ctx context.Context, id leave.RequestID) (*leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row leaveRow
	err := s.db.GetContext(ctx, &row, `SELECT `+leaveColumns+` FROM leave_requests WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrLeaveRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get leave request: %w", err)
	}
	r := row.toDomain()
	return &r, nil
}

func (s *Store) SaveLeaveRequest(ctx context.Context, r leave.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireEmployee(ctx, tx, r.EmployeeID); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO leave_requests (`+leaveColumns+`)
			VALUES (:id, :employee_id, :start_date, :end_date, :days_requested, :status, :reason, :created_at, :decided_by)
			ON CONFLICT(id) DO UPDATE SET
				start_date = excluded.start_date,
				end_date = excluded.end_date,
				days_requested = excluded.days_requested,
				status = excluded.status,
				reason = excluded.reason,
				decided_by = excluded.decided_by`,
			leaveRow{
				ID:            string(r.ID),
				EmployeeID:    string(r.EmployeeID),
				StartDate:     r.Period.Start,
				EndDate:       r.Period.End,
				DaysRequested: r.DaysRequested,
				Status:        string(r.Status),
				Reason:        r.Reason,
				CreatedAt:     r.CreatedAt,
				DecidedBy:     r.DecidedBy,
			})
		if err != nil {
			return fmt.Errorf("failed to save leave request: %w", err)
		}
		return nil
	})
}

// =============================================================================
// HOLIDAYS
// =============================================================================

type holidayRow struct {
	ID        string       `db:"id"`
	Date      generic.Date `db:"date"`
	Name      string       `db:"name"`
	Recurring bool         `db:"recurring"`
}

func (s *Store) ListHolidays(ctx context.Context) (generic.HolidayList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []holidayRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, date, name, recurring FROM holidays ORDER BY date, id`); err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	out := make(generic.HolidayList, 0, len(rows))
	for _, r := range rows {
		out = append(out, generic.Holiday{ID: r.ID, Date: r.Date, Name: r.Name, Recurring: r.Recurring})
	}
	return out, nil
}

// SaveHoliday upserts by ID. Two holidays may not share a date and name.
func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO holidays (id, date, name, recurring) VALUES (:id, :date, :name, :recurring)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			name = excluded.name,
			recurring = excluded.recurring`,
		holidayRow{ID: h.ID, Date: h.Date, Name: h.Name, Recurring: h.Recurring})
	if isUniqueConstraintError(err) {
		return generic.ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("failed to save holiday: %w", err)
	}
	return nil
}

// =============================================================================
// PAYROLL RUNS
// =============================================================================

type payrollRunRow struct {
	ID           string          `db:"id"`
	Month        string          `db:"month"`
	PeriodStart  generic.Date    `db:"period_start"`
	PeriodEnd    generic.Date    `db:"period_end"`
	Policy       string          `db:"policy"`
	LinesJSON    string          `db:"lines_json"`
	Net          decimal.Decimal `db:"net"`
	TotalMinutes int64           `db:"total_minutes"`
	ClosedAt     string          `db:"closed_at"`
}

func (s *Store) SavePayrollRun(ctx context.Context, r store.PayrollRunRecord) error {
	lines, err := json.Marshal(r.Lines)
	if err != nil {
		return fmt.Errorf("encode payroll run lines: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO payroll_runs (id, month, period_start, period_end, policy, lines_json, net, total_minutes, closed_at)
		VALUES (:id, :month, :period_start, :period_end, :policy, :lines_json, :net, :total_minutes, :closed_at)`,
		payrollRunRow{
			ID:           r.ID,
			Month:        r.Month,
			PeriodStart:  r.Period.Start,
			PeriodEnd:    r.Period.End,
			Policy:       string(r.Policy),
			LinesJSON:    string(lines),
			Net:          r.Net,
			TotalMinutes: r.Minutes,
			ClosedAt:     r.ClosedAt.UTC().Format(time.RFC3339),
		})
	if isUniqueConstraintError(err) {
		return generic.ErrAlreadyClosed
	}
	if err != nil {
		return fmt.Errorf("failed to save payroll run: %w", err)
	}
	return nil
}

// ListPayrollRuns returns closed months, most recent first.
func (s *Store) ListPayrollRuns(ctx context.Context) ([]store.PayrollRunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []payrollRunRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, month, period_start, period_end, policy, lines_json, net, total_minutes, closed_at
		FROM payroll_runs ORDER BY month DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}

	out := make([]store.PayrollRunRecord, 0, len(rows))
	for _, row := range rows {
		rec := store.PayrollRunRecord{
			ID:      row.ID,
			Month:   row.Month,
			Period:  generic.Period{Start: row.PeriodStart, End: row.PeriodEnd},
			Policy:  payroll.StatusPolicy(row.Policy),
			Net:     row.Net,
			Minutes: row.TotalMinutes,
		}
		if err := json.Unmarshal([]byte(row.LinesJSON), &rec.Lines); err != nil {
			return nil, fmt.Errorf("decode payroll run %s: %w", row.Month, err)
		}
		if rec.ClosedAt, err = time.Parse(time.RFC3339, row.ClosedAt); err != nil {
			return nil, fmt.Errorf("decode payroll run %s: %w", row.Month, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) IsMonthClosed(ctx context.Context, month string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	closed, err := exists(ctx, s.db, `SELECT COUNT(1) FROM payroll_runs WHERE month = ?`, month)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll run: %w", err)
	}
	return closed, nil
}
