package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/payroll"
	"github.com/shopspring/decimal"
)

// =============================================================================
// WORK LOGS
// =============================================================================

type workLogRow struct {
	ID           string         `db:"id"`
	EmployeeID   string         `db:"employee_id"`
	Date         generic.Date   `db:"date"`
	TotalMinutes int64          `db:"total_minutes"`
	Status       string         `db:"status"`
	DetailKind   string         `db:"detail_kind"`
	DetailJSON   sql.NullString `db:"detail_json"`
}

func toWorkLogRow(w payroll.WorkLog) (workLogRow, error) {
	kind, payload, err := payroll.EncodeDetail(w.Detail)
	if err != nil {
		return workLogRow{}, err
	}
	row := workLogRow{
		ID:           string(w.ID),
		EmployeeID:   string(w.EmployeeID),
		Date:         w.Date,
		TotalMinutes: w.TotalMinutes,
		Status:       string(w.Status),
		DetailKind:   string(kind),
	}
	if payload != nil {
		row.DetailJSON = sql.NullString{String: string(payload), Valid: true}
	}
	return row, nil
}

func (r workLogRow) toDomain() (payroll.WorkLog, error) {
	detail, err := payroll.DecodeDetail(payroll.DetailKind(r.DetailKind), []byte(r.DetailJSON.String))
	if err != nil {
		return payroll.WorkLog{}, fmt.Errorf("work log %s: %w", r.ID, err)
	}
	return payroll.WorkLog{
		ID:           payroll.WorkLogID(r.ID),
		EmployeeID:   payroll.EmployeeID(r.EmployeeID),
		Date:         r.Date,
		TotalMinutes: r.TotalMinutes,
		Status:       payroll.Status(r.Status),
		Detail:       detail,
	}, nil
}

const workLogColumns = `id, employee_id, date, total_minutes, status, detail_kind, detail_json`

func (s *Store) ListWorkLogs(ctx context.Context, filter payroll.WorkLogFilter) ([]payroll.WorkLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.EmployeeID != "" {
		where = append(where, "employee_id = ?")
		args = append(args, filter.EmployeeID)
	}
	if !filter.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, filter.To)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}

	query := `SELECT ` + workLogColumns + ` FROM work_logs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date DESC, id`

	var rows []workLogRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list work logs: %w", err)
	}

	out := make([]payroll.WorkLog, 0, len(rows))
	for _, row := range rows {
		w, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *Store) GetWorkLog(ctx context.Context, id payroll.WorkLogID) (*payroll.WorkLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row workLogRow
	err := s.db.GetContext(ctx, &row, `SELECT `+workLogColumns+` FROM work_logs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrWorkLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get work log: %w", err)
	}
	w, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Store) SaveWorkLog(ctx context.Context, w payroll.WorkLog) error {
	row, err := toWorkLogRow(w)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireEmployee(ctx, tx, w.EmployeeID); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO work_logs (`+workLogColumns+`)
			VALUES (:id, :employee_id, :date, :total_minutes, :status, :detail_kind, :detail_json)
			ON CONFLICT(id) DO UPDATE SET
				employee_id = excluded.employee_id,
				date = excluded.date,
				total_minutes = excluded.total_minutes,
				status = excluded.status,
				detail_kind = excluded.detail_kind,
				detail_json = excluded.detail_json`,
			row)
		if err != nil {
			return fmt.Errorf("failed to save work log: %w", err)
		}
		return nil
	})
}

func (s *Store) DeleteWorkLog(ctx context.Context, id payroll.WorkLogID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM work_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete work log: %w", err)
	}
	return affected(res, generic.ErrWorkLogNotFound)
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

type adjustmentRow struct {
	EmployeeID string          `db:"employee_id"`
	Month      string          `db:"month"`
	Extra      decimal.Decimal `db:"extra"`
	Discount   decimal.Decimal `db:"discount"`
}

func (s *Store) ListAdjustments(ctx context.Context, month string) ([]payroll.Adjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []adjustmentRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT employee_id, month, extra, discount FROM adjustments
		WHERE month = ? ORDER BY employee_id`, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}

	out := make([]payroll.Adjustment, 0, len(rows))
	for _, r := range rows {
		out = append(out, payroll.Adjustment{
			EmployeeID: payroll.EmployeeID(r.EmployeeID),
			Month:      r.Month,
			Extra:      r.Extra,
			Discount:   r.Discount,
		})
	}
	return out, nil
}

func (s *Store) SaveAdjustment(ctx context.Context, a payroll.Adjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireEmployee(ctx, tx, a.EmployeeID); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO adjustments (employee_id, month, extra, discount)
			VALUES (:employee_id, :month, :extra, :discount)
			ON CONFLICT(employee_id, month) DO UPDATE SET
				extra = excluded.extra,
				discount = excluded.discount`,
			adjustmentRow{EmployeeID: string(a.EmployeeID), Month: a.Month, Extra: a.Extra, Discount: a.Discount})
		if err != nil {
			return fmt.Errorf("failed to save adjustment: %w", err)
		}
		return nil
	})
}
