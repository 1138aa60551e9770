package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/payroll"
	"github.com/shopspring/decimal"
)

// =============================================================================
// EMPLOYEES AND RATE HISTORY
// =============================================================================

type employeeRow struct {
	ID        string        `db:"id"`
	Name      string        `db:"name"`
	Email     string        `db:"email"`
	Phone     string        `db:"phone"`
	Role      string        `db:"role"`
	JobType   string        `db:"job_type"`
	StartDate generic.Date  `db:"start_date"`
	HouseID   sql.NullInt64 `db:"house_id"`
	CreatedAt string        `db:"created_at"`
}

func toEmployeeRow(e payroll.Employee) employeeRow {
	row := employeeRow{
		ID:        string(e.ID),
		Name:      e.Name,
		Email:     e.Email,
		Phone:     e.Phone,
		Role:      string(e.Role),
		JobType:   string(e.JobType),
		StartDate: e.StartDate,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if e.HouseID != nil {
		row.HouseID = sql.NullInt64{Int64: *e.HouseID, Valid: true}
	}
	return row
}

func (r employeeRow) toDomain() payroll.Employee {
	e := payroll.Employee{
		ID:        payroll.EmployeeID(r.ID),
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Role:      payroll.Role(r.Role),
		JobType:   payroll.JobType(r.JobType),
		StartDate: r.StartDate,
	}
	if r.HouseID.Valid {
		id := r.HouseID.Int64
		e.HouseID = &id
	}
	return e
}

type rateRow struct {
	EmployeeID    string          `db:"employee_id"`
	Rate          decimal.Decimal `db:"rate"`
	EffectiveDate generic.Date    `db:"effective_date"`
}

const employeeColumns = `id, name, email, phone, role, job_type, start_date, house_id, created_at`

func (s *Store) ListEmployees(ctx context.Context) ([]payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []employeeRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+employeeColumns+` FROM employees ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	var rates []rateRow
	if err := s.db.SelectContext(ctx, &rates, `SELECT employee_id, rate, effective_date FROM rates ORDER BY seq`); err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}

	byEmployee := make(map[string][]payroll.RateRecord)
	for _, r := range rates {
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], payroll.RateRecord{Rate: r.Rate, EffectiveDate: r.EffectiveDate})
	}

	out := make([]payroll.Employee, 0, len(rows))
	for _, row := range rows {
		e := row.toDomain()
		e.Rates = byEmployee[row.ID]
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) GetEmployee(ctx context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row employeeRow
	err := s.db.GetContext(ctx, &row, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	var rates []rateRow
	if err := s.db.SelectContext(ctx, &rates, `SELECT employee_id, rate, effective_date FROM rates WHERE employee_id = ? ORDER BY seq`, id); err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}

	e := row.toDomain()
	for _, r := range rates {
		e.Rates = append(e.Rates, payroll.RateRecord{Rate: r.Rate, EffectiveDate: r.EffectiveDate})
	}
	return &e, nil
}

func (s *Store) CreateEmployee(ctx context.Context, e payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO employees (`+employeeColumns+`)
			VALUES (:id, :name, :email, :phone, :role, :job_type, :start_date, :house_id, :created_at)`,
			toEmployeeRow(e))
		if isUniqueConstraintError(err) {
			return generic.ErrDuplicateID
		}
		if err != nil {
			return fmt.Errorf("failed to insert employee: %w", err)
		}
		for _, r := range e.Rates {
			if err := insertRate(ctx, tx, e.ID, r); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) UpdateEmployee(ctx context.Context, e payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.NamedExecContext(ctx, `
		UPDATE employees
		SET name = :name, email = :email, phone = :phone, role = :role,
		    job_type = :job_type, start_date = :start_date, house_id = :house_id
		WHERE id = :id`,
		toEmployeeRow(e))
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	return affected(res, generic.ErrEmployeeNotFound)
}

// DeleteEmployee removes the employee. Rates, work logs, adjustments and
// leave requests go with it through ON DELETE CASCADE.
func (s *Store) DeleteEmployee(ctx context.Context, id payroll.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return affected(res, generic.ErrEmployeeNotFound)
}

func (s *Store) AddRate(ctx context.Context, id payroll.EmployeeID, r payroll.RateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireEmployee(ctx, tx, id); err != nil {
			return err
		}
		return insertRate(ctx, tx, id, r)
	})
}

func insertRate(ctx context.Context, tx *sqlx.Tx, id payroll.EmployeeID, r payroll.RateRecord) error {
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO rates (employee_id, rate, effective_date)
		VALUES (:employee_id, :rate, :effective_date)`,
		rateRow{EmployeeID: string(id), Rate: r.Rate, EffectiveDate: r.EffectiveDate})
	if err != nil {
		return fmt.Errorf("failed to insert rate: %w", err)
	}
	return nil
}

func requireEmployee(ctx context.Context, q sqlx.QueryerContext, id payroll.EmployeeID) error {
	ok, err := exists(ctx, q, `SELECT COUNT(1) FROM employees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to check employee: %w", err)
	}
	if !ok {
		return generic.ErrEmployeeNotFound
	}
	return nil
}
