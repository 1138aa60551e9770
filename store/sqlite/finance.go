package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/paralelo/workforce/finance"
	"github.com/paralelo/workforce/generic"
	"github.com/shopspring/decimal"
)

// =============================================================================
// HOUSES
// =============================================================================

type houseRow struct {
	ID      int64           `db:"id"`
	Name    string          `db:"name"`
	Address string          `db:"address"`
	Rent    decimal.Decimal `db:"rent"`
}

func (s *Store) ListHouses(ctx context.Context) ([]finance.House, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []houseRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, name, address, rent FROM houses ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list houses: %w", err)
	}
	out := make([]finance.House, 0, len(rows))
	for _, r := range rows {
		out = append(out, finance.House{ID: r.ID, Name: r.Name, Address: r.Address, Rent: r.Rent})
	}
	return out, nil
}

func (s *Store) SaveHouse(ctx context.Context, h finance.House) (finance.House, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := houseRow{ID: h.ID, Name: h.Name, Address: h.Address, Rent: h.Rent}
	if h.ID == 0 {
		res, err := s.db.NamedExecContext(ctx, `
			INSERT INTO houses (name, address, rent) VALUES (:name, :address, :rent)`, row)
		if err != nil {
			return finance.House{}, fmt.Errorf("failed to insert house: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return finance.House{}, err
		}
		h.ID = id
		return h, nil
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO houses (id, name, address, rent) VALUES (:id, :name, :address, :rent)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			rent = excluded.rent`, row)
	if err != nil {
		return finance.House{}, fmt.Errorf("failed to save house: %w", err)
	}
	return h, nil
}

// DeleteHouse removes the house and unassigns its residents.
func (s *Store) DeleteHouse(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM houses WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete house: %w", err)
		}
		if err := affected(res, generic.ErrRecordNotFound); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE employees SET house_id = NULL WHERE house_id = ?`, id); err != nil {
			return fmt.Errorf("failed to unassign house: %w", err)
		}
		return nil
	})
}

// =============================================================================
// REVENUES AND EXPENSES
// =============================================================================

type entryRow struct {
	ID          string          `db:"id"`
	Description string          `db:"description"`
	Party       string          `db:"party"` // client or category
	Date        generic.Date    `db:"date"`
	Amount      decimal.Decimal `db:"amount"`
	Status      string          `db:"status"`
}

func (s *Store) ListRevenues(ctx context.Context) ([]finance.Revenue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []entryRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, description, client AS party, date, amount, status
		FROM revenues ORDER BY date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list revenues: %w", err)
	}
	out := make([]finance.Revenue, 0, len(rows))
	for _, r := range rows {
		out = append(out, finance.Revenue{
			ID:          r.ID,
			Description: r.Description,
			Client:      r.Party,
			Date:        r.Date,
			Amount:      r.Amount,
			Status:      finance.RevenueStatus(r.Status),
		})
	}
	return out, nil
}

func (s *Store) SaveRevenue(ctx context.Context, r finance.Revenue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO revenues (id, description, client, date, amount, status)
		VALUES (:id, :description, :party, :date, :amount, :status)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			client = excluded.client,
			date = excluded.date,
			amount = excluded.amount,
			status = excluded.status`,
		entryRow{ID: r.ID, Description: r.Description, Party: r.Client, Date: r.Date, Amount: r.Amount, Status: string(r.Status)})
	if err != nil {
		return fmt.Errorf("failed to save revenue: %w", err)
	}
	return nil
}

func (s *Store) DeleteRevenue(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM revenues WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete revenue: %w", err)
	}
	return affected(res, generic.ErrRecordNotFound)
}

func (s *Store) ListExpenses(ctx context.Context) ([]finance.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []entryRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, description, category AS party, date, amount, status
		FROM expenses ORDER BY date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	out := make([]finance.Expense, 0, len(rows))
	for _, r := range rows {
		out = append(out, finance.Expense{
			ID:          r.ID,
			Description: r.Description,
			Category:    r.Party,
			Date:        r.Date,
			Amount:      r.Amount,
			Status:      finance.ExpenseStatus(r.Status),
		})
	}
	return out, nil
}

func (s *Store) SaveExpense(ctx context.Context, e finance.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO expenses (id, description, category, date, amount, status)
		VALUES (:id, :description, :party, :date, :amount, :status)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			category = excluded.category,
			date = excluded.date,
			amount = excluded.amount,
			status = excluded.status`,
		entryRow{ID: e.ID, Description: e.Description, Party: e.Category, Date: e.Date, Amount: e.Amount, Status: string(e.Status)})
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return affected(res, generic.ErrRecordNotFound)
}
