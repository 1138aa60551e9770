// Package finance builds the company's monthly cash-flow statement and the
// dashboard summary from revenues, expenses, house rents and payroll.
package finance

import (
	"github.com/paralelo/workforce/generic"
	"github.com/shopspring/decimal"
)

// House is company housing rented for staff. Rent is a fixed monthly cost.
type House struct {
	ID      int64
	Name    string
	Address string
	Rent    decimal.Decimal
}

type RevenueStatus string

const (
	RevenuePending  RevenueStatus = "pending"
	RevenueReceived RevenueStatus = "received"
)

type Revenue struct {
	ID          string
	Description string
	Client      string
	Date        generic.Date
	Amount      decimal.Decimal
	Status      RevenueStatus
}

type ExpenseStatus string

const (
	ExpensePending ExpenseStatus = "pending"
	ExpensePaid    ExpenseStatus = "paid"
)

type Expense struct {
	ID          string
	Description string
	Category    string
	Date        generic.Date
	Amount      decimal.Decimal
	Status      ExpenseStatus
}

// Validate checks the fields shared by revenues and expenses.
func validateEntry(description string, date generic.Date, amount decimal.Decimal) error {
	if description == "" {
		return &generic.ValidationError{Field: "description", Message: "required"}
	}
	if date.IsZero() {
		return &generic.ValidationError{Field: "date", Message: "required"}
	}
	if !amount.IsPositive() {
		return &generic.ValidationError{Field: "amount", Message: "must be positive"}
	}
	return nil
}

func (r Revenue) Validate() error {
	if r.Status != RevenuePending && r.Status != RevenueReceived {
		return &generic.ValidationError{Field: "status", Message: "must be pending or received"}
	}
	return validateEntry(r.Description, r.Date, r.Amount)
}

func (e Expense) Validate() error {
	if e.Status != ExpensePending && e.Status != ExpensePaid {
		return &generic.ValidationError{Field: "status", Message: "must be pending or paid"}
	}
	return validateEntry(e.Description, e.Date, e.Amount)
}

func (h House) Validate() error {
	if h.Name == "" {
		return &generic.ValidationError{Field: "name", Message: "required"}
	}
	if h.Rent.IsNegative() {
		return &generic.ValidationError{Field: "rent", Message: "must not be negative"}
	}
	return nil
}
