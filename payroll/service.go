package payroll

import (
	"context"
	"fmt"

	"github.com/paralelo/workforce/generic"
)

// =============================================================================
// SOURCE - Data access consumed by the service
// =============================================================================

// WorkLogFilter narrows a work log listing. Zero fields don't filter.
type WorkLogFilter struct {
	EmployeeID EmployeeID
	From       generic.Date
	To         generic.Date
	Status     Status
}

// Matches reports whether log passes the filter.
func (f WorkLogFilter) Matches(log WorkLog) bool {
	if f.EmployeeID != "" && log.EmployeeID != f.EmployeeID {
		return false
	}
	if !f.From.IsZero() && log.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && log.Date.After(f.To) {
		return false
	}
	if f.Status != "" && log.Status != f.Status {
		return false
	}
	return true
}

// Source supplies employees, work logs and adjustments. Stores implement it.
type Source interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)
	ListWorkLogs(ctx context.Context, filter WorkLogFilter) ([]WorkLog, error)
	ListAdjustments(ctx context.Context, month string) ([]Adjustment, error)
}

// =============================================================================
// SERVICE
// =============================================================================

// Service loads a snapshot from Source and runs the pure calculations on it.
type Service struct {
	Source Source
}

func NewService(src Source) *Service {
	return &Service{Source: src}
}

// Run computes the payroll of all payable employees for period.
func (s *Service) Run(ctx context.Context, period generic.Period, opts RunOptions) (RunResult, error) {
	if err := period.Validate(); err != nil {
		return RunResult{}, err
	}
	employees, err := s.Source.ListEmployees(ctx)
	if err != nil {
		return RunResult{}, fmt.Errorf("load employees: %w", err)
	}
	logs, err := s.Source.ListWorkLogs(ctx, WorkLogFilter{From: period.Start, To: period.End})
	if err != nil {
		return RunResult{}, fmt.Errorf("load work logs: %w", err)
	}
	adjustments, err := s.Source.ListAdjustments(ctx, period.MonthKey())
	if err != nil {
		return RunResult{}, fmt.Errorf("load adjustments: %w", err)
	}
	return Run(employees, logs, period, AdjustmentsFor(adjustments, period), opts), nil
}

// Payslip computes the pay of a single employee.
func (s *Service) Payslip(ctx context.Context, id EmployeeID, period generic.Period, policy StatusPolicy) (Payslip, error) {
	if err := period.Validate(); err != nil {
		return Payslip{}, err
	}
	e, err := s.Source.GetEmployee(ctx, id)
	if err != nil {
		return Payslip{}, err
	}
	logs, err := s.Source.ListWorkLogs(ctx, WorkLogFilter{EmployeeID: id, From: period.Start, To: period.End})
	if err != nil {
		return Payslip{}, fmt.Errorf("load work logs: %w", err)
	}
	adjustments, err := s.Source.ListAdjustments(ctx, period.MonthKey())
	if err != nil {
		return Payslip{}, fmt.Errorf("load adjustments: %w", err)
	}
	var adj *Adjustment
	if a, ok := AdjustmentsFor(adjustments, period)[id]; ok {
		adj = &a
	}
	return Compute(*e, logs, period, policy, adj), nil
}
