// Package payroll turns work logs and rate histories into pay.
//
// The calculations (ResolveRate, Aggregate, Compute, Run) are pure functions
// over already-loaded slices: they do no I/O, never mutate their inputs and
// never return errors. Missing or malformed data degrades to zero. Service
// loads a consistent snapshot from a Source and calls them.
package payroll

import (
	"github.com/paralelo/workforce/generic"
	"github.com/shopspring/decimal"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

type EmployeeID string

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// JobType decides how a work log's minutes are derived.
type JobType string

const (
	JobByTime       JobType = "by_time"       // clocked start/end
	JobByProduction JobType = "by_production" // production counters
)

func (j JobType) Valid() bool { return j == JobByTime || j == JobByProduction }

type Employee struct {
	ID        EmployeeID
	Name      string
	Email     string
	Phone     string
	Role      Role
	JobType   JobType
	StartDate generic.Date
	HouseID   *int64
	// Rates is the rate history in write order. It is not required to be
	// sorted; later entries win ties on the same effective date.
	Rates []RateRecord
}

// IsPayable reports whether the employee is included in payroll runs.
func (e Employee) IsPayable() bool { return e.Role == RoleEmployee }

func (e Employee) Validate() error {
	if e.ID == "" {
		return &generic.ValidationError{Field: "id", Message: "required"}
	}
	if e.Name == "" {
		return &generic.ValidationError{Field: "name", Message: "required"}
	}
	if e.Role != RoleAdmin && e.Role != RoleEmployee {
		return &generic.ValidationError{Field: "role", Message: "must be admin or employee"}
	}
	if !e.JobType.Valid() {
		return &generic.ValidationError{Field: "job_type", Message: "must be by_time or by_production"}
	}
	for _, r := range e.Rates {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// RateRecord is an hourly rate that applies from EffectiveDate onwards.
type RateRecord struct {
	Rate          decimal.Decimal
	EffectiveDate generic.Date
}

func (r RateRecord) Validate() error {
	if r.EffectiveDate.IsZero() {
		return &generic.ValidationError{Field: "effective_date", Message: "required"}
	}
	if r.Rate.IsNegative() {
		return &generic.ValidationError{Field: "rate", Message: "must not be negative"}
	}
	return nil
}

// =============================================================================
// WORK LOG
// =============================================================================

type WorkLogID string

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// WorkLog is one day of work. TotalMinutes is computed from Detail when the
// entry is created or edited and is the only field the aggregator reads.
type WorkLog struct {
	ID           WorkLogID
	EmployeeID   EmployeeID
	Date         generic.Date
	TotalMinutes int64
	Status       Status
	Detail       Detail
}

// StatusPolicy selects which work logs count toward a total.
type StatusPolicy string

const (
	// AnyStatus counts every entry. Used by the dashboard and payroll views.
	AnyStatus StatusPolicy = "all"
	// ApprovedOnly counts approved entries. Used by the formal report.
	ApprovedOnly StatusPolicy = "approved"
)

// Accepts reports whether an entry with status s is counted.
func (p StatusPolicy) Accepts(s Status) bool {
	if p == ApprovedOnly {
		return s == StatusApproved
	}
	return true
}

// ParseStatusPolicy maps "" and "all" to AnyStatus and "approved" to ApprovedOnly.
func ParseStatusPolicy(s string) (StatusPolicy, bool) {
	switch StatusPolicy(s) {
	case "", AnyStatus:
		return AnyStatus, true
	case ApprovedOnly:
		return ApprovedOnly, true
	default:
		return "", false
	}
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

// Adjustment is a manual extra/discount for one employee and month.
type Adjustment struct {
	EmployeeID EmployeeID
	Month      string // YYYY-MM
	Extra      decimal.Decimal
	Discount   decimal.Decimal
}
