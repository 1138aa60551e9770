// Package leave handles vacation requests: how many working days a request
// costs and its approval lifecycle.
package leave

import (
	"sort"
	"strings"

	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/payroll"
)

type RequestID string

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Request asks for the days of Period off.
type Request struct {
	ID            RequestID
	EmployeeID    payroll.EmployeeID
	Period        generic.Period
	DaysRequested int // working days inside Period
	Status        Status
	Reason        string
	CreatedAt     generic.Date
	DecidedBy     string
}

// NewRequest builds a pending request. Weekends and holidays in the range do
// not count toward DaysRequested.
func NewRequest(employeeID payroll.EmployeeID, period generic.Period, reason string, createdAt generic.Date, calendar generic.HolidayCalendar) (Request, error) {
	if employeeID == "" {
		return Request{}, &generic.ValidationError{Field: "employee_id", Message: "required"}
	}
	if err := period.Validate(); err != nil {
		return Request{}, err
	}
	if calendar == nil {
		calendar = generic.NoHolidays{}
	}
	days := period.WorkdayCount(calendar)
	if days == 0 {
		return Request{}, &generic.ValidationError{Field: "period", Message: "contains no working days"}
	}
	return Request{
		ID:            RequestID(generic.NewID("leave")),
		EmployeeID:    employeeID,
		Period:        period,
		DaysRequested: days,
		Status:        StatusPending,
		Reason:        strings.TrimSpace(reason),
		CreatedAt:     createdAt,
	}, nil
}

// Approve grants a pending request.
func (r *Request) Approve(approverID string) error {
	return r.decide(StatusApproved, approverID)
}

// Reject refuses a pending request.
func (r *Request) Reject(approverID string) error {
	return r.decide(StatusRejected, approverID)
}

func (r *Request) decide(to Status, approverID string) error {
	if r.Status != StatusPending {
		return &generic.TransitionError{From: string(r.Status), To: string(to)}
	}
	r.Status = to
	r.DecidedBy = approverID
	return nil
}

// CountPending returns how many requests await a decision.
func CountPending(reqs []Request) int {
	n := 0
	for _, r := range reqs {
		if r.Status == StatusPending {
			n++
		}
	}
	return n
}

// NewestFirst orders requests by creation date, most recent first.
func NewestFirst(reqs []Request) []Request {
	out := append([]Request(nil), reqs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
