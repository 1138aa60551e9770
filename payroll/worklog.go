package payroll

import (
	"github.com/paralelo/workforce/generic"
)

// =============================================================================
// WORK LOG LIFECYCLE
// =============================================================================
//
//   create/edit ──► pending ──review──► approved | rejected
//                      ▲                       │
//                      └──────── edit ─────────┘
//
// Reviews may be repeated by an administrator (re-approval). Any edit puts
// the entry back to pending.

// NewWorkLog builds a pending entry for e on date, deriving its minutes.
// date must fall inside the edit window ending on today; windowDays <= 0
// disables the window.
func NewWorkLog(e Employee, date generic.Date, d Detail, today generic.Date, windowDays int) (WorkLog, error) {
	if date.IsZero() {
		return WorkLog{}, &generic.ValidationError{Field: "date", Message: "required"}
	}
	if !withinWindow(date, today, windowDays) {
		return WorkLog{}, generic.ErrOutsideEditWindow
	}
	minutes, err := ComputeMinutes(e.JobType, d)
	if err != nil {
		return WorkLog{}, err
	}
	return WorkLog{
		ID:           WorkLogID(generic.NewID("wl")),
		EmployeeID:   e.ID,
		Date:         date,
		TotalMinutes: minutes,
		Status:       StatusPending,
		Detail:       d,
	}, nil
}

func withinWindow(date, today generic.Date, windowDays int) bool {
	if windowDays <= 0 {
		return true
	}
	return today.BeforeOrEqual(date.AddDays(windowDays))
}

// Editable reports whether the entry can still be changed on today.
// windowDays <= 0 disables the window.
func (w WorkLog) Editable(today generic.Date, windowDays int) bool {
	return withinWindow(w.Date, today, windowDays)
}

// Edit replaces the date and detail, recomputes minutes and resets the
// status to pending. Both the current and the new date must be inside
// the window.
func (w *WorkLog) Edit(e Employee, date generic.Date, d Detail, today generic.Date, windowDays int) error {
	if !w.Editable(today, windowDays) {
		return generic.ErrOutsideEditWindow
	}
	updated, err := NewWorkLog(e, date, d, today, windowDays)
	if err != nil {
		return err
	}
	w.Date = updated.Date
	w.Detail = updated.Detail
	w.TotalMinutes = updated.TotalMinutes
	w.Status = StatusPending
	return nil
}

// Review records an approval decision.
func (w *WorkLog) Review(to Status) error {
	if to != StatusApproved && to != StatusRejected {
		return &generic.TransitionError{From: string(w.Status), To: string(to)}
	}
	w.Status = to
	return nil
}
