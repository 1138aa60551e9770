package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/leave"
	"github.com/paralelo/workforce/payroll"
)

// =============================================================================
// LEAVE ENDPOINTS
// =============================================================================

// ListLeaveRequests returns requests newest first.
// GET /api/leave?employee_id=&status=
func (h *Handler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	employeeID := payroll.EmployeeID(q.Get("employee_id"))
	status := leave.Status(q.Get("status"))
	if status != "" && !status.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid status", nil)
		return
	}

	reqs, err := h.Store.ListLeaveRequests(r.Context())
	if err != nil {
		writeStoreError(w, "Failed to list leave requests", err)
		return
	}

	dtos := make([]LeaveRequestDTO, 0, len(reqs))
	for _, req := range leave.NewestFirst(reqs) {
		if employeeID != "" && req.EmployeeID != employeeID {
			continue
		}
		if status != "" && req.Status != status {
			continue
		}
		dtos = append(dtos, toLeaveRequestDTO(req))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateLeaveRequest submits a pending request. Weekends and company
// holidays do not count toward the requested days.
// POST /api/leave
func (h *Handler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body CreateLeaveRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	period, err := generic.ParsePeriod(body.StartDate, body.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	holidays, err := h.Store.ListHolidays(ctx)
	if err != nil {
		writeStoreError(w, "Failed to list holidays", err)
		return
	}
	req, err := leave.NewRequest(payroll.EmployeeID(body.EmployeeID), period, body.Reason, h.today(), holidays)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave request", err)
		return
	}

	if err := h.Store.SaveLeaveRequest(ctx, req); err != nil {
		writeStoreError(w, "Failed to save leave request", err)
		return
	}
	slog.Info("leave requested", "request_id", req.ID, "employee_id", req.EmployeeID, "days", req.DaysRequested)
	writeJSON(w, http.StatusCreated, toLeaveRequestDTO(req))
}

// ApproveLeaveRequest approves a pending request.
// POST /api/leave/{id}/approve
func (h *Handler) ApproveLeaveRequest(w http.ResponseWriter, r *http.Request) {
	h.decideLeaveRequest(w, r, (*leave.Request).Approve)
}

// RejectLeaveRequest rejects a pending request.
// POST /api/leave/{id}/reject
func (h *Handler) RejectLeaveRequest(w http.ResponseWriter, r *http.Request) {
	h.decideLeaveRequest(w, r, (*leave.Request).Reject)
}

func (h *Handler) decideLeaveRequest(w http.ResponseWriter, r *http.Request, decide func(*leave.Request, string) error) {
	ctx := r.Context()

	var body DecisionRequest
	if err := decodeOptionalJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if body.DecidedBy == "" {
		body.DecidedBy = "admin"
	}

	req, err := h.Store.GetLeaveRequest(ctx, leave.RequestID(chi.URLParam(r, "id")))
	if err != nil {
		writeStoreError(w, "Failed to get leave request", err)
		return
	}
	if err := decide(req, body.DecidedBy); err != nil {
		writeStoreError(w, "Failed to decide leave request", err)
		return
	}
	if err := h.Store.SaveLeaveRequest(ctx, *req); err != nil {
		writeStoreError(w, "Failed to save leave request", err)
		return
	}
	slog.Info("leave decided", "request_id", req.ID, "status", req.Status, "decided_by", req.DecidedBy)
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(*req))
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns all holidays by date.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeStoreError(w, "Failed to list holidays", err)
		return
	}
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, HolidayDTO{ID: hol.ID, Date: hol.Date, Name: hol.Name, Recurring: hol.Recurring})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Date.IsZero() || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Date and name are required", nil)
		return
	}

	holiday := generic.Holiday{
		ID:        req.ID,
		Date:      req.Date,
		Name:      req.Name,
		Recurring: req.Recurring,
	}
	if holiday.ID == "" {
		holiday.ID = generic.NewID("holiday")
	}
	if err := h.Store.SaveHoliday(r.Context(), holiday); err != nil {
		writeStoreError(w, "Failed to create holiday", err)
		return
	}
	req.ID = holiday.ID
	writeJSON(w, http.StatusCreated, req)
}

// belgianHolidays are the fixed-date public holidays in Belgium. Easter
// based holidays move every year and must be added one by one.
var belgianHolidays = []struct {
	month time.Month
	day   int
	name  string
}{
	{time.January, 1, "New Year's Day"},
	{time.May, 1, "Labour Day"},
	{time.July, 21, "Belgian National Day"},
	{time.August, 15, "Assumption Day"},
	{time.November, 1, "All Saints' Day"},
	{time.November, 11, "Armistice Day"},
	{time.December, 25, "Christmas Day"},
}

// AddDefaultHolidays adds the fixed Belgian public holidays as recurring
// holidays. Calling it again is a no-op.
// POST /api/holidays/defaults
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	year := h.today().Year()

	for _, d := range belgianHolidays {
		holiday := generic.Holiday{
			ID:        fmt.Sprintf("holiday-%02d%02d", d.month, d.day),
			Date:      generic.NewDate(year, d.month, d.day),
			Name:      d.name,
			Recurring: true,
		}
		if err := h.Store.SaveHoliday(ctx, holiday); err != nil {
			writeStoreError(w, "Failed to add default holidays", err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "created",
		"count":  len(belgianHolidays),
	})
}
