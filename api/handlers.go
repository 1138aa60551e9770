/*
handlers.go - HTTP API handlers for the workforce service

PURPOSE:
  Exposes employees, work logs, payroll, finance and leave over REST.
  Handles HTTP request/response and JSON serialization; the numbers come
  from the pure calculations in payroll and finance.

ENDPOINTS:
  Employees:
    GET    /api/employees                 List employees
    POST   /api/employees                 Create employee
    GET    /api/employees/{id}            Get employee
    PUT    /api/employees/{id}            Update profile (rates untouched)
    DELETE /api/employees/{id}            Delete employee and their data
    GET    /api/employees/{id}/rates      Rate history, most recent first
    POST   /api/employees/{id}/rates      Add a rate record
    GET    /api/employees/{id}/rate       Resolve the rate on ?date=
    GET    /api/employees/{id}/payslip    Payslip for ?month= or ?start=&end=

  Work logs:
    GET    /api/worklogs                  List (?employee_id&from&to&status)
    POST   /api/worklogs                  Create (minutes derived from detail)
    PUT    /api/worklogs/{id}             Edit inside the editable window
    DELETE /api/worklogs/{id}             Delete
    POST   /api/worklogs/{id}/review      Approve or reject

  Payroll, finance, leave: see handlers_payroll.go, handlers_finance.go,
  handlers_leave.go. Scenarios: scenarios.go.

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Persistence (sqlite or memory)
  - Payroll: Loads snapshots from Store and runs the calculations
  - Options: Status policies, edit window and the clock

REQUEST FLOW:
  1. Parse HTTP request
  2. Load a snapshot from the store
  3. Call domain logic (payroll.Run, finance.BuildStatement, ...)
  4. Serialize response
  5. Map errors to status codes

ERROR HANDLING:
  Errors are returned as JSON {error, details} with the status taken from
  the generic error predicates:
  - 400: Validation errors, invalid input, outside edit window
  - 404: Resource not found
  - 409: Duplicate, forbidden status transition, month already closed
  - 500: Internal errors (logged)

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/payroll"
	"github.com/paralelo/workforce/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Options tune the payroll views.
type Options struct {
	// DashboardPolicy counts minutes on the dashboard, the payroll view and
	// the finance statement.
	DashboardPolicy payroll.StatusPolicy
	// ReportPolicy counts minutes on the formal report and month close.
	ReportPolicy payroll.StatusPolicy
	// EditWindowDays is how long a work log stays editable. 0 disables.
	EditWindowDays int
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   store.Store
	Payroll *payroll.Service
	Options Options

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(st store.Store, opts Options) *Handler {
	if opts.DashboardPolicy == "" {
		opts.DashboardPolicy = payroll.AnyStatus
	}
	if opts.ReportPolicy == "" {
		opts.ReportPolicy = payroll.ApprovedOnly
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handler{
		Store:   st,
		Payroll: payroll.NewService(st),
		Options: opts,
	}
}

func (h *Handler) now() time.Time { return h.Options.Now() }

func (h *Handler) today() generic.Date { return generic.DateOf(h.now()) }

// Health reports liveness.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees ordered by name.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeStoreError(w, "Failed to list employees", err)
		return
	}

	today := h.today()
	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, toEmployeeDTO(e, today))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates a new employee.
// The ID defaults to the email, then to a generated one.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	e := req.toDomain()
	if e.ID == "" {
		e.ID = payroll.EmployeeID(req.Email)
	}
	if e.ID == "" {
		e.ID = payroll.EmployeeID(generic.NewID("emp"))
	}
	if e.StartDate.IsZero() {
		e.StartDate = h.today()
	}
	for _, rate := range req.Rates {
		e.Rates = append(e.Rates, payroll.RateRecord{Rate: rate.Rate, EffectiveDate: rate.EffectiveDate})
	}
	if err := e.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee", err)
		return
	}

	if err := h.Store.CreateEmployee(r.Context(), e); err != nil {
		writeStoreError(w, "Failed to create employee", err)
		return
	}
	slog.Info("employee created", "employee_id", e.ID, "job_type", e.JobType)
	writeJSON(w, http.StatusCreated, toEmployeeDTO(e, h.today()))
}

// GetEmployee returns one employee with their rate history.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := h.Store.GetEmployee(r.Context(), employeeIDParam(r))
	if err != nil {
		writeStoreError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*e, h.today()))
}

// UpdateEmployee replaces the profile. Rates are managed by the rates endpoint.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := employeeIDParam(r)

	var req EmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	e := req.toDomain()
	e.ID = id
	if err := e.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee", err)
		return
	}
	if err := h.Store.UpdateEmployee(ctx, e); err != nil {
		writeStoreError(w, "Failed to update employee", err)
		return
	}

	updated, err := h.Store.GetEmployee(ctx, id)
	if err != nil {
		writeStoreError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*updated, h.today()))
}

// DeleteEmployee removes an employee with their rates, work logs,
// adjustments and leave requests.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := employeeIDParam(r)
	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		writeStoreError(w, "Failed to delete employee", err)
		return
	}
	slog.Info("employee deleted", "employee_id", id)
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// ListRates returns the rate history, most recent first.
// GET /api/employees/{id}/rates
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	e, err := h.Store.GetEmployee(r.Context(), employeeIDParam(r))
	if err != nil {
		writeStoreError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*e, h.today()).Rates)
}

// AddRate appends a rate record. A record with the same effective date as
// an existing one supersedes it.
// POST /api/employees/{id}/rates
func (h *Handler) AddRate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := employeeIDParam(r)

	var req RateDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rec := payroll.RateRecord{Rate: req.Rate, EffectiveDate: req.EffectiveDate}
	if err := rec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rate", err)
		return
	}

	if err := h.Store.AddRate(ctx, id, rec); err != nil {
		writeStoreError(w, "Failed to add rate", err)
		return
	}
	slog.Info("rate added", "employee_id", id, "rate", rec.Rate.String(), "effective_date", rec.EffectiveDate.String())
	writeJSON(w, http.StatusCreated, req)
}

// ResolveRate returns the rate in force on ?date= (default today).
// GET /api/employees/{id}/rate
func (h *Handler) ResolveRate(w http.ResponseWriter, r *http.Request) {
	date := h.today()
	if s := r.URL.Query().Get("date"); s != "" {
		d, err := generic.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		date = d
	}

	e, err := h.Store.GetEmployee(r.Context(), employeeIDParam(r))
	if err != nil {
		writeStoreError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"employee_id": e.ID,
		"date":        date,
		"rate":        payroll.ResolveRate(*e, date),
	})
}

// GetPayslip computes one employee's pay for a period.
// GET /api/employees/{id}/payslip?month=YYYY-MM&policy=all|approved
func (h *Handler) GetPayslip(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}
	policy, err := policyFromQuery(r, h.Options.ReportPolicy)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid policy", err)
		return
	}

	slip, err := h.Payroll.Payslip(r.Context(), employeeIDParam(r), period, policy)
	if err != nil {
		writeStoreError(w, "Failed to compute payslip", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayslipDTO(slip))
}

func (req EmployeeRequest) toDomain() payroll.Employee {
	role := payroll.Role(req.Role)
	if role == "" {
		role = payroll.RoleEmployee
	}
	return payroll.Employee{
		ID:        payroll.EmployeeID(req.ID),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      role,
		JobType:   payroll.JobType(req.JobType),
		StartDate: req.StartDate,
		HouseID:   req.HouseID,
	}
}

// =============================================================================
// WORK LOG HANDLERS
// =============================================================================

// ListWorkLogs returns work logs, newest first.
// GET /api/worklogs?employee_id=&from=&to=&status=
func (h *Handler) ListWorkLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := payroll.WorkLogFilter{
		EmployeeID: payroll.EmployeeID(q.Get("employee_id")),
		Status:     payroll.Status(q.Get("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid status", nil)
		return
	}
	var err error
	if filter.From, err = optionalDate(q.Get("from")); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	if filter.To, err = optionalDate(q.Get("to")); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}

	logs, err := h.Store.ListWorkLogs(r.Context(), filter)
	if err != nil {
		writeStoreError(w, "Failed to list work logs", err)
		return
	}
	dtos := make([]WorkLogDTO, 0, len(logs))
	for _, l := range logs {
		dtos = append(dtos, toWorkLogDTO(l))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateWorkLog records a pending day of work.
// POST /api/worklogs
func (h *Handler) CreateWorkLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req WorkLogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	detail, err := req.detail()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid work log", err)
		return
	}

	e, err := h.Store.GetEmployee(ctx, payroll.EmployeeID(req.EmployeeID))
	if err != nil {
		writeStoreError(w, "Failed to get employee", err)
		return
	}
	log, err := payroll.NewWorkLog(*e, req.Date, detail, h.today(), h.Options.EditWindowDays)
	if err != nil {
		writeStoreError(w, "Invalid work log", err)
		return
	}

	if err := h.Store.SaveWorkLog(ctx, log); err != nil {
		writeStoreError(w, "Failed to save work log", err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkLogDTO(log))
}

// UpdateWorkLog replaces the date and detail of an entry. The entry goes
// back to pending.
// PUT /api/worklogs/{id}
func (h *Handler) UpdateWorkLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req WorkLogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	detail, err := req.detail()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid work log", err)
		return
	}

	log, err := h.Store.GetWorkLog(ctx, payroll.WorkLogID(chi.URLParam(r, "id")))
	if err != nil {
		writeStoreError(w, "Failed to get work log", err)
		return
	}
	e, err := h.Store.GetEmployee(ctx, log.EmployeeID)
	if err != nil {
		writeStoreError(w, "Failed to get employee", err)
		return
	}

	date := req.Date
	if date.IsZero() {
		date = log.Date
	}
	if err := log.Edit(*e, date, detail, h.today(), h.Options.EditWindowDays); err != nil {
		writeStoreError(w, "Failed to edit work log", err)
		return
	}

	if err := h.Store.SaveWorkLog(ctx, *log); err != nil {
		writeStoreError(w, "Failed to save work log", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkLogDTO(*log))
}

// DeleteWorkLog removes an entry.
// DELETE /api/worklogs/{id}
func (h *Handler) DeleteWorkLog(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteWorkLog(r.Context(), payroll.WorkLogID(chi.URLParam(r, "id"))); err != nil {
		writeStoreError(w, "Failed to delete work log", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// ReviewWorkLog approves or rejects an entry. Reviewed entries may be
// reviewed again.
// POST /api/worklogs/{id}/review
func (h *Handler) ReviewWorkLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	log, err := h.Store.GetWorkLog(ctx, payroll.WorkLogID(chi.URLParam(r, "id")))
	if err != nil {
		writeStoreError(w, "Failed to get work log", err)
		return
	}
	if err := log.Review(payroll.Status(req.Status)); err != nil {
		writeStoreError(w, "Failed to review work log", err)
		return
	}
	if err := h.Store.SaveWorkLog(ctx, *log); err != nil {
		writeStoreError(w, "Failed to save work log", err)
		return
	}
	slog.Info("work log reviewed", "work_log_id", log.ID, "status", log.Status)
	writeJSON(w, http.StatusOK, toWorkLogDTO(*log))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError picks the status from the error kind. Unclassified
// errors are logged and reported as 500.
func writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		slog.Error(message, "error", err)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", generic.ErrInvalidInput, err)
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be empty,
// including chunked requests with no payload.
func decodeOptionalJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", generic.ErrInvalidInput, err)
	}
	return nil
}

func employeeIDParam(r *http.Request) payroll.EmployeeID {
	return payroll.EmployeeID(chi.URLParam(r, "id"))
}

func optionalDate(s string) (generic.Date, error) {
	if s == "" {
		return generic.Date{}, nil
	}
	return generic.ParseDate(s)
}

// periodFromQuery reads ?month=YYYY-MM or ?start=&end=. Without either it
// returns the current month.
func (h *Handler) periodFromQuery(r *http.Request) (generic.Period, error) {
	q := r.URL.Query()
	if month := q.Get("month"); month != "" {
		return generic.ParseMonth(month)
	}
	if q.Get("start") != "" || q.Get("end") != "" {
		return generic.ParsePeriod(q.Get("start"), q.Get("end"))
	}
	return generic.MonthOf(h.today()), nil
}

func policyFromQuery(r *http.Request, fallback payroll.StatusPolicy) (payroll.StatusPolicy, error) {
	s := r.URL.Query().Get("policy")
	if s == "" {
		return fallback, nil
	}
	policy, ok := payroll.ParseStatusPolicy(s)
	if !ok {
		return "", fmt.Errorf("%w: policy %q (use all or approved)", generic.ErrInvalidInput, s)
	}
	return policy, nil
}
