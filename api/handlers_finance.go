package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/paralelo/workforce/finance"
	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/payroll"
)

// =============================================================================
// HOUSE ENDPOINTS
// =============================================================================

// ListHouses returns all houses.
// GET /api/houses
func (h *Handler) ListHouses(w http.ResponseWriter, r *http.Request) {
	houses, err := h.Store.ListHouses(r.Context())
	if err != nil {
		writeStoreError(w, "Failed to list houses", err)
		return
	}
	dtos := make([]HouseDTO, 0, len(houses))
	for _, house := range houses {
		dtos = append(dtos, toHouseDTO(house))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHouse adds a house. The ID is assigned by the store.
// POST /api/houses
func (h *Handler) CreateHouse(w http.ResponseWriter, r *http.Request) {
	var req HouseDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	house := req.toDomain()
	house.ID = 0
	h.saveHouse(w, r, house, http.StatusCreated)
}

// UpdateHouse replaces a house.
// PUT /api/houses/{id}
func (h *Handler) UpdateHouse(w http.ResponseWriter, r *http.Request) {
	id, err := houseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid house id", err)
		return
	}
	var req HouseDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	houses, err := h.Store.ListHouses(r.Context())
	if err != nil {
		writeStoreError(w, "Failed to list houses", err)
		return
	}
	found := false
	for _, existing := range houses {
		if existing.ID == id {
			found = true
			break
		}
	}
	if !found {
		writeError(w, http.StatusNotFound, "House not found", generic.ErrRecordNotFound)
		return
	}

	house := req.toDomain()
	house.ID = id
	h.saveHouse(w, r, house, http.StatusOK)
}

func (h *Handler) saveHouse(w http.ResponseWriter, r *http.Request, house finance.House, status int) {
	if err := house.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid house", err)
		return
	}
	saved, err := h.Store.SaveHouse(r.Context(), house)
	if err != nil {
		writeStoreError(w, "Failed to save house", err)
		return
	}
	writeJSON(w, status, toHouseDTO(saved))
}

// DeleteHouse removes a house and unassigns its residents.
// DELETE /api/houses/{id}
func (h *Handler) DeleteHouse(w http.ResponseWriter, r *http.Request) {
	id, err := houseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid house id", err)
		return
	}
	if err := h.Store.DeleteHouse(r.Context(), id); err != nil {
		writeStoreError(w, "Failed to delete house", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

func houseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// =============================================================================
// REVENUE ENDPOINTS
// =============================================================================

func (h *Handler) ListRevenues(w http.ResponseWriter, r *http.Request) {
	revenues, err := h.Store.ListRevenues(r.Context())
	if err != nil {
		writeStoreError(w, "Failed to list revenues", err)
		return
	}
	dtos := make([]RevenueDTO, 0, len(revenues))
	for _, rev := range revenues {
		dtos = append(dtos, toRevenueDTO(rev))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateRevenue records a revenue. Status defaults to pending.
func (h *Handler) CreateRevenue(w http.ResponseWriter, r *http.Request) {
	var req RevenueDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rev := req.toDomain()
	if rev.ID == "" {
		rev.ID = generic.NewID("rev")
	}
	if rev.Status == "" {
		rev.Status = finance.RevenuePending
	}
	h.saveRevenue(w, r, rev, http.StatusCreated)
}

// UpdateRevenue replaces a revenue, typically to mark it received.
func (h *Handler) UpdateRevenue(w http.ResponseWriter, r *http.Request) {
	var req RevenueDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rev := req.toDomain()
	rev.ID = chi.URLParam(r, "id")
	h.saveRevenue(w, r, rev, http.StatusOK)
}

func (h *Handler) saveRevenue(w http.ResponseWriter, r *http.Request, rev finance.Revenue, status int) {
	if err := rev.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid revenue", err)
		return
	}
	if err := h.Store.SaveRevenue(r.Context(), rev); err != nil {
		writeStoreError(w, "Failed to save revenue", err)
		return
	}
	writeJSON(w, status, toRevenueDTO(rev))
}

func (h *Handler) DeleteRevenue(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteRevenue(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "Failed to delete revenue", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// EXPENSE ENDPOINTS
// =============================================================================

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Store.ListExpenses(r.Context())
	if err != nil {
		writeStoreError(w, "Failed to list expenses", err)
		return
	}
	dtos := make([]ExpenseDTO, 0, len(expenses))
	for _, e := range expenses {
		dtos = append(dtos, toExpenseDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateExpense records a misc expense. Status defaults to pending.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req ExpenseDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	exp := req.toDomain()
	if exp.ID == "" {
		exp.ID = generic.NewID("exp")
	}
	if exp.Status == "" {
		exp.Status = finance.ExpensePending
	}
	h.saveExpense(w, r, exp, http.StatusCreated)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req ExpenseDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	exp := req.toDomain()
	exp.ID = chi.URLParam(r, "id")
	h.saveExpense(w, r, exp, http.StatusOK)
}

func (h *Handler) saveExpense(w http.ResponseWriter, r *http.Request, exp finance.Expense, status int) {
	if err := exp.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expense", err)
		return
	}
	if err := h.Store.SaveExpense(r.Context(), exp); err != nil {
		writeStoreError(w, "Failed to save expense", err)
		return
	}
	writeJSON(w, status, toExpenseDTO(exp))
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "Failed to delete expense", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// STATEMENT AND DASHBOARD
// =============================================================================

// GetStatement returns the cash flow of ?month (default current month).
// Payroll lines use the dashboard policy so the statement matches the
// payroll view.
// GET /api/finance/statement
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	period, err := h.periodFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	run, err := h.Payroll.Run(ctx, period, payroll.RunOptions{Policy: h.Options.DashboardPolicy})
	if err != nil {
		writeStoreError(w, "Failed to run payroll", err)
		return
	}
	revenues, err := h.Store.ListRevenues(ctx)
	if err != nil {
		writeStoreError(w, "Failed to list revenues", err)
		return
	}
	expenses, err := h.Store.ListExpenses(ctx)
	if err != nil {
		writeStoreError(w, "Failed to list expenses", err)
		return
	}
	houses, err := h.Store.ListHouses(ctx)
	if err != nil {
		writeStoreError(w, "Failed to list houses", err)
		return
	}

	st := finance.BuildStatement(period, revenues, expenses, houses, run)
	writeJSON(w, http.StatusOK, toStatementDTO(st))
}

// GetDashboard summarises the current month.
// GET /api/dashboard
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	today := h.today()

	// The trailing chart may reach into the previous month.
	from := generic.MonthOf(today).Start
	if trailing := today.AddDays(-(finance.TrailingDays - 1)); trailing.Before(from) {
		from = trailing
	}

	employees, err := h.Store.ListEmployees(ctx)
	if err != nil {
		writeStoreError(w, "Failed to list employees", err)
		return
	}
	logs, err := h.Store.ListWorkLogs(ctx, payroll.WorkLogFilter{From: from, To: generic.MonthOf(today).End})
	if err != nil {
		writeStoreError(w, "Failed to list work logs", err)
		return
	}
	revenues, err := h.Store.ListRevenues(ctx)
	if err != nil {
		writeStoreError(w, "Failed to list revenues", err)
		return
	}
	requests, err := h.Store.ListLeaveRequests(ctx)
	if err != nil {
		writeStoreError(w, "Failed to list leave requests", err)
		return
	}

	d := finance.BuildDashboard(today, employees, logs, revenues, requests, h.Options.DashboardPolicy)
	writeJSON(w, http.StatusOK, toDashboardDTO(d))
}
