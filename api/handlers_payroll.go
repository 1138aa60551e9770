package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/payroll"
	"github.com/paralelo/workforce/store"
)

// =============================================================================
// PAYROLL ENDPOINTS
// =============================================================================
//
//   GET  /api/payroll              Run (?month | ?start&end, ?policy, ?skip_idle)
//   GET  /api/payroll/report       Formal report: report policy, idle employees dropped
//   GET  /api/payroll/adjustments  Adjustments of ?month
//   PUT  /api/payroll/adjustments  Upsert one adjustment
//   GET  /api/payroll/runs         Closed months, most recent first
//   POST /api/payroll/close        Close a finished month

// RunPayroll computes every payable employee's pay for the period.
func (h *Handler) RunPayroll(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}
	policy, err := policyFromQuery(r, h.Options.DashboardPolicy)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid policy", err)
		return
	}
	skipIdle := false
	if s := r.URL.Query().Get("skip_idle"); s != "" {
		if skipIdle, err = strconv.ParseBool(s); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid skip_idle", err)
			return
		}
	}

	result, err := h.Payroll.Run(r.Context(), period, payroll.RunOptions{Policy: policy, SkipIdle: skipIdle})
	if err != nil {
		writeStoreError(w, "Failed to run payroll", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayrollRunDTO(result))
}

// PayrollReport is the formal monthly report.
func (h *Handler) PayrollReport(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	result, err := h.Payroll.Run(r.Context(), period, payroll.RunOptions{
		Policy:   h.Options.ReportPolicy,
		SkipIdle: true,
	})
	if err != nil {
		writeStoreError(w, "Failed to run payroll report", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayrollRunDTO(result))
}

// ListAdjustments returns the adjustments of ?month (default current month).
func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = h.today().MonthKey()
	}
	if _, err := generic.ParseMonth(month); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	adjs, err := h.Store.ListAdjustments(r.Context(), month)
	if err != nil {
		writeStoreError(w, "Failed to list adjustments", err)
		return
	}
	dtos := make([]AdjustmentDTO, 0, len(adjs))
	for _, a := range adjs {
		dtos = append(dtos, AdjustmentDTO{
			EmployeeID: string(a.EmployeeID),
			Month:      a.Month,
			Extra:      a.Extra,
			Discount:   a.Discount,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveAdjustment sets the extra and discount of one employee for a month.
func (h *Handler) SaveAdjustment(w http.ResponseWriter, r *http.Request) {
	var req AdjustmentDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	period, err := generic.ParseMonth(req.Month)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}
	if req.Extra.IsNegative() || req.Discount.IsNegative() {
		writeError(w, http.StatusBadRequest, "Extra and discount must not be negative", nil)
		return
	}

	adj := payroll.Adjustment{
		EmployeeID: payroll.EmployeeID(req.EmployeeID),
		Month:      period.MonthKey(),
		Extra:      req.Extra,
		Discount:   req.Discount,
	}
	if err := h.Store.SaveAdjustment(r.Context(), adj); err != nil {
		writeStoreError(w, "Failed to save adjustment", err)
		return
	}
	req.Month = adj.Month
	writeJSON(w, http.StatusOK, req)
}

// ListPayrollRuns returns the closed months.
func (h *Handler) ListPayrollRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListPayrollRuns(r.Context())
	if err != nil {
		writeStoreError(w, "Failed to list payroll runs", err)
		return
	}
	dtos := make([]PayrollRunRecordDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, toPayrollRunRecordDTO(run))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ClosePayrollMonth snapshots a finished month. An empty body closes the
// previous month.
func (h *Handler) ClosePayrollMonth(w http.ResponseWriter, r *http.Request) {
	var req CloseMonthRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	period := generic.MonthOf(h.today()).PreviousMonth()
	if req.Month != "" {
		p, err := generic.ParseMonth(req.Month)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month", err)
			return
		}
		period = p
	}

	rec, err := h.CloseMonth(r.Context(), period)
	if err != nil {
		writeStoreError(w, "Failed to close payroll month", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPayrollRunRecordDTO(rec))
}

// CloseMonth runs the report payroll for a finished month and stores the
// snapshot. Closing twice returns generic.ErrAlreadyClosed.
func (h *Handler) CloseMonth(ctx context.Context, period generic.Period) (store.PayrollRunRecord, error) {
	month := generic.MonthOf(period.Start)
	if !month.End.Before(h.today()) {
		return store.PayrollRunRecord{}, fmt.Errorf("%w: %s has not ended", generic.ErrInvalidPeriod, month.MonthKey())
	}

	closed, err := h.Store.IsMonthClosed(ctx, month.MonthKey())
	if err != nil {
		return store.PayrollRunRecord{}, err
	}
	if closed {
		return store.PayrollRunRecord{}, fmt.Errorf("%w: %s", generic.ErrAlreadyClosed, month.MonthKey())
	}

	result, err := h.Payroll.Run(ctx, month, payroll.RunOptions{Policy: h.Options.ReportPolicy, SkipIdle: true})
	if err != nil {
		return store.PayrollRunRecord{}, err
	}
	rec := store.NewPayrollRunRecord(result, h.now())
	if err := h.Store.SavePayrollRun(ctx, rec); err != nil {
		return store.PayrollRunRecord{}, err
	}

	slog.Info("payroll month closed",
		"month", rec.Month,
		"employees", len(rec.Lines),
		"minutes", rec.Minutes,
		"net", generic.RoundMoney(rec.Net).String())
	return rec, nil
}
