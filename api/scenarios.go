/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for testing and demos. Each scenario creates houses, employees with
	rate histories, work logs, finance records and leave requests.

AVAILABLE SCENARIOS:

	paralelo-july-2024:  Two housekeepers (by time, by production), two houses,
	                     July 2024 work logs in every status, revenues,
	                     expenses and leave requests
	payroll-edge-cases:  June 2024 with Sunday work, a mid-month raise with a
	                     same-day correction, a rate effective only later,
	                     an idle employee with an adjustment and an admin
	                     who logs hours but is not paid

HOW SCENARIOS WORK:
 1. Reset store (clear all data) - done by the handler or `seed --clear`
 2. Create houses and employees
 3. Create work logs through payroll.NewWorkLog so minutes come from detail
 4. Review work logs to their target status
 5. Add adjustments, revenues, expenses and leave requests

USAGE VIA API:

	POST /api/demo/load
	{"scenario_id": "paralelo-july-2024"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description and loader

NOTE:

	Loading through the API resets the store. Only use in development/demo
	environments.

SEE ALSO:
  - cmd/workforce/seed.go: Loads a scenario from the command line
*/
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/paralelo/workforce/finance"
	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/leave"
	"github.com/paralelo/workforce/payroll"
	"github.com/paralelo/workforce/store"
	"github.com/shopspring/decimal"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	load func(s *seeder)
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "paralelo-july-2024",
			Name:        "Paralelo, July 2024",
			Description: "Two housekeepers in two houses with a month of work logs, finance records and leave",
		},
		load: loadParaleloScenario,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "payroll-edge-cases",
			Name:        "Payroll edge cases",
			Description: "Sunday bonus, mid-month raise, future-only rate, idle employee and unpaid admin in June 2024",
		},
		load: loadEdgeCasesScenario,
	},
}

// DefaultScenario is loaded by `workforce seed` without --scenario.
const DefaultScenario = "paralelo-july-2024"

// Scenarios lists the available demo scenarios.
func Scenarios() []ScenarioDTO {
	out := make([]ScenarioDTO, 0, len(scenarios))
	for _, s := range scenarios {
		out = append(out, s.ScenarioDTO)
	}
	return out
}

// LoadScenario writes the scenario's data into st. It does not reset st.
func LoadScenario(ctx context.Context, st store.Store, id string) error {
	for _, sc := range scenarios {
		if sc.ID != id {
			continue
		}
		s := &seeder{ctx: ctx, st: st}
		sc.load(s)
		if s.err != nil {
			return fmt.Errorf("load scenario %s: %w", id, s.err)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown scenario %q", generic.ErrInvalidInput, id)
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
// GET /api/demo
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Scenarios())
}

// GetCurrentScenario returns the currently loaded scenario, if any.
// GET /api/demo/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s.ScenarioDTO)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenarioHandler resets the store and loads a predefined scenario.
// POST /api/demo/load
func (h *Handler) LoadScenarioHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoadScenarioRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	known := false
	for _, s := range scenarios {
		known = known || s.ID == req.ScenarioID
	}
	if !known {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(ctx); err != nil {
		writeStoreError(w, "Failed to reset store", err)
		return
	}
	h.currentScenario = ""

	if err := LoadScenario(ctx, h.Store, req.ScenarioID); err != nil {
		writeStoreError(w, "Failed to load scenario", err)
		return
	}
	h.currentScenario = req.ScenarioID

	slog.Info("scenario loaded", "scenario", req.ScenarioID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetStore deletes all data.
// POST /api/demo/reset
func (h *Handler) ResetStore(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		writeStoreError(w, "Failed to reset store", err)
		return
	}
	h.currentScenario = ""
	slog.Warn("store reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadParaleloScenario(s *seeder) {
	deerlijk := s.house("Casa Deerlijk", "Rua das Flores, 1, Deerlijk", "950")
	gent := s.house("Casa Gent", "Praça Central, 2, Gent", "1100")

	s.employee(payroll.Employee{
		ID: "admin@erpparalelo.com", Name: "Admin", Email: "admin@erpparalelo.com",
		Role: payroll.RoleAdmin, JobType: payroll.JobByTime, StartDate: mustDate("2023-01-01"),
	})
	ana := s.employee(payroll.Employee{
		ID: "ana.silva@paralelo.com", Name: "Ana Silva", Email: "ana.silva@paralelo.com", Phone: "123456789",
		Role: payroll.RoleEmployee, JobType: payroll.JobByTime, StartDate: mustDate("2023-01-15"), HouseID: &deerlijk,
		Rates: []payroll.RateRecord{rateFrom("12.50", "2023-01-01")},
	})
	joao := s.employee(payroll.Employee{
		ID: "joao.costa@paralelo.com", Name: "João Costa", Email: "joao.costa@paralelo.com", Phone: "987654321",
		Role: payroll.RoleEmployee, JobType: payroll.JobByProduction, StartDate: mustDate("2023-03-01"), HouseID: &gent,
		Rates: []payroll.RateRecord{rateFrom("15.00", "2023-01-01")},
	})

	// First week of July in every status.
	s.shift(ana, "2024-07-02", "09:00", "17:00", payroll.StatusApproved)
	s.shift(ana, "2024-07-03", "08:30", "17:00", payroll.StatusApproved)
	s.shift(ana, "2024-07-04", "09:00", "17:15", payroll.StatusPending)
	s.shift(ana, "2024-07-05", "09:00", "17:30", payroll.StatusPending)
	s.production(joao, "2024-07-02", payroll.ProductionDetail{Departures: 10, Stayovers: 5}, payroll.StatusApproved)
	s.production(joao, "2024-07-03", payroll.ProductionDetail{Departures: 8, Stayovers: 8}, payroll.StatusPending)
	s.production(joao, "2024-07-04", payroll.ProductionDetail{Departures: 12, Stayovers: 2, ExtraBeds: 2}, payroll.StatusRejected)

	// Week of the 15th, approved.
	ends := []string{"16:30", "16:40", "16:50", "17:00", "17:10"}
	for i, end := range ends {
		day := fmt.Sprintf("2024-07-%02d", 15+i)
		s.shift(ana, day, "09:00", end, payroll.StatusApproved)
		s.production(joao, day, payroll.ProductionDetail{Departures: 10, Stayovers: 5, ExtraMinutes: 30 + i*5}, payroll.StatusApproved)
	}

	s.revenue(finance.Revenue{ID: "REV001", Description: "Projeto Website Corporativo", Client: "Empresa X", Date: mustDate("2024-07-20"), Amount: mustMoney("15000"), Status: finance.RevenueReceived})
	s.revenue(finance.Revenue{ID: "REV002", Description: "Consultoria SEO", Client: "Startup Y", Date: mustDate("2024-07-18"), Amount: mustMoney("8500"), Status: finance.RevenueReceived})
	s.revenue(finance.Revenue{ID: "REV003", Description: "Manutenção de Sistema", Client: "Cliente Z", Date: mustDate("2024-07-15"), Amount: mustMoney("2000"), Status: finance.RevenuePending})

	s.expense(finance.Expense{ID: "EXP001", Description: "Licença Software de Design", Category: "Software", Date: mustDate("2024-07-15"), Amount: mustMoney("1200"), Status: finance.ExpensePaid})
	s.expense(finance.Expense{ID: "EXP002", Description: "Material de Escritório", Category: "Suprimentos", Date: mustDate("2024-07-12"), Amount: mustMoney("350.70"), Status: finance.ExpensePaid})
	s.expense(finance.Expense{ID: "EXP003", Description: "Serviços de Cloud (AWS)", Category: "Infraestrutura", Date: mustDate("2024-07-10"), Amount: mustMoney("2850"), Status: finance.ExpensePending})
	s.expense(finance.Expense{ID: "EXP004", Description: "Campanha de Marketing Digital", Category: "Marketing", Date: mustDate("2024-07-05"), Amount: mustMoney("5000"), Status: finance.ExpensePending})

	s.leave(ana, "2024-12-20", "2024-12-27", "Férias de Natal", "2024-11-10", leave.StatusApproved)
	s.leave(joao, "2025-01-10", "2025-01-17", "Viagem em família.", "2024-11-15", leave.StatusPending)
	s.leave(ana, "2024-09-02", "2024-09-06", "Assuntos pessoais", "2024-08-28", leave.StatusRejected)
}

func loadEdgeCasesScenario(s *seeder) {
	carla := s.employee(payroll.Employee{
		ID: "carla", Name: "Carla Admin", Role: payroll.RoleAdmin, JobType: payroll.JobByTime,
		StartDate: mustDate("2022-01-01"), Rates: []payroll.RateRecord{rateFrom("30", "2022-01-01")},
	})
	// The raise on the 15th is corrected the same day; the later record wins
	// and applies to the whole month.
	maria := s.employee(payroll.Employee{
		ID: "maria", Name: "Maria Santos", Role: payroll.RoleEmployee, JobType: payroll.JobByTime,
		StartDate: mustDate("2024-01-02"),
		Rates: []payroll.RateRecord{
			rateFrom("10.00", "2024-01-01"),
			rateFrom("11.00", "2024-06-15"),
			rateFrom("11.50", "2024-06-15"),
		},
	})
	// Only rate starts after June: the oldest record is used.
	lucia := s.employee(payroll.Employee{
		ID: "lucia", Name: "Lúcia Ferreira", Role: payroll.RoleEmployee, JobType: payroll.JobByTime,
		StartDate: mustDate("2024-06-10"), Rates: []payroll.RateRecord{rateFrom("9", "2024-09-01")},
	})
	pedro := s.employee(payroll.Employee{
		ID: "pedro", Name: "Pedro Lima", Role: payroll.RoleEmployee, JobType: payroll.JobByProduction,
		StartDate: mustDate("2023-05-01"), Rates: []payroll.RateRecord{rateFrom("14", "2023-05-01")},
	})

	s.shift(maria, "2024-06-02", "08:00", "16:00", payroll.StatusApproved) // Sunday
	s.shift(maria, "2024-06-03", "08:00", "12:00", payroll.StatusApproved)
	s.shift(maria, "2024-06-04", "08:00", "16:00", payroll.StatusRejected)
	s.shift(lucia, "2024-06-10", "09:00", "15:00", payroll.StatusPending) // exactly 6h, no break
	s.shift(carla, "2024-06-05", "09:00", "17:00", payroll.StatusApproved)

	s.adjustment(maria.ID, "2024-06", "25", "10")
	s.adjustment(pedro.ID, "2024-06", "50", "0")
}

// =============================================================================
// SEEDER
// =============================================================================

// seeder writes scenario records and keeps the first error. Later calls are
// no-ops once an error occurred.
type seeder struct {
	ctx context.Context
	st  store.Store
	err error
}

func (s *seeder) house(name, address, rent string) int64 {
	if s.err != nil {
		return 0
	}
	h, err := s.st.SaveHouse(s.ctx, finance.House{Name: name, Address: address, Rent: mustMoney(rent)})
	s.err = err
	return h.ID
}

func (s *seeder) employee(e payroll.Employee) payroll.Employee {
	if s.err == nil {
		s.err = s.st.CreateEmployee(s.ctx, e)
	}
	return e
}

func (s *seeder) shift(e payroll.Employee, day, start, end string, status payroll.Status) {
	s.workLog(e, day, payroll.TimeDetail{Start: start, End: end}, status)
}

func (s *seeder) production(e payroll.Employee, day string, d payroll.ProductionDetail, status payroll.Status) {
	s.workLog(e, day, d, status)
}

func (s *seeder) workLog(e payroll.Employee, day string, d payroll.Detail, status payroll.Status) {
	if s.err != nil {
		return
	}
	log, err := payroll.NewWorkLog(e, mustDate(day), d, generic.Date{}, 0)
	if err != nil {
		s.err = err
		return
	}
	if status != payroll.StatusPending {
		if s.err = log.Review(status); s.err != nil {
			return
		}
	}
	s.err = s.st.SaveWorkLog(s.ctx, log)
}

func (s *seeder) adjustment(id payroll.EmployeeID, month, extra, discount string) {
	if s.err != nil {
		return
	}
	s.err = s.st.SaveAdjustment(s.ctx, payroll.Adjustment{EmployeeID: id, Month: month, Extra: mustMoney(extra), Discount: mustMoney(discount)})
}

func (s *seeder) revenue(r finance.Revenue) {
	if s.err == nil {
		s.err = s.st.SaveRevenue(s.ctx, r)
	}
}

func (s *seeder) expense(e finance.Expense) {
	if s.err == nil {
		s.err = s.st.SaveExpense(s.ctx, e)
	}
}

func (s *seeder) leave(e payroll.Employee, start, end, reason, createdAt string, status leave.Status) {
	if s.err != nil {
		return
	}
	req, err := leave.NewRequest(e.ID, generic.Period{Start: mustDate(start), End: mustDate(end)}, reason, mustDate(createdAt), nil)
	if err != nil {
		s.err = err
		return
	}
	switch status {
	case leave.StatusApproved:
		s.err = req.Approve("admin@erpparalelo.com")
	case leave.StatusRejected:
		s.err = req.Reject("admin@erpparalelo.com")
	}
	if s.err == nil {
		s.err = s.st.SaveLeaveRequest(s.ctx, req)
	}
}

func mustDate(s string) generic.Date { return generic.MustDate(s) }

func mustMoney(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func rateFrom(amount, effective string) payroll.RateRecord {
	return payroll.RateRecord{Rate: mustMoney(amount), EffectiveDate: mustDate(effective)}
}
