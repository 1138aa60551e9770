/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address from X-Forwarded-For / X-Real-IP
  3. Logger:     Request logging through slog (middleware.go)
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /health               Liveness
  /api/employees/*      Employees, rates, payslips
  /api/worklogs/*       Work log entry and review
  /api/payroll/*        Payroll runs, report, adjustments, month close
  /api/houses/*         Company housing
  /api/revenues/*       Revenues
  /api/expenses/*       Misc expenses
  /api/finance/*        Cash-flow statement
  /api/dashboard        Month summary
  /api/leave/*          Leave requests and decisions
  /api/holidays/*       Company holidays
  /api/demo/*           Demo scenarios and reset (dev only)
  /*                    Static files (frontend), when configured

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/workforce/serve.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configure the outer HTTP surface.
type RouterOptions struct {
	AllowedOrigins []string
	// StaticDir is served under / with index.html fallback. Empty disables.
	StaticDir string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
			r.Get("/{id}/rates", h.ListRates)
			r.Post("/{id}/rates", h.AddRate)
			r.Get("/{id}/rate", h.ResolveRate)
			r.Get("/{id}/payslip", h.GetPayslip)
		})

		// Work log routes
		r.Route("/worklogs", func(r chi.Router) {
			r.Get("/", h.ListWorkLogs)
			r.Post("/", h.CreateWorkLog)
			r.Put("/{id}", h.UpdateWorkLog)
			r.Delete("/{id}", h.DeleteWorkLog)
			r.Post("/{id}/review", h.ReviewWorkLog)
		})

		// Payroll routes
		r.Route("/payroll", func(r chi.Router) {
			r.Get("/", h.RunPayroll)
			r.Get("/report", h.PayrollReport)
			r.Get("/adjustments", h.ListAdjustments)
			r.Put("/adjustments", h.SaveAdjustment)
			r.Get("/runs", h.ListPayrollRuns)
			r.Post("/close", h.ClosePayrollMonth)
		})

		// Finance routes
		r.Route("/houses", func(r chi.Router) {
			r.Get("/", h.ListHouses)
			r.Post("/", h.CreateHouse)
			r.Put("/{id}", h.UpdateHouse)
			r.Delete("/{id}", h.DeleteHouse)
		})
		r.Route("/revenues", func(r chi.Router) {
			r.Get("/", h.ListRevenues)
			r.Post("/", h.CreateRevenue)
			r.Put("/{id}", h.UpdateRevenue)
			r.Delete("/{id}", h.DeleteRevenue)
		})
		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.ListExpenses)
			r.Post("/", h.CreateExpense)
			r.Put("/{id}", h.UpdateExpense)
			r.Delete("/{id}", h.DeleteExpense)
		})
		r.Get("/finance/statement", h.GetStatement)
		r.Get("/dashboard", h.GetDashboard)

		// Leave routes
		r.Route("/leave", func(r chi.Router) {
			r.Get("/", h.ListLeaveRequests)
			r.Post("/", h.CreateLeaveRequest)
			r.Post("/{id}/approve", h.ApproveLeaveRequest)
			r.Post("/{id}/reject", h.RejectLeaveRequest)
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Post("/defaults", h.AddDefaultHolidays)
		})

		// Demo routes
		r.Route("/demo", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenarioHandler)
			r.Post("/reset", h.ResetStore)
		})
	})

	if opts.StaticDir != "" {
		mountStatic(r, opts.StaticDir)
	}

	return r
}

// mountStatic serves a built single-page app. Unknown paths fall back to
// index.html for client-side routing.
func mountStatic(r chi.Router, staticDir string) {
	if _, err := os.Stat(staticDir); err != nil {
		return
	}
	fileServer := http.FileServer(http.Dir(staticDir))
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		fullPath := filepath.Join(staticDir, filepath.Clean(r.URL.Path))
		if _, err := os.Stat(fullPath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}
