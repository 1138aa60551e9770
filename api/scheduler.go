/*
scheduler.go - Automated payroll month close

PURPOSE:
  Periodically checks whether the previous calendar month has been closed
  and, if not, snapshots its payroll as a PayrollRunRecord.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Only the month before the current one is considered
  - Months that already have a record are skipped (idempotent)
  - Uses the report policy, like the formal payroll report

CONFIGURATION:
  - Interval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewPayrollCloseScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers_payroll.go: CloseMonth and the manual close endpoint
*/
package api

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/paralelo/workforce/generic"
)

// PayrollCloseScheduler closes finished payroll months.
type PayrollCloseScheduler struct {
	Handler  *Handler
	Interval time.Duration
	Enabled  bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPayrollCloseScheduler creates a new scheduler.
func NewPayrollCloseScheduler(h *Handler) *PayrollCloseScheduler {
	return &PayrollCloseScheduler{
		Handler:  h,
		Interval: time.Hour,
		Enabled:  true,
	}
}

// Start begins the scheduler. It checks once immediately.
func (s *PayrollCloseScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		slog.Info("payroll close scheduler disabled")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.Interval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run(s.ticker, s.stop)

	slog.Info("payroll close scheduler started", "interval", s.Interval)
}

// Stop stops the scheduler and waits for a running check to finish.
func (s *PayrollCloseScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil
	slog.Info("payroll close scheduler stopped")
}

func (s *PayrollCloseScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	s.checkAndClose(context.Background())

	for {
		select {
		case <-ticker.C:
			s.checkAndClose(context.Background())
		case <-stop:
			return
		}
	}
}

// checkAndClose closes the previous month unless it already is. It reports
// whether a new record was written.
func (s *PayrollCloseScheduler) checkAndClose(ctx context.Context) bool {
	period := generic.MonthOf(s.Handler.today()).PreviousMonth()

	_, err := s.Handler.CloseMonth(ctx, period)
	switch {
	case err == nil:
		return true
	case errors.Is(err, generic.ErrAlreadyClosed):
		slog.Debug("payroll month already closed", "month", period.MonthKey())
	default:
		slog.Error("failed to close payroll month", "month", period.MonthKey(), "error", err)
	}
	return false
}

// RunNow triggers an immediate check (for testing/admin).
func (s *PayrollCloseScheduler) RunNow(ctx context.Context) bool {
	return s.checkAndClose(ctx)
}
