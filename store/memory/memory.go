// Package memory provides an in-memory store.Store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/paralelo/workforce/finance"
	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/leave"
	"github.com/paralelo/workforce/payroll"
	"github.com/paralelo/workforce/store"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	employees   map[payroll.EmployeeID]payroll.Employee
	workLogs    map[payroll.WorkLogID]payroll.WorkLog
	adjustments map[adjustmentKey]payroll.Adjustment
	houses      map[int64]finance.House
	nextHouseID int64
	revenues    map[string]finance.Revenue
	expenses    map[string]finance.Expense
	requests    map[leave.RequestID]leave.Request
	holidays    map[string]generic.Holiday
	runs        map[string]store.PayrollRunRecord // by month
}

type adjustmentKey struct {
	EmployeeID payroll.EmployeeID
	Month      string
}

var _ store.Store = (*Memory)(nil)

func New() *Memory {
	m := &Memory{}
	m.resetLocked()
	return m
}

func (m *Memory) resetLocked() {
	m.employees = make(map[payroll.EmployeeID]payroll.Employee)
	m.workLogs = make(map[payroll.WorkLogID]payroll.WorkLog)
	m.adjustments = make(map[adjustmentKey]payroll.Adjustment)
	m.houses = make(map[int64]finance.House)
	m.nextHouseID = 0
	m.revenues = make(map[string]finance.Revenue)
	m.expenses = make(map[string]finance.Expense)
	m.requests = make(map[leave.RequestID]leave.Request)
	m.holidays = make(map[string]generic.Holiday)
	m.runs = make(map[string]store.PayrollRunRecord)
}

func (m *Memory) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	return nil
}

func (m *Memory) Close() error { return nil }

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) ListEmployees(context.Context) ([]payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]payroll.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, copyEmployee(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) GetEmployee(_ context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.employees[id]
	if !ok {
		return nil, generic.ErrEmployeeNotFound
	}
	e = copyEmployee(e)
	return &e, nil
}

func (m *Memory) CreateEmployee(_ context.Context, e payroll.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[e.ID]; ok {
		return generic.ErrDuplicateID
	}
	m.employees[e.ID] = copyEmployee(e)
	return nil
}

func (m *Memory) UpdateEmployee(_ context.Context, e payroll.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.employees[e.ID]
	if !ok {
		return generic.ErrEmployeeNotFound
	}
	e.Rates = current.Rates
	m.employees[e.ID] = copyEmployee(e)
	return nil
}

func (m *Memory) DeleteEmployee(_ context.Context, id payroll.EmployeeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[id]; !ok {
		return generic.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	for k, w := range m.workLogs {
		if w.EmployeeID == id {
			delete(m.workLogs, k)
		}
	}
	for k := range m.adjustments {
		if k.EmployeeID == id {
			delete(m.adjustments, k)
		}
	}
	for k, r := range m.requests {
		if r.EmployeeID == id {
			delete(m.requests, k)
		}
	}
	return nil
}

func (m *Memory) AddRate(_ context.Context, id payroll.EmployeeID, r payroll.RateRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.employees[id]
	if !ok {
		return generic.ErrEmployeeNotFound
	}
	e.Rates = append(append([]payroll.RateRecord(nil), e.Rates...), r)
	m.employees[id] = e
	return nil
}

func copyEmployee(e payroll.Employee) payroll.Employee {
	e.Rates = append([]payroll.RateRecord(nil), e.Rates...)
	if e.HouseID != nil {
		h := *e.HouseID
		e.HouseID = &h
	}
	return e
}

// =============================================================================
// WORK LOGS AND ADJUSTMENTS
// =============================================================================

func (m *Memory) ListWorkLogs(_ context.Context, filter payroll.WorkLogFilter) ([]payroll.WorkLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]payroll.WorkLog, 0)
	for _, w := range m.workLogs {
		if filter.Matches(w) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) GetWorkLog(_ context.Context, id payroll.WorkLogID) (*payroll.WorkLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	w, ok := m.workLogs[id]
	if !ok {
		return nil, generic.ErrWorkLogNotFound
	}
	return &w, nil
}

func (m *Memory) SaveWorkLog(_ context.Context, w payroll.WorkLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[w.EmployeeID]; !ok {
		return generic.ErrEmployeeNotFound
	}
	m.workLogs[w.ID] = w
	return nil
}

func (m *Memory) DeleteWorkLog(_ context.Context, id payroll.WorkLogID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.workLogs[id]; !ok {
		return generic.ErrWorkLogNotFound
	}
	delete(m.workLogs, id)
	return nil
}

func (m *Memory) ListAdjustments(_ context.Context, month string) ([]payroll.Adjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]payroll.Adjustment, 0)
	for k, a := range m.adjustments {
		if k.Month == month {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (m *Memory) SaveAdjustment(_ context.Context, a payroll.Adjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[a.EmployeeID]; !ok {
		return generic.ErrEmployeeNotFound
	}
	m.adjustments[adjustmentKey{EmployeeID: a.EmployeeID, Month: a.Month}] = a
	return nil
}

// =============================================================================
// FINANCE
// =============================================================================

func (m *Memory) ListHouses(context.Context) ([]finance.House, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]finance.House, 0, len(m.houses))
	for _, h := range m.houses {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SaveHouse(_ context.Context, h finance.House) (finance.House, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h.ID == 0 {
		m.nextHouseID++
		h.ID = m.nextHouseID
	} else if h.ID > m.nextHouseID {
		m.nextHouseID = h.ID
	}
	m.houses[h.ID] = h
	return h, nil
}

func (m *Memory) DeleteHouse(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.houses[id]; !ok {
		return generic.ErrRecordNotFound
	}
	delete(m.houses, id)
	for k, e := range m.employees {
		if e.HouseID != nil && *e.HouseID == id {
			e.HouseID = nil
			m.employees[k] = e
		}
	}
	return nil
}

func (m *Memory) ListRevenues(context.Context) ([]finance.Revenue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]finance.Revenue, 0, len(m.revenues))
	for _, r := range m.revenues {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].Date, out[j].Date, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (m *Memory) SaveRevenue(_ context.Context, r finance.Revenue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revenues[r.ID] = r
	return nil
}

func (m *Memory) DeleteRevenue(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.revenues[id]; !ok {
		return generic.ErrRecordNotFound
	}
	delete(m.revenues, id)
	return nil
}

func (m *Memory) ListExpenses(context.Context) ([]finance.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]finance.Expense, 0, len(m.expenses))
	for _, e := range m.expenses {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].Date, out[j].Date, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (m *Memory) SaveExpense(_ context.Context, e finance.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[e.ID] = e
	return nil
}

func (m *Memory) DeleteExpense(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.expenses[id]; !ok {
		return generic.ErrRecordNotFound
	}
	delete(m.expenses, id)
	return nil
}

func newerFirst(a, b generic.Date, idA, idB string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA < idB
}

// =============================================================================
// LEAVE AND HOLIDAYS
// =============================================================================

func (m *Memory) ListLeaveRequests(context.Context) ([]leave.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]leave.Request, 0, len(m.requests))
	for _, r := range m.requests {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, string(out[i].ID), string(out[j].ID))
	})
	return out, nil
}

func (m *Memory) GetLeaveRequest(_ context.Context, id leave.RequestID) (*leave.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.requests[id]
	if !ok {
		return nil, generic.ErrLeaveRequestNotFound
	}
	return &r, nil
}

func (m *Memory) SaveLeaveRequest(_ context.Context, r leave.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[r.EmployeeID]; !ok {
		return generic.ErrEmployeeNotFound
	}
	m.requests[r.ID] = r
	return nil
}

func (m *Memory) ListHolidays(context.Context) (generic.HolidayList, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(generic.HolidayList, 0, len(m.holidays))
	for _, h := range m.holidays {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SaveHoliday upserts by ID. Two holidays may not share a date and name.
func (m *Memory) SaveHoliday(_ context.Context, h generic.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, other := range m.holidays {
		if id != h.ID && other.Name == h.Name && other.Date.Equal(h.Date) {
			return generic.ErrDuplicateID
		}
	}
	m.holidays[h.ID] = h
	return nil
}

// =============================================================================
// PAYROLL RUNS
// =============================================================================

func (m *Memory) SavePayrollRun(_ context.Context, r store.PayrollRunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.runs[r.Month]; ok {
		return generic.ErrAlreadyClosed
	}
	r.Lines = append([]store.PayrollRunLine(nil), r.Lines...)
	m.runs[r.Month] = r
	return nil
}

// ListPayrollRuns returns closed months, most recent first.
func (m *Memory) ListPayrollRuns(context.Context) ([]store.PayrollRunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]store.PayrollRunRecord, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out, nil
}

func (m *Memory) IsMonthClosed(_ context.Context, month string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.runs[month]
	return ok, nil
}
