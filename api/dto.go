/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Domain types in
  payroll, leave and finance carry no JSON tags; these types are the
  external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients (some double as request bodies)
  - *Request: Request body types from clients

MONEY AND DATES:
  Amounts are decimal.Decimal and travel as JSON strings ("12.5").
  Dates are generic.Date and travel as "YYYY-MM-DD".

VALIDATION:
  Validation is done by the domain types (Employee.Validate, Revenue.Validate,
  ...), not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/paralelo/workforce/finance"
	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/leave"
	"github.com/paralelo/workforce/payroll"
	"github.com/paralelo/workforce/store"
	"github.com/shopspring/decimal"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

type RateDTO struct {
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate generic.Date    `json:"effective_date"`
}

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Role        string          `json:"role"`
	JobType     string          `json:"job_type"`
	StartDate   generic.Date    `json:"start_date"`
	HouseID     *int64          `json:"house_id,omitempty"`
	CurrentRate decimal.Decimal `json:"current_rate"`
	Rates       []RateDTO       `json:"rates"` // most recent first
}

// EmployeeRequest creates or updates an employee. Rates is only read on
// create; use the rates endpoint afterwards.
type EmployeeRequest struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone"`
	Role      string       `json:"role"`
	JobType   string       `json:"job_type"`
	StartDate generic.Date `json:"start_date"`
	HouseID   *int64       `json:"house_id"`
	Rates     []RateDTO    `json:"rates"`
}

func toEmployeeDTO(e payroll.Employee, today generic.Date) EmployeeDTO {
	history := payroll.RateHistory(e.Rates)
	rates := make([]RateDTO, 0, len(history))
	for _, r := range history {
		rates = append(rates, RateDTO{Rate: r.Rate, EffectiveDate: r.EffectiveDate})
	}
	return EmployeeDTO{
		ID:          string(e.ID),
		Name:        e.Name,
		Email:       e.Email,
		Phone:       e.Phone,
		Role:        string(e.Role),
		JobType:     string(e.JobType),
		StartDate:   e.StartDate,
		HouseID:     e.HouseID,
		CurrentRate: payroll.ResolveRate(e, today),
		Rates:       rates,
	}
}

// =============================================================================
// WORK LOGS
// =============================================================================

// WorkLogDTO carries exactly one of Time or Production, matching Kind.
type WorkLogDTO struct {
	ID           string                    `json:"id"`
	EmployeeID   string                    `json:"employee_id"`
	Date         generic.Date              `json:"date"`
	TotalMinutes int64                     `json:"total_minutes"`
	Status       string                    `json:"status"`
	Kind         string                    `json:"kind,omitempty"`
	Time         *payroll.TimeDetail       `json:"time,omitempty"`
	Production   *payroll.ProductionDetail `json:"production,omitempty"`
}

// WorkLogRequest creates or edits a work log. Minutes are always derived
// from the detail; clients never send them.
type WorkLogRequest struct {
	EmployeeID string                    `json:"employee_id"`
	Date       generic.Date              `json:"date"`
	Time       *payroll.TimeDetail       `json:"time"`
	Production *payroll.ProductionDetail `json:"production"`
}

func (r WorkLogRequest) detail() (payroll.Detail, error) {
	switch {
	case r.Time != nil && r.Production != nil:
		return nil, &generic.ValidationError{Field: "detail", Message: "send either time or production, not both"}
	case r.Time != nil:
		return *r.Time, nil
	case r.Production != nil:
		return *r.Production, nil
	default:
		return nil, nil
	}
}

type ReviewRequest struct {
	Status string `json:"status"`
}

func toWorkLogDTO(w payroll.WorkLog) WorkLogDTO {
	dto := WorkLogDTO{
		ID:           string(w.ID),
		EmployeeID:   string(w.EmployeeID),
		Date:         w.Date,
		TotalMinutes: w.TotalMinutes,
		Status:       string(w.Status),
	}
	switch d := w.Detail.(type) {
	case payroll.TimeDetail:
		dto.Kind = string(payroll.DetailTime)
		dto.Time = &d
	case payroll.ProductionDetail:
		dto.Kind = string(payroll.DetailProduction)
		dto.Production = &d
	}
	return dto
}

// =============================================================================
// PAYROLL
// =============================================================================

type PeriodDTO struct {
	Start generic.Date `json:"start"`
	End   generic.Date `json:"end"`
}

// PayslipDTO is one employee's pay. Amounts are rounded to cents.
type PayslipDTO struct {
	EmployeeID   string          `json:"employee_id"`
	Name         string          `json:"name,omitempty"`
	JobType      string          `json:"job_type,omitempty"`
	Period       PeriodDTO       `json:"period"`
	Rate         decimal.Decimal `json:"rate"`
	TotalMinutes int64           `json:"total_minutes"`
	BonusMinutes int64           `json:"bonus_minutes"`
	Base         decimal.Decimal `json:"base"`
	Bonus        decimal.Decimal `json:"bonus"`
	Extra        decimal.Decimal `json:"extra"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
}

type PayrollTotalsDTO struct {
	TotalMinutes int64           `json:"total_minutes"`
	BonusMinutes int64           `json:"bonus_minutes"`
	Base         decimal.Decimal `json:"base"`
	Bonus        decimal.Decimal `json:"bonus"`
	Extra        decimal.Decimal `json:"extra"`
	Discount     decimal.Decimal `json:"discount"`
	Net          decimal.Decimal `json:"net"`
}

type PayrollRunDTO struct {
	Period PeriodDTO        `json:"period"`
	Policy string           `json:"policy"`
	Lines  []PayslipDTO     `json:"lines"`
	Totals PayrollTotalsDTO `json:"totals"`
}

type AdjustmentDTO struct {
	EmployeeID string          `json:"employee_id"`
	Month      string          `json:"month"`
	Extra      decimal.Decimal `json:"extra"`
	Discount   decimal.Decimal `json:"discount"`
}

// PayrollRunRecordDTO is a closed month.
type PayrollRunRecordDTO struct {
	ID           string                 `json:"id"`
	Month        string                 `json:"month"`
	Period       PeriodDTO              `json:"period"`
	Policy       string                 `json:"policy"`
	Lines        []store.PayrollRunLine `json:"lines"`
	Net          decimal.Decimal        `json:"net"`
	TotalMinutes int64                  `json:"total_minutes"`
	ClosedAt     time.Time              `json:"closed_at"`
}

type CloseMonthRequest struct {
	Month string `json:"month"` // YYYY-MM; empty closes the previous month
}

func toPeriodDTO(p generic.Period) PeriodDTO {
	return PeriodDTO{Start: p.Start, End: p.End}
}

func toPayslipDTO(s payroll.Payslip) PayslipDTO {
	return PayslipDTO{
		EmployeeID:   string(s.EmployeeID),
		Period:       toPeriodDTO(s.Period),
		Rate:         s.Rate,
		TotalMinutes: s.Totals.TotalMinutes,
		BonusMinutes: s.Totals.BonusMinutes,
		Base:         generic.RoundMoney(s.Base),
		Bonus:        generic.RoundMoney(s.Bonus),
		Extra:        generic.RoundMoney(s.Extra),
		Discount:     generic.RoundMoney(s.Discount),
		Total:        generic.RoundMoney(s.Total),
	}
}

func toPayrollRunDTO(r payroll.RunResult) PayrollRunDTO {
	lines := make([]PayslipDTO, 0, len(r.Lines))
	for _, l := range r.Lines {
		dto := toPayslipDTO(l.Payslip)
		dto.Name = l.Name
		dto.JobType = string(l.JobType)
		lines = append(lines, dto)
	}
	return PayrollRunDTO{
		Period: toPeriodDTO(r.Period),
		Policy: string(r.Policy),
		Lines:  lines,
		Totals: PayrollTotalsDTO{
			TotalMinutes: r.Totals.TotalMinutes,
			BonusMinutes: r.Totals.BonusMinutes,
			Base:         generic.RoundMoney(r.Totals.Base),
			Bonus:        generic.RoundMoney(r.Totals.Bonus),
			Extra:        generic.RoundMoney(r.Totals.Extra),
			Discount:     generic.RoundMoney(r.Totals.Discount),
			Net:          generic.RoundMoney(r.Totals.Net),
		},
	}
}

func toPayrollRunRecordDTO(r store.PayrollRunRecord) PayrollRunRecordDTO {
	lines := r.Lines
	if lines == nil {
		lines = []store.PayrollRunLine{}
	}
	return PayrollRunRecordDTO{
		ID:           r.ID,
		Month:        r.Month,
		Period:       toPeriodDTO(r.Period),
		Policy:       string(r.Policy),
		Lines:        lines,
		Net:          generic.RoundMoney(r.Net),
		TotalMinutes: r.Minutes,
		ClosedAt:     r.ClosedAt,
	}
}

// =============================================================================
// FINANCE
// =============================================================================

type HouseDTO struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Address string          `json:"address,omitempty"`
	Rent    decimal.Decimal `json:"rent"`
}

type RevenueDTO struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Client      string          `json:"client"`
	Date        generic.Date    `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
}

type ExpenseDTO struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        generic.Date    `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
}

type StatementItemDTO struct {
	ID          string          `json:"id"`
	Date        generic.Date    `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   string          `json:"direction"`
	Status      string          `json:"status"`
	Source      string          `json:"source"`
}

type StatementDTO struct {
	Period        PeriodDTO          `json:"period"`
	Items         []StatementItemDTO `json:"items"`
	TotalRevenue  decimal.Decimal    `json:"total_revenue"`
	TotalPayroll  decimal.Decimal    `json:"total_payroll"`
	TotalRent     decimal.Decimal    `json:"total_rent"`
	TotalMisc     decimal.Decimal    `json:"total_misc"`
	TotalExpenses decimal.Decimal    `json:"total_expenses"`
	Balance       decimal.Decimal    `json:"balance"`
	Payable       decimal.Decimal    `json:"payable"`
	Receivable    decimal.Decimal    `json:"receivable"`
}

type DayMinutesDTO struct {
	Date    generic.Date `json:"date"`
	Minutes int64        `json:"minutes"`
}

type DashboardDTO struct {
	Month           string          `json:"month"`
	MonthRevenue    decimal.Decimal `json:"month_revenue"`
	ActiveEmployees int             `json:"active_employees"`
	NewEmployees    int             `json:"new_employees"`
	MonthMinutes    int64           `json:"month_minutes"`
	PendingLeave    int             `json:"pending_leave"`
	Daily           []DayMinutesDTO `json:"daily"`
}

func toHouseDTO(h finance.House) HouseDTO {
	return HouseDTO{ID: h.ID, Name: h.Name, Address: h.Address, Rent: h.Rent}
}

func (d HouseDTO) toDomain() finance.House {
	return finance.House{ID: d.ID, Name: d.Name, Address: d.Address, Rent: d.Rent}
}

func toRevenueDTO(r finance.Revenue) RevenueDTO {
	return RevenueDTO{ID: r.ID, Description: r.Description, Client: r.Client, Date: r.Date, Amount: r.Amount, Status: string(r.Status)}
}

func (d RevenueDTO) toDomain() finance.Revenue {
	return finance.Revenue{ID: d.ID, Description: d.Description, Client: d.Client, Date: d.Date, Amount: d.Amount, Status: finance.RevenueStatus(d.Status)}
}

func toExpenseDTO(e finance.Expense) ExpenseDTO {
	return ExpenseDTO{ID: e.ID, Description: e.Description, Category: e.Category, Date: e.Date, Amount: e.Amount, Status: string(e.Status)}
}

func (d ExpenseDTO) toDomain() finance.Expense {
	return finance.Expense{ID: d.ID, Description: d.Description, Category: d.Category, Date: d.Date, Amount: d.Amount, Status: finance.ExpenseStatus(d.Status)}
}

func toStatementDTO(st finance.Statement) StatementDTO {
	items := make([]StatementItemDTO, 0, len(st.Items))
	for _, it := range st.Items {
		items = append(items, StatementItemDTO{
			ID:          it.ID,
			Date:        it.Date,
			Description: it.Description,
			Category:    it.Category,
			Amount:      generic.RoundMoney(it.Amount),
			Direction:   string(it.Direction),
			Status:      it.Status,
			Source:      string(it.Source),
		})
	}
	return StatementDTO{
		Period:        toPeriodDTO(st.Period),
		Items:         items,
		TotalRevenue:  generic.RoundMoney(st.TotalRevenue),
		TotalPayroll:  generic.RoundMoney(st.TotalPayroll),
		TotalRent:     generic.RoundMoney(st.TotalRent),
		TotalMisc:     generic.RoundMoney(st.TotalMisc),
		TotalExpenses: generic.RoundMoney(st.TotalExpenses),
		Balance:       generic.RoundMoney(st.Balance),
		Payable:       generic.RoundMoney(st.Payable),
		Receivable:    generic.RoundMoney(st.Receivable),
	}
}

func toDashboardDTO(d finance.Dashboard) DashboardDTO {
	daily := make([]DayMinutesDTO, 0, len(d.Daily))
	for _, day := range d.Daily {
		daily = append(daily, DayMinutesDTO{Date: day.Date, Minutes: day.Minutes})
	}
	return DashboardDTO{
		Month:           d.Month.MonthKey(),
		MonthRevenue:    d.MonthRevenue,
		ActiveEmployees: d.ActiveEmployees,
		NewEmployees:    d.NewEmployees,
		MonthMinutes:    d.MonthMinutes,
		PendingLeave:    d.PendingLeave,
		Daily:           daily,
	}
}

// =============================================================================
// LEAVE
// =============================================================================

type LeaveRequestDTO struct {
	ID            string       `json:"id"`
	EmployeeID    string       `json:"employee_id"`
	StartDate     generic.Date `json:"start_date"`
	EndDate       generic.Date `json:"end_date"`
	DaysRequested int          `json:"days_requested"`
	Status        string       `json:"status"`
	Reason        string       `json:"reason,omitempty"`
	CreatedAt     generic.Date `json:"created_at"`
	DecidedBy     string       `json:"decided_by,omitempty"`
}

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

type DecisionRequest struct {
	DecidedBy string `json:"decided_by"`
}

type HolidayDTO struct {
	ID        string       `json:"id"`
	Date      generic.Date `json:"date"`
	Name      string       `json:"name"`
	Recurring bool         `json:"recurring"`
}

func toLeaveRequestDTO(r leave.Request) LeaveRequestDTO {
	return LeaveRequestDTO{
		ID:            string(r.ID),
		EmployeeID:    string(r.EmployeeID),
		StartDate:     r.Period.Start,
		EndDate:       r.Period.End,
		DaysRequested: r.DaysRequested,
		Status:        string(r.Status),
		Reason:        r.Reason,
		CreatedAt:     r.CreatedAt,
		DecidedBy:     r.DecidedBy,
	}
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
