package finance

import (
	"fmt"
	"sort"

	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/payroll"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CASH-FLOW STATEMENT
// =============================================================================
//
// The balance is never stored. It is recomputed by replaying every item of
// the period: revenues, misc expenses, one payroll line per paid employee
// and one rent line per house. Payroll and rent are dated on the last day
// of the period with status "calculated".

type Direction string

const (
	Inflow  Direction = "inflow"
	Outflow Direction = "outflow"
)

type Source string

const (
	SourceRevenue Source = "revenue"
	SourceExpense Source = "expense"
	SourcePayroll Source = "payroll"
	SourceRent    Source = "rent"
)

// StatusCalculated marks derived items (payroll, rent).
const StatusCalculated = "calculated"

type Item struct {
	ID          string
	Date        generic.Date
	Description string
	Category    string
	Amount      decimal.Decimal
	Direction   Direction
	Status      string
	Source      Source
}

type Statement struct {
	Period        generic.Period
	Items         []Item
	TotalRevenue  decimal.Decimal
	TotalPayroll  decimal.Decimal
	TotalRent     decimal.Decimal
	TotalMisc     decimal.Decimal
	TotalExpenses decimal.Decimal // payroll + rent + misc
	Balance       decimal.Decimal // revenue - expenses
	Payable       decimal.Decimal // pending misc + payroll + rent
	Receivable    decimal.Decimal // pending revenue
}

// BuildStatement assembles the cash flow for period. Revenues and expenses
// dated outside period are ignored. run supplies the payroll lines.
func BuildStatement(period generic.Period, revenues []Revenue, expenses []Expense, houses []House, run payroll.RunResult) Statement {
	st := Statement{
		Period:        period,
		Items:         []Item{},
		TotalRevenue:  decimal.Zero,
		TotalPayroll:  decimal.Zero,
		TotalRent:     decimal.Zero,
		TotalMisc:     decimal.Zero,
		TotalExpenses: decimal.Zero,
		Balance:       decimal.Zero,
		Payable:       decimal.Zero,
		Receivable:    decimal.Zero,
	}

	for _, r := range revenues {
		if !period.Contains(r.Date) {
			continue
		}
		st.TotalRevenue = st.TotalRevenue.Add(r.Amount)
		if r.Status == RevenuePending {
			st.Receivable = st.Receivable.Add(r.Amount)
		}
		st.Items = append(st.Items, Item{
			ID:          r.ID,
			Date:        r.Date,
			Description: r.Description,
			Category:    r.Client,
			Amount:      r.Amount,
			Direction:   Inflow,
			Status:      string(r.Status),
			Source:      SourceRevenue,
		})
	}

	pendingMisc := decimal.Zero
	for _, e := range expenses {
		if !period.Contains(e.Date) {
			continue
		}
		st.TotalMisc = st.TotalMisc.Add(e.Amount)
		if e.Status == ExpensePending {
			pendingMisc = pendingMisc.Add(e.Amount)
		}
		st.Items = append(st.Items, Item{
			ID:          e.ID,
			Date:        e.Date,
			Description: e.Description,
			Category:    e.Category,
			Amount:      e.Amount,
			Direction:   Outflow,
			Status:      string(e.Status),
			Source:      SourceExpense,
		})
	}

	for _, line := range run.Lines {
		if !line.Total.IsPositive() {
			continue
		}
		st.TotalPayroll = st.TotalPayroll.Add(line.Total)
		st.Items = append(st.Items, Item{
			ID:          fmt.Sprintf("payroll-%s", line.EmployeeID),
			Date:        period.End,
			Description: "Payroll - " + line.Name,
			Category:    "Payroll",
			Amount:      line.Total,
			Direction:   Outflow,
			Status:      StatusCalculated,
			Source:      SourcePayroll,
		})
	}

	for _, h := range houses {
		if !h.Rent.IsPositive() {
			continue
		}
		st.TotalRent = st.TotalRent.Add(h.Rent)
		st.Items = append(st.Items, Item{
			ID:          fmt.Sprintf("rent-%d", h.ID),
			Date:        period.End,
			Description: "Rent - " + h.Name,
			Category:    "Rent",
			Amount:      h.Rent,
			Direction:   Outflow,
			Status:      StatusCalculated,
			Source:      SourceRent,
		})
	}

	st.TotalExpenses = generic.SumMoney(st.TotalPayroll, st.TotalRent, st.TotalMisc)
	st.Balance = st.TotalRevenue.Sub(st.TotalExpenses)
	st.Payable = generic.SumMoney(pendingMisc, st.TotalPayroll, st.TotalRent)

	sort.SliceStable(st.Items, func(i, j int) bool {
		return st.Items[i].Date.After(st.Items[j].Date)
	})
	return st
}

// Replay recomputes the balance from items. It always equals
// Statement.Balance for the items BuildStatement produced.
func Replay(items []Item) decimal.Decimal {
	balance := decimal.Zero
	for _, it := range items {
		switch it.Direction {
		case Inflow:
			balance = balance.Add(it.Amount)
		case Outflow:
			balance = balance.Sub(it.Amount)
		}
	}
	return balance
}
