package generic

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// PERIOD - Inclusive date range used for payroll, reports and leave
// =============================================================================

// Period is the inclusive range [Start, End].
//
// Examples:
//   - Payroll month May 2024: 2024-05-01 - 2024-05-31
//   - Leave request: 2024-12-20 - 2024-12-27
type Period struct {
	Start Date
	End   Date
}

// Validate rejects periods with a missing bound or an end before the start.
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return fmt.Errorf("%w: missing bound", ErrInvalidPeriod)
	}
	if p.End.Before(p.Start) {
		return fmt.Errorf("%w: %s", ErrInvalidPeriod, p)
	}
	return nil
}

// Contains returns true if the date is within the period [Start, End].
// A zero date is never contained.
func (p Period) Contains(d Date) bool {
	if d.IsZero() {
		return false
	}
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns all days in the period.
func (p Period) Days() []Date {
	var days []Date
	if p.Validate() != nil {
		return days
	}
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// WorkdayCount counts Monday-Friday days that are not holidays.
func (p Period) WorkdayCount(calendar HolidayCalendar) int {
	n := 0
	for _, d := range p.Days() {
		if d.IsWorkdayWithHolidays(calendar) {
			n++
		}
	}
	return n
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// MONTH PERIODS
// =============================================================================

// MonthPeriod returns the calendar month containing year/month.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// MonthOf returns the calendar month that contains d.
func MonthOf(d Date) Period {
	return MonthPeriod(d.Year(), d.Month())
}

// ParseMonth parses a YYYY-MM key into its calendar month.
func ParseMonth(key string) (Period, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(key))
	if err != nil {
		return Period{}, fmt.Errorf("%w: month %q", ErrInvalidPeriod, key)
	}
	return MonthPeriod(t.Year(), t.Month()), nil
}

// ParsePeriod parses an inclusive YYYY-MM-DD range.
func ParsePeriod(start, end string) (Period, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %v", ErrInvalidPeriod, err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %v", ErrInvalidPeriod, err)
	}
	p := Period{Start: s, End: e}
	return p, p.Validate()
}

// PreviousMonth returns the calendar month before the one containing p.Start.
func (p Period) PreviousMonth() Period {
	return MonthOf(StartOfMonth(p.Start.Year(), p.Start.Month()).AddDays(-1))
}

// MonthKey identifies the month of the period start ("2024-05").
func (p Period) MonthKey() string {
	return p.Start.MonthKey()
}
