package payroll_test

import (
	"testing"

	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(s string) generic.Date { return generic.MustDate(s) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func rate(value, effective string) payroll.RateRecord {
	return payroll.RateRecord{Rate: dec(value), EffectiveDate: d(effective)}
}

func employee(id string, rates ...payroll.RateRecord) payroll.Employee {
	return payroll.Employee{
		ID:      payroll.EmployeeID(id),
		Name:    id,
		Role:    payroll.RoleEmployee,
		JobType: payroll.JobByTime,
		Rates:   rates,
	}
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

// =============================================================================
// RATE RESOLUTION
// =============================================================================

func TestResolveRate_EmptyHistory_ReturnsZero(t *testing.T) {
	e := employee("ana")
	for _, date := range []string{"1999-01-01", "2024-05-31", "2100-12-31"} {
		assert.True(t, payroll.ResolveRate(e, d(date)).IsZero(), date)
	}
}

func TestResolveRate_InvalidTarget_ReturnsZero(t *testing.T) {
	e := employee("ana", rate("12.50", "2023-01-01"))

	assert.True(t, payroll.ResolveRate(e, generic.Date{}).IsZero())
	assert.True(t, payroll.ResolveRateOn(e, "not-a-date").IsZero())
	assert.True(t, payroll.ResolveRateOn(e, "2024-02-30").IsZero())
}

func TestResolveRate_SingleRecord_AppliesBeforeAndAfter(t *testing.T) {
	// GIVEN: One rate effective 2024-01-01
	// THEN: It applies on, after, and (fallback-to-oldest) before that date
	e := employee("ana", rate("10.00", "2024-01-01"))

	assertDec(t, "10", payroll.ResolveRate(e, d("2024-01-01")))
	assertDec(t, "10", payroll.ResolveRate(e, d("2030-06-15")))
	assertDec(t, "10", payroll.ResolveRate(e, d("2020-03-01")))
}

func TestResolveRate_TwoRecords_PicksRateInEffect(t *testing.T) {
	e := employee("ana", rate("15.00", "2024-06-01"), rate("12.50", "2023-01-01"))

	assertDec(t, "12.50", payroll.ResolveRate(e, d("2023-01-01")))
	assertDec(t, "12.50", payroll.ResolveRate(e, d("2024-05-31")))
	assertDec(t, "15.00", payroll.ResolveRate(e, d("2024-06-01")))
	assertDec(t, "15.00", payroll.ResolveRate(e, d("2025-01-01")))
	assertDec(t, "12.50", payroll.ResolveRate(e, d("2022-12-31")), "before first record falls back to oldest")
}

func TestResolveRate_UnsortedHistory(t *testing.T) {
	e := employee("ana",
		rate("14.00", "2024-03-01"),
		rate("11.00", "2022-01-01"),
		rate("16.00", "2025-01-01"),
		rate("12.00", "2023-01-01"),
	)

	assertDec(t, "12", payroll.ResolveRate(e, d("2023-07-01")))
	assertDec(t, "14", payroll.ResolveRate(e, d("2024-12-31")))
	assertDec(t, "16", payroll.ResolveRate(e, d("2025-01-01")))
	assertDec(t, "11", payroll.ResolveRate(e, d("2021-01-01")))
}

func TestResolveRate_NegativeRecordClampsToZero(t *testing.T) {
	// GIVEN: a corrupt negative rate in effect from June
	e := employee("ana", rate("12.50", "2023-01-01"), rate("-5.00", "2024-06-01"))

	// THEN: it resolves to zero while it is in effect, earlier rates are untouched
	assert.True(t, payroll.ResolveRate(e, d("2024-06-15")).IsZero())
	assert.True(t, payroll.ResolveRateOn(e, "2024-07-01").IsZero())
	assertDec(t, "12.50", payroll.ResolveRate(e, d("2024-05-31")))
}

func TestResolveRate_SameEffectiveDate_LastWrittenWins(t *testing.T) {
	// GIVEN: An administrative correction written after the original record
	e := employee("ana",
		rate("10.00", "2024-01-01"),
		rate("11.00", "2024-01-01"),
	)

	assertDec(t, "11", payroll.ResolveRate(e, d("2024-02-01")))
	assertDec(t, "11", payroll.ResolveRate(e, d("2023-02-01")), "fallback also takes the last-written oldest record")
}

func TestResolveRate_IgnoresUndatedRecords(t *testing.T) {
	e := employee("ana",
		payroll.RateRecord{Rate: dec("99")},
		rate("10.00", "2024-01-01"),
	)
	assertDec(t, "10", payroll.ResolveRate(e, d("2024-02-01")))

	onlyUndated := employee("joao", payroll.RateRecord{Rate: dec("99")})
	assert.True(t, payroll.ResolveRate(onlyUndated, d("2024-02-01")).IsZero())
}

func TestResolveRate_DoesNotMutateHistory(t *testing.T) {
	rates := []payroll.RateRecord{rate("15.00", "2024-06-01"), rate("12.50", "2023-01-01"), rate("20.00", "2025-01-01")}
	e := employee("ana", rates...)
	before := append([]payroll.RateRecord(nil), e.Rates...)

	payroll.ResolveRate(e, d("2024-07-01"))
	payroll.RateHistory(e.Rates)

	assert.Equal(t, before, e.Rates)
}

func TestRateHistory_MostRecentFirst(t *testing.T) {
	history := payroll.RateHistory([]payroll.RateRecord{
		rate("12.50", "2023-01-01"),
		rate("10.00", "2024-06-01"),
		rate("15.00", "2024-06-01"),
		rate("9.00", "2022-01-01"),
	})

	got := make([]string, len(history))
	for i, r := range history {
		got[i] = r.Rate.String()
	}
	assert.Equal(t, []string{"15", "10", "12.5", "9"}, got)
}
