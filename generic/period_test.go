package generic_test

import (
	"testing"
	"time"

	"github.com/paralelo/workforce/generic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriod_Validate(t *testing.T) {
	assert.NoError(t, generic.Period{Start: d("2024-07-01"), End: d("2024-07-01")}.Validate())
	assert.ErrorIs(t, generic.Period{Start: d("2024-07-02"), End: d("2024-07-01")}.Validate(), generic.ErrInvalidPeriod)
	assert.ErrorIs(t, generic.Period{Start: d("2024-07-01")}.Validate(), generic.ErrInvalidPeriod)
	assert.True(t, generic.IsClientError(generic.Period{}.Validate()))
}

func TestPeriod_ContainsIsInclusive(t *testing.T) {
	p := generic.MonthPeriod(2024, time.July)

	assert.True(t, p.Contains(d("2024-07-01")))
	assert.True(t, p.Contains(d("2024-07-31")))
	assert.False(t, p.Contains(d("2024-08-01")))
	assert.False(t, p.Contains(d("2024-06-30")))
	assert.False(t, p.Contains(generic.Date{}))
}

func TestPeriod_Days(t *testing.T) {
	days := generic.Period{Start: d("2024-02-27"), End: d("2024-03-01")}.Days()
	require.Len(t, days, 4)
	assert.Equal(t, d("2024-02-29"), days[2])

	assert.Empty(t, generic.Period{Start: d("2024-03-01"), End: d("2024-02-27")}.Days(), "inverted period has no days")
	assert.Empty(t, generic.Period{}.Days())
}

func TestPeriod_WorkdayCount(t *testing.T) {
	// GIVEN: 2024-07-15 (Mon) to 2024-07-21 (Sun), with a holiday on Wednesday
	week := generic.Period{Start: d("2024-07-15"), End: d("2024-07-21")}
	cal := generic.HolidayList{{Date: d("2024-07-17"), Name: "Company day"}}

	assert.Equal(t, 5, week.WorkdayCount(nil))
	assert.Equal(t, 4, week.WorkdayCount(cal))
	assert.Equal(t, 23, generic.MonthPeriod(2024, time.July).WorkdayCount(generic.NoHolidays{}))
}

func TestParseMonth(t *testing.T) {
	p, err := generic.ParseMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, d("2024-02-01"), p.Start)
	assert.Equal(t, d("2024-02-29"), p.End)
	assert.Equal(t, "2024-02", p.MonthKey())

	for _, bad := range []string{"", "2024", "2024-13", "02-2024", "july"} {
		_, err := generic.ParseMonth(bad)
		assert.ErrorIs(t, err, generic.ErrInvalidPeriod, bad)
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := generic.ParsePeriod("2024-12-20", "2024-12-27")
	require.NoError(t, err)
	assert.Equal(t, "[2024-12-20, 2024-12-27]", p.String())

	_, err = generic.ParsePeriod("2024-12-27", "2024-12-20")
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
	_, err = generic.ParsePeriod("yesterday", "2024-12-20")
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
	_, err = generic.ParsePeriod("2024-12-20", "")
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
}

func TestPeriod_PreviousMonth(t *testing.T) {
	tests := []struct {
		name string
		from generic.Period
		want string
	}{
		{"january wraps to december", generic.MonthPeriod(2024, time.January), "2023-12"},
		{"march to leap february", generic.MonthPeriod(2024, time.March), "2024-02"},
		{"mid-month start", generic.Period{Start: d("2024-07-19"), End: d("2024-07-19")}, "2024-06"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prev := tc.from.PreviousMonth()
			assert.Equal(t, tc.want, prev.MonthKey())
			assert.Equal(t, 1, prev.Start.Day())
			assert.Equal(t, prev.End, generic.EndOfMonth(prev.Start.Year(), prev.Start.Month()))
		})
	}
	assert.Equal(t, d("2024-02-29"), generic.MonthPeriod(2024, time.March).PreviousMonth().End)
}
