package generic_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/paralelo/workforce/generic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) generic.Date { return generic.MustDate(s) }

// =============================================================================
// DATE
// =============================================================================

func TestDateOf_UsesTheCalendarDayOfItsLocation(t *testing.T) {
	// 23:30 on a Sunday in São Paulo is already Monday in UTC
	sp := time.FixedZone("BRT", -3*60*60)
	got := generic.DateOf(time.Date(2024, time.July, 7, 23, 30, 0, 0, sp))

	assert.Equal(t, "2024-07-07", got.String())
	assert.True(t, got.IsSunday())
	assert.True(t, generic.DateOf(time.Time{}).IsZero())
}

func TestParseDate(t *testing.T) {
	got, err := generic.ParseDate(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, generic.NewDate(2024, time.February, 29), got)

	for _, bad := range []string{"", "2023-02-29", "29/02/2024", "2024-7-1"} {
		_, err := generic.ParseDate(bad)
		assert.Error(t, err, bad)
	}
	assert.Panics(t, func() { generic.MustDate("nope") })
}

func TestDate_WorkdaysAndWeekends(t *testing.T) {
	assert.True(t, d("2024-07-05").IsWorkday(), "friday")
	assert.True(t, d("2024-07-06").IsWeekend(), "saturday")
	assert.False(t, d("2024-07-06").IsSunday())
	assert.True(t, d("2024-07-07").IsSunday())
	assert.False(t, generic.Date{}.IsSunday())
	assert.False(t, generic.Date{}.IsWorkday())
}

func TestDate_MarshalText(t *testing.T) {
	// GIVEN: a struct with a set and a zero date
	type row struct {
		Date  generic.Date `json:"date"`
		Until generic.Date `json:"until"`
	}

	// WHEN
	payload, err := json.Marshal(row{Date: d("2024-07-19")})

	// THEN: the zero date encodes as an empty string
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-07-19","until":""}`, string(payload))
}

func TestDate_UnmarshalText(t *testing.T) {
	got := d("2024-07-19")
	require.NoError(t, got.UnmarshalText([]byte("")))
	assert.True(t, got.IsZero(), "empty text clears the date")

	require.NoError(t, got.UnmarshalText([]byte("2024-12-25")))
	assert.Equal(t, d("2024-12-25"), got)

	assert.Error(t, got.UnmarshalText([]byte("25/12/2024")))
}

func TestDate_ValueAndScan(t *testing.T) {
	v, err := d("2024-07-19").Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-07-19", v)

	v, err = generic.Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	tests := []struct {
		name string
		src  any
		want string
	}{
		{"string", "2024-07-19", "2024-07-19"},
		{"bytes", []byte("2024-07-19"), "2024-07-19"},
		{"time in UTC", time.Date(2024, time.July, 19, 0, 0, 0, 0, time.UTC), "2024-07-19"},
		{"time in another zone", time.Date(2024, time.July, 19, 22, 0, 0, 0, time.FixedZone("BRT", -3*60*60)), "2024-07-20"},
		{"nil", nil, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := d("2000-01-01")
			require.NoError(t, got.Scan(tc.src))
			assert.Equal(t, tc.want, got.String())
		})
	}

	var got generic.Date
	assert.Error(t, got.Scan(42))
	assert.Error(t, got.Scan("not a date"))
}

func TestMonthBounds(t *testing.T) {
	assert.Equal(t, d("2024-02-29"), generic.EndOfMonth(2024, time.February))
	assert.Equal(t, d("2024-12-31"), generic.EndOfMonth(2024, time.December))
	assert.Equal(t, d("2024-12-01"), generic.StartOfMonth(2024, time.December))
	assert.Equal(t, 30, generic.DaysBetween(d("2024-06-01"), d("2024-07-01")))
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestHolidayList(t *testing.T) {
	// GIVEN: Christmas every year and a one-off company day
	cal := generic.HolidayList{
		{Date: d("2020-12-25"), Name: "Christmas", Recurring: true},
		{Date: d("2024-07-15"), Name: "Company day"},
	}

	assert.True(t, cal.IsHoliday(d("2024-12-25")))
	assert.True(t, cal.IsHoliday(d("2031-12-25")))
	assert.True(t, cal.IsHoliday(d("2024-07-15")))
	assert.False(t, cal.IsHoliday(d("2025-07-15")), "one-off holidays do not repeat")
	assert.False(t, cal.IsHoliday(d("2024-12-24")))

	assert.False(t, d("2024-07-15").IsWorkdayWithHolidays(cal))
	assert.True(t, d("2024-07-16").IsWorkdayWithHolidays(cal))
	assert.True(t, d("2024-07-15").IsWorkdayWithHolidays(nil))
	assert.True(t, d("2024-07-15").IsWorkdayWithHolidays(generic.NoHolidays{}))
	assert.False(t, d("2024-07-14").IsWorkdayWithHolidays(generic.NoHolidays{}), "sunday")
}
