package leave_test

import (
	"testing"

	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(start, end string) generic.Period {
	return generic.Period{Start: generic.MustDate(start), End: generic.MustDate(end)}
}

func TestNewRequest_CountsWorkingDays(t *testing.T) {
	tests := []struct {
		name   string
		period generic.Period
		want   int
	}{
		{"Friday to Friday spans a weekend", span("2024-12-20", "2024-12-27"), 6},
		{"plain work week", span("2024-09-02", "2024-09-06"), 5},
		{"single day", span("2025-01-10", "2025-01-10"), 1},
		{"starts on a Saturday", span("2025-01-11", "2025-01-17"), 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := leave.NewRequest("ana", tc.period, " Férias ", generic.MustDate("2024-11-10"), nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, req.DaysRequested)
			assert.Equal(t, leave.StatusPending, req.Status)
			assert.Equal(t, "Férias", req.Reason)
		})
	}
}

func TestNewRequest_SkipsHolidays(t *testing.T) {
	// GIVEN: Christmas as a recurring holiday
	calendar := generic.HolidayList{{Date: generic.MustDate("2000-12-25"), Name: "Christmas", Recurring: true}}

	req, err := leave.NewRequest("ana", span("2024-12-20", "2024-12-27"), "", generic.Today(), calendar)

	require.NoError(t, err)
	assert.Equal(t, 5, req.DaysRequested)
}

func TestNewRequest_Invalid(t *testing.T) {
	_, err := leave.NewRequest("ana", span("2024-12-27", "2024-12-20"), "", generic.Today(), nil)
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)

	_, err = leave.NewRequest("ana", span("2024-12-21", "2024-12-22"), "", generic.Today(), nil)
	assert.ErrorIs(t, err, generic.ErrInvalidInput, "weekend-only request")

	_, err = leave.NewRequest("", span("2024-12-20", "2024-12-27"), "", generic.Today(), nil)
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestRequest_DecideOnlyOnce(t *testing.T) {
	req, err := leave.NewRequest("ana", span("2024-09-02", "2024-09-06"), "", generic.Today(), nil)
	require.NoError(t, err)

	require.NoError(t, req.Approve("admin"))
	assert.Equal(t, leave.StatusApproved, req.Status)
	assert.Equal(t, "admin", req.DecidedBy)

	err = req.Reject("admin")
	assert.ErrorIs(t, err, generic.ErrInvalidTransition)
	assert.Equal(t, leave.StatusApproved, req.Status)
}

func TestCountPendingAndOrdering(t *testing.T) {
	reqs := []leave.Request{
		{ID: "1", Status: leave.StatusApproved, CreatedAt: generic.MustDate("2024-11-10")},
		{ID: "2", Status: leave.StatusPending, CreatedAt: generic.MustDate("2024-11-15")},
		{ID: "3", Status: leave.StatusRejected, CreatedAt: generic.MustDate("2024-08-28")},
	}

	assert.Equal(t, 1, leave.CountPending(reqs))

	ordered := leave.NewestFirst(reqs)
	assert.Equal(t, []leave.RequestID{"2", "1", "3"}, []leave.RequestID{ordered[0].ID, ordered[1].ID, ordered[2].ID})
	assert.Equal(t, leave.RequestID("1"), reqs[0].ID, "input is not reordered")
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []leave.Status{leave.StatusPending, leave.StatusApproved, leave.StatusRejected} {
		assert.True(t, s.Valid(), string(s))
	}
	for _, s := range []leave.Status{"", "done", "Approved"} {
		assert.False(t, s.Valid(), string(s))
	}
}
