package payroll

import (
	"fmt"
	"time"

	"github.com/paralelo/workforce/generic"
)

// Minute weights for production work.
const (
	MinutesPerDeparture = 30
	MinutesPerStayover  = 20
	MinutesPerExtraBed  = 5

	// Shifts longer than BreakThreshold minutes include an unpaid break.
	BreakThreshold = 360
	BreakMinutes   = 30
)

// ComputeMinutes derives a work log's TotalMinutes from its detail.
// A detail that does not match the job type is rejected.
func ComputeMinutes(job JobType, d Detail) (int64, error) {
	switch detail := d.(type) {
	case TimeDetail:
		if job != JobByTime {
			return 0, &generic.ValidationError{Field: "detail", Message: "time detail requires a by_time employee"}
		}
		return shiftMinutes(detail)
	case ProductionDetail:
		if job != JobByProduction {
			return 0, &generic.ValidationError{Field: "detail", Message: "production detail requires a by_production employee"}
		}
		return productionMinutes(detail)
	case nil:
		return 0, &generic.ValidationError{Field: "detail", Message: "required"}
	default:
		return 0, &generic.ValidationError{Field: "detail", Message: fmt.Sprintf("unsupported %T", d)}
	}
}

func shiftMinutes(d TimeDetail) (int64, error) {
	start, err := parseClock(d.Start)
	if err != nil {
		return 0, &generic.ValidationError{Field: "start", Message: err.Error()}
	}
	end, err := parseClock(d.End)
	if err != nil {
		return 0, &generic.ValidationError{Field: "end", Message: err.Error()}
	}

	span := int64(end.Sub(start) / time.Minute)
	if span <= 0 {
		return 0, nil
	}
	if span > BreakThreshold {
		span -= BreakMinutes
	}
	return span, nil
}

func productionMinutes(d ProductionDetail) (int64, error) {
	if d.Departures < 0 || d.Stayovers < 0 || d.ExtraBeds < 0 || d.ExtraMinutes < 0 {
		return 0, &generic.ValidationError{Field: "detail", Message: "counters must be non-negative"}
	}
	return int64(d.Departures*MinutesPerDeparture +
		d.Stayovers*MinutesPerStayover +
		d.ExtraBeds*MinutesPerExtraBed +
		d.ExtraMinutes), nil
}

func parseClock(s string) (time.Time, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected HH:MM, got %q", s)
	}
	return t, nil
}
