package payroll

import (
	"encoding/json"
	"fmt"

	"github.com/paralelo/workforce/generic"
)

// DetailKind tags the variant stored in a WorkLog.
type DetailKind string

const (
	DetailTime       DetailKind = "time"
	DetailProduction DetailKind = "production"
)

// Detail is the closed set of work log payloads: TimeDetail or ProductionDetail.
type Detail interface {
	Kind() DetailKind
}

// TimeDetail records a clocked shift for by-time employees.
type TimeDetail struct {
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`   // HH:MM
}

func (TimeDetail) Kind() DetailKind { return DetailTime }

// ProductionDetail records housekeeping counters for by-production employees.
type ProductionDetail struct {
	Departures   int `json:"departures"`    // rooms turned after check-out
	Stayovers    int `json:"stayovers"`     // rooms serviced during a stay
	ExtraBeds    int `json:"extra_beds"`
	ExtraMinutes int `json:"extra_minutes"` // free-form extra time
}

func (ProductionDetail) Kind() DetailKind { return DetailProduction }

// EncodeDetail serializes a detail for storage.
func EncodeDetail(d Detail) (DetailKind, []byte, error) {
	if d == nil {
		return "", nil, nil
	}
	payload, err := json.Marshal(d)
	if err != nil {
		return "", nil, fmt.Errorf("encode %s detail: %w", d.Kind(), err)
	}
	return d.Kind(), payload, nil
}

// DecodeDetail rebuilds a detail from its stored kind and payload.
func DecodeDetail(kind DetailKind, payload []byte) (Detail, error) {
	switch kind {
	case "":
		return nil, nil
	case DetailTime:
		var d TimeDetail
		if err := json.Unmarshal(payload, &d); err != nil {
			return nil, fmt.Errorf("decode time detail: %w", err)
		}
		return d, nil
	case DetailProduction:
		var d ProductionDetail
		if err := json.Unmarshal(payload, &d); err != nil {
			return nil, fmt.Errorf("decode production detail: %w", err)
		}
		return d, nil
	default:
		return nil, &generic.ValidationError{Field: "detail", Message: fmt.Sprintf("unknown kind %q", kind)}
	}
}
