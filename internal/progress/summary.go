// Package progress derives display-ready statistics from raw measurement rows
// and evaluates them against goals. Everything here is a pure function of its
// input and is recomputed on every read.
package progress

import (
	"math"
	"sort"

	"bodymetrics/internal/domain"
)

// WindowSize is the number of most recent points kept for charting.
const WindowSize = 30

// Summary is the aggregate of one measurement type's history.
// Nil fields are "not applicable" and must be rendered as such.
type Summary struct {
	Count    int                 `json:"count"`
	Latest   *domain.Measurement `json:"latest"`
	Previous *domain.Measurement `json:"previous"`
	// Delta is Latest-Previous rounded to one decimal.
	Delta *float64 `json:"delta"`
	// PercentChange is nil when Previous is missing or zero.
	PercentChange *float64 `json:"percentChange"`

	// Min, Max and NetChange cover the whole history, not just Window.
	Min       *float64 `json:"min"`
	Max       *float64 `json:"max"`
	NetChange *float64 `json:"netChange"`

	// Window holds the last WindowSize points in ascending date order.
	Window []domain.Measurement `json:"window"`
}

// Summarize aggregates an unordered list of measurements of a single type.
// The input slice is never reordered.
func Summarize(ms []domain.Measurement) Summary {
	s := Summary{Count: len(ms), Window: []domain.Measurement{}}
	if len(ms) == 0 {
		return s
	}

	desc := SortByDate(ms, domain.SortDesc)
	latest := desc[0]
	s.Latest = &latest
	if len(desc) > 1 {
		previous := desc[1]
		s.Previous = &previous
		s.Delta = ptr(round1(latest.Value - previous.Value))
		if previous.Value != 0 {
			s.PercentChange = ptr((latest.Value - previous.Value) / previous.Value * 100)
		}
	}

	asc := SortByDate(ms, domain.SortAsc)
	lo, hi := asc[0].Value, asc[0].Value
	for _, m := range asc[1:] {
		lo = math.Min(lo, m.Value)
		hi = math.Max(hi, m.Value)
	}
	s.Min = ptr(lo)
	s.Max = ptr(hi)
	s.NetChange = ptr(asc[len(asc)-1].Value - asc[0].Value)

	start := 0
	if len(asc) > WindowSize {
		start = len(asc) - WindowSize
	}
	s.Window = asc[start:]
	return s
}

// SortByDate returns a copy of ms stably sorted by measurement date.
// Same-date entries keep their input order in both directions.
func SortByDate(ms []domain.Measurement, order domain.SortOrder) []domain.Measurement {
	out := make([]domain.Measurement, len(ms))
	copy(out, ms)
	sort.SliceStable(out, func(i, j int) bool {
		if order == domain.SortDesc {
			return out[i].MeasurementDate.After(out[j].MeasurementDate)
		}
		return out[i].MeasurementDate.Before(out[j].MeasurementDate)
	})
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func ptr(v float64) *float64 {
	return &v
}
