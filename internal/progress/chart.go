package progress

import "bodymetrics/internal/domain"

// Chart is the detail view of one measurement type for one user.
type Chart struct {
	Type domain.MeasurementType `json:"type"`
	// Points is the charted window, oldest first.
	Points []domain.Measurement `json:"points"`
	// History is every measurement, oldest first.
	History     []domain.Measurement `json:"history"`
	Min         *float64             `json:"min"`
	Max         *float64             `json:"max"`
	NetChange   *float64             `json:"netChange"`
	ChangeLabel string               `json:"changeLabel"`
	Goal        *domain.Goal         `json:"goal"`
	Evaluation  *Evaluation          `json:"evaluation"`
}

// BuildChart assembles the chart of type t for snap.UserID.
func BuildChart(snap domain.Snapshot, t domain.MeasurementType) Chart {
	ms := ForType(ExcludeOrphans(snap.Measurements, snap.Users, snap.Types), snap.UserID, t)
	goal := FirstGoal(snap.Goals, snap.UserID, t.ID)
	card := buildCard(t, ms, goal)

	history := SortByDate(ms, domain.SortAsc)
	return Chart{
		Type:        t,
		Points:      card.Summary.Window,
		History:     history,
		Min:         card.Summary.Min,
		Max:         card.Summary.Max,
		NetChange:   roundPtr(card.Summary.NetChange),
		ChangeLabel: ChangeLabel(goal),
		Goal:        goal,
		Evaluation:  card.Evaluation,
	}
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return ptr(round1(*v))
}
