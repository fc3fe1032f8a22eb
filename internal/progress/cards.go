package progress

import (
	"sort"
	"strings"

	"bodymetrics/internal/domain"
)

// Card is one measurement type's tile in a user's progress view.
type Card struct {
	Type       domain.MeasurementType `json:"type"`
	Summary    Summary                `json:"summary"`
	Goal       *domain.Goal           `json:"goal"`
	Evaluation *Evaluation            `json:"evaluation"`
	// Favorable is nil when there is no percent change to judge.
	Favorable *bool `json:"favorable"`
}

// BuildCards returns one card per measurement type for snap.UserID, in the
// user's display order. Measurements that reference unknown users or types
// are ignored.
func BuildCards(snap domain.Snapshot) []Card {
	types := SortTypes(snap.Types, snap.Orders, snap.UserID)
	ms := ExcludeOrphans(snap.Measurements, snap.Users, snap.Types)

	cards := make([]Card, 0, len(types))
	for _, t := range types {
		var own []domain.Measurement
		if snap.UserID != 0 {
			own = ForType(ms, snap.UserID, t)
		}
		cards = append(cards, buildCard(t, own, FirstGoal(snap.Goals, snap.UserID, t.ID)))
	}
	return cards
}

func buildCard(t domain.MeasurementType, ms []domain.Measurement, goal *domain.Goal) Card {
	c := Card{Type: t, Summary: Summarize(ms), Goal: goal}
	if goal != nil && c.Summary.Latest != nil {
		e := Evaluate(*goal, c.Summary.Latest.Value)
		c.Evaluation = &e
	}
	if c.Summary.PercentChange != nil {
		// judged on the displayed, one-decimal change
		f := Favorable(round1(*c.Summary.PercentChange), goal)
		c.Favorable = &f
	}
	return c
}

// SortTypes returns a copy of types ordered by the user's display positions.
// Types without a position keep their relative order after positioned ones.
func SortTypes(types []domain.MeasurementType, orders []domain.DisplayOrder, userID int64) []domain.MeasurementType {
	pos := make(map[int64]int, len(orders))
	for _, o := range orders {
		if o.UserID == userID {
			pos[o.MeasurementTypeID] = o.Position
		}
	}

	out := make([]domain.MeasurementType, len(types))
	copy(out, types)
	sort.SliceStable(out, func(i, j int) bool {
		pi, iok := pos[out[i].ID]
		pj, jok := pos[out[j].ID]
		switch {
		case iok && jok:
			return pi < pj
		case iok:
			return true
		default:
			return false
		}
	})
	return out
}

// ExcludeOrphans drops measurements whose user or type is not in the given
// lists.
func ExcludeOrphans(ms []domain.Measurement, users []domain.User, types []domain.MeasurementType) []domain.Measurement {
	knownUsers := make(map[int64]struct{}, len(users))
	for _, u := range users {
		knownUsers[u.ID] = struct{}{}
	}
	knownTypes := make(map[int64]struct{}, len(types))
	for _, t := range types {
		knownTypes[t.ID] = struct{}{}
	}

	out := make([]domain.Measurement, 0, len(ms))
	for _, m := range ms {
		if _, ok := knownUsers[m.UserID]; !ok {
			continue
		}
		if _, ok := knownTypes[m.MeasurementTypeID]; !ok {
			continue
		}
		out = append(out, m)
	}
	return out
}

// ForType selects the user's measurements of type t, with values converted
// into t's unit where the recorded unit differs and is convertible.
func ForType(ms []domain.Measurement, userID int64, t domain.MeasurementType) []domain.Measurement {
	var out []domain.Measurement
	for _, m := range ms {
		if m.UserID != userID || m.MeasurementTypeID != t.ID {
			continue
		}
		if m.Unit != "" && t.Unit != "" && m.Unit != t.Unit {
			if v, ok := domain.ConvertUnit(m.Value, m.Unit, t.Unit); ok {
				m.Value = v
				m.Unit = t.Unit
			}
		}
		out = append(out, m)
	}
	return out
}

// FindTypeByName returns the first type whose name matches case-insensitively.
func FindTypeByName(types []domain.MeasurementType, name string) *domain.MeasurementType {
	for i := range types {
		if strings.EqualFold(types[i].Name, name) {
			t := types[i]
			return &t
		}
	}
	return nil
}
