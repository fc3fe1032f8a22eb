package progress

import (
	"math"

	"bodymetrics/internal/domain"
)

// Evaluation is a goal's standing against the latest measured value.
type Evaluation struct {
	Achieved bool `json:"achieved"`
	// ProgressPct is in [0, 100]. Nil when the ratio would divide by zero;
	// callers render a neutral bar.
	ProgressPct *float64 `json:"progressPct"`
}

// Evaluate classifies latest against g.
func Evaluate(g domain.Goal, latest float64) Evaluation {
	var (
		e     Evaluation
		ratio float64
	)
	switch g.GoalType {
	case domain.GoalIncrease:
		e.Achieved = latest >= g.GoalValue
		if g.GoalValue == 0 {
			return e
		}
		ratio = latest / g.GoalValue
	case domain.GoalDecrease:
		e.Achieved = latest <= g.GoalValue
		if latest == 0 {
			return e
		}
		ratio = g.GoalValue / latest
	default:
		return e
	}

	pct := clamp(math.Abs(ratio)*100, 0, 100)
	e.ProgressPct = &pct
	return e
}

// FirstGoal returns the first goal in goals for the (user, type) pair.
func FirstGoal(goals []domain.Goal, userID, typeID int64) *domain.Goal {
	for i := range goals {
		if goals[i].UserID == userID && goals[i].MeasurementTypeID == typeID {
			g := goals[i]
			return &g
		}
	}
	return nil
}

// Favorable reports whether a change points the way the goal wants.
// Without a goal any non-negative change counts as favorable.
func Favorable(change float64, g *domain.Goal) bool {
	if g != nil && g.GoalType == domain.GoalDecrease {
		return change < 0
	}
	return change >= 0
}

// ChangeLabel names the net change of a history: "loss" for decrease goals,
// "gain" otherwise.
func ChangeLabel(g *domain.Goal) string {
	if g != nil && g.GoalType == domain.GoalDecrease {
		return "loss"
	}
	return "gain"
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
