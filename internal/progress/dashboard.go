package progress

import "bodymetrics/internal/domain"

// DashboardEntry is one user's tile on the dashboard.
type DashboardEntry struct {
	User     domain.User         `json:"user"`
	Latest   *domain.Measurement `json:"latest"`
	Previous *domain.Measurement `json:"previous"`
	Delta    *float64            `json:"delta"`
	Unit     string              `json:"unit"`
}

// BuildDashboard summarizes, for every user, the measurement type named
// typeName. Users without data get an entry with nil Latest and Previous.
func BuildDashboard(snap domain.Snapshot, typeName string) []DashboardEntry {
	out := make([]DashboardEntry, 0, len(snap.Users))
	t := FindTypeByName(snap.Types, typeName)
	ms := ExcludeOrphans(snap.Measurements, snap.Users, snap.Types)

	for _, u := range snap.Users {
		e := DashboardEntry{User: u}
		if t != nil {
			s := Summarize(ForType(ms, u.ID, *t))
			e.Latest = s.Latest
			e.Previous = s.Previous
			e.Delta = s.Delta
			e.Unit = t.Unit
		}
		out = append(out, e)
	}
	return out
}
