package domain

// Snapshot is everything a progress view needs, read in one go for a scope.
// UserID is the selected user, or 0 when the scope covers all users.
type Snapshot struct {
	UserID       int64
	Users        []User
	Types        []MeasurementType
	Orders       []DisplayOrder
	Measurements []Measurement
	Goals        []Goal
}
