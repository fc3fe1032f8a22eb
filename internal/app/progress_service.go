package app

import (
	"context"
	"fmt"

	"bodymetrics/internal/domain"
	"bodymetrics/internal/fetch"
	"bodymetrics/internal/progress"
)

// DefaultDashboardType is the measurement type shown on the dashboard when
// none is configured.
const DefaultDashboardType = "Weight"

// ProgressPage is the progress view of one selected user.
type ProgressPage struct {
	UserID int64           `json:"userId"`
	Users  []domain.User   `json:"users"`
	Cards  []progress.Card `json:"cards"`
}

// ProgressService assembles the progress, chart and dashboard read models.
type ProgressService struct {
	fetcher       *fetch.Fetcher
	dashboardType string
}

// NewProgressService creates a ProgressService reading through f. An empty
// dashboardType selects DefaultDashboardType.
func NewProgressService(f *fetch.Fetcher, dashboardType string) *ProgressService {
	if dashboardType == "" {
		dashboardType = DefaultDashboardType
	}
	return &ProgressService{fetcher: f, dashboardType: dashboardType}
}

// Page returns the cards of userID, or of the first user when userID is 0.
func (s *ProgressService) Page(ctx context.Context, userID int64) (*ProgressPage, error) {
	snap, err := s.fetcher.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newPage(snap), nil
}

// Chart returns the chart of the measurement type typeID for userID.
func (s *ProgressService) Chart(ctx context.Context, userID, typeID int64) (*progress.Chart, error) {
	snap, err := s.fetcher.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, t := range snap.Types {
		if t.ID == typeID {
			c := progress.BuildChart(*snap, t)
			return &c, nil
		}
	}
	return nil, fmt.Errorf("measurement type %d: %w", typeID, domain.ErrNotFound)
}

// Dashboard returns one entry per user for the configured dashboard type.
func (s *ProgressService) Dashboard(ctx context.Context) ([]progress.DashboardEntry, error) {
	snap, err := s.fetcher.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return progress.BuildDashboard(*snap, s.dashboardType), nil
}

func newPage(snap *domain.Snapshot) *ProgressPage {
	return &ProgressPage{
		UserID: snap.UserID,
		Users:  snap.Users,
		Cards:  progress.BuildCards(*snap),
	}
}
