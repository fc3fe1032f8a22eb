package app

import (
	"context"
	"errors"
	"sync"

	"bodymetrics/internal/domain"
	"bodymetrics/internal/fetch"
	"bodymetrics/internal/metrics"

	log "github.com/sirupsen/logrus"
)

// ErrStale is returned by ProgressView.Select when a newer selection was
// issued before the load finished. The result of the stale load is dropped.
var ErrStale = errors.New("load superseded by a newer selection")

// Loader reads the snapshot of one user's progress view.
type Loader interface {
	Load(ctx context.Context, userID int64) (*domain.Snapshot, error)
}

// ProgressView holds the state of one interactive progress view: the
// selected user and the cards last loaded for it. Selections may overlap;
// only the newest one is ever shown.
type ProgressView struct {
	loader   Loader
	metrics  *metrics.Manager
	onChange func(ProgressPage)

	gens fetch.Generations

	mu   sync.Mutex
	page *ProgressPage
}

// NewProgressView creates a view reading through loader. onChange, if not
// nil, is called with every page that gets committed, in commit order and
// before any newer selection can begin; it must not call Select or Refresh.
// mm may be nil.
func NewProgressView(loader Loader, mm *metrics.Manager, onChange func(ProgressPage)) *ProgressView {
	return &ProgressView{loader: loader, metrics: mm, onChange: onChange}
}

// Select loads userID (0 selects the first user) and makes it the shown
// page. On failure the previously shown page stays in place.
func (v *ProgressView) Select(ctx context.Context, userID int64) error {
	ctx, tok := v.gens.Begin(ctx)
	snap, err := v.loader.Load(ctx, userID)

	if !v.gens.Current(tok) {
		v.stale(userID)
		return ErrStale
	}
	if err != nil {
		log.WithField("user_id", userID).Errorf("progress view: load failed: %s", err)
		return err
	}

	page := newPage(snap)
	committed := v.gens.Commit(tok, func() {
		v.mu.Lock()
		v.page = page
		v.mu.Unlock()
		if v.onChange != nil {
			v.onChange(*page)
		}
	})
	if !committed {
		v.stale(userID)
		return ErrStale
	}
	return nil
}

// Refresh reloads the currently selected user.
func (v *ProgressView) Refresh(ctx context.Context) error {
	var userID int64
	if p := v.Page(); p != nil {
		userID = p.UserID
	}
	return v.Select(ctx, userID)
}

// Page returns the shown page, or nil before the first successful load.
func (v *ProgressView) Page() *ProgressPage {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.page == nil {
		return nil
	}
	p := *v.page
	return &p
}

// Close cancels the in-flight load, if any.
func (v *ProgressView) Close() {
	v.gens.Stop()
}

func (v *ProgressView) stale(userID int64) {
	log.WithField("user_id", userID).Debug("progress view: discarding stale load")
	if v.metrics != nil {
		v.metrics.CounterStaleResponses.Inc()
	}
}
