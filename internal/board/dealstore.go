package board

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmendez/crmboard/internal/types"
)

// DefaultWindow bounds how far back the board loads deals. The board only
// ever shows a rolling recent window; this is a scoping decision, not
// pagination.
const DefaultWindow = 30 * 24 * time.Hour

// DealStore is a read-through cache of the deals inside the rolling
// window. Stage reassignments are applied optimistically: the cached state
// changes before the remote call resolves and is rolled back to the last
// known-good snapshot on failure.
//
// Concurrent reassignments of the same deal carry no sequence token; the
// last confirmation to resolve wins, matching the remote store's
// last-write-wins behavior.
type DealStore struct {
	repo   DealRepository
	window time.Duration
	now    func() time.Time

	mu     sync.Mutex
	deals  []types.Deal
	closed bool

	subMu sync.Mutex
	subs  []func()
}

// NewDealStore creates a deal store over the given repository. A
// non-positive window falls back to DefaultWindow.
func NewDealStore(repo DealRepository, window time.Duration) *DealStore {
	if window <= 0 {
		window = DefaultWindow
	}
	return &DealStore{repo: repo, window: window, now: time.Now}
}

// Subscribe registers a callback invoked after every cache change.
func (d *DealStore) Subscribe(fn func()) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	d.subs = append(d.subs, fn)
}

func (d *DealStore) notify() {
	d.subMu.Lock()
	subs := make([]func(), len(d.subs))
	copy(subs, d.subs)
	d.subMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Close marks the store as torn down. In-flight mutations finish their
// remote calls but no longer apply confirmations or rollbacks to the cache.
func (d *DealStore) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// Refresh reloads deals created inside the rolling window.
func (d *DealStore) Refresh(ctx context.Context) error {
	since := d.now().Add(-d.window)
	deals, err := d.repo.ListDealsSince(ctx, since)
	if err != nil {
		return &ErrFetchFailed{Resource: "deals", Err: err}
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.deals = deals
	d.mu.Unlock()

	d.notify()
	return nil
}

// Deals returns a copy of the cached deals.
func (d *DealStore) Deals() []types.Deal {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]types.Deal, len(d.deals))
	copy(out, d.deals)
	return out
}

// Get returns the cached deal with the given id.
func (d *DealStore) Get(dealID uuid.UUID) (types.Deal, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, deal := range d.deals {
		if deal.ID == dealID {
			return deal, true
		}
	}
	return types.Deal{}, false
}

// UpdateStage reassigns a deal to a stage (nil means unassigned). With
// optimistic set, the cached deal changes before the remote call; on remote
// failure the snapshot is restored and an ErrMutationFailed returned. On
// success the cache holds the confirmed row.
func (d *DealStore) UpdateStage(ctx context.Context, dealID uuid.UUID, stageID *uuid.UUID, optimistic bool) (*types.Deal, error) {
	var snapshot *types.Deal
	if optimistic {
		d.mu.Lock()
		for i := range d.deals {
			if d.deals[i].ID == dealID {
				prev := d.deals[i]
				snapshot = &prev
				d.deals[i].StageID = cloneStageID(stageID)
				break
			}
		}
		d.mu.Unlock()
		if snapshot != nil {
			d.notify()
		}
	}

	updated, err := d.repo.UpdateDealStage(ctx, dealID, stageID)
	if err != nil {
		if snapshot != nil && d.restore(*snapshot) {
			d.notify()
		}
		return nil, &ErrMutationFailed{Op: "update deal stage", Err: err}
	}

	if d.apply(*updated) {
		d.notify()
	}
	return updated, nil
}

// UpdateStageMany reassigns a batch of deals as one logical operation.
// The whole batch is applied optimistically and rolled back together on
// failure; callers never observe a partially applied batch.
func (d *DealStore) UpdateStageMany(ctx context.Context, dealIDs []uuid.UUID, stageID *uuid.UUID) error {
	if len(dealIDs) == 0 {
		return nil
	}

	wanted := make(map[uuid.UUID]bool, len(dealIDs))
	for _, id := range dealIDs {
		wanted[id] = true
	}

	var snapshots []types.Deal
	d.mu.Lock()
	for i := range d.deals {
		if wanted[d.deals[i].ID] {
			snapshots = append(snapshots, d.deals[i])
			d.deals[i].StageID = cloneStageID(stageID)
		}
	}
	d.mu.Unlock()
	if len(snapshots) > 0 {
		d.notify()
	}

	if err := d.repo.UpdateDealStageMany(ctx, dealIDs, stageID); err != nil {
		changed := false
		for _, prev := range snapshots {
			if d.restore(prev) {
				changed = true
			}
		}
		if changed {
			d.notify()
		}
		return &ErrMutationFailed{Op: "bulk update deal stage", Err: err}
	}
	return nil
}

// restore puts a snapshot back into the cache. Returns false when the
// store is closed, so completions after teardown are dropped.
func (d *DealStore) restore(prev types.Deal) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	for i := range d.deals {
		if d.deals[i].ID == prev.ID {
			d.deals[i] = prev
			return true
		}
	}
	return false
}

// apply replaces a cached deal with its confirmed remote value.
func (d *DealStore) apply(confirmed types.Deal) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	for i := range d.deals {
		if d.deals[i].ID == confirmed.ID {
			d.deals[i] = confirmed
			return true
		}
	}
	return false
}

func cloneStageID(stageID *uuid.UUID) *uuid.UUID {
	if stageID == nil {
		return nil
	}
	id := *stageID
	return &id
}
