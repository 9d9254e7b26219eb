package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmendez/crmboard/internal/types"
)

// fakeStageRepo is an in-memory StageRepository that counts calls and can
// be forced to fail.
type fakeStageRepo struct {
	mu      sync.Mutex
	stages  []types.DealStage
	failAll bool

	creates int
	renames int
	deletes int
	lists   int
}

func (f *fakeStageRepo) ListStages(_ context.Context) ([]types.DealStage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.failAll {
		return nil, fmt.Errorf("stage transport down")
	}
	out := make([]types.DealStage, len(f.stages))
	copy(out, f.stages)
	return out, nil
}

func (f *fakeStageRepo) CreateStage(_ context.Context, title string) (*types.DealStage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.failAll {
		return nil, fmt.Errorf("stage transport down")
	}
	stage := types.DealStage{ID: uuid.New(), Title: title, CreatedAt: time.Now()}
	f.stages = append(f.stages, stage)
	return &stage, nil
}

func (f *fakeStageRepo) RenameStage(_ context.Context, id uuid.UUID, title string) (*types.DealStage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renames++
	if f.failAll {
		return nil, fmt.Errorf("stage transport down")
	}
	for i := range f.stages {
		if f.stages[i].ID == id {
			f.stages[i].Title = title
			stage := f.stages[i]
			return &stage, nil
		}
	}
	return nil, fmt.Errorf("stage not found")
}

func (f *fakeStageRepo) DeleteStage(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.failAll {
		return fmt.Errorf("stage transport down")
	}
	for i := range f.stages {
		if f.stages[i].ID == id {
			f.stages = append(f.stages[:i], f.stages[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("stage not found")
}

// fakeDealRepo is an in-memory DealRepository. failUpdates makes write
// calls fail after the optimistic state has been applied; blockUpdates, when
// non-nil, holds write calls until the channel closes.
type fakeDealRepo struct {
	mu           sync.Mutex
	deals        []types.Deal
	failList     bool
	failUpdates  bool
	blockUpdates chan struct{}

	updates     int
	bulkUpdates int
}

func (f *fakeDealRepo) ListDealsSince(_ context.Context, since time.Time) ([]types.Deal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, fmt.Errorf("deal transport down")
	}
	var out []types.Deal
	for _, deal := range f.deals {
		if !deal.CreatedAt.Before(since) {
			out = append(out, deal)
		}
	}
	return out, nil
}

func (f *fakeDealRepo) UpdateDealStage(_ context.Context, dealID uuid.UUID, stageID *uuid.UUID) (*types.Deal, error) {
	if f.blockUpdates != nil {
		<-f.blockUpdates
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.failUpdates {
		return nil, fmt.Errorf("write refused")
	}
	for i := range f.deals {
		if f.deals[i].ID == dealID {
			f.deals[i].StageID = stageID
			deal := f.deals[i]
			return &deal, nil
		}
	}
	return nil, fmt.Errorf("deal not found")
}

func (f *fakeDealRepo) UpdateDealStageMany(_ context.Context, dealIDs []uuid.UUID, stageID *uuid.UUID) error {
	if f.blockUpdates != nil {
		<-f.blockUpdates
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkUpdates++
	if f.failUpdates {
		return fmt.Errorf("write refused")
	}
	wanted := make(map[uuid.UUID]bool, len(dealIDs))
	for _, id := range dealIDs {
		wanted[id] = true
	}
	for i := range f.deals {
		if wanted[f.deals[i].ID] {
			f.deals[i].StageID = stageID
		}
	}
	return nil
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu            sync.Mutex
	notifications []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notifications)
}

// recordingNavigator captures navigation requests.
type recordingNavigator struct {
	mu     sync.Mutex
	visits []string
}

func (r *recordingNavigator) NavigateTo(resource string, id uuid.UUID, mode NavigateMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visits = append(r.visits, fmt.Sprintf("%s/%s/%s", resource, id, mode))
}

func (r *recordingNavigator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visits)
}

func stageAt(title string, createdAt time.Time) types.DealStage {
	return types.DealStage{ID: uuid.New(), Title: title, CreatedAt: createdAt}
}

func dealIn(stageID *uuid.UUID, value float64, createdAt time.Time) types.Deal {
	return types.Deal{
		ID:        uuid.New(),
		Title:     "deal",
		Value:     value,
		CreatedAt: createdAt,
		StageID:   stageID,
	}
}

// newTestBoard wires a board over fakes and loads the caches.
func newTestBoard(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, stageRepo *fakeStageRepo, dealRepo *fakeDealRepo) *Board {
	t.Helper()
	b := New(NewStageStore(stageRepo), NewDealStore(dealRepo, 0))
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	return b
}
