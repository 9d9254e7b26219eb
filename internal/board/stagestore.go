package board

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jmendez/crmboard/internal/types"
)

// StageStore is a read-through cache of pipeline stages, kept sorted by
// created_at ascending. Mutations go through the remote repository and the
// cache is updated on confirmation; subscribers are notified after every
// cache change.
type StageStore struct {
	repo StageRepository

	mu     sync.RWMutex
	stages []types.DealStage

	subMu sync.Mutex
	subs  []func()
}

// NewStageStore creates a stage store over the given repository.
func NewStageStore(repo StageRepository) *StageStore {
	return &StageStore{repo: repo}
}

// Subscribe registers a callback invoked after every cache change. The
// callback runs on the mutating goroutine and must not block.
func (s *StageStore) Subscribe(fn func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *StageStore) notify() {
	s.subMu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Refresh reloads the stage list from the repository.
func (s *StageStore) Refresh(ctx context.Context) error {
	stages, err := s.repo.ListStages(ctx)
	if err != nil {
		return &ErrFetchFailed{Resource: "deal_stages", Err: err}
	}
	sort.SliceStable(stages, func(i, j int) bool {
		return stages[i].CreatedAt.Before(stages[j].CreatedAt)
	})

	s.mu.Lock()
	s.stages = stages
	s.mu.Unlock()

	s.notify()
	return nil
}

// Stages returns a copy of the cached stages, created_at ascending.
func (s *StageStore) Stages() []types.DealStage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.DealStage, len(s.stages))
	copy(out, s.stages)
	return out
}

// Get returns the cached stage with the given id.
func (s *StageStore) Get(id uuid.UUID) (types.DealStage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, stage := range s.stages {
		if stage.ID == id {
			return stage, true
		}
	}
	return types.DealStage{}, false
}

// FindByTitle returns the first cached stage with an exact title match.
// Titles are case-sensitive; "WON" and "LOST" are reserved.
func (s *StageStore) FindByTitle(title string) (types.DealStage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, stage := range s.stages {
		if stage.Title == title {
			return stage, true
		}
	}
	return types.DealStage{}, false
}

// Create adds a new stage. The new stage's created_at places it last in
// the regular column order.
func (s *StageStore) Create(ctx context.Context, title string) (*types.DealStage, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &ErrInvalidStageTitle{Title: title}
	}

	stage, err := s.repo.CreateStage(ctx, title)
	if err != nil {
		return nil, &ErrMutationFailed{Op: "create stage", Err: err}
	}

	s.mu.Lock()
	s.stages = append(s.stages, *stage)
	sort.SliceStable(s.stages, func(i, j int) bool {
		return s.stages[i].CreatedAt.Before(s.stages[j].CreatedAt)
	})
	s.mu.Unlock()

	s.notify()
	return stage, nil
}

// Rename retitles a stage in place.
func (s *StageStore) Rename(ctx context.Context, id uuid.UUID, title string) (*types.DealStage, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &ErrInvalidStageTitle{Title: title}
	}

	stage, err := s.repo.RenameStage(ctx, id, title)
	if err != nil {
		return nil, &ErrMutationFailed{Op: "rename stage", Err: err}
	}

	s.mu.Lock()
	for i := range s.stages {
		if s.stages[i].ID == id {
			s.stages[i] = *stage
			break
		}
	}
	s.mu.Unlock()

	s.notify()
	return stage, nil
}

// Delete removes a stage unconditionally at the store level. The non-empty
// guard lives in Board.DeleteStage, which is the only caller in this
// repository; the store has no knowledge of deals.
func (s *StageStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteStage(ctx, id); err != nil {
		return &ErrMutationFailed{Op: "delete stage", Err: err}
	}

	s.mu.Lock()
	for i := range s.stages {
		if s.stages[i].ID == id {
			s.stages = append(s.stages[:i], s.stages[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.notify()
	return nil
}
