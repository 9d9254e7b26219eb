package board

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jmendez/crmboard/internal/types"
)

// Board ties the stage and deal stores to the projector. It subscribes to
// both stores and recomputes the pipeline view synchronously on every
// change; the latest view is available through View and change events
// through Subscribe. The view itself is never mutated, only replaced.
type Board struct {
	stages *StageStore
	deals  *DealStore

	mu   sync.RWMutex
	view *types.PipelineView

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int
}

// New creates a board over the given stores and wires the recompute
// observer.
func New(stages *StageStore, deals *DealStore) *Board {
	b := &Board{
		stages: stages,
		deals:  deals,
		view:   Project(nil, nil),
		subs:   make(map[int]chan struct{}),
	}
	stages.Subscribe(b.recompute)
	deals.Subscribe(b.recompute)
	return b
}

// Stages returns the underlying stage store.
func (b *Board) Stages() *StageStore {
	return b.stages
}

// Deals returns the underlying deal store.
func (b *Board) Deals() *DealStore {
	return b.deals
}

func (b *Board) recompute() {
	view := Project(b.stages.Stages(), b.deals.Deals())

	b.mu.Lock()
	b.view = view
	b.mu.Unlock()

	b.broadcast()
}

// View returns the latest computed pipeline view.
func (b *Board) View() *types.PipelineView {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.view
}

// Refresh reloads stages and deals in parallel. Each store failure is
// returned as-is; the view reflects whatever loaded.
func (b *Board) Refresh(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.stages.Refresh(ctx) })
	g.Go(func() error { return b.deals.Refresh(ctx) })
	return g.Wait()
}

// Subscribe returns a channel that receives a signal after every view
// recompute, plus a cancel function. Signals are coalesced: a slow
// receiver sees at least one signal for any burst of changes.
func (b *Board) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.subMu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = ch
	b.subMu.Unlock()

	cancel := func() {
		b.subMu.Lock()
		delete(b.subs, id)
		b.subMu.Unlock()
	}
	return ch, cancel
}

func (b *Board) broadcast() {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
