package services

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// optimisticTx describes one optimistic write: the local patch is applied before
// the remote call and undone from the snapshot if the call or the confirmation
// fails.
type optimisticTx[S, R any] struct {
	snapshot func() (S, error)
	apply    func() error
	send     func(ctx context.Context) (R, error)
	confirm  func(result R) error
	restore  func(snap S)
}

func runOptimistic[S, R any](ctx context.Context, tx optimisticTx[S, R]) (R, error) {
	var zero R

	snap, err := tx.snapshot()
	if err != nil {
		return zero, err
	}
	if err := tx.apply(); err != nil {
		tx.restore(snap)
		return zero, err
	}

	result, err := tx.send(ctx)
	if err != nil {
		tx.restore(snap)
		return zero, err
	}
	if err := tx.confirm(result); err != nil {
		tx.restore(snap)
		return zero, err
	}
	return result, nil
}

// keyedSemaphore hands out one weight-1 semaphore per key so that writes to the
// same target run one after another while other targets proceed.
type keyedSemaphore[K comparable] struct {
	mu   sync.Mutex
	sems map[K]*refSemaphore
}

type refSemaphore struct {
	sem  *semaphore.Weighted
	refs int
}

func newKeyedSemaphore[K comparable]() *keyedSemaphore[K] {
	return &keyedSemaphore[K]{sems: make(map[K]*refSemaphore)}
}

// Acquire blocks until key is free or ctx is done. The returned func releases it.
func (k *keyedSemaphore[K]) Acquire(ctx context.Context, key K) (func(), error) {
	k.mu.Lock()
	entry, ok := k.sems[key]
	if !ok {
		entry = &refSemaphore{sem: semaphore.NewWeighted(1)}
		k.sems[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	if err := entry.sem.Acquire(ctx, 1); err != nil {
		k.drop(key, entry)
		return nil, err
	}
	return func() {
		entry.sem.Release(1)
		k.drop(key, entry)
	}, nil
}

func (k *keyedSemaphore[K]) drop(key K, entry *refSemaphore) {
	k.mu.Lock()
	defer k.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(k.sems, key)
	}
}
