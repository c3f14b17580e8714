// Package catalog keeps the UI-facing list state for a resource. Mutations
// are optimistic: the list changes before the proxy call is confirmed, and
// on failure it rolls back to the last-known-good snapshot.
package catalog

import (
	"context"
	"sync"
)

// List tracks an ordered collection of records keyed by id. All methods are
// safe for concurrent use; the commit callback runs without the list lock so
// a slow network call never blocks readers.
type List[T any] struct {
	mu    sync.RWMutex
	items []T
	id    func(T) string

	// onRollback fires after a failed mutation is reverted.
	onRollback func()
}

// NewList creates a list using id to extract record keys.
func NewList[T any](id func(T) string) *List[T] {
	return &List[T]{id: id}
}

// SetRollbackHook registers a callback fired whenever a mutation rolls back.
func (l *List[T]) SetRollbackHook(hook func()) {
	l.mu.Lock()
	l.onRollback = hook
	l.mu.Unlock()
}

// Replace swaps the whole list, typically after a fresh fetch.
func (l *List[T]) Replace(items []T) {
	l.mu.Lock()
	l.items = append([]T(nil), items...)
	l.mu.Unlock()
}

// Items returns a copy of the current list.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.items...)
}

// Len returns the current number of records.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Create appends optimistic immediately, then runs commit. On success the
// server's record replaces the optimistic one (picking up the assigned id);
// on failure the list rolls back and the error is returned.
func (l *List[T]) Create(ctx context.Context, optimistic T, commit func(ctx context.Context) (T, error)) (T, error) {
	l.mu.Lock()
	snapshot := append([]T(nil), l.items...)
	l.items = append(l.items, optimistic)
	l.mu.Unlock()

	confirmed, err := commit(ctx)
	if err != nil {
		l.rollback(snapshot)
		var zero T
		return zero, err
	}

	l.mu.Lock()
	l.replaceByKey(l.id(optimistic), confirmed)
	l.mu.Unlock()
	return confirmed, nil
}

// Update swaps the record with the given id optimistically, then runs
// commit, reconciling with the server's record on success and rolling back
// on failure.
func (l *List[T]) Update(ctx context.Context, id string, updated T, commit func(ctx context.Context) (T, error)) (T, error) {
	l.mu.Lock()
	snapshot := append([]T(nil), l.items...)
	l.replaceByKey(id, updated)
	l.mu.Unlock()

	confirmed, err := commit(ctx)
	if err != nil {
		l.rollback(snapshot)
		var zero T
		return zero, err
	}

	l.mu.Lock()
	l.replaceByKey(id, confirmed)
	l.mu.Unlock()
	return confirmed, nil
}

// Delete removes the record optimistically, restoring the list when commit
// fails.
func (l *List[T]) Delete(ctx context.Context, id string, commit func(ctx context.Context) error) error {
	l.mu.Lock()
	snapshot := append([]T(nil), l.items...)
	l.removeByKey(id)
	l.mu.Unlock()

	if err := commit(ctx); err != nil {
		l.rollback(snapshot)
		return err
	}
	return nil
}

func (l *List[T]) rollback(snapshot []T) {
	l.mu.Lock()
	l.items = snapshot
	hook := l.onRollback
	l.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (l *List[T]) replaceByKey(id string, record T) {
	for i := range l.items {
		if l.id(l.items[i]) == id {
			l.items[i] = record
			return
		}
	}
}

func (l *List[T]) removeByKey(id string) {
	for i := range l.items {
		if l.id(l.items[i]) == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}
