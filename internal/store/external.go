// Package store wraps storage units with change notification. Observers
// subscribe to an External store and re-read its snapshot only after being
// notified; the snapshot pointer stays the same until the next mutation.
package store

import (
	"sync"

	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

// Snapshot is a read view of a unit. Its methods read through to the unit,
// so repeated calls reflect current state; the pointer identity is what
// changes on each mutation. Consumers must not mutate returned slices'
// entities in the belief that it changes storage.
type Snapshot[T types.Entity] struct {
	unit    types.Unit[T]
	version uint64
}

// GetAll returns the container's entities in order.
func (s *Snapshot[T]) GetAll(parentID string) ([]T, error) {
	return s.unit.GetAll(parentID)
}

// GetOrders returns the container's order sequence.
func (s *Snapshot[T]) GetOrders(parentID string) ([]string, error) {
	return s.unit.GetOrders(parentID)
}

// Version counts the mutations committed before this snapshot was taken.
func (s *Snapshot[T]) Version() uint64 {
	return s.version
}

// External wraps one unit. Every successful mutation replaces the snapshot
// and notifies listeners before the call returns.
type External[T types.Entity] struct {
	unit      types.Unit[T]
	listeners *Registry

	mu       sync.Mutex
	snapshot *Snapshot[T]
}

// New wraps unit.
func New[T types.Entity](unit types.Unit[T]) *External[T] {
	return &External[T]{
		unit:      unit,
		listeners: NewRegistry(),
		snapshot:  &Snapshot[T]{unit: unit},
	}
}

// Subscribe registers listener; the returned function removes it.
func (e *External[T]) Subscribe(listener func()) (unsubscribe func()) {
	return e.listeners.Add(listener)
}

// GetSnapshot returns the current snapshot. The same pointer is returned
// until the next successful mutation.
func (e *External[T]) GetSnapshot() *Snapshot[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Get reads one entity from the unit.
func (e *External[T]) Get(parentID, id string) (T, error) {
	return e.unit.Get(parentID, id)
}

// Create forwards to the unit's Create.
func (e *External[T]) Create(parentID string, entity T) error {
	return e.mutate(func() error { return e.unit.Create(parentID, entity) })
}

// Update forwards to the unit's Update.
func (e *External[T]) Update(parentID string, entity T) error {
	return e.mutate(func() error { return e.unit.Update(parentID, entity) })
}

// Delete forwards to the unit's Delete. Cascades happen inside the unit
// and produce this single notification.
func (e *External[T]) Delete(parentID, id string) error {
	return e.mutate(func() error { return e.unit.Delete(parentID, id) })
}

// Reorder forwards to the unit's Reorder.
func (e *External[T]) Reorder(parentID, id string, targetIndex int) error {
	return e.mutate(func() error { return e.unit.Reorder(parentID, id, targetIndex) })
}

// mutate runs op and, if it committed, swaps the snapshot and notifies.
// A failed op changed nothing, so the snapshot stays and nobody is called.
func (e *External[T]) mutate(op func() error) error {
	if err := op(); err != nil {
		return err
	}
	e.mu.Lock()
	e.snapshot = &Snapshot[T]{unit: e.unit, version: e.snapshot.version + 1}
	e.mu.Unlock()

	e.listeners.Notify()
	return nil
}

// Cards is the card store; it adds the compound cross-list move.
type Cards struct {
	*External[types.Card]
	unit types.CardUnit
}

// NewCards wraps the card unit.
func NewCards(unit types.CardUnit) *Cards {
	return &Cards{External: New[types.Card](unit), unit: unit}
}

// Move forwards to the unit's Move. Readers see either the state before or
// after the whole move, followed by one notification.
func (c *Cards) Move(srcListID, dstListID, id string, targetIndex int) error {
	return c.mutate(func() error { return c.unit.Move(srcListID, dstListID, id, targetIndex) })
}
