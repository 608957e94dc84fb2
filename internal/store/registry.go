package store

import (
	"container/list"
	"sync"
)

// Registry holds listener callbacks in registration order. Add and remove
// are O(1): each registration owns a list element and its unsubscribe
// function removes exactly that element.
type Registry struct {
	mu        sync.Mutex
	listeners *list.List
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{listeners: list.New()}
}

// Add registers listener and returns its unsubscribe function. Registering
// the same function twice yields two independent registrations. Calling the
// returned function more than once is a no-op.
func (r *Registry) Add(listener func()) (unsubscribe func()) {
	r.mu.Lock()
	el := r.listeners.PushBack(listener)
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			r.listeners.Remove(el)
			r.mu.Unlock()
		})
	}
}

// Len returns the number of registered listeners.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listeners.Len()
}

// Notify calls every listener in registration order, synchronously. The set
// is fixed when Notify starts, so listeners may subscribe or unsubscribe from
// inside the callback. A panicking listener stops the fan-out and the panic
// reaches Notify's caller.
func (r *Registry) Notify() {
	r.mu.Lock()
	fns := make([]func(), 0, r.listeners.Len())
	for el := r.listeners.Front(); el != nil; el = el.Next() {
		fns = append(fns, el.Value.(func()))
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
