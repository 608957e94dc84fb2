package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_NotifyInRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	var calls []string
	r.Add(func() { calls = append(calls, "a") })
	r.Add(func() { calls = append(calls, "b") })
	r.Add(func() { calls = append(calls, "c") })

	r.Notify()
	assert.Equal(t, []string{"a", "b", "c"}, calls)
}

func TestRegistry_UnsubscribeIsIdempotent(t *testing.T) {
	r := NewRegistry()
	count := 0
	unsub := r.Add(func() { count++ })
	r.Add(func() {})

	unsub()
	unsub()
	assert.Equal(t, 1, r.Len())

	r.Notify()
	assert.Equal(t, 0, count)
}

func TestRegistry_SameListenerTwiceIsIndependent(t *testing.T) {
	r := NewRegistry()
	count := 0
	listener := func() { count++ }
	first := r.Add(listener)
	r.Add(listener)

	r.Notify()
	assert.Equal(t, 2, count)

	first()
	r.Notify()
	assert.Equal(t, 3, count, "the second registration survives removing the first")
}

func TestRegistry_UnsubscribeDuringNotify(t *testing.T) {
	r := NewRegistry()
	var calls []string
	var unsubA func()
	unsubA = r.Add(func() {
		calls = append(calls, "a")
		unsubA()
	})
	r.Add(func() { calls = append(calls, "b") })

	r.Notify()
	r.Notify()
	assert.Equal(t, []string{"a", "b", "b"}, calls)
}

func TestRegistry_PanicPropagates(t *testing.T) {
	r := NewRegistry()
	reached := false
	r.Add(func() { panic("listener failed") })
	r.Add(func() { reached = true })

	assert.PanicsWithValue(t, "listener failed", r.Notify)
	assert.False(t, reached, "listeners are not isolated from each other")
}
