// Package watch provides a minimal observable value: subscribers receive
// the current value on subscribe and every subsequent update. It is the
// publish/subscribe primitive behind all shared view state (current user,
// favorites list, search results, notices).
package watch

import "sync"

// Value holds a single value of type T and fans updates out to subscribers.
// A subscriber that falls behind is conflated to the latest value rather
// than blocking the publisher.
type Value[T any] struct {
	mu      sync.Mutex
	current T
	subs    map[int]chan T
	nextID  int
}

// NewValue returns a Value initialized to initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[int]chan T),
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set stores val and delivers it to every subscriber.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = val
	for _, ch := range v.subs {
		deliver(ch, val)
	}
}

// Update applies fn to the current value under the lock and publishes the
// result.
func (v *Value[T]) Update(fn func(T) T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = fn(v.current)
	for _, ch := range v.subs {
		deliver(ch, v.current)
	}
}

// Subscribe registers a new subscriber. The returned channel yields the
// value current at subscription time first, then each update. The cancel
// function removes the subscription; it is safe to call more than once.
func (v *Value[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, 1)

	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = ch
	ch <- v.current
	v.mu.Unlock()

	cancel := func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
	return ch, cancel
}

// deliver pushes val into a 1-buffered channel, displacing any undelivered
// older value so the receiver always sees the most recent state.
func deliver[T any](ch chan T, val T) {
	for {
		select {
		case ch <- val:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
