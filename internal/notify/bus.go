// Package notify is the app-wide transient notification bus (the snackbar
// of the UI layer). It holds at most one notice at a time: the latest Show
// call wins and schedules its own auto-dismiss.
package notify

import (
	"sync"
	"time"

	"artfolio/internal/watch"
)

// DefaultDismissAfter is how long a notice stays visible.
const DefaultDismissAfter = 2000 * time.Millisecond

// Notice is the single slot published to observers.
type Notice struct {
	Message string
	Success bool
	Visible bool
}

// Bus publishes transient notices. One instance is shared process-wide and
// may be called from any goroutine.
type Bus struct {
	delay time.Duration
	state *watch.Value[Notice]

	mu  sync.Mutex
	gen uint64
}

// New returns a bus with the default auto-dismiss delay.
func New() *Bus {
	return NewWithDelay(DefaultDismissAfter)
}

// NewWithDelay returns a bus whose notices auto-dismiss after delay.
func NewWithDelay(delay time.Duration) *Bus {
	return &Bus{
		delay: delay,
		state: watch.NewValue(Notice{}),
	}
}

// Show replaces any pending notice and restarts the dismissal clock. Only
// the most recent call's timer may dismiss; earlier timers fire into a
// stale generation and are ignored.
func (b *Bus) Show(message string, success bool) {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.state.Set(Notice{Message: message, Success: success, Visible: true})
	b.mu.Unlock()

	time.AfterFunc(b.delay, func() {
		b.dismissGen(gen)
	})
}

// Dismiss clears the notice immediately and invalidates pending timers.
func (b *Bus) Dismiss() {
	b.mu.Lock()
	b.gen++
	b.state.Set(Notice{})
	b.mu.Unlock()
}

// Current returns the notice currently in the slot.
func (b *Bus) Current() Notice {
	return b.state.Get()
}

// Watch exposes the notice slot for subscription.
func (b *Bus) Watch() *watch.Value[Notice] {
	return b.state
}

func (b *Bus) dismissGen(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		// A newer notice took the slot; its own timer owns the dismissal.
		return
	}
	b.state.Set(Notice{})
}
