// Package notify provides typed, synchronous event dispatch with explicit
// subscription handles.
package notify

import "sync"

// Subscription identifies a registered listener. The zero value is not a
// valid subscription.
type Subscription uint64

// Dispatcher delivers events of type E to every subscribed listener.
// Listeners run synchronously on the emitting goroutine, in the order they
// subscribed. A listener may subscribe or unsubscribe during delivery; the
// change takes effect from the next Emit.
type Dispatcher[E any] struct {
	mu        sync.RWMutex
	next      Subscription
	listeners []entry[E]
}

type entry[E any] struct {
	id Subscription
	fn func(E)
}

// Subscribe registers fn and returns a handle for Unsubscribe.
func (d *Dispatcher[E]) Subscribe(fn func(E)) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.next++
	d.listeners = append(d.listeners, entry[E]{id: d.next, fn: fn})
	return d.next
}

// Unsubscribe removes a listener. It reports false if the subscription was
// not registered.
func (d *Dispatcher[E]) Unsubscribe(s Subscription) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, l := range d.listeners {
		if l.id == s {
			d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Emit delivers e to the listeners registered when Emit was called.
func (d *Dispatcher[E]) Emit(e E) {
	d.mu.RLock()
	snapshot := d.listeners
	d.mu.RUnlock()

	for _, l := range snapshot {
		l.fn(e)
	}
}

// Len returns the number of registered listeners.
func (d *Dispatcher[E]) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners)
}
