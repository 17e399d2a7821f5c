// Package event implements the observer registries used for modification,
// repaint and history notifications.
//
// A Registry never holds the same listener twice, delivers every event to
// every listener in registration order, and tolerates listeners adding or
// removing registrations while an event is being delivered: the delivery in
// progress uses the listener set as it was when Notify began.
package event

import "sync"

// Listener receives events of type E. Implementations must be comparable
// (typically pointer types) so duplicate registration can be detected.
type Listener[E any] interface {
	Notify(E)
}

// Func adapts a plain function to a Listener. Use a *Func so registrations
// compare by identity.
type Func[E any] struct {
	fn func(E)
}

// NewFunc wraps fn in a listener with a stable identity.
func NewFunc[E any](fn func(E)) *Func[E] {
	if fn == nil {
		panic("event: NewFunc with nil function")
	}
	return &Func[E]{fn: fn}
}

// Notify calls the wrapped function.
func (f *Func[E]) Notify(e E) { f.fn(e) }

// Registry is an ordered set of listeners. The zero value is ready to use.
type Registry[E any] struct {
	mu        sync.Mutex
	listeners []Listener[E]
}

// Add registers l. It returns false if l is already registered.
func (r *Registry[E]) Add(l Listener[E]) bool {
	if l == nil {
		panic("event: Add with nil listener")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, have := range r.listeners {
		if have == l {
			return false
		}
	}
	r.listeners = append(r.listeners, l)
	return true
}

// Subscribe registers fn and returns a function that removes it again.
func (r *Registry[E]) Subscribe(fn func(E)) (cancel func()) {
	l := NewFunc(fn)
	r.Add(l)
	return func() { r.Remove(l) }
}

// Remove unregisters l and reports whether it was registered.
func (r *Registry[E]) Remove(l Listener[E]) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, have := range r.listeners {
		if have == l {
			// Copy-on-write so a Notify in progress keeps its own slice.
			next := make([]Listener[E], 0, len(r.listeners)-1)
			next = append(next, r.listeners[:i]...)
			r.listeners = append(next, r.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered listeners.
func (r *Registry[E]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

// Notify delivers e to every listener registered when the call began.
func (r *Registry[E]) Notify(e E) {
	r.mu.Lock()
	snapshot := r.listeners
	r.mu.Unlock()
	for _, l := range snapshot {
		l.Notify(e)
	}
}
