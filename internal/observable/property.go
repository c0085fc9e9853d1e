package observable

// Listener receives the new and the previous value of a Property.
type Listener[T any] func(newValue, oldValue T)

// Subscription identifies a listener registered on a Property.
type Subscription uint64

type entry[T any] struct {
	id Subscription
	fn Listener[T]
}

// Property is an observable value. It is not safe for concurrent use; all
// reads and writes are expected on the goroutine driving the model.
type Property[T comparable] struct {
	value     T
	initial   T
	listeners []entry[T]
	nextID    Subscription
}

// NewProperty returns a Property holding initial. Reset restores it.
func NewProperty[T comparable](initial T) *Property[T] {
	return &Property[T]{value: initial, initial: initial}
}

// Get returns the current value.
func (p *Property[T]) Get() T { return p.value }

// Initial returns the value the property was created with.
func (p *Property[T]) Initial() T { return p.initial }

// Set stores v and notifies listeners when it differs from the current value.
func (p *Property[T]) Set(v T) {
	if v == p.value {
		return
	}
	old := p.value
	p.value = v
	p.notify(v, old)
}

// Reset restores the initial value, notifying listeners on change.
func (p *Property[T]) Reset() { p.Set(p.initial) }

// Subscribe registers l for future changes.
func (p *Property[T]) Subscribe(l Listener[T]) Subscription {
	p.nextID++
	p.listeners = append(p.listeners, entry[T]{id: p.nextID, fn: l})
	return p.nextID
}

// Link registers l and immediately calls it with the current value.
func (p *Property[T]) Link(l Listener[T]) Subscription {
	id := p.Subscribe(l)
	l(p.value, p.value)
	return id
}

// Unsubscribe removes the listener. Unknown ids are ignored.
func (p *Property[T]) Unsubscribe(id Subscription) {
	for i, e := range p.listeners {
		if e.id == id {
			p.listeners = append(p.listeners[:i:i], p.listeners[i+1:]...)
			return
		}
	}
}

// Listeners returns the number of registered listeners.
func (p *Property[T]) Listeners() int { return len(p.listeners) }

func (p *Property[T]) notify(v, old T) {
	// listeners may unsubscribe while being notified
	snapshot := make([]entry[T], len(p.listeners))
	copy(snapshot, p.listeners)
	for _, e := range snapshot {
		e.fn(v, old)
	}
}
