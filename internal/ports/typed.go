package ports

import "github.com/comalice/reactorx/internal/element"

// Typed is a concrete, type-safe port carrying values of type T. It is the
// sole implementation of Port; user reactor code only ever sees Typed[T].
type Typed[T any] struct {
	base
	value T
}

// New constructs a port. node must be the reactor the port belongs to; a
// port with no containing reactor is rejected by element.New.
func New[T any](name string, dir Direction, node Node, owner element.PhaseOwner) (*Typed[T], error) {
	e, err := element.New(name, element.KindPort, node, owner)
	if err != nil {
		return nil, err
	}
	p := &Typed[T]{base: newBase(e, node, dir)}
	p.self = p
	return p, nil
}

// Set stores v and marks the port present for the remainder of the current
// tag, then propagates v along every outward binding transitively, before
// any reaction depending on a downstream port runs.
func (t *Typed[T]) Set(v T) {
	t.value = v
	t.present = true
	t.propagate()
}

// Get returns the current value and whether the port is present at this
// tag. An unbound or unwritten port reads as absent.
func (t *Typed[T]) Get() (T, bool) {
	if !t.present {
		var zero T
		return zero, false
	}
	return t.value, true
}

// BindTo installs source as this port's inward binding.
func (t *Typed[T]) BindTo(source Port) error {
	return t.base.BindTo(source)
}

func (t *Typed[T]) propagate() {
	for _, out := range t.outward {
		if typedOut, ok := out.(*Typed[T]); ok {
			typedOut.value = t.value
			typedOut.present = true
			typedOut.propagate()
		}
	}
}

// ClearPresence resets the presence flag at the end of a tag.
func (t *Typed[T]) ClearPresence() {
	t.present = false
}
