package actions

import (
	"github.com/comalice/reactorx/internal/element"
	"github.com/comalice/reactorx/internal/rtime"
)

// Logical is an action scheduled from within a reaction body at the current
// tag. Its minimum delay is the floor applied to every requested delay.
type Logical[T any] struct {
	base
	value T
}

// NewLogical constructs a logical action with the given minimum delay.
func NewLogical[T any](name string, minDelay rtime.Duration, container element.Container, owner element.PhaseOwner) (*Logical[T], error) {
	e, err := element.New(name, element.KindAction, container, owner)
	if err != nil {
		return nil, err
	}
	return &Logical[T]{base: newBase(e, minDelay, true)}, nil
}

// Schedule enqueues payload at now.Delay(max(minDelay, delay)), where now is
// the scheduler's current tag. Only meaningful when called from within a
// reaction body during a tag's dispatch.
func (l *Logical[T]) Schedule(delay rtime.Duration, payload T) error {
	if l.sink == nil {
		return element.NewValidationError("schedule", "%s has not been bound to a running scheduler", l.FQN())
	}
	effective := delay
	if l.minDelay > effective {
		effective = l.minDelay
	}
	l.sink.Enqueue(l.sink.CurrentTag().Delay(effective), l, payload)
	return nil
}

// Value returns the payload delivered to this action at the current tag.
func (l *Logical[T]) Value() (T, bool) {
	if !l.present {
		var zero T
		return zero, false
	}
	return l.value, true
}

func (l *Logical[T]) Fire(payload any) {
	if v, ok := payload.(T); ok {
		l.value = v
	}
	l.present = true
}

func (l *Logical[T]) Cleanup() {}

// Physical is an action scheduled from outside a reaction body, possibly
// off the scheduler's goroutine. Scheduling acquires the scheduler's queue
// lock and picks a tag strictly after the current logical tag.
type Physical[T any] struct {
	base
	value T
}

// NewPhysical constructs a physical action with the given minimum delay.
func NewPhysical[T any](name string, minDelay rtime.Duration, container element.Container, owner element.PhaseOwner) (*Physical[T], error) {
	e, err := element.New(name, element.KindAction, container, owner)
	if err != nil {
		return nil, err
	}
	return &Physical[T]{base: newBase(e, minDelay, false)}, nil
}

// Schedule enqueues payload from any goroutine; safe to call concurrently
// with the scheduler's own dispatch loop.
func (p *Physical[T]) Schedule(payload T) error {
	if p.sink == nil {
		return element.NewValidationError("schedule", "%s has not been bound to a running scheduler", p.FQN())
	}
	p.sink.EnqueuePhysical(p, payload)
	return nil
}

// Value returns the payload delivered to this action at the current tag.
func (p *Physical[T]) Value() (T, bool) {
	if !p.present {
		var zero T
		return zero, false
	}
	return p.value, true
}

func (p *Physical[T]) Fire(payload any) {
	if v, ok := payload.(T); ok {
		p.value = v
	}
	p.present = true
}

func (p *Physical[T]) Cleanup() {}
