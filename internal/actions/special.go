package actions

import (
	"github.com/comalice/reactorx/internal/element"
	"github.com/comalice/reactorx/internal/rtime"
)

// Timer fires at start_tag.Delay(offset) and, unless period is zero,
// re-enqueues itself at now.Delay(period) after each firing.
type Timer struct {
	base
	offset rtime.Duration
	period rtime.Duration
}

// NewTimer constructs a timer with the given offset and period. A zero
// period means "fire once."
func NewTimer(name string, offset, period rtime.Duration, container element.Container, owner element.PhaseOwner) (*Timer, error) {
	e, err := element.New(name, element.KindAction, container, owner)
	if err != nil {
		return nil, err
	}
	return &Timer{base: newBase(e, 0, false), offset: offset, period: period}, nil
}

// Arm schedules the timer's first event; called by the owning reactor's
// Startup at the environment's start tag.
func (t *Timer) Arm(startTag rtime.Tag) {
	if t.sink == nil {
		return
	}
	t.sink.Enqueue(startTag.Delay(t.offset), t, nil)
}

func (t *Timer) Fire(payload any) { t.present = true }

// Cleanup re-arms the timer at now.Delay(period) unless the period is zero.
func (t *Timer) Cleanup() {
	if t.period == 0 || t.sink == nil {
		return
	}
	t.sink.Enqueue(t.sink.CurrentTag().Delay(t.period), t, nil)
}

// Startup is a pseudo-action that fires exactly once, at the environment's
// start tag, driven by Reactor.Startup rather than by a reaction.
type Startup struct {
	base
}

func NewStartup(name string, container element.Container, owner element.PhaseOwner) (*Startup, error) {
	e, err := element.New(name, element.KindAction, container, owner)
	if err != nil {
		return nil, err
	}
	return &Startup{base: newBase(e, 0, false)}, nil
}

// Arm schedules the one-shot startup event.
func (s *Startup) Arm(startTag rtime.Tag) {
	if s.sink == nil {
		return
	}
	s.sink.Enqueue(startTag, s, nil)
}

func (s *Startup) Fire(payload any) { s.present = true }
func (s *Startup) Cleanup()         {}

// Shutdown is a pseudo-action that schedules itself at the current tag's
// microstep successor when a shutdown is requested.
type Shutdown struct {
	base
}

func NewShutdown(name string, container element.Container, owner element.PhaseOwner) (*Shutdown, error) {
	e, err := element.New(name, element.KindAction, container, owner)
	if err != nil {
		return nil, err
	}
	return &Shutdown{base: newBase(e, 0, false)}, nil
}

// Request schedules the shutdown event at currentTag's microstep successor.
func (s *Shutdown) Request() {
	if s.sink == nil {
		return
	}
	s.sink.Enqueue(s.sink.CurrentTag().Delay(0), s, nil)
}

func (s *Shutdown) Fire(payload any) { s.present = true }
func (s *Shutdown) Cleanup()         {}
