// Package actions implements the runtime's event sources: logical actions
// scheduled by reactions, physical actions scheduled externally, timers,
// and the startup/shutdown pseudo-actions driven by the environment
// lifecycle.
package actions

import (
	"github.com/comalice/reactorx/internal/element"
	"github.com/comalice/reactorx/internal/rtime"
)

// Reaction is the minimal identity an action needs to record trigger and
// scheduler edges. internal/reaction.Reaction satisfies this.
type Reaction interface {
	FQN() string
}

// Sink is how an action reaches the scheduler to enqueue events, without
// this package importing internal/scheduler. The scheduler implements it.
type Sink interface {
	// Enqueue inserts an event for action at tag, taking the queue's mutex.
	Enqueue(tag rtime.Tag, action Action, payload any)
	// EnqueuePhysical computes a tag strictly after the current logical tag
	// from the physical clock and enqueues under the same mutex; safe to
	// call from any goroutine.
	EnqueuePhysical(action Action, payload any)
	// CurrentTag returns the scheduler's current logical tag.
	CurrentTag() rtime.Tag
}

// Action is the non-generic interface the graph and scheduler wire against.
type Action interface {
	Name() string
	FQN() string
	IsLogical() bool
	MinDelay() rtime.Duration
	Container() element.Container
	RegisterTrigger(r Reaction) error
	RegisterScheduler(r Reaction) error
	Triggers() []Reaction
	Schedulers() []Reaction

	// BindSink wires the action to the scheduler once, at environment
	// startup, before any event involving it can be enqueued.
	BindSink(sink Sink)
	// Fire delivers payload to the action, making it present for the
	// current tag; called by the scheduler when the action's event reaches
	// the head of the queue.
	Fire(payload any)
	// Cleanup runs once per tag after dispatch, for timer re-scheduling.
	Cleanup()
	// ClearPresence resets the presence flag at the end of a tag.
	ClearPresence()
}

type base struct {
	*element.Element
	minDelay   rtime.Duration
	logical    bool
	triggers   []Reaction
	schedulers []Reaction
	sink       Sink
	present    bool
}

func newBase(e *element.Element, minDelay rtime.Duration, logical bool) base {
	return base{Element: e, minDelay: minDelay, logical: logical}
}

func (b *base) IsLogical() bool          { return b.logical }
func (b *base) MinDelay() rtime.Duration { return b.minDelay }
func (b *base) Triggers() []Reaction     { return b.triggers }
func (b *base) Schedulers() []Reaction   { return b.schedulers }
func (b *base) BindSink(sink Sink)       { b.sink = sink }
func (b *base) ClearPresence()           { b.present = false }

// RegisterTrigger records that reaction r fires when this action's event is
// processed. Assembly phase only; trigger and action must share a reactor.
func (b *base) RegisterTrigger(r Reaction) error {
	if err := element.RequirePhase("register action trigger", b.Owner(), element.Assembly); err != nil {
		return err
	}
	for _, existing := range b.triggers {
		if existing == r {
			return element.NewValidationError("register action trigger", "reaction %s already triggers on %s", r.FQN(), b.FQN())
		}
	}
	b.triggers = append(b.triggers, r)
	return nil
}

// RegisterScheduler records that reaction r may call Schedule on this
// action. Only logical actions may be scheduled by a reaction.
func (b *base) RegisterScheduler(r Reaction) error {
	if err := element.RequirePhase("register schedulable action", b.Owner(), element.Assembly); err != nil {
		return err
	}
	if !b.logical {
		return element.NewValidationError("register schedulable action", "%s is not a logical action and may not be scheduled by a reaction", b.FQN())
	}
	for _, existing := range b.schedulers {
		if existing == r {
			return element.NewValidationError("register schedulable action", "reaction %s already schedules %s", r.FQN(), b.FQN())
		}
	}
	b.schedulers = append(b.schedulers, r)
	return nil
}
