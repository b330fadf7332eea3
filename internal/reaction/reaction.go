// Package reaction implements the reactor runtime's unit of scheduling: a
// prioritized, triggered callable with declared dependency edges and an
// optional deadline.
package reaction

import (
	"github.com/comalice/reactorx/internal/actions"
	"github.com/comalice/reactorx/internal/element"
	"github.com/comalice/reactorx/internal/ports"
	"github.com/comalice/reactorx/internal/rtime"
)

// TimeSource lets a reaction compute physical-vs-logical lag for deadline
// checks without importing the environment package.
type TimeSource interface {
	PhysicalTime() int64
	LogicalTime() int64
}

// Container is what a reaction's containing reactor must provide.
type Container interface {
	element.Container
	TimeSource
}

// Reaction is the unit of scheduling: a prioritized body with declared
// triggers, dependencies, antidependencies and schedulable actions.
type Reaction struct {
	*element.Element
	priority  int
	body      func()
	container Container

	actionTriggers     []actions.Action
	schedulableActions []actions.Action
	portTriggers       []ports.Port
	dependencies       []ports.Port
	antidependencies   []ports.Port

	hasDeadline     bool
	deadline        rtime.Duration
	deadlineHandler func()

	index int
}

// New constructs a reaction. priority must be non-zero and unique among the
// reactions of its reactor (enforced by the owning Reactor at registration).
func New(name string, priority int, container Container, owner element.PhaseOwner, body func()) (*Reaction, error) {
	if priority == 0 {
		return nil, element.NewValidationError("new reaction", "%s: priority must be non-zero", name)
	}
	e, err := element.New(name, element.KindReaction, container, owner)
	if err != nil {
		return nil, err
	}
	return &Reaction{Element: e, priority: priority, body: body, container: container, index: -1}, nil
}

func (r *Reaction) Priority() int                        { return r.priority }
func (r *Reaction) ActionTriggers() []actions.Action     { return r.actionTriggers }
func (r *Reaction) SchedulableActions() []actions.Action { return r.schedulableActions }
func (r *Reaction) PortTriggers() []ports.Port           { return r.portTriggers }
func (r *Reaction) Dependencies() []ports.Port           { return r.dependencies }
func (r *Reaction) Antidependencies() []ports.Port       { return r.antidependencies }
func (r *Reaction) HasDeadline() bool                    { return r.hasDeadline }

// Index returns the topological level assigned at startup, or -1 before
// assembly completes.
func (r *Reaction) Index() int { return r.index }

// SetIndex assigns the topological level computed by the dependency graph.
// Assembly phase only.
func (r *Reaction) SetIndex(i int) error {
	if err := element.RequirePhase("set reaction index", r.Owner(), element.Assembly); err != nil {
		return err
	}
	r.index = i
	return nil
}

// DeclareTrigger registers action as a trigger: the reaction becomes ready
// whenever the action's event is processed. Action must belong to the same
// reactor as the reaction.
func (r *Reaction) DeclareTrigger(action actions.Action) error {
	if err := r.checkAssembly("declare trigger"); err != nil {
		return err
	}
	if action.Container().FQN() != r.container.FQN() {
		return element.NewValidationError("declare trigger", "action %s must belong to the same reactor as %s", action.FQN(), r.FQN())
	}
	r.actionTriggers = append(r.actionTriggers, action)
	return action.RegisterTrigger(r)
}

// DeclareSchedulableAction registers action as one this reaction may call
// Schedule on. The action must be logical and belong to the same reactor.
func (r *Reaction) DeclareSchedulableAction(action actions.Action) error {
	if err := r.checkAssembly("declare schedulable action"); err != nil {
		return err
	}
	if action.Container().FQN() != r.container.FQN() {
		return element.NewValidationError("declare schedulable action", "action %s must belong to the same reactor as %s", action.FQN(), r.FQN())
	}
	r.schedulableActions = append(r.schedulableActions, action)
	return action.RegisterScheduler(r)
}

// DeclareTriggerPort registers port as both a trigger and a dependency: the
// reaction becomes ready when the port is set, and the dependency edge
// orders it after the port's producer.
func (r *Reaction) DeclareTriggerPort(port ports.Port) error {
	if err := r.checkAssembly("declare port trigger"); err != nil {
		return err
	}
	if err := r.checkDependencyContainment(port); err != nil {
		return err
	}
	r.portTriggers = append(r.portTriggers, port)
	r.dependencies = append(r.dependencies, port)
	return port.RegisterDependency(r, true)
}

// DeclareDependency registers port as a (non-triggering) dependency: the
// reaction reads it, but does not fire when it is set.
func (r *Reaction) DeclareDependency(port ports.Port) error {
	if err := r.checkAssembly("declare dependency"); err != nil {
		return err
	}
	if err := r.checkDependencyContainment(port); err != nil {
		return err
	}
	r.dependencies = append(r.dependencies, port)
	return port.RegisterDependency(r, false)
}

// DeclareAntidependency registers port as written by this reaction.
func (r *Reaction) DeclareAntidependency(port ports.Port) error {
	if err := r.checkAssembly("declare antidependency"); err != nil {
		return err
	}
	if err := r.checkAntidependencyContainment(port); err != nil {
		return err
	}
	r.antidependencies = append(r.antidependencies, port)
	return port.RegisterAntidependency(r)
}

// SetDeadline installs a deadline and handler. May be set at most once.
func (r *Reaction) SetDeadline(d rtime.Duration, handler func()) error {
	if r.hasDeadline {
		return element.NewValidationError("set deadline", "%s already has a deadline", r.FQN())
	}
	if handler == nil {
		return element.NewValidationError("set deadline", "%s: deadline handler must not be nil", r.FQN())
	}
	r.hasDeadline = true
	r.deadline = d
	r.deadlineHandler = handler
	return nil
}

// Trigger runs the reaction: if a deadline is set and the physical-to-
// logical lag exceeds it, the deadline handler runs in place of the body.
func (r *Reaction) Trigger() {
	if r.hasDeadline {
		lag := rtime.Duration(r.container.PhysicalTime() - r.container.LogicalTime())
		if lag > r.deadline {
			r.deadlineHandler()
			return
		}
	}
	r.body()
}

func (r *Reaction) checkAssembly(op string) error {
	return element.RequirePhase(op, r.Owner(), element.Assembly)
}

// checkDependencyContainment enforces: an input port dependency/trigger
// must belong to the same reactor as the reaction; an output port
// dependency/trigger must belong to a reactor contained by the reaction's
// reactor.
func (r *Reaction) checkDependencyContainment(port ports.Port) error {
	if port.Direction() == ports.Input {
		if port.Node().FQN() != r.container.FQN() {
			return element.NewValidationError("declare dependency", "input port %s must belong to the same reactor as %s", port.FQN(), r.FQN())
		}
		return nil
	}
	parent, ok := port.Node().ParentNode()
	if !ok || parent.FQN() != r.container.FQN() {
		return element.NewValidationError("declare dependency", "output port %s must belong to a reactor contained by %s", port.FQN(), r.FQN())
	}
	return nil
}

// checkAntidependencyContainment enforces the dual rule: an output port
// antidependency must belong to the same reactor; an input port
// antidependency must belong to a contained reactor.
func (r *Reaction) checkAntidependencyContainment(port ports.Port) error {
	if port.Direction() == ports.Output {
		if port.Node().FQN() != r.container.FQN() {
			return element.NewValidationError("declare antidependency", "output port %s must belong to the same reactor as %s", port.FQN(), r.FQN())
		}
		return nil
	}
	parent, ok := port.Node().ParentNode()
	if !ok || parent.FQN() != r.container.FQN() {
		return element.NewValidationError("declare antidependency", "input port %s must belong to a reactor contained by %s", port.FQN(), r.FQN())
	}
	return nil
}
