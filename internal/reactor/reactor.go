// Package reactor implements the reactor container: the composition tree
// node that owns child reactors, actions, ports and reactions.
package reactor

import (
	"github.com/comalice/reactorx/internal/actions"
	"github.com/comalice/reactorx/internal/element"
	"github.com/comalice/reactorx/internal/ports"
	"github.com/comalice/reactorx/internal/reaction"
	"github.com/comalice/reactorx/internal/rtime"
)

// TimeSource lets a reactor answer a reaction's lag query without importing
// the root environment package.
type TimeSource interface {
	PhysicalTime() int64
	LogicalTime() int64
}

// Reactor is a container of child reactors, actions, input/output ports and
// reactions; it is either top-level (owned by the environment) or nested
// (owned by another Reactor). Containment is exclusive ownership.
type Reactor struct {
	*element.Element
	parent *Reactor
	env    TimeSource

	names map[string]struct{}

	childReactors []*Reactor
	actionsList   []actions.Action
	inputsList    []ports.Port
	outputsList   []ports.Port
	reactionsList []*reaction.Reaction
	priorities    map[int]*reaction.Reaction
}

// New constructs a reactor. A nil parent makes this a top-level reactor
// owned by the environment; env supplies physical/logical time for deadline
// checks in this reactor's reactions.
func New(name string, parent *Reactor, env TimeSource, owner element.PhaseOwner) (*Reactor, error) {
	var container element.Container
	if parent != nil {
		container = parent
	}
	e, err := element.New(name, element.KindReactor, container, owner)
	if err != nil {
		return nil, err
	}
	return &Reactor{
		Element:    e,
		parent:     parent,
		env:        env,
		names:      make(map[string]struct{}),
		priorities: make(map[int]*reaction.Reaction),
	}, nil
}

// ParentNode implements ports.Node.
func (r *Reactor) ParentNode() (ports.Node, bool) {
	if r.parent == nil {
		return nil, false
	}
	return r.parent, true
}

// PhysicalTime implements reaction.TimeSource by delegating to the owning
// environment.
func (r *Reactor) PhysicalTime() int64 { return r.env.PhysicalTime() }

// LogicalTime implements reaction.TimeSource by delegating to the owning
// environment.
func (r *Reactor) LogicalTime() int64 { return r.env.LogicalTime() }

func (r *Reactor) claimName(op, name string) error {
	if err := element.RequirePhase(op, r.Owner(), element.Construction); err != nil {
		return err
	}
	if _, exists := r.names[name]; exists {
		return element.NewValidationError(op, "%s: duplicate name %q in reactor %s", op, name, r.FQN())
	}
	r.names[name] = struct{}{}
	return nil
}

// RegisterReactor attaches an already fully-constructed child reactor.
func (r *Reactor) RegisterReactor(child *Reactor) error {
	if err := r.claimName("register reactor", child.Name()); err != nil {
		return err
	}
	r.childReactors = append(r.childReactors, child)
	return nil
}

// RegisterAction attaches an already fully-constructed action.
func (r *Reactor) RegisterAction(a actions.Action) error {
	if err := r.claimName("register action", a.Name()); err != nil {
		return err
	}
	r.actionsList = append(r.actionsList, a)
	return nil
}

// RegisterPort attaches an already fully-constructed port, filed as an
// input or output according to its own direction.
func (r *Reactor) RegisterPort(p ports.Port) error {
	if err := r.claimName("register port", p.Name()); err != nil {
		return err
	}
	if p.Direction() == ports.Input {
		r.inputsList = append(r.inputsList, p)
	} else {
		r.outputsList = append(r.outputsList, p)
	}
	return nil
}

// RegisterReaction attaches an already fully-constructed reaction and
// enforces the unique-priority invariant within this reactor.
func (r *Reactor) RegisterReaction(rn *reaction.Reaction) error {
	if err := r.claimName("register reaction", rn.Name()); err != nil {
		return err
	}
	if existing, taken := r.priorities[rn.Priority()]; taken {
		return element.NewValidationError("register reaction", "priority %d already used by %s in reactor %s", rn.Priority(), existing.FQN(), r.FQN())
	}
	r.priorities[rn.Priority()] = rn
	r.reactionsList = append(r.reactionsList, rn)
	return nil
}

func (r *Reactor) Children() []*Reactor              { return r.childReactors }
func (r *Reactor) Actions() []actions.Action         { return r.actionsList }
func (r *Reactor) Inputs() []ports.Port              { return r.inputsList }
func (r *Reactor) Outputs() []ports.Port             { return r.outputsList }
func (r *Reactor) Reactions() []*reaction.Reaction   { return r.reactionsList }

// AllReactions returns every reaction in this reactor and its descendants.
func (r *Reactor) AllReactions() []*reaction.Reaction {
	all := append([]*reaction.Reaction(nil), r.reactionsList...)
	for _, c := range r.childReactors {
		all = append(all, c.AllReactions()...)
	}
	return all
}

// AllActions returns every action in this reactor and its descendants.
func (r *Reactor) AllActions() []actions.Action {
	all := append([]actions.Action(nil), r.actionsList...)
	for _, c := range r.childReactors {
		all = append(all, c.AllActions()...)
	}
	return all
}

// AllPorts returns every port in this reactor and its descendants.
func (r *Reactor) AllPorts() []ports.Port {
	all := append([]ports.Port(nil), r.inputsList...)
	all = append(all, r.outputsList...)
	for _, c := range r.childReactors {
		all = append(all, c.AllPorts()...)
	}
	return all
}

// BindSink wires every action in this reactor and its descendants to the
// scheduler, once, before Startup fires any of them.
func (r *Reactor) BindSink(sink actions.Sink) {
	for _, a := range r.actionsList {
		a.BindSink(sink)
	}
	for _, c := range r.childReactors {
		c.BindSink(sink)
	}
}

// Startup recurses actions then child reactors, per spec §4.5: timers and
// the startup pseudo-action arm their first event at startTag. Ports and
// reactions have no lifecycle hook of their own.
func (r *Reactor) Startup(startTag rtime.Tag) {
	for _, a := range r.actionsList {
		switch v := a.(type) {
		case *actions.Timer:
			v.Arm(startTag)
		case *actions.Startup:
			v.Arm(startTag)
		}
	}
	for _, c := range r.childReactors {
		c.Startup(startTag)
	}
}

// Shutdown recurses actions then child reactors: every shutdown
// pseudo-action requests its event at the current tag's microstep
// successor.
func (r *Reactor) Shutdown() {
	for _, a := range r.actionsList {
		if sd, ok := a.(*actions.Shutdown); ok {
			sd.Request()
		}
	}
	for _, c := range r.childReactors {
		c.Shutdown()
	}
}
