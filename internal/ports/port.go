// Package ports implements typed port values, bindings and the
// dependency/antidependency bookkeeping the graph builder consumes.
package ports

import (
	"github.com/comalice/reactorx/internal/element"
)

// Direction is a port's data-flow direction.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// Reaction is the minimal identity a port needs to record a dependency or
// antidependency edge. internal/reaction.Reaction satisfies this.
type Reaction interface {
	FQN() string
}

// Node is implemented by reactors (internal/reactor.Reactor) so bindings can
// validate containment without this package importing the reactor package.
type Node interface {
	element.Container
	// ParentNode returns the reactor containing this node, or ok=false for
	// a top-level reactor.
	ParentNode() (Node, bool)
}

// Port is the non-generic interface the dependency graph and scheduler wire
// against; Typed[T] is the only concrete implementation.
type Port interface {
	Name() string
	FQN() string
	Direction() Direction
	Node() Node
	IsPresent() bool
	BindTo(source Port) error
	InwardBinding() Port
	RegisterDependency(r Reaction, isTrigger bool) error
	RegisterAntidependency(r Reaction) error
	Dependencies() []Reaction
	Antidependencies() []Reaction

	// ClearPresence resets the presence flag at the end of a tag; called by
	// the scheduler for every port in the environment.
	ClearPresence()

	propagate()
	addOutward(p Port)
}

type base struct {
	*element.Element
	node      Node
	direction Direction
	present   bool
	inward    Port
	outward   []Port
	deps      []Reaction
	antideps  []Reaction
	self      Port
}

func newBase(e *element.Element, node Node, dir Direction) base {
	return base{Element: e, node: node, direction: dir}
}

func (b *base) Direction() Direction         { return b.direction }
func (b *base) Node() Node                   { return b.node }
func (b *base) IsPresent() bool              { return b.present }
func (b *base) InwardBinding() Port          { return b.inward }
func (b *base) Dependencies() []Reaction     { return b.deps }
func (b *base) Antidependencies() []Reaction { return b.antideps }
func (b *base) addOutward(p Port)            { b.outward = append(b.outward, p) }

// RegisterDependency records that reaction r reads this port; isTrigger
// additionally means r fires when the port becomes present.
func (b *base) RegisterDependency(r Reaction, isTrigger bool) error {
	if err := element.RequirePhase("register dependency", b.Owner(), element.Assembly); err != nil {
		return err
	}
	for _, existing := range b.deps {
		if existing == r {
			return element.NewValidationError("register dependency", "reaction %s is already a dependency of %s", r.FQN(), b.FQN())
		}
	}
	b.deps = append(b.deps, r)
	return nil
}

// RegisterAntidependency records that reaction r writes this port.
func (b *base) RegisterAntidependency(r Reaction) error {
	if err := element.RequirePhase("register antidependency", b.Owner(), element.Assembly); err != nil {
		return err
	}
	for _, existing := range b.antideps {
		if existing == r {
			return element.NewValidationError("register antidependency", "reaction %s is already an antidependency of %s", r.FQN(), b.FQN())
		}
	}
	b.antideps = append(b.antideps, r)
	return nil
}

// BindTo validates and installs an inward binding from source into b,
// per spec §3/§4.2: an input may bind from a sibling output or a parent
// input pass-through; an output may bind from a child output (aggregation).
func (b *base) BindTo(source Port) error {
	if err := element.RequirePhase("bind port", b.Owner(), element.Assembly); err != nil {
		return err
	}
	if b.inward != nil {
		return element.NewValidationError("bind port", "%s already has an inward binding", b.FQN())
	}

	tNode, sNode := b.node, source.Node()
	var valid bool
	switch b.direction {
	case Input:
		if source.Direction() == Output {
			if p, ok := sNode.ParentNode(); ok {
				if tp, ok2 := tNode.ParentNode(); ok2 && sameNode(p, tp) {
					valid = true
				}
			}
		} else {
			if tp, ok := tNode.ParentNode(); ok && sameNode(sNode, tp) {
				valid = true
			}
		}
	case Output:
		if source.Direction() == Output {
			if p, ok := sNode.ParentNode(); ok && sameNode(p, tNode) {
				valid = true
			}
		}
	}
	if !valid {
		return element.NewValidationError("bind port", "%s (%s) may not bind from %s (%s): invalid containment", b.FQN(), b.direction, source.FQN(), source.Direction())
	}

	b.inward = source
	source.addOutward(b.self)
	return nil
}

func sameNode(a, b Node) bool {
	return a != nil && b != nil && a.FQN() == b.FQN()
}
