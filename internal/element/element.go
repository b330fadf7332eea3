package element

// Kind tags which concrete variant an Element was constructed for, letting a
// container attach an already-built, fully-typed child without an upcast:
// the child is constructed start to finish (including its own sub-elements),
// and only then handed to its container's Register* method for attachment.
type Kind int

const (
	KindReactor Kind = iota
	KindPort
	KindAction
	KindReaction
)

func (k Kind) String() string {
	switch k {
	case KindReactor:
		return "Reactor"
	case KindPort:
		return "Port"
	case KindAction:
		return "Action"
	case KindReaction:
		return "Reaction"
	default:
		return "Unknown"
	}
}

// Container is implemented by whatever an Element is nested under: a
// reactor. Top-level reactors are built with a nil container, which makes
// their FQN their bare name. Only FQN is needed at this layer;
// attachment/uniqueness bookkeeping lives on the concrete reactor type.
type Container interface {
	FQN() string
}

// Element is the common base for reactors, ports, actions and reactions:
// simple name, fully qualified name, owning container, and a back-reference
// to the phase owner for phase-gated operations.
type Element struct {
	name      string
	fqn       string
	kind      Kind
	container Container
	owner     PhaseOwner
}

// New constructs an Element. The environment must be in the Construction
// phase; an element with no container must be a Reactor (only reactors may
// be environment-owned top-level elements).
func New(name string, kind Kind, container Container, owner PhaseOwner) (*Element, error) {
	if err := RequirePhase("register "+kind.String(), owner, Construction); err != nil {
		return nil, err
	}
	if container == nil && kind != KindReactor {
		return nil, NewValidationError("register "+kind.String(), "only a Reactor may be environment-owned")
	}

	fqn := name
	if container != nil && container.FQN() != "" {
		fqn = container.FQN() + "." + name
	}

	return &Element{
		name:      name,
		fqn:       fqn,
		kind:      kind,
		container: container,
		owner:     owner,
	}, nil
}

func (e *Element) Name() string          { return e.name }
func (e *Element) FQN() string           { return e.fqn }
func (e *Element) Kind() Kind            { return e.kind }
func (e *Element) Container() Container  { return e.container }
func (e *Element) Owner() PhaseOwner     { return e.owner }
func (e *Element) Phase() Phase          { return e.owner.Phase() }
