package reactorx

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/comalice/reactorx/internal/actions"
	"github.com/comalice/reactorx/internal/element"
	"github.com/comalice/reactorx/internal/graph"
	"github.com/comalice/reactorx/internal/ports"
	"github.com/comalice/reactorx/internal/reaction"
	"github.com/comalice/reactorx/internal/reactor"
	"github.com/comalice/reactorx/internal/rtime"
	"github.com/comalice/reactorx/internal/scheduler"
)

// Environment is the phase-owning coordinator: the root of a reactor tree,
// the dependency graph builder, and the scheduler's owner, per spec §6.
// Construction/assembly run on the caller's goroutine; Startup hands
// dispatch off to a dedicated scheduler goroutine.
type Environment struct {
	name     string
	cfg      Config
	clock    rtime.Clock
	observer Observer

	mu    sync.Mutex
	phase element.Phase

	topReactors []*reactor.Reactor
	names       map[string]struct{}

	// RunID is stamped at Startup and identifies this run in logs, letting
	// multiple environments in one process (tests, or a host process
	// managing several runtimes) be told apart in output.
	RunID uuid.UUID

	startPhysical int64
	sched         *scheduler.Scheduler
	done          chan struct{}
}

// New constructs an Environment in the Construction phase, ready to accept
// top-level reactors. name is used as the environment's log/export prefix;
// it is not itself part of any reactor's FQN.
func New(name string, opts ...Option) *Environment {
	e := &Environment{
		name:  name,
		cfg:   DefaultConfig(),
		clock: rtime.SystemClock{},
		phase: element.Construction,
		names: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FQN satisfies element.Container for documentation symmetry with
// "the environment itself for top-level elements" (internal/element); no
// current code path actually needs it, since a top-level Reactor is built
// with a nil container.
func (e *Environment) FQN() string { return e.name }

// Phase implements element.PhaseOwner.
func (e *Environment) Phase() element.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

func (e *Environment) setPhase(p element.Phase) {
	e.mu.Lock()
	e.phase = p
	e.mu.Unlock()
}

// PhysicalTime implements reactor.TimeSource: wall-clock nanoseconds.
func (e *Environment) PhysicalTime() int64 { return e.clock.Now() }

// LogicalTime implements reactor.TimeSource: the scheduler's current tag's
// time point before Startup completes, it is the captured start time.
func (e *Environment) LogicalTime() int64 {
	if e.sched == nil {
		return e.startPhysical
	}
	return e.sched.CurrentTag().TimePoint
}

// RegisterReactor attaches an already fully-constructed top-level reactor.
// Construction phase only, per the two-step construct-then-attach pattern
// (spec §9).
func (e *Environment) RegisterReactor(r *reactor.Reactor) error {
	if err := element.RequirePhase("register reactor", e, element.Construction); err != nil {
		return err
	}
	if _, exists := e.names[r.Name()]; exists {
		return element.NewValidationError("register reactor", "duplicate top-level reactor name %q", r.Name())
	}
	e.names[r.Name()] = struct{}{}
	e.topReactors = append(e.topReactors, r)
	return nil
}

// Assemble transitions Construction -> Assembly. User code then wires
// bindings and reaction edges (Port.BindTo, Reaction.DeclareTrigger, etc.)
// directly on the already-registered elements, since those operations
// require the Assembly phase.
func (e *Environment) Assemble() error {
	if err := element.RequirePhase("assemble", e, element.Construction); err != nil {
		return err
	}
	if len(e.topReactors) == 0 {
		return element.NewValidationError("assemble", "environment %s has no registered reactors", e.name)
	}
	e.setPhase(element.Assembly)
	return nil
}

// Startup builds the dependency graph, assigns topological indices, arms
// startup events and timers, and hands dispatch off to a scheduler
// goroutine. The returned channel closes once the scheduler has stopped,
// standing in for the reference runtime's joinable thread handle.
func (e *Environment) Startup() (<-chan struct{}, error) {
	if err := element.RequirePhase("startup", e, element.Assembly); err != nil {
		return nil, err
	}

	g := graph.Build(e.topReactors...)
	levels, maxLevel, err := g.Levels()
	if err != nil {
		return nil, err
	}

	levelOrder := make([][]*reaction.Reaction, maxLevel+1)
	for rn, lvl := range levels {
		if err := rn.SetIndex(lvl); err != nil {
			return nil, err
		}
		levelOrder[lvl] = append(levelOrder[lvl], rn)
	}

	var allActions []actions.Action
	var allPorts []ports.Port
	for _, r := range e.topReactors {
		allActions = append(allActions, r.AllActions()...)
		allPorts = append(allPorts, r.AllPorts()...)
	}

	e.RunID = uuid.New()
	e.startPhysical = e.clock.Now()
	startTag := rtime.Tag{TimePoint: e.startPhysical}

	e.setPhase(element.Startup)

	schedCfg := scheduler.Config{
		ValidateRuntime:        e.cfg.ValidateRuntime,
		WorkerPoolSize:         e.cfg.WorkerPoolSize,
		FastForwardLogicalTime: e.cfg.FastForwardLogicalTime,
		RunForever:             e.cfg.RunForever,
		Verbose:                e.cfg.Verbose,
	}
	e.sched = scheduler.New(levelOrder, allActions, allPorts, e.clock, schedCfg, e.observer)

	for _, r := range e.topReactors {
		r.BindSink(e.sched)
	}
	for _, r := range e.topReactors {
		r.Startup(startTag)
	}

	e.setPhase(element.Execution)

	e.done = make(chan struct{})
	go func() {
		e.sched.Start(startTag)
		e.setPhase(element.Deconstruction)
		close(e.done)
	}()
	return e.done, nil
}

// SyncShutdown requests every reactor's shutdown pseudo-action at the
// current tag's microstep successor and stops the scheduler, which runs that
// shutdown round and discards every other pending event, then blocks until
// the scheduler has stopped.
func (e *Environment) SyncShutdown() error {
	if err := element.RequirePhase("sync shutdown", e, element.Execution); err != nil {
		return err
	}
	e.setPhase(element.Shutdown)
	for _, r := range e.topReactors {
		r.Shutdown()
	}
	e.sched.Stop()
	<-e.done
	return nil
}

// AsyncShutdown has the same effect as SyncShutdown (every top-level
// reactor's Shutdown pseudo-action schedules its microstep-successor event,
// then the scheduler stops after that round runs), but is safe to call from
// any goroutine, including a signal handler, since it does not wait for the
// scheduler to finish and routes every queue mutation through the
// scheduler's own lock rather than assuming the caller owns the Execution
// phase's single goroutine.
func (e *Environment) AsyncShutdown() error {
	if err := element.RequirePhase("async shutdown", e, element.Execution); err != nil {
		return err
	}
	e.setPhase(element.Shutdown)
	for _, r := range e.topReactors {
		r.Shutdown()
	}
	e.sched.Stop()
	return nil
}

// Wait blocks until the scheduler has stopped, without itself requesting
// shutdown. Returns immediately if Startup has not yet been called.
func (e *Environment) Wait() {
	if e.done == nil {
		return
	}
	<-e.done
}

// ExportDependencyGraph writes the current reaction dependency graph as DOT
// source to path, per spec §4.10. Safe to call any time after Assemble.
func (e *Environment) ExportDependencyGraph(path string) error {
	g := graph.Build(e.topReactors...)
	dot, err := g.Export()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(dot), 0o644); err != nil {
		return fmt.Errorf("reactorx: export dependency graph: %w", err)
	}
	return nil
}
