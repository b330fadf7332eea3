package reactor

import (
	"testing"

	"github.com/comalice/reactorx/internal/actions"
	"github.com/comalice/reactorx/internal/element"
	"github.com/comalice/reactorx/internal/reaction"
	"github.com/comalice/reactorx/internal/rtime"
)

type fakeOwner struct{ phase element.Phase }

func (f *fakeOwner) Phase() element.Phase { return f.phase }

type fakeEnv struct{ phys, log int64 }

func (f *fakeEnv) PhysicalTime() int64 { return f.phys }
func (f *fakeEnv) LogicalTime() int64  { return f.log }

func TestRegisterReactorRejectsDuplicateName(t *testing.T) {
	owner := &fakeOwner{phase: element.Construction}
	env := &fakeEnv{}
	top, err := New("top", nil, env, owner)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a, _ := New("child", top, env, owner)
	b, _ := New("child", top, env, owner)

	if err := top.RegisterReactor(a); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := top.RegisterReactor(b); err == nil {
		t.Fatal("expected duplicate name error")
	}
}

func TestRegisterReactionRejectsDuplicatePriority(t *testing.T) {
	owner := &fakeOwner{phase: element.Construction}
	env := &fakeEnv{}
	top, _ := New("top", nil, env, owner)

	r1, _ := topReaction(t, top, owner, "R1", 5)
	r2, _ := topReaction(t, top, owner, "R2", 5)

	if err := top.RegisterReaction(r1); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := top.RegisterReaction(r2); err == nil {
		t.Fatal("expected duplicate priority error")
	}
}

func TestStartupArmsTimerAndStartupAction(t *testing.T) {
	owner := &fakeOwner{phase: element.Construction}
	env := &fakeEnv{}
	top, _ := New("top", nil, env, owner)

	timer, _ := actions.NewTimer("t", 0, 0, top, owner)
	startupAction, _ := actions.NewStartup("startup", top, owner)
	top.RegisterAction(timer)
	top.RegisterAction(startupAction)

	sink := &recordingSink{tag: rtime.Tag{}}
	timer.BindSink(sink)
	startupAction.BindSink(sink)

	top.Startup(rtime.Tag{TimePoint: 100})
	if len(sink.events) != 2 {
		t.Fatalf("expected timer and startup action to arm, got %d events", len(sink.events))
	}
}

func TestShutdownRequestsShutdownAction(t *testing.T) {
	owner := &fakeOwner{phase: element.Construction}
	env := &fakeEnv{}
	top, _ := New("top", nil, env, owner)

	sd, _ := actions.NewShutdown("shutdown", top, owner)
	top.RegisterAction(sd)
	sink := &recordingSink{tag: rtime.Tag{TimePoint: 50, Microstep: 1}}
	sd.BindSink(sink)

	top.Shutdown()
	if len(sink.events) != 1 {
		t.Fatalf("expected shutdown action to fire, got %d events", len(sink.events))
	}
}

func TestAllReactionsRecursesIntoChildren(t *testing.T) {
	owner := &fakeOwner{phase: element.Construction}
	env := &fakeEnv{}
	top, _ := New("top", nil, env, owner)
	child, _ := New("child", top, env, owner)
	top.RegisterReactor(child)

	r1, _ := topReaction(t, top, owner, "R1", 1)
	r2, _ := topReaction(t, child, owner, "R2", 1)
	top.RegisterReaction(r1)
	child.RegisterReaction(r2)

	all := top.AllReactions()
	if len(all) != 2 {
		t.Fatalf("AllReactions() = %d entries, want 2", len(all))
	}
}

func topReaction(t *testing.T, container *Reactor, owner element.PhaseOwner, name string, priority int) (*reaction.Reaction, error) {
	t.Helper()
	return reaction.New(name, priority, container, owner, func() {})
}

type recordingSink struct {
	events []event
	tag    rtime.Tag
}

type event struct {
	tag     rtime.Tag
	action  actions.Action
	payload any
}

func (s *recordingSink) Enqueue(tag rtime.Tag, a actions.Action, payload any) {
	s.events = append(s.events, event{tag, a, payload})
}
func (s *recordingSink) EnqueuePhysical(a actions.Action, payload any) {
	s.events = append(s.events, event{s.tag, a, payload})
}
func (s *recordingSink) CurrentTag() rtime.Tag { return s.tag }
