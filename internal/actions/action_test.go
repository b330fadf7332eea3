package actions

import (
	"testing"

	"github.com/comalice/reactorx/internal/element"
	"github.com/comalice/reactorx/internal/rtime"
)

type fakeOwner struct{ phase element.Phase }

func (f *fakeOwner) Phase() element.Phase { return f.phase }

type fakeContainer struct{ fqn string }

func (f *fakeContainer) FQN() string { return f.fqn }

type fakeReaction string

func (f fakeReaction) FQN() string { return string(f) }

type recordingSink struct {
	events []event
	tag    rtime.Tag
}

type event struct {
	tag     rtime.Tag
	action  Action
	payload any
}

func (s *recordingSink) Enqueue(tag rtime.Tag, a Action, payload any) {
	s.events = append(s.events, event{tag, a, payload})
}
func (s *recordingSink) EnqueuePhysical(a Action, payload any) {
	s.events = append(s.events, event{s.tag.Delay(0), a, payload})
}
func (s *recordingSink) CurrentTag() rtime.Tag { return s.tag }

func TestLogicalScheduleAppliesMinDelayFloor(t *testing.T) {
	owner := &fakeOwner{phase: element.Construction}
	container := &fakeContainer{fqn: "r"}
	a, err := NewLogical[string]("a", 10, container, owner)
	if err != nil {
		t.Fatalf("NewLogical: %v", err)
	}
	sink := &recordingSink{tag: rtime.Tag{TimePoint: 100}}
	a.BindSink(sink)

	if err := a.Schedule(3, "x"); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected one event, got %d", len(sink.events))
	}
	want := rtime.Tag{TimePoint: 110}
	if sink.events[0].tag != want {
		t.Errorf("tag = %v, want %v (min delay floor applied)", sink.events[0].tag, want)
	}
}

func TestLogicalScheduleZeroDelayAdvancesMicrostep(t *testing.T) {
	owner := &fakeOwner{phase: element.Construction}
	container := &fakeContainer{fqn: "r"}
	a, _ := NewLogical[string]("a", 0, container, owner)
	sink := &recordingSink{tag: rtime.Tag{TimePoint: 100, Microstep: 0}}
	a.BindSink(sink)

	if err := a.Schedule(0, "x"); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	want := rtime.Tag{TimePoint: 100, Microstep: 1}
	if sink.events[0].tag != want {
		t.Errorf("tag = %v, want %v", sink.events[0].tag, want)
	}
}

func TestFireAndValueRoundTrip(t *testing.T) {
	owner := &fakeOwner{phase: element.Construction}
	container := &fakeContainer{fqn: "r"}
	a, _ := NewLogical[int]("a", 0, container, owner)

	if _, present := a.Value(); present {
		t.Fatal("unfired action should not be present")
	}
	a.Fire(42)
	v, present := a.Value()
	if !present || v != 42 {
		t.Fatalf("Value() = (%v, %v), want (42, true)", v, present)
	}
	a.ClearPresence()
	if _, present := a.Value(); present {
		t.Fatal("action should be absent after ClearPresence")
	}
}

func TestRegisterSchedulerRejectsPhysicalAction(t *testing.T) {
	owner := &fakeOwner{phase: element.Construction}
	container := &fakeContainer{fqn: "r"}
	a, err := NewPhysical[int]("p", 0, container, owner)
	if err != nil {
		t.Fatalf("NewPhysical: %v", err)
	}
	owner.phase = element.Assembly
	if err := a.RegisterScheduler(fakeReaction("R1")); err == nil {
		t.Fatal("expected error: physical actions may not be scheduled by a reaction")
	}
}

func TestTimerArmAndCleanup(t *testing.T) {
	owner := &fakeOwner{phase: element.Construction}
	container := &fakeContainer{fqn: "r"}
	timer, err := NewTimer("t", 50, 100, container, owner)
	if err != nil {
		t.Fatalf("NewTimer: %v", err)
	}
	sink := &recordingSink{tag: rtime.Tag{TimePoint: 0}}
	timer.BindSink(sink)

	timer.Arm(rtime.Tag{TimePoint: 1000})
	if sink.events[0].tag != (rtime.Tag{TimePoint: 1050}) {
		t.Fatalf("first firing tag = %v, want (1050, 0)", sink.events[0].tag)
	}

	sink.tag = rtime.Tag{TimePoint: 1050}
	timer.Cleanup()
	if len(sink.events) != 2 {
		t.Fatalf("expected cleanup to re-arm the timer")
	}
	if sink.events[1].tag != (rtime.Tag{TimePoint: 1150}) {
		t.Fatalf("re-armed tag = %v, want (1150, 0)", sink.events[1].tag)
	}
}

func TestTimerWithZeroPeriodDoesNotRearm(t *testing.T) {
	owner := &fakeOwner{phase: element.Construction}
	container := &fakeContainer{fqn: "r"}
	timer, _ := NewTimer("t", 0, 0, container, owner)
	sink := &recordingSink{tag: rtime.Tag{TimePoint: 0}}
	timer.BindSink(sink)

	timer.Arm(rtime.Tag{})
	timer.Cleanup()
	if len(sink.events) != 1 {
		t.Fatalf("zero-period timer should not re-arm, got %d events", len(sink.events))
	}
}

func TestShutdownRequestUsesMicrostepSuccessor(t *testing.T) {
	owner := &fakeOwner{phase: element.Construction}
	container := &fakeContainer{fqn: "r"}
	sd, _ := NewShutdown("shutdown", container, owner)
	sink := &recordingSink{tag: rtime.Tag{TimePoint: 500, Microstep: 2}}
	sd.BindSink(sink)

	sd.Request()
	want := rtime.Tag{TimePoint: 500, Microstep: 3}
	if sink.events[0].tag != want {
		t.Fatalf("shutdown tag = %v, want %v", sink.events[0].tag, want)
	}
}
