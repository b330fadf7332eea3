package element

import "testing"

type fakeOwner struct{ phase Phase }

func (f *fakeOwner) Phase() Phase { return f.phase }

type fakeContainer struct{ fqn string }

func (f *fakeContainer) FQN() string { return f.fqn }

func TestNewTopLevelReactor(t *testing.T) {
	owner := &fakeOwner{phase: Construction}
	e, err := New("main", KindReactor, nil, owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.FQN() != "main" {
		t.Errorf("FQN = %q, want %q", e.FQN(), "main")
	}
}

func TestNewNestedElement(t *testing.T) {
	owner := &fakeOwner{phase: Construction}
	parent := &fakeContainer{fqn: "main"}
	e, err := New("in", KindPort, parent, owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.FQN() != "main.in" {
		t.Errorf("FQN = %q, want %q", e.FQN(), "main.in")
	}
}

func TestNewRejectsNonReactorAtTopLevel(t *testing.T) {
	owner := &fakeOwner{phase: Construction}
	if _, err := New("p", KindPort, nil, owner); err == nil {
		t.Fatal("expected error for environment-owned non-reactor element")
	}
}

func TestNewRejectsWrongPhase(t *testing.T) {
	owner := &fakeOwner{phase: Assembly}
	if _, err := New("main", KindReactor, nil, owner); err == nil {
		t.Fatal("expected phase error")
	}
}
