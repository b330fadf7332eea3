package scheduler

import (
	"testing"

	"github.com/comalice/reactorx/internal/actions"
	"github.com/comalice/reactorx/internal/element"
	"github.com/comalice/reactorx/internal/reaction"
	"github.com/comalice/reactorx/internal/rtime"
)

// BenchmarkDispatchThroughput measures how many single-reaction tags the
// scheduler can advance through back to back (pre-size the queue, reset the
// timer, run b.N units of work).
func BenchmarkDispatchThroughput(b *testing.B) {
	owner := &fakeOwner{phase: element.Construction}
	container := &fakeContainer{fqn: "bench"}

	act, err := actions.NewLogical[int]("a", 0, container, owner)
	if err != nil {
		b.Fatalf("NewLogical: %v", err)
	}
	rn, err := reaction.New("R1", 1, container, owner, func() {})
	if err != nil {
		b.Fatalf("reaction.New: %v", err)
	}
	owner.phase = element.Assembly
	if err := rn.DeclareTrigger(act); err != nil {
		b.Fatalf("DeclareTrigger: %v", err)
	}

	sched := New([][]*reaction.Reaction{{rn}}, []actions.Action{act}, nil, rtime.SystemClock{}, Config{FastForwardLogicalTime: true}, nil)
	act.BindSink(sched)

	for i := 0; i < b.N; i++ {
		sched.Enqueue(rtime.Tag{TimePoint: int64(i)}, act, i)
	}

	b.ResetTimer()
	b.ReportAllocs()
	sched.Start(rtime.Tag{TimePoint: 0})
	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "tags/sec")
}
