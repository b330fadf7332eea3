package scheduler

import (
	"testing"

	"github.com/comalice/reactorx/internal/rtime"
)

func TestQueueOrdersByAscendingTag(t *testing.T) {
	q := newQueue()
	q.insert(rtime.Tag{TimePoint: 50}, nil, "b")
	q.insert(rtime.Tag{TimePoint: 10}, nil, "a")
	q.insert(rtime.Tag{TimePoint: 10, Microstep: 1}, nil, "c")

	tag, ok := q.peekMinTag()
	if !ok || tag.TimePoint != 10 || tag.Microstep != 0 {
		t.Fatalf("peekMinTag = %+v, %v", tag, ok)
	}

	gotTag, events := q.popMin()
	if gotTag != tag || len(events) != 1 || events[0].payload != "a" {
		t.Fatalf("popMin = %+v %+v, want tag=%+v payload=a", gotTag, events, tag)
	}

	tag2, ok := q.peekMinTag()
	if !ok || tag2.TimePoint != 10 || tag2.Microstep != 1 {
		t.Fatalf("peekMinTag after pop = %+v, %v", tag2, ok)
	}
}

func TestQueueBucketsMultipleEventsAtSameTag(t *testing.T) {
	q := newQueue()
	tag := rtime.Tag{TimePoint: 5}
	q.insert(tag, nil, 1)
	q.insert(tag, nil, 2)

	if q.empty() {
		t.Fatal("queue should not be empty before popping")
	}
	_, events := q.popMin()
	if len(events) != 2 {
		t.Fatalf("want 2 events bucketed at a shared tag, got %d", len(events))
	}
	if !q.empty() {
		t.Fatal("queue should be empty after popping its only tag")
	}
}
