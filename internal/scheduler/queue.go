package scheduler

import (
	"sort"

	"github.com/comalice/reactorx/internal/actions"
	"github.com/comalice/reactorx/internal/rtime"
)

// queuedEvent is a pending (action, payload) pair bucketed by tag.
type queuedEvent struct {
	action  actions.Action
	payload any
}

// queue is a tag-ordered bucket of pending events. It holds no lock of its
// own; Scheduler serializes every access through its own mutex, matching
// spec §4.9's single queue lock shared by logical and physical scheduling.
type queue struct {
	tags    []rtime.Tag
	buckets map[rtime.Tag][]queuedEvent
}

func newQueue() *queue {
	return &queue{buckets: make(map[rtime.Tag][]queuedEvent)}
}

func (q *queue) empty() bool { return len(q.tags) == 0 }

// insert appends an event to tag's bucket, inserting the tag into the sorted
// tag list on its first use. Multiple events at the same tag share a bucket;
// their relative order is insertion order.
func (q *queue) insert(tag rtime.Tag, a actions.Action, payload any) {
	if _, ok := q.buckets[tag]; !ok {
		i := sort.Search(len(q.tags), func(i int) bool { return !q.tags[i].Before(tag) })
		q.tags = append(q.tags, rtime.Tag{})
		copy(q.tags[i+1:], q.tags[i:])
		q.tags[i] = tag
	}
	q.buckets[tag] = append(q.buckets[tag], queuedEvent{action: a, payload: payload})
}

// peekMinTag returns the smallest pending tag without removing it.
func (q *queue) peekMinTag() (rtime.Tag, bool) {
	if len(q.tags) == 0 {
		return rtime.Tag{}, false
	}
	return q.tags[0], true
}

// popMin removes and returns the bucket for the smallest pending tag. The
// caller must have checked empty() first.
func (q *queue) popMin() (rtime.Tag, []queuedEvent) {
	tag := q.tags[0]
	q.tags = q.tags[1:]
	events := q.buckets[tag]
	delete(q.buckets, tag)
	return tag, events
}
