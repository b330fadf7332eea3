// Package scheduler implements the discrete-event dispatch loop: a
// tag-ordered event queue, logical time advancement (optionally waiting for
// physical time), and level-barrier dispatch of ready reactions across a
// worker pool, per spec §4.9.
package scheduler

import (
	"log"
	"sync"
	"time"

	"github.com/comalice/reactorx/internal/actions"
	"github.com/comalice/reactorx/internal/element"
	"github.com/comalice/reactorx/internal/ports"
	"github.com/comalice/reactorx/internal/reaction"
	"github.com/comalice/reactorx/internal/rtime"
)

// Config controls scheduler dispatch behavior, per spec §6.
type Config struct {
	// ValidateRuntime gates internal invariant checks (element.Assert),
	// compiled-in behavior rather than a separate build tag, per spec §9's
	// "global validation flag" redesign note.
	ValidateRuntime bool
	// WorkerPoolSize bounds how many reactions of a single topological level
	// run concurrently. Defaults to 1 (fully serial) if zero or negative.
	WorkerPoolSize int
	// FastForwardLogicalTime, if true, never blocks on the physical clock:
	// logical time advances to the next queued tag immediately.
	FastForwardLogicalTime bool
	// RunForever keeps the scheduler blocked on an empty queue instead of
	// stopping; Stop is then the only way to terminate.
	RunForever bool
	// Verbose toggles per-reaction dispatch logging.
	Verbose bool
}

// Scheduler owns the event queue, advances logical time tag by tag, and
// dispatches ready reactions level by level. It implements actions.Sink.
type Scheduler struct {
	mu   sync.Mutex
	cond *sync.Cond
	q    *queue

	clock      rtime.Clock
	currentTag rtime.Tag

	// levelOrder[i] lists the reactions internal/graph assigned topological
	// level i; dispatch walks it in ascending order every tag.
	levelOrder [][]*reaction.Reaction
	allActions []actions.Action
	allPorts   []ports.Port

	cfg      Config
	observer Observer
	logger   *log.Logger

	stopRequested bool
	done          chan struct{}
}

// New constructs a scheduler for a precomputed topological leveling (see
// internal/graph.Graph.Levels). allActions and allPorts are every action and
// port reachable from the environment's top-level reactors, cleared at the
// end of each tag.
func New(levelOrder [][]*reaction.Reaction, allActions []actions.Action, allPorts []ports.Port, clock rtime.Clock, cfg Config, observer Observer) *Scheduler {
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 1
	}
	s := &Scheduler{
		q:          newQueue(),
		clock:      clock,
		levelOrder: levelOrder,
		allActions: allActions,
		allPorts:   allPorts,
		cfg:        cfg,
		observer:   observer,
		logger:     log.New(log.Writer(), "reactorx: ", log.LstdFlags),
		done:       make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// CurrentTag implements actions.Sink.
func (s *Scheduler) CurrentTag() rtime.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTag
}

// Enqueue implements actions.Sink: inserts an event under the queue lock and
// wakes the dispatch loop.
func (s *Scheduler) Enqueue(tag rtime.Tag, action actions.Action, payload any) {
	s.mu.Lock()
	s.q.insert(tag, action, payload)
	s.cond.Broadcast()
	s.mu.Unlock()
}

// EnqueuePhysical implements actions.Sink: the schedule_async path. Picks a
// tag strictly after the current logical tag from the physical clock, safe
// to call from any goroutine.
func (s *Scheduler) EnqueuePhysical(action actions.Action, payload any) {
	s.mu.Lock()
	now := s.clock.Now()
	tag := s.currentTag
	if now > tag.TimePoint {
		tag = rtime.Tag{TimePoint: now}
	} else {
		tag = tag.Delay(rtime.Zero)
	}
	s.q.insert(tag, action, payload)
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Done returns a channel closed once Start has returned.
func (s *Scheduler) Done() <-chan struct{} { return s.done }

// Stop requests termination: once observed by the dispatch loop, at most one
// more round runs (the shutdown round already queued at the current tag's
// microstep successor, if any), and every other pending or future event is
// discarded. Safe to call from any goroutine, including one outside the
// dispatching worker (the async_shutdown path).
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopRequested = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Start runs the dispatch loop from startTag until stop is observed and
// every in-flight reaction has completed, per spec §4.9's tick contract.
// With Config.RunForever false, an empty queue stops the scheduler as if
// Stop had been called (the "drain and exit" termination mode).
func (s *Scheduler) Start(startTag rtime.Tag) {
	defer close(s.done)

	s.mu.Lock()
	s.currentTag = startTag
	s.mu.Unlock()

	for {
		s.mu.Lock()
		for s.q.empty() && !s.stopRequested {
			if !s.cfg.RunForever {
				s.stopRequested = true
				break
			}
			s.cond.Wait()
		}

		if s.stopRequested {
			// Only the exact microstep successor of the tag already reached
			// is let through after a stop request: the shutdown round a
			// Shutdown pseudo-action's Request schedules, never a later or
			// unrelated tag.
			final := s.currentTag.Delay(rtime.Zero)
			tag, ok := s.q.peekMinTag()
			if !ok || tag.Compare(final) != 0 {
				s.mu.Unlock()
				return
			}
			_, events := s.q.popMin()
			s.currentTag = final
			s.mu.Unlock()
			s.dispatchTag(final, events)
			return
		}

		tag, _ := s.q.peekMinTag()
		s.mu.Unlock()

		if !s.cfg.FastForwardLogicalTime {
			s.waitUntilPhysical(tag.TimePoint)
		}

		s.mu.Lock()
		if s.stopRequested {
			// Re-evaluate under the stop-requested branch above.
			s.mu.Unlock()
			continue
		}
		fresh, ok := s.q.peekMinTag()
		if !ok || fresh.Compare(tag) != 0 {
			// A new, earlier event arrived while waiting; re-peek.
			s.mu.Unlock()
			continue
		}
		_, events := s.q.popMin()
		element.Assert(s.cfg.ValidateRuntime, !fresh.Before(s.currentTag), "tag went backwards: %s before %s", fresh, s.currentTag)
		s.currentTag = fresh
		s.mu.Unlock()

		s.dispatchTag(fresh, events)
	}
}

// waitUntilPhysical blocks the dispatch loop until the physical clock
// reaches target, woken early by Stop or by a newly inserted, earlier
// event (both Broadcast the condition variable).
func (s *Scheduler) waitUntilPhysical(target int64) {
	for {
		now := s.clock.Now()
		if now >= target {
			return
		}
		timer := time.AfterFunc(time.Duration(target-now), func() {
			s.mu.Lock()
			s.cond.Broadcast()
			s.mu.Unlock()
		})
		s.mu.Lock()
		head, ok := s.q.peekMinTag()
		if s.stopRequested || (ok && head.TimePoint < target) {
			s.mu.Unlock()
			timer.Stop()
			return
		}
		s.cond.Wait()
		s.mu.Unlock()
		timer.Stop()
	}
}

// dispatchTag fires every event due at tag, then dispatches the resulting
// ready reactions level by level, and finally runs end-of-tag cleanup.
func (s *Scheduler) dispatchTag(tag rtime.Tag, events []queuedEvent) {
	fired := make(map[actions.Action]struct{}, len(events))
	ready := make(map[*reaction.Reaction]struct{})

	for _, ev := range events {
		ev.action.Fire(ev.payload)
		fired[ev.action] = struct{}{}
		for _, r := range ev.action.Triggers() {
			if rn, ok := r.(*reaction.Reaction); ok {
				ready[rn] = struct{}{}
			}
		}
	}

	for _, level := range s.levelOrder {
		var batch []*reaction.Reaction
		for _, rn := range level {
			if _, triggered := ready[rn]; triggered || portTriggered(rn) {
				batch = append(batch, rn)
			}
		}
		s.dispatchLevel(tag, batch)
	}

	for a := range fired {
		a.Cleanup()
		a.ClearPresence()
	}
	for _, p := range s.allPorts {
		p.ClearPresence()
	}
}

// portTriggered reports whether any of a reaction's port triggers was set
// during this tag, by an upstream reaction at a lower level.
func portTriggered(rn *reaction.Reaction) bool {
	for _, p := range rn.PortTriggers() {
		if p.IsPresent() {
			return true
		}
	}
	return false
}

// dispatchLevel runs every ready reaction of one topological level across a
// fixed worker pool, then waits for all of them before returning: the level
// barrier from spec §4.9/§5.
func (s *Scheduler) dispatchLevel(tag rtime.Tag, batch []*reaction.Reaction) {
	if len(batch) == 0 {
		return
	}
	workers := s.cfg.WorkerPoolSize
	if workers > len(batch) {
		workers = len(batch)
	}

	jobs := make(chan *reaction.Reaction)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for rn := range jobs {
				s.runReaction(tag, rn)
			}
		}()
	}
	for _, rn := range batch {
		jobs <- rn
	}
	close(jobs)
	wg.Wait()
}

// runReaction triggers one reaction, reporting it to the observer and the
// verbose logger. A panic in rn.Trigger() is not recovered: it propagates
// out of the worker goroutine and terminates the process, per spec §7.
func (s *Scheduler) runReaction(tag rtime.Tag, rn *reaction.Reaction) {
	if s.cfg.Verbose {
		start := s.clock.Now()
		s.logger.Printf("dispatch %s at %s", rn.FQN(), tag)
		rn.Trigger()
		s.logger.Printf("%s completed in %dns", rn.FQN(), s.clock.Now()-start)
	} else {
		rn.Trigger()
	}
	if s.observer != nil {
		s.observer.OnDispatch(DispatchEvent{Tag: tag, Reaction: rn.FQN()})
	}
}
