package reactorx

import "github.com/comalice/reactorx/internal/scheduler"

// DispatchEvent reports one reaction's completion, per spec §9's recovered
// trace hook.
type DispatchEvent = scheduler.DispatchEvent

// Observer watches reaction dispatch without touching persistence, keeping
// the Non-goals' "no event-state persistence" intact.
type Observer = scheduler.Observer

// NewChannelObserver returns an Observer that forwards dispatch events to ch,
// dropping them under backpressure rather than blocking the scheduler.
func NewChannelObserver(ch chan<- DispatchEvent) Observer {
	return scheduler.NewChannelObserver(ch)
}
