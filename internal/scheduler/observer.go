package scheduler

import "github.com/comalice/reactorx/internal/rtime"

// DispatchEvent bundles a fired reaction with the tag it ran at, for
// Observer consumers.
type DispatchEvent struct {
	Tag      rtime.Tag
	Reaction string
}

// Observer watches reaction dispatch without altering scheduling: tests and
// external tooling use it to record fire order without persisting anything,
// keeping the persistence non-goal intact.
type Observer interface {
	OnDispatch(DispatchEvent)
}

// ChannelObserver forwards dispatch events to a channel, non-blocking with
// drop on backpressure.
type ChannelObserver struct {
	ch chan<- DispatchEvent
}

// NewChannelObserver creates a ChannelObserver with the given output channel.
func NewChannelObserver(ch chan<- DispatchEvent) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnDispatch implements Observer.
func (o *ChannelObserver) OnDispatch(e DispatchEvent) {
	select {
	case o.ch <- e:
	default:
	}
}
