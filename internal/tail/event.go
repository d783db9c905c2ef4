package tail

import (
	"time"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/jukebox/events"
	"github.com/tessro/jukebox/internal/mirror"
)

// Event is a state change ready for printing. Previous and Current hold the
// jukebox state on either side of the change.
type Event struct {
	Type      events.Type
	Timestamp time.Time
	Previous  core.Snapshot
	Current   core.Snapshot

	// Data is the raw payload for events the client does not understand.
	Data string
	// Err is set for connection failures.
	Err error
}

// Follower turns stream events into printable events, tracking state in a
// mirror so that ended and skipped songs can still be named.
type Follower struct {
	mirror       *mirror.Mirror
	showProgress bool
}

// NewFollower creates a follower backed by m. Progress ticks are dropped
// unless showProgress is set.
func NewFollower(m *mirror.Mirror, showProgress bool) *Follower {
	return &Follower{mirror: m, showProgress: showProgress}
}

// Translate applies ev and returns the event to print, if any.
func (f *Follower) Translate(ev events.Event) (Event, bool) {
	prev := f.mirror.Snapshot()
	f.mirror.Apply(ev)

	if ev.Type == events.TypePlaybackProgress && !f.showProgress {
		return Event{}, false
	}

	ts := ev.Received
	if ts.IsZero() {
		ts = time.Now()
	}
	return Event{
		Type:      ev.Type,
		Timestamp: ts,
		Previous:  prev,
		Current:   f.mirror.Snapshot(),
		Data:      ev.Data,
		Err:       ev.Err,
	}, true
}
