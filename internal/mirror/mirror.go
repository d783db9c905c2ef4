// Package mirror keeps a local copy of the jukebox state, built from the
// server's event stream.
package mirror

import (
	"context"
	"sync"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/rs/zerolog"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/jukebox/events"
)

// Mirror is a thread-safe snapshot of the jukebox that follows events.
type Mirror struct {
	mu      sync.RWMutex
	state   core.Snapshot
	hash    uint64
	live    field
	changes chan struct{}
	logger  zerolog.Logger
}

// field marks the parts of the state an event has written.
type field uint8

const (
	fieldSong field = 1 << iota
	fieldQueue
	fieldVolume
)

func fieldOf(t events.Type) field {
	switch t {
	case events.TypeSongStarted, events.TypePlaybackProgress, events.TypeSongEnded,
		events.TypeSongSkipped, events.TypePlaybackPaused, events.TypePlaybackResumed:
		return fieldSong
	case events.TypeQueueUpdated:
		return fieldQueue
	case events.TypeVolumeChanged:
		return fieldVolume
	}
	return 0
}

// Option configures a Mirror.
type Option func(*Mirror)

// WithLogger sets the logger used for dropped or unknown events.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Mirror) {
		m.logger = l
	}
}

// New returns a mirror in the initial disconnected state.
func New(opts ...Option) *Mirror {
	m := &Mirror{
		state:   core.NewSnapshot(),
		changes: make(chan struct{}, 1),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.hash = hashOf(m.state)
	return m
}

// Snapshot returns a copy of the current state.
func (m *Mirror) Snapshot() core.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// Changes signals after the state changes. Signals coalesce: a reader that
// falls behind sees one pending signal and should re-read Snapshot.
func (m *Mirror) Changes() <-chan struct{} {
	return m.changes
}

// Seed installs state fetched over the REST API. Parts the event stream has
// already written are kept: an event that raced the fetch is the newer
// value. The connection flag is left untouched. Seed reports whether the
// current song was taken from current.
func (m *Mirror) Seed(current *core.CurrentSong, queue core.Queue, volume int) bool {
	var seededSong bool
	m.update(func(s *core.Snapshot) {
		if m.live&fieldSong == 0 {
			seededSong = true
			s.Current = nil
			s.Progress = core.Progress{}
			if current != nil {
				c := *current
				s.Current = &c
				s.Progress = core.Progress{
					CurrentProgress: c.CurrentProgress,
					Duration:        c.Duration,
					IsPlaying:       c.IsPlaying,
				}
			}
		}
		if m.live&fieldQueue == 0 {
			s.Queue = append(core.Queue{}, queue...)
		}
		if m.live&fieldVolume == 0 {
			s.Volume = core.ClampVolume(volume)
		}
	})
	return seededSong
}

// Apply folds one event into the state. It reports whether anything changed.
func (m *Mirror) Apply(ev events.Event) bool {
	if !ev.Type.Known() {
		m.logger.Debug().Str("event", string(ev.Type)).Msg("ignoring unknown event")
		return false
	}
	return m.update(func(s *core.Snapshot) {
		*s = Reduce(*s, ev)
		m.live |= fieldOf(ev.Type)
	})
}

// Run applies events from in until it closes or ctx is cancelled.
func (m *Mirror) Run(ctx context.Context, in <-chan events.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-in:
			if !ok {
				return nil
			}
			m.Apply(ev)
		}
	}
}

func (m *Mirror) update(fn func(*core.Snapshot)) bool {
	m.mu.Lock()
	next := m.state.Clone()
	fn(&next)
	h := hashOf(next)
	changed := h != m.hash
	m.state = next
	m.hash = h
	m.mu.Unlock()

	if changed {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	}
	return changed
}

func hashOf(s core.Snapshot) uint64 {
	h, err := hashstructure.Hash(s, hashstructure.FormatV2, nil)
	if err != nil {
		// Unreachable for plain data; force a notification.
		return 0
	}
	return h
}
