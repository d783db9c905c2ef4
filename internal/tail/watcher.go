package tail

import (
	"context"
	"fmt"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/rs/zerolog"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/jukebox/events"
)

// completedThreshold is the fraction of a song that must have played for its
// disappearance to count as finished rather than skipped.
const completedThreshold = 0.95

// Watcher polls the jukebox for state changes and emits events. It is the
// fallback for servers without a usable event stream.
type Watcher struct {
	jukebox  core.Jukebox
	interval time.Duration
	logger   zerolog.Logger
	events   chan Event
	done     chan struct{}
}

// NewWatcher creates a new state watcher.
func NewWatcher(jb core.Jukebox, interval time.Duration, logger zerolog.Logger) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		jukebox:  jb,
		interval: interval,
		logger:   logger,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling for state changes.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	var prev *core.Snapshot
	poll := func() {
		curr, err := w.fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Debug().Err(err).Msg("poll failed")
			if prev == nil || prev.Connected {
				disconnected := core.NewSnapshot()
				if prev != nil {
					disconnected = prev.Clone()
				}
				disconnected.Connected = false
				w.send(Event{
					Type:      events.TypeStreamError,
					Timestamp: time.Now(),
					Previous:  disconnected,
					Current:   disconnected,
					Err:       err,
				})
				prev = &disconnected
			}
			return
		}
		for _, e := range diffSnapshots(prev, curr) {
			w.send(e)
		}
		prev = curr
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			poll()
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

func (w *Watcher) send(e Event) {
	select {
	case w.events <- e:
	default:
		w.logger.Warn().Str("event", string(e.Type)).Msg("dropping event, reader is behind")
	}
}

func (w *Watcher) fetch(ctx context.Context) (*core.Snapshot, error) {
	current, err := w.jukebox.GetCurrentSong(ctx)
	if err != nil {
		return nil, fmt.Errorf("current song: %w", err)
	}
	queue, err := w.jukebox.GetQueue(ctx)
	if err != nil {
		return nil, fmt.Errorf("queue: %w", err)
	}
	volume, err := w.jukebox.GetVolume(ctx)
	if err != nil {
		return nil, fmt.Errorf("volume: %w", err)
	}

	s := core.NewSnapshot()
	s.Connected = true
	s.Current = current
	s.Queue = queue
	s.Volume = volume
	if current != nil {
		s.Progress = core.Progress{
			CurrentProgress: current.CurrentProgress,
			Duration:        current.Duration,
			IsPlaying:       current.IsPlaying,
		}
	}
	return &s, nil
}

// diffSnapshots compares two polls and returns the events between them.
func diffSnapshots(prev, curr *core.Snapshot) []Event {
	if curr == nil {
		return nil
	}

	now := time.Now()
	var out []Event
	add := func(t events.Type, before core.Snapshot) {
		out = append(out, Event{Type: t, Timestamp: now, Previous: before, Current: *curr})
	}

	if prev == nil {
		add(events.TypeStreamOpen, core.NewSnapshot())
		if curr.HasSong() {
			add(events.TypeSongStarted, core.NewSnapshot())
		}
		return out
	}

	if !prev.Connected {
		add(events.TypeStreamOpen, *prev)
	}

	if songChanged(prev.Current, curr.Current) {
		if prev.HasSong() {
			if wasCompleted(prev.Current) {
				add(events.TypeSongEnded, *prev)
			} else {
				add(events.TypeSongSkipped, *prev)
			}
		}
		if curr.HasSong() {
			add(events.TypeSongStarted, *prev)
		}
	} else if curr.HasSong() {
		if prev.Progress.IsPlaying && !curr.Progress.IsPlaying {
			add(events.TypePlaybackPaused, *prev)
		} else if !prev.Progress.IsPlaying && curr.Progress.IsPlaying {
			add(events.TypePlaybackResumed, *prev)
		}
	}

	if queueHash(prev.Queue) != queueHash(curr.Queue) {
		add(events.TypeQueueUpdated, *prev)
	}

	if prev.Volume != curr.Volume {
		add(events.TypeVolumeChanged, *prev)
	}

	return out
}

// songChanged reports whether a different song is loaded. Songs are
// identified by URL when both have one, by title otherwise.
func songChanged(prev, curr *core.CurrentSong) bool {
	if prev == nil && curr == nil {
		return false
	}
	if prev == nil || curr == nil {
		return true
	}
	if prev.URL != "" && curr.URL != "" {
		return prev.URL != curr.URL
	}
	return prev.Title != curr.Title
}

// wasCompleted reports whether the song likely finished on its own.
func wasCompleted(c *core.CurrentSong) bool {
	if c == nil || c.Duration <= 0 {
		return false
	}
	return c.CurrentProgress >= c.Duration*completedThreshold
}

func queueHash(q core.Queue) uint64 {
	if len(q) == 0 {
		return 0
	}
	h, err := hashstructure.Hash(q, hashstructure.FormatV2, nil)
	if err != nil {
		return uint64(len(q))
	}
	return h
}
