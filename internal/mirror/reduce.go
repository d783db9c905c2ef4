package mirror

import (
	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/jukebox/events"
)

// Reduce returns the state after ev. It does not modify s's song or queue.
func Reduce(s core.Snapshot, ev events.Event) core.Snapshot {
	switch ev.Type {
	case events.TypeConnected, events.TypeStreamOpen:
		s.Connected = true

	case events.TypeStreamError:
		s.Connected = false

	case events.TypeSongStarted:
		if ev.Song == nil {
			return s
		}
		s.Current = &core.CurrentSong{
			Song:      *ev.Song,
			IsPlaying: true,
		}
		s.Progress = core.Progress{
			Duration:  ev.Song.Duration,
			IsPlaying: true,
		}

	case events.TypePlaybackProgress:
		if ev.Progress == nil {
			return s
		}
		s.Progress = *ev.Progress
		if s.Current != nil {
			c := *s.Current
			c.CurrentProgress = ev.Progress.CurrentProgress
			c.IsPlaying = ev.Progress.IsPlaying
			c.Duration = ev.Progress.Duration
			s.Current = &c
		}

	case events.TypeSongEnded, events.TypeSongSkipped:
		s.Current = nil
		s.Progress = core.Progress{}

	case events.TypeQueueUpdated:
		s.Queue = append(core.Queue{}, ev.Queue...)

	case events.TypeVolumeChanged:
		s.Volume = ev.Volume

	case events.TypePlaybackPaused, events.TypePlaybackResumed:
		playing := ev.Type == events.TypePlaybackResumed
		s.Progress.IsPlaying = playing
		if s.Current != nil {
			c := *s.Current
			c.IsPlaying = playing
			s.Current = &c
		}
	}
	return s
}
