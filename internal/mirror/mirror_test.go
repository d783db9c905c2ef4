package mirror

import (
	"context"
	"testing"
	"time"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/jukebox/events"
)

func songStarted(title string, duration float64) events.Event {
	return events.Event{
		Type: events.TypeSongStarted,
		Song: &core.Song{Title: title, Channel: "chan", Duration: duration},
	}
}

func TestNewInitialState(t *testing.T) {
	s := New().Snapshot()
	if s.Current != nil {
		t.Errorf("Current = %+v, want nil", s.Current)
	}
	if s.Volume != 100 {
		t.Errorf("Volume = %d, want 100", s.Volume)
	}
	if s.Progress != (core.Progress{}) {
		t.Errorf("Progress = %+v, want zero", s.Progress)
	}
	if s.Connected {
		t.Error("Connected = true, want false")
	}
	if s.Queue == nil || len(s.Queue) != 0 {
		t.Errorf("Queue = %#v, want empty", s.Queue)
	}
}

func TestReduce(t *testing.T) {
	playing := core.Snapshot{
		Current: &core.CurrentSong{
			Song:            core.Song{Title: "a", Duration: 200},
			CurrentProgress: 42,
			IsPlaying:       true,
		},
		Progress: core.Progress{CurrentProgress: 42, Duration: 200, IsPlaying: true},
		Volume:   50,
	}

	tests := []struct {
		name  string
		start core.Snapshot
		event events.Event
		check func(t *testing.T, s core.Snapshot)
	}{
		{
			name:  "connected",
			start: core.NewSnapshot(),
			event: events.Event{Type: events.TypeConnected},
			check: func(t *testing.T, s core.Snapshot) {
				if !s.Connected {
					t.Error("Connected = false")
				}
			},
		},
		{
			name:  "stream error disconnects",
			start: core.Snapshot{Connected: true},
			event: events.Event{Type: events.TypeStreamError},
			check: func(t *testing.T, s core.Snapshot) {
				if s.Connected {
					t.Error("Connected = true")
				}
			},
		},
		{
			name:  "song started",
			start: playing,
			event: songStarted("b", 180),
			check: func(t *testing.T, s core.Snapshot) {
				if s.Current == nil || s.Current.Title != "b" {
					t.Fatalf("Current = %+v", s.Current)
				}
				if s.Current.CurrentProgress != 0 || !s.Current.IsPlaying {
					t.Errorf("Current = %+v, want progress 0 and playing", s.Current)
				}
				want := core.Progress{CurrentProgress: 0, Duration: 180, IsPlaying: true}
				if s.Progress != want {
					t.Errorf("Progress = %+v, want %+v", s.Progress, want)
				}
			},
		},
		{
			name:  "song started without duration",
			start: core.NewSnapshot(),
			event: songStarted("b", 0),
			check: func(t *testing.T, s core.Snapshot) {
				want := core.Progress{IsPlaying: true}
				if s.Progress != want {
					t.Errorf("Progress = %+v, want %+v", s.Progress, want)
				}
			},
		},
		{
			name:  "progress updates current song",
			start: playing,
			event: events.Event{
				Type:     events.TypePlaybackProgress,
				Progress: &core.Progress{CurrentProgress: 60, Duration: 210, IsPlaying: false},
			},
			check: func(t *testing.T, s core.Snapshot) {
				if s.Progress.CurrentProgress != 60 || s.Progress.IsPlaying {
					t.Errorf("Progress = %+v", s.Progress)
				}
				c := s.Current
				if c.CurrentProgress != 60 || c.Duration != 210 || c.IsPlaying {
					t.Errorf("Current = %+v", c)
				}
			},
		},
		{
			name:  "progress without song",
			start: core.NewSnapshot(),
			event: events.Event{
				Type:     events.TypePlaybackProgress,
				Progress: &core.Progress{CurrentProgress: 5, Duration: 10, IsPlaying: true},
			},
			check: func(t *testing.T, s core.Snapshot) {
				if s.Current != nil {
					t.Errorf("Current = %+v, want nil", s.Current)
				}
				if s.Progress.CurrentProgress != 5 {
					t.Errorf("Progress = %+v", s.Progress)
				}
			},
		},
		{
			name:  "song ended",
			start: playing,
			event: events.Event{Type: events.TypeSongEnded},
			check: func(t *testing.T, s core.Snapshot) {
				if s.Current != nil || s.Progress != (core.Progress{}) {
					t.Errorf("got Current=%+v Progress=%+v, want cleared", s.Current, s.Progress)
				}
			},
		},
		{
			name:  "song skipped",
			start: playing,
			event: events.Event{Type: events.TypeSongSkipped},
			check: func(t *testing.T, s core.Snapshot) {
				if s.Current != nil || s.Progress != (core.Progress{}) {
					t.Errorf("got Current=%+v Progress=%+v, want cleared", s.Current, s.Progress)
				}
			},
		},
		{
			name:  "queue updated",
			start: playing,
			event: events.Event{Type: events.TypeQueueUpdated, Queue: core.Queue{{Title: "x"}, {Title: "y"}}},
			check: func(t *testing.T, s core.Snapshot) {
				if len(s.Queue) != 2 || s.Queue[1].Title != "y" {
					t.Errorf("Queue = %+v", s.Queue)
				}
			},
		},
		{
			name:  "volume changed",
			start: playing,
			event: events.Event{Type: events.TypeVolumeChanged, Volume: 15},
			check: func(t *testing.T, s core.Snapshot) {
				if s.Volume != 15 {
					t.Errorf("Volume = %d, want 15", s.Volume)
				}
			},
		},
		{
			name:  "paused",
			start: playing,
			event: events.Event{Type: events.TypePlaybackPaused},
			check: func(t *testing.T, s core.Snapshot) {
				if s.Progress.IsPlaying || s.Current.IsPlaying {
					t.Error("still playing after pause")
				}
				if s.Progress.CurrentProgress != 42 {
					t.Errorf("CurrentProgress = %v, want 42", s.Progress.CurrentProgress)
				}
			},
		},
		{
			name:  "resumed without song",
			start: core.NewSnapshot(),
			event: events.Event{Type: events.TypePlaybackResumed},
			check: func(t *testing.T, s core.Snapshot) {
				if !s.Progress.IsPlaying {
					t.Error("Progress.IsPlaying = false")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Reduce(tt.start.Clone(), tt.event))
		})
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := core.Snapshot{Current: &core.CurrentSong{Song: core.Song{Title: "a"}, IsPlaying: true}}
	_ = Reduce(s, events.Event{Type: events.TypePlaybackPaused})
	if !s.Current.IsPlaying {
		t.Error("Reduce modified the input song")
	}
}

func TestApplyNotifiesOnlyOnChange(t *testing.T) {
	m := New()

	if !m.Apply(events.Event{Type: events.TypeVolumeChanged, Volume: 30}) {
		t.Fatal("Apply() = false for a new volume")
	}
	select {
	case <-m.Changes():
	default:
		t.Fatal("no change signal")
	}

	if m.Apply(events.Event{Type: events.TypeVolumeChanged, Volume: 30}) {
		t.Error("Apply() = true for an identical volume")
	}
	select {
	case <-m.Changes():
		t.Error("unexpected change signal")
	default:
	}

	if m.Apply(events.Event{Type: "mystery"}) {
		t.Error("Apply() = true for an unknown event")
	}
}

func TestChangesCoalesce(t *testing.T) {
	m := New()
	m.Apply(events.Event{Type: events.TypeVolumeChanged, Volume: 1})
	m.Apply(events.Event{Type: events.TypeVolumeChanged, Volume: 2})
	m.Apply(events.Event{Type: events.TypeVolumeChanged, Volume: 3})

	<-m.Changes()
	select {
	case <-m.Changes():
		t.Error("more than one pending signal")
	default:
	}
	if got := m.Snapshot().Volume; got != 3 {
		t.Errorf("Volume = %d, want 3", got)
	}
}

func TestSeed(t *testing.T) {
	m := New()
	m.Apply(events.Event{Type: events.TypeConnected})
	m.Seed(&core.CurrentSong{
		Song:            core.Song{Title: "seeded", Duration: 100},
		CurrentProgress: 10,
		IsPlaying:       true,
	}, core.Queue{{Title: "next"}}, 140)

	s := m.Snapshot()
	if !s.Connected {
		t.Error("Seed cleared the connection flag")
	}
	if s.Current == nil || s.Current.Title != "seeded" {
		t.Fatalf("Current = %+v", s.Current)
	}
	want := core.Progress{CurrentProgress: 10, Duration: 100, IsPlaying: true}
	if s.Progress != want {
		t.Errorf("Progress = %+v, want %+v", s.Progress, want)
	}
	if s.Volume != 100 {
		t.Errorf("Volume = %d, want clamped 100", s.Volume)
	}
	if len(s.Queue) != 1 {
		t.Errorf("Queue = %+v", s.Queue)
	}

	m.Seed(nil, nil, 20)
	s = m.Snapshot()
	if s.Current != nil || s.Queue == nil || len(s.Queue) != 0 {
		t.Errorf("after empty seed: Current=%+v Queue=%#v", s.Current, s.Queue)
	}
}

func TestSeedKeepsStreamState(t *testing.T) {
	m := New()
	m.Apply(events.Event{Type: events.TypeConnected})
	m.Apply(songStarted("B", 200))
	m.Apply(events.Event{Type: events.TypeVolumeChanged, Volume: 30})

	stale := &core.CurrentSong{Song: core.Song{Title: "A", Duration: 180}, CurrentProgress: 170, IsPlaying: true}
	if m.Seed(stale, core.Queue{{Title: "next"}}, 90) {
		t.Error("Seed() reported the song as seeded after song_started")
	}

	m.Apply(events.Event{
		Type:     events.TypePlaybackProgress,
		Progress: &core.Progress{CurrentProgress: 150, Duration: 200, IsPlaying: true},
	})

	s := m.Snapshot()
	if s.Current == nil || s.Current.Title != "B" {
		t.Fatalf("Current = %+v, want B", s.Current)
	}
	if s.Progress.CurrentProgress != 150 || s.Progress.Duration != 200 {
		t.Errorf("Progress = %+v", s.Progress)
	}
	if s.Volume != 30 {
		t.Errorf("Volume = %d, want 30 from the stream", s.Volume)
	}
	if len(s.Queue) != 1 || s.Queue[0].Title != "next" {
		t.Errorf("Queue = %+v, want the seeded queue", s.Queue)
	}
}

func TestSeedReportsSong(t *testing.T) {
	m := New()
	m.Apply(events.Event{Type: events.TypeConnected})
	if !m.Seed(&core.CurrentSong{Song: core.Song{Title: "A"}}, nil, 50) {
		t.Error("Seed() = false before any song event")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m := New()
	m.Apply(songStarted("a", 10))
	m.Apply(events.Event{Type: events.TypeQueueUpdated, Queue: core.Queue{{Title: "q"}}})

	s := m.Snapshot()
	s.Current.Title = "changed"
	s.Queue[0].Title = "changed"

	again := m.Snapshot()
	if again.Current.Title != "a" || again.Queue[0].Title != "q" {
		t.Error("Snapshot shares memory with the mirror")
	}
}

func TestRun(t *testing.T) {
	m := New()
	in := make(chan events.Event, 3)
	in <- events.Event{Type: events.TypeStreamOpen}
	in <- songStarted("run", 60)
	in <- events.Event{Type: events.TypeVolumeChanged, Volume: 70}
	close(in)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.Run(ctx, in); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	s := m.Snapshot()
	if !s.Connected || s.Current == nil || s.Volume != 70 {
		t.Errorf("state after Run = %+v", s)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New().Run(ctx, make(chan events.Event)); err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
