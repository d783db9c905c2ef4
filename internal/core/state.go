package core

import "time"

// DefaultVolume is the volume assumed before the server reports one.
const DefaultVolume = 100

// Progress is the playback position reported by the server.
type Progress struct {
	CurrentProgress float64 `json:"current_progress"`
	Duration        float64 `json:"duration"`
	IsPlaying       bool    `json:"is_playing"`
}

// Percent returns playback progress as a percentage (0-100).
func (p Progress) Percent() float64 {
	if p.Duration <= 0 {
		return 0
	}
	pct := p.CurrentProgress / p.Duration * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// Remaining returns the time left in the song.
func (p Progress) Remaining() time.Duration {
	if p.CurrentProgress >= p.Duration {
		return 0
	}
	return Seconds(p.Duration - p.CurrentProgress)
}

// Snapshot is the client-side view of the jukebox.
type Snapshot struct {
	Current   *CurrentSong `json:"current_song"`
	Queue     Queue        `json:"queue"`
	Volume    int          `json:"volume"`
	Progress  Progress     `json:"progress"`
	Connected bool         `json:"connected"`
}

// NewSnapshot returns the state shown before anything is known.
func NewSnapshot() Snapshot {
	return Snapshot{
		Queue:  Queue{},
		Volume: DefaultVolume,
	}
}

// HasSong returns true if a song is loaded.
func (s *Snapshot) HasSong() bool {
	return s != nil && s.Current != nil
}

// IsPlaying reports whether playback is running.
func (s *Snapshot) IsPlaying() bool {
	return s != nil && s.Progress.IsPlaying
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Current != nil {
		c := *s.Current
		out.Current = &c
	}
	out.Queue = make(Queue, len(s.Queue))
	copy(out.Queue, s.Queue)
	return out
}
