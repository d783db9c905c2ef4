package core

import (
	"strings"
	"time"
)

// Song is a track known to the jukebox, either queued or playing.
// Durations on the wire are in seconds and may be fractional.
type Song struct {
	Title     string  `json:"title"`
	Channel   string  `json:"channel,omitempty"`
	Duration  float64 `json:"duration,omitempty"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	URL       string  `json:"url,omitempty"`
}

// Length returns the song duration as a time.Duration.
func (s Song) Length() time.Duration {
	return Seconds(s.Duration)
}

// DisplayTitle returns the title, or a placeholder for untitled songs.
func (s Song) DisplayTitle() string {
	if t := strings.TrimSpace(s.Title); t != "" {
		return t
	}
	return "Untitled"
}

// CurrentSong is the song being played along with its playback position.
type CurrentSong struct {
	Song
	CurrentProgress float64 `json:"current_progress"`
	IsPlaying       bool    `json:"is_playing"`
}

// Elapsed returns how far into the song playback is.
func (c *CurrentSong) Elapsed() time.Duration {
	if c == nil {
		return 0
	}
	return Seconds(c.CurrentProgress)
}

// Seconds converts wire seconds into a time.Duration.
func Seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

// DisplayArtist returns the channel that uploaded the song, if known.
func (s Song) DisplayArtist() string {
	if c := strings.TrimSpace(s.Channel); c != "" {
		return c
	}
	return "Unknown channel"
}
