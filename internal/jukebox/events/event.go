// Package events consumes the jukebox's server-sent event stream.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tessro/jukebox/internal/core"
)

// Type names an event on the stream.
type Type string

// Events pushed by the jukebox server.
const (
	TypeConnected        Type = "connected"
	TypeSongStarted      Type = "song_started"
	TypePlaybackProgress Type = "playback_progress"
	TypeSongEnded        Type = "song_ended"
	TypeSongSkipped      Type = "song_skipped"
	TypeQueueUpdated     Type = "queue_updated"
	TypeVolumeChanged    Type = "volume_changed"
	TypePlaybackPaused   Type = "playback_paused"
	TypePlaybackResumed  Type = "playback_resumed"
)

// Events synthesized by the subscriber for connection changes.
const (
	TypeStreamOpen  Type = "stream_open"
	TypeStreamError Type = "stream_error"
)

// Known reports whether t is an event the client understands.
func (t Type) Known() bool {
	switch t {
	case TypeConnected, TypeSongStarted, TypePlaybackProgress, TypeSongEnded,
		TypeSongSkipped, TypeQueueUpdated, TypeVolumeChanged,
		TypePlaybackPaused, TypePlaybackResumed, TypeStreamOpen, TypeStreamError:
		return true
	}
	return false
}

// Event is a decoded stream event. Only the payload field matching Type is set.
type Event struct {
	Type     Type
	ID       string
	Data     string
	Received time.Time

	Song     *core.Song
	Progress *core.Progress
	Queue    core.Queue
	Volume   int

	// Err is set on TypeStreamError.
	Err error
}

type queuePayload struct {
	Queue core.Queue `json:"queue"`
}

type volumePayload struct {
	Volume *int `json:"volume"`
}

// Decode turns a raw message into a typed event. Unknown event names are
// returned with only Type, ID and Data set.
func Decode(msg Message) (Event, error) {
	e := Event{
		Type:     Type(msg.Event),
		ID:       msg.ID,
		Data:     msg.Data,
		Received: time.Now(),
	}

	switch e.Type {
	case TypeSongStarted:
		var s core.Song
		if err := json.Unmarshal([]byte(msg.Data), &s); err != nil {
			return e, fmt.Errorf("parse %s: %w", e.Type, err)
		}
		e.Song = &s

	case TypePlaybackProgress:
		var p core.Progress
		if err := json.Unmarshal([]byte(msg.Data), &p); err != nil {
			return e, fmt.Errorf("parse %s: %w", e.Type, err)
		}
		e.Progress = &p

	case TypeQueueUpdated:
		var q queuePayload
		if err := json.Unmarshal([]byte(msg.Data), &q); err != nil {
			return e, fmt.Errorf("parse %s: %w", e.Type, err)
		}
		e.Queue = q.Queue
		if e.Queue == nil {
			e.Queue = core.Queue{}
		}

	case TypeVolumeChanged:
		var v volumePayload
		if err := json.Unmarshal([]byte(msg.Data), &v); err != nil {
			return e, fmt.Errorf("parse %s: %w", e.Type, err)
		}
		if v.Volume == nil {
			return e, fmt.Errorf("parse %s: missing volume", e.Type)
		}
		e.Volume = *v.Volume
	}

	return e, nil
}
