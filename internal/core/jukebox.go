package core

import (
	"context"

	"github.com/samber/lo"
)

// Jukebox defines the operations the remote playback service exposes.
type Jukebox interface {
	// Requests
	SearchAndRequestSong(ctx context.Context, prompt string) error
	RequestSongByURL(ctx context.Context, url string) error

	// State queries
	GetQueue(ctx context.Context) (Queue, error)
	GetCurrentSong(ctx context.Context) (*CurrentSong, error)
	GetVolume(ctx context.Context) (int, error)

	// Playback control
	PausePlayback(ctx context.Context) error
	ResumePlayback(ctx context.Context) error
	SkipSong(ctx context.Context) error
	SetVolume(ctx context.Context, volume int) error

	// Audio output
	GetAudioDevices(ctx context.Context) ([]AudioDevice, error)
	GetCurrentAudioDevice(ctx context.Context) (*AudioDevice, error)
	SetAudioDevice(ctx context.Context, deviceID *string) error
}

// ClampVolume limits a volume to the 0-100 range.
func ClampVolume(v int) int {
	return lo.Clamp(v, 0, 100)
}
