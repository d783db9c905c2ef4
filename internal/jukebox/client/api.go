package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tessro/jukebox/internal/core"
	jerrors "github.com/tessro/jukebox/internal/errors"
)

// API paths exposed by the jukebox server.
const (
	PathSearchAndRequest   = "/search_and_request_song"
	PathRequestURL         = "/request_song_url"
	PathQueue              = "/get_queue"
	PathCurrentSong        = "/current_song"
	PathPause              = "/pause_playback"
	PathResume             = "/resume_playback"
	PathSkip               = "/skip"
	PathGetVolume          = "/get_volume"
	PathSetVolume          = "/set_volume"
	PathAudioDevices       = "/get_audio_devices"
	PathCurrentAudioDevice = "/get_current_audio_device"
	PathSetAudioDevice     = "/set_audio_device"
	PathEvents             = "/events"
)

var _ core.Jukebox = (*Client)(nil)

type promptRequest struct {
	Prompt string `json:"prompt"`
}

type urlRequest struct {
	URL string `json:"url"`
}

type volumeBody struct {
	Volume int `json:"volume"`
}

type deviceRequest struct {
	DeviceID *string `json:"device_id"`
}

// QueueResponse is the body of GET /get_queue.
type QueueResponse struct {
	Queue core.Queue `json:"queue"`
}

// CurrentSongResponse is the body of GET /current_song.
type CurrentSongResponse struct {
	CurrentSong *core.CurrentSong `json:"current_song"`
}

// DevicesResponse is the body of GET /get_audio_devices.
type DevicesResponse struct {
	Devices []core.AudioDevice `json:"devices"`
}

// SearchAndRequestSong asks the jukebox to search for prompt and queue the best match.
func (c *Client) SearchAndRequestSong(ctx context.Context, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return jerrors.ErrEmptyRequest
	}
	if err := c.Post(ctx, PathSearchAndRequest, promptRequest{Prompt: prompt}, nil); err != nil {
		return fmt.Errorf("%w: %w", jerrors.ErrRequestFailed, err)
	}
	return nil
}

// RequestSongByURL queues the song at a direct URL.
func (c *Client) RequestSongByURL(ctx context.Context, songURL string) error {
	songURL = strings.TrimSpace(songURL)
	if songURL == "" {
		return jerrors.ErrEmptyRequest
	}
	if err := ValidateSongURL(songURL); err != nil {
		return err
	}
	if err := c.Post(ctx, PathRequestURL, urlRequest{URL: songURL}, nil); err != nil {
		return fmt.Errorf("%w: %w", jerrors.ErrRequestFailed, err)
	}
	return nil
}

// GetQueue returns the pending songs. A missing queue field is an empty queue.
func (c *Client) GetQueue(ctx context.Context) (core.Queue, error) {
	var resp QueueResponse
	if err := c.Get(ctx, PathQueue, &resp); err != nil {
		return nil, err
	}
	if resp.Queue == nil {
		return core.Queue{}, nil
	}
	return resp.Queue, nil
}

// GetCurrentSong returns the playing song, or nil if nothing is loaded.
func (c *Client) GetCurrentSong(ctx context.Context) (*core.CurrentSong, error) {
	var resp CurrentSongResponse
	if err := c.Get(ctx, PathCurrentSong, &resp); err != nil {
		return nil, err
	}
	return resp.CurrentSong, nil
}

// PausePlayback pauses the current song.
func (c *Client) PausePlayback(ctx context.Context) error {
	return c.Post(ctx, PathPause, nil, nil)
}

// ResumePlayback resumes a paused song.
func (c *Client) ResumePlayback(ctx context.Context) error {
	return c.Post(ctx, PathResume, nil, nil)
}

// SkipSong skips to the next queued song.
func (c *Client) SkipSong(ctx context.Context) error {
	return c.Post(ctx, PathSkip, nil, nil)
}

// GetVolume returns the output volume (0-100).
func (c *Client) GetVolume(ctx context.Context) (int, error) {
	var resp volumeBody
	if err := c.Get(ctx, PathGetVolume, &resp); err != nil {
		return 0, err
	}
	return resp.Volume, nil
}

// SetVolume sets the output volume. Values are clamped to 0-100.
func (c *Client) SetVolume(ctx context.Context, volume int) error {
	return c.Post(ctx, PathSetVolume, volumeBody{Volume: core.ClampVolume(volume)}, nil)
}

// GetAudioDevices lists the audio outputs on the jukebox host.
func (c *Client) GetAudioDevices(ctx context.Context) ([]core.AudioDevice, error) {
	var resp DevicesResponse
	if err := c.Get(ctx, PathAudioDevices, &resp); err != nil {
		return nil, err
	}
	if resp.Devices == nil {
		return []core.AudioDevice{}, nil
	}
	return resp.Devices, nil
}

// GetCurrentAudioDevice returns the output currently in use.
func (c *Client) GetCurrentAudioDevice(ctx context.Context) (*core.AudioDevice, error) {
	var dev core.AudioDevice
	if err := c.Get(ctx, PathCurrentAudioDevice, &dev); err != nil {
		return nil, err
	}
	return &dev, nil
}

// SetAudioDevice switches output. A nil id selects the system default.
func (c *Client) SetAudioDevice(ctx context.Context, deviceID *string) error {
	return c.Post(ctx, PathSetAudioDevice, deviceRequest{DeviceID: deviceID}, nil)
}

// EventsURL returns the URL of the live event stream.
func (c *Client) EventsURL(path string) string {
	if path == "" {
		path = PathEvents
	}
	return c.URL(path)
}

// ValidateSongURL checks that s is an absolute http(s) URL.
func ValidateSongURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s", jerrors.ErrInvalidURL, s)
	}
	return nil
}

// LooksLikeURL reports whether s should be treated as a song URL rather than
// a search prompt.
func LooksLikeURL(s string) bool {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, " \t") {
		return false
	}
	return ValidateSongURL(s) == nil
}
