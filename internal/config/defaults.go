package config

import "time"

// DefaultBaseURL is where the jukebox server listens unless configured otherwise.
const DefaultBaseURL = "http://localhost:8000"

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 30,
			Retries: 3,
		},
		Events: EventsConfig{
			Path:           "/events",
			ReconnectDelay: 3000,
		},
		Tail: TailConfig{
			Emoji:    true,
			Interval: 1000,
		},
		TUI: TUIConfig{
			Theme:      "auto",
			VolumeStep: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// API
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = d.API.Timeout
	}

	// Events
	if c.Events.Path == "" {
		c.Events.Path = d.Events.Path
	}
	if c.Events.ReconnectDelay == 0 {
		c.Events.ReconnectDelay = d.Events.ReconnectDelay
	}

	// Tail
	if c.Tail.Interval == 0 {
		c.Tail.Interval = d.Tail.Interval
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.VolumeStep == 0 {
		c.TUI.VolumeStep = d.TUI.VolumeStep
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// RequestTimeout returns the API timeout as a duration.
func (c *APIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Delay returns the event stream reconnect delay as a duration.
func (c *EventsConfig) Delay() time.Duration {
	return time.Duration(c.ReconnectDelay) * time.Millisecond
}

// PollInterval returns the tail poll interval as a duration.
func (c *TailConfig) PollInterval() time.Duration {
	return time.Duration(c.Interval) * time.Millisecond
}
