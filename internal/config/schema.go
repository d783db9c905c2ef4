package config

// Config is the root configuration structure.
type Config struct {
	API    APIConfig    `toml:"api" json:"api"`
	Events EventsConfig `toml:"events" json:"events"`
	Tail   TailConfig   `toml:"tail" json:"tail"`
	TUI    TUIConfig    `toml:"tui" json:"tui"`
	Log    LogConfig    `toml:"log" json:"log"`
}

// APIConfig holds jukebox server connection settings.
type APIConfig struct {
	BaseURL string `toml:"base_url" json:"base_url"`
	Timeout int    `toml:"timeout" json:"timeout"` // seconds
	Retries int    `toml:"retries" json:"retries"`
}

// EventsConfig holds settings for the live event stream.
type EventsConfig struct {
	Path           string `toml:"path" json:"path"`
	ReconnectDelay int    `toml:"reconnect_delay" json:"reconnect_delay"` // milliseconds
}

// TailConfig holds settings for tail/follow mode.
type TailConfig struct {
	Emoji     bool `toml:"emoji" json:"emoji"`
	Timestamp bool `toml:"timestamp" json:"timestamp"`
	Notify    bool `toml:"notify" json:"notify"`
	Interval  int  `toml:"interval" json:"interval"` // poll mode, milliseconds
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme      string `toml:"theme" json:"theme"`
	VolumeStep int    `toml:"volume_step" json:"volume_step"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
}
