package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/jukebox/events"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a parsed custom format template.
func WithTemplate(t *template.Template) FormatterOption {
	return func(f *Formatter) {
		f.template = t
	}
}

// ParseTemplate parses a --format string.
func ParseTemplate(s string) (*template.Template, error) {
	t, err := template.New("format").Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid format template: %w", err)
	}
	return t, nil
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

func (f *Formatter) formatLine(e Event) string {
	var parts []string
	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, describe(e))
	return strings.Join(parts, " ")
}

// TemplateData is the value passed to custom format templates.
type TemplateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Title     string
	Channel   string
	URL       string
	Elapsed   string
	Duration  string
	Volume    int
	Queue     int
	Playing   bool
	Connected bool
}

func (f *Formatter) formatTemplate(e Event) string {
	data := TemplateData{
		Type:      string(e.Type),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
		Volume:    e.Current.Volume,
		Queue:     e.Current.Queue.Len(),
		Playing:   e.Current.Progress.IsPlaying,
		Connected: e.Current.Connected,
	}
	if s := subject(e); s != nil {
		data.Title = s.Title
		data.Channel = s.Channel
		data.URL = s.URL
		data.Duration = FormatSeconds(s.Duration)
	}
	data.Elapsed = FormatSeconds(e.Current.Progress.CurrentProgress)

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

// subject returns the song an event is about: the previous song for
// ended and skipped events, the current one otherwise.
func subject(e Event) *core.Song {
	switch e.Type {
	case events.TypeSongEnded, events.TypeSongSkipped:
		if e.Previous.Current != nil {
			return &e.Previous.Current.Song
		}
		return nil
	}
	if e.Current.Current != nil {
		return &e.Current.Current.Song
	}
	return nil
}

func songLabel(s *core.Song) string {
	if s.Channel == "" {
		return s.DisplayTitle()
	}
	return fmt.Sprintf("%s - %s", s.Channel, s.DisplayTitle())
}

func describe(e Event) string {
	s := subject(e)
	switch e.Type {
	case events.TypeStreamOpen, events.TypeConnected:
		return "Connected to server"

	case events.TypeStreamError:
		if e.Err != nil {
			return fmt.Sprintf("Disconnected from server: %v", e.Err)
		}
		return "Disconnected from server"

	case events.TypeSongStarted:
		if s != nil {
			return "Now playing: " + songLabel(s)
		}
		return "Song started"

	case events.TypeSongEnded:
		if s != nil {
			return "Finished: " + songLabel(s)
		}
		return "Song ended"

	case events.TypeSongSkipped:
		if s != nil {
			return "Skipped: " + songLabel(s)
		}
		return "Song skipped"

	case events.TypePlaybackProgress:
		p := e.Current.Progress
		return fmt.Sprintf("Progress: %s / %s", FormatSeconds(p.CurrentProgress), FormatSeconds(p.Duration))

	case events.TypePlaybackPaused:
		return "Paused"

	case events.TypePlaybackResumed:
		return "Resumed"

	case events.TypeVolumeChanged:
		return fmt.Sprintf("Volume: %d%%", e.Current.Volume)

	case events.TypeQueueUpdated:
		n := e.Current.Queue.Len()
		switch n {
		case 0:
			return "Queue is empty"
		case 1:
			return "Queue: 1 song"
		}
		return fmt.Sprintf("Queue: %d songs", n)

	default:
		if e.Data != "" {
			return fmt.Sprintf("%s: %s", e.Type, e.Data)
		}
		return string(e.Type)
	}
}

func eventEmoji(t events.Type) string {
	switch t {
	case events.TypeStreamOpen, events.TypeConnected:
		return "🔌"
	case events.TypeStreamError:
		return "⚠️"
	case events.TypeSongStarted:
		return "🎵"
	case events.TypeSongEnded:
		return "✅"
	case events.TypeSongSkipped:
		return "⏭️"
	case events.TypePlaybackProgress:
		return "⏱️"
	case events.TypePlaybackPaused:
		return "⏸️"
	case events.TypePlaybackResumed:
		return "▶️"
	case events.TypeVolumeChanged:
		return "🔊"
	case events.TypeQueueUpdated:
		return "📋"
	default:
		return "❓"
	}
}

// FormatSeconds renders wire seconds as m:ss.
func FormatSeconds(s float64) string {
	if s < 0 {
		s = 0
	}
	total := int(s)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
