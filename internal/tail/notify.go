package tail

import (
	"github.com/gen2brain/beeep"

	"github.com/tessro/jukebox/internal/jukebox/events"
)

// Notifier raises a desktop notification when a new song starts.
type Notifier struct {
	notify func(title, message string, icon any) error
}

// NewNotifier returns a notifier that uses the system notification service.
func NewNotifier() *Notifier {
	return &Notifier{notify: beeep.Notify}
}

// Handle notifies for song_started events and ignores everything else.
func (n *Notifier) Handle(e Event) error {
	if e.Type != events.TypeSongStarted {
		return nil
	}
	s := subject(e)
	if s == nil {
		return nil
	}
	msg := s.DisplayArtist()
	if s.Channel == "" {
		msg = "Jukebox"
	}
	return n.notify(s.DisplayTitle(), msg, "")
}
