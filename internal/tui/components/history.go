package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/tui/styles"
)

// MaxHistory is the number of songs kept in the history panel.
const MaxHistory = 50

// HistoryEntry is a song that started playing during this session.
type HistoryEntry struct {
	Song      core.Song
	StartedAt time.Time
	Skipped   bool
}

// History displays songs played this session, newest first.
type History struct {
	now func() time.Time
}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{now: time.Now}
}

// Render renders the history panel
func (h *History) Render(entries []HistoryEntry, width, height int, focused bool) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("No history yet")
	} else {
		content = h.renderHistory(entries, width-4, height-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (h *History) renderHistory(entries []HistoryEntry, width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	for i, entry := range entries {
		if i >= maxLines {
			break
		}

		ago := humanize.RelTime(entry.StartedAt, h.now(), "ago", "from now")
		if h.now().Sub(entry.StartedAt) < time.Minute {
			ago = "now"
		}

		icon := "♪"
		if entry.Skipped {
			icon = "⏭"
		}

		// icon, spaces and a gap before the time
		available := width - 4 - styles.Width(ago)
		title, channel := splitWidth(entry.Song.DisplayTitle(), entry.Song.Channel, available-3, 8)

		info := title
		if channel != "" {
			info = fmt.Sprintf("%s — %s", title, channel)
		}

		padding := width - 2 - styles.Width(info) - styles.Width(ago)
		if padding < 1 {
			padding = 1
		}

		lines = append(lines, fmt.Sprintf("%s %s%s%s",
			styles.Dim.Render(icon),
			info,
			strings.Repeat(" ", padding),
			styles.Dim.Render(ago)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// AddHistory records a started song at the front of entries.
func AddHistory(entries []HistoryEntry, song core.Song, at time.Time) []HistoryEntry {
	entries = append([]HistoryEntry{{Song: song, StartedAt: at}}, entries...)
	if len(entries) > MaxHistory {
		entries = entries[:MaxHistory]
	}
	return entries
}

// MarkSkipped flags the newest entry as skipped.
func MarkSkipped(entries []HistoryEntry) {
	if len(entries) > 0 {
		entries[0].Skipped = true
	}
}
