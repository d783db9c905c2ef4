package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/tui/styles"
)

// NowPlaying displays the current song and the playback controls.
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel. spin is the activity indicator frame
// shown while the song plays.
func (n *NowPlaying) Render(snap core.Snapshot, volume int, spin string, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if !snap.HasSong() {
		content = styles.Muted.Render("No song playing")
	} else {
		content = n.renderSong(snap, spin, width-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
		"",
		n.renderControls(snap, volume, width-4),
	))
}

func (n *NowPlaying) renderSong(snap core.Snapshot, spin string, width int) string {
	song := snap.Current

	icon := styles.StatusIcon(snap.Progress.IsPlaying)
	if snap.Progress.IsPlaying && spin != "" {
		icon = styles.Playing.Render(spin)
	}
	title := styles.Title.Render(styles.Truncate(song.DisplayTitle(), width-4))

	var channel string
	if song.Channel != "" {
		channel = "  " + styles.Subtitle.Render(styles.Truncate(song.Channel, width-2))
	}

	elapsed := FormatDuration(core.Seconds(snap.Progress.CurrentProgress))
	total := FormatDuration(core.Seconds(snap.Progress.Duration))
	barWidth := width - styles.Width(elapsed) - styles.Width(total) - 2
	if barWidth < 10 {
		barWidth = 10
	}
	progress := fmt.Sprintf("%s %s %s", elapsed, styles.ProgressBar(snap.Progress.Percent(), barWidth), total)

	lines := []string{icon + " " + title}
	if channel != "" {
		lines = append(lines, channel)
	}
	lines = append(lines, "", progress)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderControls shows the play/pause and skip buttons, greyed out when no
// song is loaded, and the volume.
func (n *NowPlaying) renderControls(snap core.Snapshot, volume int, width int) string {
	enabled := snap.HasSong()

	play := "▶ Play"
	if snap.Progress.IsPlaying {
		play = "⏸ Pause"
	}
	skip := "⏭ Skip"

	var buttons string
	if enabled {
		buttons = styles.Highlight.Render(play) + "   " + styles.Highlight.Render(skip)
	} else {
		buttons = styles.Dim.Render(play) + "   " + styles.Dim.Render(skip)
	}

	barWidth := width - 12
	if barWidth > 30 {
		barWidth = 30
	}
	if barWidth < 5 {
		barWidth = 5
	}
	vol := fmt.Sprintf("🔊 %s %3d%%", styles.ProgressBar(float64(volume), barWidth), volume)

	return lipgloss.JoinVertical(lipgloss.Left, buttons, vol)
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
