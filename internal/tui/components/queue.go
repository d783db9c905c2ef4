package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/tui/styles"
)

// Queue displays the songs waiting to play.
type Queue struct {
	offset int
}

// NewQueue creates a new Queue component
func NewQueue() *Queue {
	return &Queue{}
}

// ScrollDown scrolls the queue down
func (q *Queue) ScrollDown() {
	q.offset++
}

// ScrollUp scrolls the queue up
func (q *Queue) ScrollUp() {
	if q.offset > 0 {
		q.offset--
	}
}

// Render renders the queue panel
func (q *Queue) Render(queue core.Queue, width, height int, focused bool) string {
	title := styles.PanelTitle(fmt.Sprintf("Queue (%d)", queue.Len()), focused)

	var content string
	if queue.IsEmpty() {
		content = styles.Muted.Render("No songs in queue")
	} else {
		content = q.renderQueue(queue, width-4, height-5)
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

func (q *Queue) renderQueue(queue core.Queue, width, maxLines int) string {
	if q.offset >= len(queue) {
		q.offset = len(queue) - 1
	}

	visible := maxLines - 1 // room for the summary line
	if visible < 1 {
		visible = 1
	}

	start := q.offset
	end := start + visible
	if end > len(queue) {
		end = len(queue)
	}

	lines := make([]string, 0, end-start+1)

	// index prefix and channel separator
	const overhead = 7

	for i := start; i < end; i++ {
		song := queue[i]
		num := fmt.Sprintf("%2d.", i+1)

		available := width - overhead
		title, channel := splitWidth(song.DisplayTitle(), song.Channel, available, 10)

		line := styles.Dim.Render(num) + " " + title
		if channel != "" {
			line += styles.Dim.Render(" — ") + styles.Muted.Render(channel)
		}
		lines = append(lines, line)
	}

	summary := fmt.Sprintf("    %s total", FormatDuration(queue.TotalDuration()))
	if end < len(queue) {
		summary = fmt.Sprintf("    ... and %d more, %s total", len(queue)-end, FormatDuration(queue.TotalDuration()))
	}
	lines = append(lines, styles.Dim.Render(summary))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// splitWidth fits a title and a secondary label into available cells, giving
// the label at least a third of the space (and no less than minLabel).
func splitWidth(title, label string, available, minLabel int) (string, string) {
	tw, lw := styles.Width(title), styles.Width(label)
	if tw+lw <= available {
		return title, label
	}
	if label == "" {
		return styles.Truncate(title, available), ""
	}

	labelSpace := available / 3
	if labelSpace < minLabel {
		labelSpace = minLabel
	}
	if labelSpace > available-minLabel {
		labelSpace = available - minLabel
	}
	if lw < labelSpace {
		labelSpace = lw
	}
	return styles.Truncate(title, available-labelSpace), styles.Truncate(label, labelSpace)
}
