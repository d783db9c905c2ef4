package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/tui/styles"
)

// Devices displays the audio outputs the jukebox can play through.
type Devices struct {
	selected int
}

// NewDevices creates a new Devices component
func NewDevices() *Devices {
	return &Devices{}
}

// SelectNext selects the next device, stopping at the last of n.
func (d *Devices) SelectNext(n int) {
	if d.selected < n-1 {
		d.selected++
	}
}

// SelectPrev selects the previous device
func (d *Devices) SelectPrev() {
	if d.selected > 0 {
		d.selected--
	}
}

// Selected returns the selected device index
func (d *Devices) Selected() int {
	return d.selected
}

// Render renders the devices panel. current is the active output, if known.
func (d *Devices) Render(devices []core.AudioDevice, current *core.AudioDevice, width, height int, focused bool) string {
	title := styles.PanelTitle("Devices", focused)

	var content string
	if len(devices) == 0 {
		content = styles.Muted.Render("No devices found")
	} else {
		content = d.renderDevices(devices, current, width-4, height-4, focused)
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

func (d *Devices) renderDevices(devices []core.AudioDevice, current *core.AudioDevice, width, maxLines int, focused bool) string {
	if d.selected >= len(devices) {
		d.selected = len(devices) - 1
	}
	if d.selected < 0 {
		d.selected = 0
	}

	// Keep the selection on screen.
	start := 0
	if maxLines > 0 && d.selected >= maxLines {
		start = d.selected - maxLines + 1
	}

	lines := make([]string, 0, len(devices))
	for i := start; i < len(devices); i++ {
		device := devices[i]

		selector := "  "
		if focused && i == d.selected {
			selector = "▸ "
		}

		active := ""
		if current != nil && device.Same(*current) {
			active = styles.Playing.Render(" ●")
		}

		name := styles.Truncate(device.Label(), width-4)
		if focused && i == d.selected {
			name = styles.Highlight.Render(name)
		}

		lines = append(lines, selector+name+active)
		if len(lines) >= maxLines {
			break
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
