package wizard

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/jukebox/internal/core"
)

// DeviceModel is the bubbletea model for the audio device picker.
type DeviceModel struct {
	devices  []core.AudioDevice
	current  *core.AudioDevice
	cursor   int
	selected *core.AudioDevice
	width    int
	height   int
}

// Styles for device picker
var (
	deviceTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	deviceItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	deviceSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(lipgloss.Color("237"))

	deviceActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82"))

	deviceHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// NewDeviceModel creates a picker over devices. The cursor starts on the
// current device when it is in the list.
func NewDeviceModel(devices []core.AudioDevice, current *core.AudioDevice) DeviceModel {
	m := DeviceModel{
		devices: devices,
		current: current,
		width:   80,
		height:  20,
	}
	if current != nil {
		for i, d := range devices {
			if d.Same(*current) {
				m.cursor = i
				break
			}
		}
	}
	return m
}

// Init initializes the model.
func (m DeviceModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m DeviceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "enter", " ":
			if m.cursor < len(m.devices) {
				d := m.devices[m.cursor]
				m.selected = &d
				return m, tea.Quit
			}

		case "up", "k", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j", "ctrl+n":
			if m.cursor < len(m.devices)-1 {
				m.cursor++
			}

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			if len(m.devices) > 0 {
				m.cursor = len(m.devices) - 1
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the model.
func (m DeviceModel) View() string {
	var b strings.Builder

	b.WriteString(deviceTitleStyle.Render("🔈 Select Audio Output"))
	b.WriteString("\n\n")

	if len(m.devices) == 0 {
		b.WriteString(deviceHintStyle.Render("The jukebox reported no audio devices."))
		b.WriteString("\n")
	} else {
		for i, device := range m.devices {
			marker := "○ "
			if m.current != nil && device.Same(*m.current) {
				marker = deviceActiveStyle.Render("● ")
			}

			line := marker + device.Label()
			if id := device.ID(); id != "" && id != device.Label() {
				line += " " + deviceHintStyle.Render("("+id+")")
			}

			if i == m.cursor {
				b.WriteString(deviceSelectedStyle.Render("▸ " + line))
			} else {
				b.WriteString(deviceItemStyle.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(deviceHintStyle.Render("↑/↓ navigate • enter select • esc quit"))
	b.WriteString("\n")
	b.WriteString(deviceHintStyle.Render("● current output"))

	return b.String()
}

// Selected returns the selected device, or nil if none.
func (m DeviceModel) Selected() *core.AudioDevice {
	return m.selected
}

// RunDevicePicker runs the device picker and returns the selected device.
func RunDevicePicker(devices []core.AudioDevice, current *core.AudioDevice) (*core.AudioDevice, error) {
	p := tea.NewProgram(NewDeviceModel(devices, current), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(DeviceModel).Selected(), nil
}
