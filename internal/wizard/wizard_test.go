package wizard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/jukebox/internal/core"
)

func devicesFixture() []core.AudioDevice {
	return []core.AudioDevice{
		{Description: "System default"},
		{DeviceID: core.DeviceIDPtr("hw:0"), Description: "Built-in Speakers"},
		{DeviceID: core.DeviceIDPtr("hw:1"), Description: "USB DAC"},
	}
}

func TestMatchDevice(t *testing.T) {
	devices := devicesFixture()

	tests := []struct {
		query string
		want  string
	}{
		{query: "hw:1", want: "USB DAC"},
		{query: "built-in speakers", want: "Built-in Speakers"},
		{query: "missing", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := MatchDevice(devices, tt.query)
			if tt.want == "" {
				if got != nil {
					t.Errorf("MatchDevice() = %+v, want nil", got)
				}
				return
			}
			if got == nil || got.Description != tt.want {
				t.Errorf("MatchDevice() = %+v, want %q", got, tt.want)
			}
		})
	}
}

func TestDeviceModel(t *testing.T) {
	devices := devicesFixture()
	current := devices[1]
	m := NewDeviceModel(devices, &current)
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1 (current device)", m.cursor)
	}

	press := func(m DeviceModel, k tea.KeyMsg) (DeviceModel, tea.Cmd) {
		next, cmd := m.Update(k)
		return next.(DeviceModel), cmd
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter did not quit")
	}
	if got := m.Selected(); got == nil || got.ID() != "hw:1" {
		t.Errorf("Selected() = %+v, want hw:1", got)
	}
}

func TestDeviceModelCancel(t *testing.T) {
	m := NewDeviceModel(devicesFixture(), nil)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc did not quit")
	}
	if next.(DeviceModel).Selected() != nil {
		t.Error("cancel selected a device")
	}
}

func TestValidateRequest(t *testing.T) {
	mode := ModeSearch
	validate := validateRequest(&mode)

	if err := validate("   "); err == nil {
		t.Error("blank search accepted")
	}
	if err := validate("some song"); err != nil {
		t.Errorf("search rejected: %v", err)
	}

	mode = ModeURL
	if err := validate("some song"); err == nil {
		t.Error("non-URL accepted in URL mode")
	}
	if err := validate("https://youtu.be/abc"); err != nil {
		t.Errorf("URL rejected: %v", err)
	}
}

func TestNeedsPrompt(t *testing.T) {
	if !NeedsPrompt(nil) || NeedsPrompt([]string{"x"}) {
		t.Error("NeedsPrompt() wrong")
	}
}
