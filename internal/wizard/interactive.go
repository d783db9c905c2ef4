// Package wizard provides interactive prompts for commands run without
// their arguments.
package wizard

import (
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/tessro/jukebox/internal/core"
)

// Interactive decides whether prompts may be shown and shows them.
type Interactive struct {
	enabled bool
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled: true,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// IsTerminal returns true if both stdin and stdout are terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptRequest shows the request form. It returns nil if cancelled or not
// interactive.
func (i *Interactive) PromptRequest(mode Mode) (*Request, error) {
	if !i.CanInteract() {
		return nil, nil
	}
	return RunRequest(mode)
}

// PromptDevice launches the device picker. It returns nil if cancelled or
// not interactive.
func (i *Interactive) PromptDevice(devices []core.AudioDevice, current *core.AudioDevice) (*core.AudioDevice, error) {
	if !i.CanInteract() || len(devices) == 0 {
		return nil, nil
	}
	return RunDevicePicker(devices, current)
}

// NeedsPrompt returns true if a required argument is missing.
func NeedsPrompt(args []string) bool {
	return len(args) == 0
}

// MatchDevice finds the device whose id or description equals query,
// ignoring case for descriptions.
func MatchDevice(devices []core.AudioDevice, query string) *core.AudioDevice {
	for i := range devices {
		if devices[i].ID() == query {
			return &devices[i]
		}
	}
	for i := range devices {
		if strings.EqualFold(devices[i].Description, query) {
			return &devices[i]
		}
	}
	return nil
}
