package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/tessro/jukebox/internal/core"
)

// NewTable creates a table that renders to out.
func NewTable(out io.Writer, headers ...interface{}) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	if w := terminalWidth(); w > 0 {
		t.SetAllowedRowLength(w)
	}
	if len(headers) > 0 {
		t.AppendHeader(table.Row(headers))
	}
	return t
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}

// PrintJSON writes v as indented JSON.
func PrintJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// StatusIcon returns an icon for the given boolean status.
func StatusIcon(active bool) string {
	if active {
		return "●"
	}
	return "○"
}

// TruncateString shortens s to maxLen terminal cells, adding "..." if
// truncated.
func TruncateString(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}

// FormatDuration formats a duration in seconds as m:ss or h:mm:ss.
func FormatDuration(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatProgress formats a progress bar.
func FormatProgress(current, total float64, width int) string {
	if total <= 0 {
		return strings.Repeat("─", width)
	}

	filled := int(current / total * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

// songLine renders "Title - Channel" for one-line output.
func songLine(s core.Song) string {
	if s.Channel == "" {
		return s.DisplayTitle()
	}
	return fmt.Sprintf("%s - %s", s.DisplayTitle(), s.Channel)
}

// optional renders an empty value as a dash.
func optional(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
