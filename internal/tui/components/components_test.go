package components

import (
	"strings"
	"testing"
	"time"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/tui/styles"
)

func TestAddHistory(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	var entries []HistoryEntry
	for i := 0; i < MaxHistory+5; i++ {
		entries = AddHistory(entries, core.Song{Title: string(rune('a' + i%26))}, start.Add(time.Duration(i)*time.Minute))
	}

	if len(entries) != MaxHistory {
		t.Fatalf("len(entries) = %d, want %d", len(entries), MaxHistory)
	}
	if !entries[0].StartedAt.After(entries[1].StartedAt) {
		t.Error("newest entry should be first")
	}

	MarkSkipped(entries)
	if !entries[0].Skipped || entries[1].Skipped {
		t.Error("MarkSkipped should flag only the newest entry")
	}

	MarkSkipped(nil)
}

func TestHistoryRender(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := &History{now: func() time.Time { return now }}

	if out := h.Render(nil, 40, 10, false); !strings.Contains(out, "No history yet") {
		t.Errorf("empty history = %q", out)
	}

	entries := []HistoryEntry{
		{Song: core.Song{Title: "Fresh", Channel: "Chan"}, StartedAt: now.Add(-10 * time.Second)},
		{Song: core.Song{Title: "Older"}, StartedAt: now.Add(-5 * time.Minute), Skipped: true},
	}
	out := h.Render(entries, 60, 10, true)
	for _, want := range []string{"Fresh", "Chan", "now", "Older", "5 minutes ago", "⏭"} {
		if !strings.Contains(out, want) {
			t.Errorf("history missing %q:\n%s", want, out)
		}
	}
}

func TestDevicesSelection(t *testing.T) {
	d := NewDevices()
	d.SelectPrev()
	if d.Selected() != 0 {
		t.Errorf("Selected() = %d, want 0", d.Selected())
	}
	d.SelectNext(2)
	d.SelectNext(2)
	if d.Selected() != 1 {
		t.Errorf("Selected() = %d, want 1", d.Selected())
	}
	d.SelectPrev()
	if d.Selected() != 0 {
		t.Errorf("Selected() = %d, want 0", d.Selected())
	}
}

func TestDevicesRender(t *testing.T) {
	devices := []core.AudioDevice{
		{Description: "System output"},
		{DeviceID: core.DeviceIDPtr("hw:1"), Description: "USB DAC"},
	}
	current := devices[1]

	d := NewDevices()
	out := d.Render(devices, &current, 40, 10, true)
	if !strings.Contains(out, "USB DAC") {
		t.Errorf("devices missing USB DAC:\n%s", out)
	}
	if !strings.Contains(out, "●") {
		t.Errorf("current device should be marked:\n%s", out)
	}
	if !strings.Contains(out, "▸") {
		t.Errorf("focused panel should show the selector:\n%s", out)
	}

	if out := d.Render(nil, nil, 40, 10, false); !strings.Contains(out, "No devices found") {
		t.Errorf("empty devices = %q", out)
	}
}

func TestQueueRender(t *testing.T) {
	q := NewQueue()

	if out := q.Render(core.Queue{}, 50, 10, false); !strings.Contains(out, "No songs in queue") {
		t.Errorf("empty queue = %q", out)
	}

	out := q.Render(core.Queue{
		{Title: "One", Channel: "A", Duration: 60},
		{Title: "Two", Duration: 90},
	}, 60, 12, false)
	for _, want := range []string{"Queue (2)", "One", "Two"} {
		if !strings.Contains(out, want) {
			t.Errorf("queue missing %q:\n%s", want, out)
		}
	}
}

func TestSplitWidth(t *testing.T) {
	tests := []struct {
		name             string
		title, label     string
		available        int
		wantTitle, wantL string
	}{
		{"fits", "Song", "Chan", 20, "Song", "Chan"},
		{"no label", "A long song title", "", 6, "", ""},
		{"both shrink", "A very long song title", "A long channel name", 24, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, label := splitWidth(tt.title, tt.label, tt.available, 8)
			if tt.wantTitle != "" && (title != tt.wantTitle || label != tt.wantL) {
				t.Errorf("splitWidth() = (%q, %q), want (%q, %q)", title, label, tt.wantTitle, tt.wantL)
			}
			if w := styles.Width(title) + styles.Width(label); w > tt.available {
				t.Errorf("splitWidth() width %d exceeds %d", w, tt.available)
			}
			if tt.label == "" && label != "" {
				t.Errorf("label = %q, want empty", label)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{59*time.Second + 900*time.Millisecond, "0:59"},
		{125 * time.Second, "2:05"},
		{75 * time.Minute, "75:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestNowPlayingRender(t *testing.T) {
	n := NewNowPlaying()

	idle := n.Render(core.NewSnapshot(), 100, "", 60, 14, false)
	if !strings.Contains(idle, "100%") {
		t.Errorf("idle panel should show the volume:\n%s", idle)
	}

	snap := core.NewSnapshot()
	snap.Current = &core.CurrentSong{
		Song:            core.Song{Title: "Song", Channel: "Chan", Duration: 125},
		CurrentProgress: 30,
		IsPlaying:       true,
	}
	snap.Progress = core.Progress{CurrentProgress: 30, Duration: 125, IsPlaying: true}

	out := n.Render(snap, 40, "*", 60, 14, true)
	for _, want := range []string{"Song", "Chan", "0:30", "2:05", "40%"} {
		if !strings.Contains(out, want) {
			t.Errorf("now playing missing %q:\n%s", want, out)
		}
	}
}
