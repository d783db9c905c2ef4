package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/jukebox/events"
)

type fakeJukebox struct {
	mu       sync.Mutex
	calls    []string
	volume   int
	current  *core.CurrentSong
	queue    core.Queue
	devices  []core.AudioDevice
	device   *core.AudioDevice
	setID    *string
	failWith error
}

func (f *fakeJukebox) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.failWith
}

func (f *fakeJukebox) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeJukebox) SearchAndRequestSong(_ context.Context, prompt string) error {
	return f.record("search:" + prompt)
}

func (f *fakeJukebox) RequestSongByURL(_ context.Context, url string) error {
	return f.record("url:" + url)
}

func (f *fakeJukebox) GetQueue(context.Context) (core.Queue, error) {
	return f.queue, f.record("queue")
}

func (f *fakeJukebox) GetCurrentSong(context.Context) (*core.CurrentSong, error) {
	return f.current, f.record("current")
}

func (f *fakeJukebox) GetVolume(context.Context) (int, error) {
	return f.volume, f.record("volume")
}

func (f *fakeJukebox) PausePlayback(context.Context) error  { return f.record("pause") }
func (f *fakeJukebox) ResumePlayback(context.Context) error { return f.record("resume") }
func (f *fakeJukebox) SkipSong(context.Context) error       { return f.record("skip") }

func (f *fakeJukebox) SetVolume(_ context.Context, v int) error {
	f.mu.Lock()
	f.volume = v
	f.mu.Unlock()
	return f.record("set_volume")
}

func (f *fakeJukebox) GetAudioDevices(context.Context) ([]core.AudioDevice, error) {
	return f.devices, f.record("devices")
}

func (f *fakeJukebox) GetCurrentAudioDevice(context.Context) (*core.AudioDevice, error) {
	return f.device, f.record("device")
}

func (f *fakeJukebox) SetAudioDevice(_ context.Context, id *string) error {
	f.mu.Lock()
	f.setID = id
	f.mu.Unlock()
	return f.record("set_device")
}

func newTestModel(jb *fakeJukebox) Model {
	app := NewApp(jb, nil, 5, zerolog.Nop())
	m := NewModel(app)
	m.width, m.height = 120, 40
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// update feeds msg to m and runs the resulting command, feeding its message
// back in once.
func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, ok := out.(tea.BatchMsg); !ok {
				next, _ = m.Update(out)
				m = next.(Model)
			}
		}
	}
	return m
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func startSong(m Model) Model {
	return send(m, eventMsg(events.Event{
		Type:     events.TypeSongStarted,
		Song:     &core.Song{Title: "Song", Channel: "Chan", Duration: 120, URL: "https://youtu.be/x"},
		Received: time.Now(),
	}))
}

func TestControlsDisabledWithoutSong(t *testing.T) {
	jb := &fakeJukebox{}
	m := newTestModel(jb)

	for _, k := range []string{" ", "s", "n"} {
		if _, cmd := m.Update(key(k)); cmd != nil {
			t.Errorf("key %q returned a command without a song", k)
		}
	}
}

func TestTogglePlayback(t *testing.T) {
	jb := &fakeJukebox{}
	m := startSong(newTestModel(jb))

	m = update(t, m, key(" "))
	m = send(m, eventMsg(events.Event{Type: events.TypePlaybackPaused}))
	m = update(t, m, key(" "))
	m = update(t, m, key("s"))

	want := []string{"pause", "resume", "skip"}
	if got := jb.called(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestVolumeKeys(t *testing.T) {
	jb := &fakeJukebox{}
	m := newTestModel(jb)
	m = send(m, eventMsg(events.Event{Type: events.TypeVolumeChanged, Volume: 97}))
	if m.volume != 97 {
		t.Fatalf("volume = %d, want 97 from server", m.volume)
	}

	m = update(t, m, key("+"))
	if m.volume != 100 || jb.volume != 100 {
		t.Errorf("volume = %d (server %d), want clamped 100", m.volume, jb.volume)
	}

	// Already at the top: no call.
	if _, cmd := m.Update(key("+")); cmd != nil {
		t.Error("volume up at 100 issued a request")
	}

	m = update(t, m, key("-"))
	if m.volume != 95 {
		t.Errorf("volume = %d, want 95", m.volume)
	}
}

func TestRequestFlow(t *testing.T) {
	jb := &fakeJukebox{}
	m := newTestModel(jb)

	m = send(m, key("/"))
	if !m.showRequest {
		t.Fatal("request overlay not shown")
	}

	// Empty submissions do nothing.
	if _, cmd := m.Update(key("enter")); cmd != nil {
		t.Error("empty request issued a command")
	}

	m.requestInput.SetValue("  lofi beats  ")
	next, cmd := m.Update(key("enter"))
	m = next.(Model)
	if !m.requesting {
		t.Error("requesting flag not set")
	}
	if !strings.Contains(m.View(), "Requesting...") {
		t.Error("view does not show Requesting...")
	}
	m = send(m, cmd())

	if got := jb.called(); len(got) != 1 || got[0] != "search:lofi beats" {
		t.Errorf("calls = %v", got)
	}
	if m.requesting || m.showRequest || m.requestInput.Value() != "" {
		t.Errorf("after success: requesting=%v show=%v value=%q", m.requesting, m.showRequest, m.requestInput.Value())
	}
}

func TestRequestURLModeAndFailure(t *testing.T) {
	jb := &fakeJukebox{failWith: errors.New("bad url")}
	m := newTestModel(jb)

	m = send(m, key("i"))
	m = send(m, key("ctrl+u"))
	if !m.urlMode {
		t.Fatal("ctrl+u did not switch to URL mode")
	}

	m.requestInput.SetValue("https://youtu.be/abc")
	m = update(t, m, key("enter"))

	if got := jb.called(); len(got) != 1 || got[0] != "url:https://youtu.be/abc" {
		t.Errorf("calls = %v", got)
	}
	if m.lastError == nil {
		t.Error("error not recorded")
	}
	if m.requestInput.Value() != "https://youtu.be/abc" {
		t.Error("input cleared after failure")
	}
	if !strings.Contains(m.View(), "Failed to request song") {
		t.Error("failure not shown")
	}
}

func TestEventsUpdateState(t *testing.T) {
	m := newTestModel(&fakeJukebox{})

	m = send(m, eventMsg(events.Event{Type: events.TypeConnected}))
	m = startSong(m)
	m = send(m, eventMsg(events.Event{Type: events.TypeQueueUpdated, Queue: core.Queue{{Title: "Next Up"}}}))

	if !m.snap.Connected || !m.snap.HasSong() || m.snap.Queue.Len() != 1 {
		t.Fatalf("snapshot = %+v", m.snap)
	}
	if len(m.history) != 1 || m.history[0].Song.Title != "Song" {
		t.Errorf("history = %+v", m.history)
	}

	view := m.View()
	for _, want := range []string{"Connected to server", "Queue (1)", "Next Up", "Song"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = send(m, eventMsg(events.Event{Type: events.TypeSongSkipped}))
	if m.snap.HasSong() || !m.history[0].Skipped {
		t.Errorf("after skip: song=%v history=%+v", m.snap.HasSong(), m.history)
	}

	m = send(m, streamClosedMsg{})
	if m.snap.Connected {
		t.Error("still connected after stream closed")
	}
}

func TestSeed(t *testing.T) {
	jb := &fakeJukebox{
		current: &core.CurrentSong{Song: core.Song{Title: "Seeded"}, IsPlaying: true},
		queue:   core.Queue{{Title: "a"}, {Title: "b"}},
		volume:  40,
	}
	m := newTestModel(jb)
	m = send(m, m.fetchState()())

	if !m.snap.HasSong() || m.snap.Queue.Len() != 2 || m.volume != 40 {
		t.Errorf("after seed: %+v volume %d", m.snap, m.volume)
	}
}

func TestSeedAfterStreamEventKeepsNewSong(t *testing.T) {
	jb := &fakeJukebox{
		current: &core.CurrentSong{Song: core.Song{Title: "A", Duration: 180}, CurrentProgress: 170, IsPlaying: true},
		volume:  40,
	}
	m := newTestModel(jb)
	seed := m.fetchState()()

	m = send(m, eventMsg(events.Event{
		Type:     events.TypeSongStarted,
		Song:     &core.Song{Title: "B", Duration: 200},
		Received: time.Now(),
	}))
	m = send(m, seed)
	m = send(m, eventMsg(events.Event{
		Type:     events.TypePlaybackProgress,
		Progress: &core.Progress{CurrentProgress: 150, Duration: 200, IsPlaying: true},
	}))

	if m.snap.Current == nil || m.snap.Current.Title != "B" {
		t.Fatalf("current = %+v, want B", m.snap.Current)
	}
	if m.snap.Progress.CurrentProgress != 150 {
		t.Errorf("progress = %+v", m.snap.Progress)
	}
	if m.volume != 40 {
		t.Errorf("volume = %d, want seeded 40", m.volume)
	}
	if len(m.history) != 1 || m.history[0].Song.Title != "B" {
		t.Errorf("history = %+v, want only B", m.history)
	}
}

func TestErrorClears(t *testing.T) {
	m := newTestModel(&fakeJukebox{})

	next, cmd := m.Update(actionDoneMsg{err: errors.New("skip failed")})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("error should schedule its expiry")
	}
	if !strings.Contains(m.renderStatusBar(), "skip failed") {
		t.Fatalf("status bar = %q", m.renderStatusBar())
	}

	m = send(m, actionDoneMsg{notice: "Volume 55"})
	bar := m.renderStatusBar()
	if strings.Contains(bar, "skip failed") || !strings.Contains(bar, "Volume 55") {
		t.Errorf("status bar after success = %q", bar)
	}

	first := clearErrorMsg{expiry: m.errorExpiry}
	m = send(m, errMsg(errors.New("copy failed")))
	m.errorExpiry = m.errorExpiry.Add(time.Second)
	m = send(m, first)
	if m.lastError == nil {
		t.Error("an older expiry cleared a newer error")
	}
	m = send(m, clearErrorMsg{expiry: m.errorExpiry})
	if m.lastError != nil {
		t.Errorf("lastError = %v after expiry", m.lastError)
	}
	if strings.Contains(m.renderStatusBar(), "copy failed") {
		t.Errorf("status bar = %q", m.renderStatusBar())
	}
}

func TestDeviceSelection(t *testing.T) {
	speakers := "speakers"
	jb := &fakeJukebox{
		devices: []core.AudioDevice{
			{Description: "System default"},
			{DeviceID: &speakers, Description: "Speakers"},
		},
		device: &core.AudioDevice{Description: "System default"},
	}
	m := newTestModel(jb)
	m = send(m, m.fetchDevices()())
	if len(m.devices) != 2 {
		t.Fatalf("devices = %+v", m.devices)
	}

	m.focusedPanel = PanelDevices
	m = send(m, key("j"))
	m = send(m, key("j")) // stays on the last device
	m = update(t, m, key("enter"))

	if jb.setID == nil || *jb.setID != "speakers" {
		t.Errorf("SetAudioDevice id = %v, want speakers", jb.setID)
	}
	if m.device == nil || m.device.ID() != "speakers" {
		t.Errorf("current device = %+v", m.device)
	}
}

func TestCopyAndOpenURL(t *testing.T) {
	m := newTestModel(&fakeJukebox{})
	var copied, opened string
	m.app.copyText = func(s string) error { copied = s; return nil }
	m.app.openURL = func(s string) error { opened = s; return nil }

	m = update(t, m, key("y"))
	if m.lastError == nil || copied != "" {
		t.Error("copy without a song should fail")
	}

	m = startSong(m)
	m = update(t, m, key("y"))
	m = update(t, m, key("o"))
	if copied != "https://youtu.be/x" || opened != "https://youtu.be/x" {
		t.Errorf("copied=%q opened=%q", copied, opened)
	}
}

func TestPanelsAndHelp(t *testing.T) {
	m := newTestModel(&fakeJukebox{})

	for i := 0; i < int(panelCount); i++ {
		m = send(m, key("tab"))
	}
	if m.focusedPanel != PanelNowPlaying {
		t.Errorf("focus after full cycle = %d", m.focusedPanel)
	}

	m = send(m, key("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help not rendered")
	}
	m = send(m, key("esc"))
	if m.showHelp {
		t.Error("help still open")
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
