package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/tessro/jukebox/internal/browser"
	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/jukebox/events"
	"github.com/tessro/jukebox/internal/mirror"
	"github.com/tessro/jukebox/internal/tui/components"
	"github.com/tessro/jukebox/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelQueue
	PanelDevices
	PanelHistory
	panelCount
)

const (
	requestTimeout = 30 * time.Second
	errorDuration  = 5 * time.Second
)

// App holds the TUI's connections to the jukebox.
type App struct {
	jukebox    core.Jukebox
	events     <-chan events.Event
	mirror     *mirror.Mirror
	volumeStep int
	logger     zerolog.Logger

	// Overridable for tests.
	copyText func(string) error
	openURL  func(string) error
}

// NewApp creates a TUI application. stream delivers live events and may be
// nil, in which case the dashboard shows the state fetched at startup.
func NewApp(jb core.Jukebox, stream <-chan events.Event, volumeStep int, logger zerolog.Logger) *App {
	if volumeStep <= 0 {
		volumeStep = 5
	}
	return &App{
		jukebox:    jb,
		events:     stream,
		mirror:     mirror.New(mirror.WithLogger(logger)),
		volumeStep: volumeStep,
		logger:     logger,
		copyText:   clipboard.WriteAll,
		openURL:    browser.Open,
	}
}

// Model is the main TUI model
type Model struct {
	app          *App
	width        int
	height       int
	focusedPanel Panel

	// State mirrored from the server.
	snap    core.Snapshot
	volume  int // local value, follows the server
	devices []core.AudioDevice
	device  *core.AudioDevice
	history []components.HistoryEntry

	// Components
	nowPlaying  *components.NowPlaying
	queueView   *components.Queue
	devicesView *components.Devices
	historyView *components.History
	spinner     spinner.Model

	// Overlays
	showHelp bool

	// Request state
	showRequest  bool
	requestInput textinput.Model
	urlMode      bool
	requesting   bool

	// Status line
	lastError   error
	errorExpiry time.Time
	notice      string

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(app *App) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.Playing

	snap := app.mirror.Snapshot()
	m := Model{
		app:          app,
		focusedPanel: PanelNowPlaying,
		snap:         snap,
		volume:       snap.Volume,
		nowPlaying:   components.NewNowPlaying(),
		queueView:    components.NewQueue(),
		devicesView:  components.NewDevices(),
		historyView:  components.NewHistory(),
		spinner:      sp,
		requestInput: ti,
	}
	m.setPlaceholder()
	return m
}

// Messages
type eventMsg events.Event
type streamClosedMsg struct{}
type seedMsg struct {
	current *core.CurrentSong
	queue   core.Queue
	volume  int
}
type devicesMsg struct {
	devices []core.AudioDevice
	current *core.AudioDevice
}
type requestDoneMsg struct {
	prompt string
	err    error
}
type actionDoneMsg struct {
	notice string
	err    error
}
type errMsg error

// clearErrorMsg expires the error set at the given time.
type clearErrorMsg struct {
	expiry time.Time
}

// Commands

func (m Model) waitForEvent() tea.Cmd {
	ch := m.app.events
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m Model) fetchState() tea.Cmd {
	jb := m.app.jukebox
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		current, err := jb.GetCurrentSong(ctx)
		if err != nil {
			return errMsg(err)
		}
		queue, err := jb.GetQueue(ctx)
		if err != nil {
			return errMsg(err)
		}
		volume, err := jb.GetVolume(ctx)
		if err != nil {
			return errMsg(err)
		}
		return seedMsg{current: current, queue: queue, volume: volume}
	}
}

func (m Model) fetchDevices() tea.Cmd {
	jb := m.app.jukebox
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		devices, err := jb.GetAudioDevices(ctx)
		if err != nil {
			return errMsg(err)
		}
		current, err := jb.GetCurrentAudioDevice(ctx)
		if err != nil {
			return errMsg(err)
		}
		return devicesMsg{devices: devices, current: current}
	}
}

// action runs a control call and reports its outcome.
func (m Model) action(notice string, fn func(context.Context, core.Jukebox) error) tea.Cmd {
	jb := m.app.jukebox
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return actionDoneMsg{notice: notice, err: fn(ctx, jb)}
	}
}

func (m Model) submitRequest(prompt string, urlMode bool) tea.Cmd {
	jb := m.app.jukebox
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var err error
		if urlMode {
			err = jb.RequestSongByURL(ctx, prompt)
		} else {
			err = jb.SearchAndRequestSong(ctx, prompt)
		}
		return requestDoneMsg{prompt: prompt, err: err}
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForEvent(),
		m.fetchState(),
		m.fetchDevices(),
		m.spinner.Tick,
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		m.applyEvent(events.Event(msg))
		return m, m.waitForEvent()

	case streamClosedMsg:
		m.app.logger.Debug().Msg("event stream closed")
		m.app.mirror.Apply(events.Event{Type: events.TypeStreamError})
		m.sync()
		return m, nil

	case seedMsg:
		m.clearExpiredError()
		seeded := m.app.mirror.Seed(msg.current, msg.queue, msg.volume)
		m.sync()
		if seeded && msg.current != nil && len(m.history) == 0 {
			m.history = components.AddHistory(m.history, msg.current.Song, time.Now())
		}
		return m, nil

	case devicesMsg:
		m.clearExpiredError()
		m.devices = msg.devices
		m.device = msg.current
		return m, nil

	case requestDoneMsg:
		m.requesting = false
		if msg.err != nil {
			return m, m.setError(msg.err)
		}
		m.lastError = nil
		m.requestInput.SetValue("")
		m.showRequest = false
		m.requestInput.Blur()
		m.notice = "Requested: " + msg.prompt
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			return m, m.setError(msg.err)
		}
		m.lastError = nil
		if msg.notice != "" {
			m.notice = msg.notice
		}
		return m, nil

	case errMsg:
		return m, m.setError(msg)

	case clearErrorMsg:
		if msg.expiry.Equal(m.errorExpiry) {
			m.lastError = nil
		}
		return m, nil
	}

	// Forward other messages to the text input while it is open
	if m.showRequest {
		var cmd tea.Cmd
		m.requestInput, cmd = m.requestInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) applyEvent(ev events.Event) {
	m.app.mirror.Apply(ev)
	m.sync()

	switch ev.Type {
	case events.TypeSongStarted:
		if ev.Song != nil {
			m.history = components.AddHistory(m.history, *ev.Song, ev.Received)
		}
	case events.TypeSongSkipped:
		components.MarkSkipped(m.history)
	case events.TypeStreamError:
		if ev.Err != nil {
			m.app.logger.Debug().Err(ev.Err).Msg("event stream error")
		}
	}
}

// sync refreshes the cached snapshot from the mirror.
func (m *Model) sync() {
	prevVolume := m.snap.Volume
	m.snap = m.app.mirror.Snapshot()
	if m.snap.Volume != prevVolume {
		m.volume = m.snap.Volume
	}
}

// setError shows err in the status bar and returns the command that clears
// it after errorDuration, unless a newer error replaced it by then.
func (m *Model) setError(err error) tea.Cmd {
	m.app.logger.Debug().Err(err).Msg("ui action failed")
	m.lastError = err
	m.errorExpiry = time.Now().Add(errorDuration)
	m.notice = ""

	expiry := m.errorExpiry
	return tea.Tick(errorDuration, func(time.Time) tea.Msg {
		return clearErrorMsg{expiry: expiry}
	})
}

func (m *Model) clearExpiredError() {
	if time.Now().After(m.errorExpiry) {
		m.lastError = nil
	}
}

func (m *Model) setPlaceholder() {
	if m.urlMode {
		m.requestInput.Placeholder = "Paste a YouTube URL..."
	} else {
		m.requestInput.Placeholder = "Search for a song..."
	}
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	if m.showRequest {
		return m.handleRequestKeyPress(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "/", "i":
		m.showRequest = true
		m.requestInput.Focus()
		return m, textinput.Blink

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil

	case "r":
		return m, tea.Batch(m.fetchState(), m.fetchDevices())
	}

	// Playback controls
	switch msg.String() {
	case " ", "p":
		return m, m.togglePlayback()
	case "s", "n":
		return m, m.skip()
	case "+", "=":
		return m.changeVolume(m.app.volumeStep)
	case "-", "_":
		return m.changeVolume(-m.app.volumeStep)
	case "y":
		return m, m.copyURL()
	case "o":
		return m, m.openURL()
	}

	switch m.focusedPanel {
	case PanelQueue:
		switch msg.String() {
		case "j", "down":
			m.queueView.ScrollDown()
		case "k", "up":
			m.queueView.ScrollUp()
		}
	case PanelDevices:
		switch msg.String() {
		case "j", "down":
			m.devicesView.SelectNext(len(m.devices))
		case "k", "up":
			m.devicesView.SelectPrev()
		case "enter":
			return m, m.selectDevice()
		}
	}

	return m, nil
}

func (m Model) handleRequestKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showRequest = false
		m.requestInput.Blur()
		return m, nil

	case "ctrl+u":
		m.urlMode = !m.urlMode
		m.setPlaceholder()
		return m, nil

	case "enter":
		prompt := strings.TrimSpace(m.requestInput.Value())
		if prompt == "" || m.requesting {
			return m, nil
		}
		m.requesting = true
		m.lastError = nil
		return m, m.submitRequest(prompt, m.urlMode)
	}

	if m.requesting {
		return m, nil
	}

	var cmd tea.Cmd
	m.requestInput, cmd = m.requestInput.Update(msg)
	return m, cmd
}

func (m Model) togglePlayback() tea.Cmd {
	if !m.snap.HasSong() {
		return nil
	}
	if m.snap.Progress.IsPlaying {
		return m.action("", func(ctx context.Context, jb core.Jukebox) error {
			return jb.PausePlayback(ctx)
		})
	}
	return m.action("", func(ctx context.Context, jb core.Jukebox) error {
		return jb.ResumePlayback(ctx)
	})
}

func (m Model) skip() tea.Cmd {
	if !m.snap.HasSong() {
		return nil
	}
	return m.action("", func(ctx context.Context, jb core.Jukebox) error {
		return jb.SkipSong(ctx)
	})
}

func (m Model) changeVolume(delta int) (Model, tea.Cmd) {
	target := core.ClampVolume(m.volume + delta)
	if target == m.volume {
		return m, nil
	}
	m.volume = target
	return m, m.action("", func(ctx context.Context, jb core.Jukebox) error {
		return jb.SetVolume(ctx, target)
	})
}

func (m Model) selectDevice() tea.Cmd {
	i := m.devicesView.Selected()
	if i < 0 || i >= len(m.devices) {
		return nil
	}
	device := m.devices[i]
	jb := m.app.jukebox
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := jb.SetAudioDevice(ctx, device.DeviceID); err != nil {
			return errMsg(err)
		}
		current := device
		return devicesMsg{devices: append([]core.AudioDevice(nil), m.devices...), current: &current}
	}
}

var errNoURL = errors.New("current song has no URL")

func (m Model) currentURL() (string, error) {
	if !m.snap.HasSong() || m.snap.Current.URL == "" {
		return "", errNoURL
	}
	return m.snap.Current.URL, nil
}

func (m Model) copyURL() tea.Cmd {
	url, err := m.currentURL()
	copyText := m.app.copyText
	return func() tea.Msg {
		if err != nil {
			return errMsg(err)
		}
		return actionDoneMsg{notice: "Copied " + url, err: copyText(url)}
	}
}

func (m Model) openURL() tea.Cmd {
	url, err := m.currentURL()
	open := m.app.openURL
	return func() tea.Msg {
		if err != nil {
			return errMsg(err)
		}
		return actionDoneMsg{notice: "Opened " + url, err: open(url)}
	}
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.showRequest {
		return m.renderRequest()
	}

	// Left: Now Playing (top), Queue (bottom)
	// Right: Devices (top), History (bottom)
	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 2
	bodyHeight := m.height - 2 // connection line and status bar
	topHeight := bodyHeight * 45 / 100
	bottomHeight := bodyHeight - topHeight - 2

	nowPlaying := m.nowPlaying.Render(m.snap, m.volume, m.spinner.View(), leftWidth-2, topHeight-2, m.focusedPanel == PanelNowPlaying)
	queueView := m.queueView.Render(m.snap.Queue, leftWidth-2, bottomHeight-2, m.focusedPanel == PanelQueue)
	devicesView := m.devicesView.Render(m.devices, m.device, rightWidth-2, topHeight-2, m.focusedPanel == PanelDevices)
	historyView := m.historyView.Render(m.history, rightWidth-2, bottomHeight-2, m.focusedPanel == PanelHistory)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, queueView)
	rightCol := lipgloss.JoinVertical(lipgloss.Left, devicesView, historyView)
	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)

	header := lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Render(styles.Connection(m.snap.Connected))

	return lipgloss.JoinVertical(lipgloss.Left, header, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	text, style := "q:quit  ?:help  /:request  space:play/pause  s:skip  +/-:volume  tab:switch panel", styles.Dim
	switch {
	case m.lastError != nil:
		text, style = "Error: "+m.lastError.Error(), styles.ErrorText
	case m.notice != "":
		text, style = m.notice, styles.SuccessText
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(style.Render(styles.Truncate(text, m.width-2)))
}

func (m Model) renderHelp() string {
	title := "Jukebox - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  /, i         Request a song
  Tab          Next panel
  Shift+Tab    Previous panel
  r            Refresh

  Playback
  ────────
  Space        Play/Pause
  s, n         Skip
  +/=          Volume up
  -            Volume down
  y            Copy song URL
  o            Open song in browser

  Request
  ───────
  Enter        Submit
  Ctrl+U       Toggle search/URL mode
  Esc          Close

  Devices Panel
  ─────────────
  j/↓          Select next
  k/↑          Select previous
  Enter        Play through device

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

func (m Model) renderRequest() string {
	var b strings.Builder

	heading := "Search"
	toggle := "Have a YouTube URL? (Ctrl+U)"
	if m.urlMode {
		heading = "Request by URL"
		toggle = "Search by text? (Ctrl+U)"
	}

	b.WriteString(styles.Highlight.Render(heading))
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render(toggle))
	b.WriteString("\n\n")
	b.WriteString(m.requestInput.View())
	b.WriteString("\n\n")

	switch {
	case m.requesting:
		b.WriteString(styles.Muted.Render("Requesting..."))
	case m.lastError != nil:
		b.WriteString(styles.ErrorText.Render("Failed to request song: " + m.lastError.Error()))
	default:
		b.WriteString(styles.Dim.Render("Enter:request  Esc:close"))
	}

	content := lipgloss.NewStyle().
		Width(60).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.FocusedBorder.Render(content))
}

// Options configures Run.
type Options struct {
	Jukebox    core.Jukebox
	Subscriber *events.Subscriber
	VolumeStep int
	Theme      string
	Logger     zerolog.Logger
}

// Run starts the subscriber and the TUI, returning when the user quits.
func Run(ctx context.Context, opts Options) error {
	styles.SetTheme(opts.Theme)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var stream <-chan events.Event
	if opts.Subscriber != nil {
		stream = opts.Subscriber.Events()
		go func() {
			if err := opts.Subscriber.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				opts.Logger.Error().Err(err).Msg("event subscriber stopped")
			}
		}()
		defer opts.Subscriber.Stop()
	}

	app := NewApp(opts.Jukebox, stream, opts.VolumeStep, opts.Logger)
	p := tea.NewProgram(NewModel(app), tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
