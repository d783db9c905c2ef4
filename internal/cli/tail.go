package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/jukebox/events"
	"github.com/tessro/jukebox/internal/mirror"
	"github.com/tessro/jukebox/internal/tail"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
	tailPoll      bool
	tailInterval  time.Duration
	tailNotify    bool
	tailProgress  bool
)

var tailCmd = &cobra.Command{
	Use:     "tail",
	Aliases: []string{"follow"},
	Short:   "Follow jukebox events in real-time",
	Long: `Print jukebox events as they happen.

Events are read from the server's live event stream. With --poll the state
is polled instead and changes are worked out locally.

Events tracked:
  - Song started, finished or skipped
  - Pause/Resume
  - Queue changes
  - Volume changes
  - Connection changes

Template fields for --format:
  .Type .Emoji .Time .Title .Channel .URL .Elapsed .Duration .Volume .Queue
  .Playing .Connected`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")
	tailCmd.Flags().BoolVar(&tailPoll, "poll", false, "poll the API instead of using the event stream")
	tailCmd.Flags().DurationVarP(&tailInterval, "interval", "i", 0, "poll interval (default from config)")
	tailCmd.Flags().BoolVar(&tailNotify, "notify", false, "show a desktop notification when a song starts")
	tailCmd.Flags().BoolVar(&tailProgress, "progress", false, "print playback progress ticks")

	rootCmd.AddCommand(tailCmd)
}

// tailEvent is the JSON line written per event in --json mode.
type tailEvent struct {
	Type  events.Type   `json:"type"`
	Time  time.Time     `json:"time"`
	Error string        `json:"error,omitempty"`
	State core.Snapshot `json:"state"`
}

func newFormatter(cmd *cobra.Command) (*tail.Formatter, error) {
	emoji := cfg.Tail.Emoji
	if cmd.Flags().Changed("no-emoji") {
		emoji = !tailNoEmoji
	}
	timestamp := cfg.Tail.Timestamp || tailTimestamp

	opts := []tail.FormatterOption{
		tail.WithEmoji(emoji),
		tail.WithTimestamp(timestamp),
	}
	if tailFormat != "" {
		tmpl, err := tail.ParseTemplate(tailFormat)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tail.WithTemplate(tmpl))
	}
	return tail.NewFormatter(opts...), nil
}

func runTail(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter(cmd)
	if err != nil {
		return err
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	var notifier *tail.Notifier
	if cfg.Tail.Notify || tailNotify {
		notifier = tail.NewNotifier()
	}

	out := cmd.OutOrStdout()
	emit := func(e tail.Event) {
		if JSONOutput() {
			line := tailEvent{Type: e.Type, Time: e.Timestamp, State: e.Current}
			if e.Err != nil {
				line.Error = e.Err.Error()
			}
			_ = PrintJSON(out, line)
		} else {
			fmt.Fprintln(out, formatter.Format(e))
		}
		if notifier != nil {
			if err := notifier.Handle(e); err != nil {
				log.Debug().Err(err).Msg("desktop notification failed")
			}
		}
	}

	if tailPoll {
		interval := cfg.Tail.PollInterval()
		if tailInterval > 0 {
			interval = tailInterval
		}
		return tailPolling(ctx, c, interval, emit)
	}
	return tailStream(ctx, c, newSubscriber(c), emit)
}

// tailStream prints the live event stream, starting with the current song.
func tailStream(ctx context.Context, jb core.Jukebox, sub *events.Subscriber, emit func(tail.Event)) error {
	m := mirror.New(mirror.WithLogger(log.Logger))
	follower := tail.NewFollower(m, tailProgress)

	if current := seedMirror(ctx, jb, m); current != nil {
		emit(tail.Event{
			Type:      events.TypeSongStarted,
			Timestamp: time.Now(),
			Previous:  core.NewSnapshot(),
			Current:   m.Snapshot(),
		})
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- sub.Start(ctx)
	}()

	for ev := range sub.Events() {
		if e, ok := follower.Translate(ev); ok {
			emit(e)
		}
	}

	return quietCancel(<-errCh)
}

// seedMirror loads the current song, queue and volume into m so the first
// events are compared against the real state. Failed fetches are logged and
// leave that part at its initial value. It returns the current song, if any.
func seedMirror(ctx context.Context, jb core.Jukebox, m *mirror.Mirror) *core.CurrentSong {
	current, err := jb.GetCurrentSong(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not fetch current song")
		current = nil
	}
	queue, err := jb.GetQueue(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not fetch queue")
		queue = nil
	}
	volume, err := jb.GetVolume(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not fetch volume")
		volume = core.DefaultVolume
	}
	m.Seed(current, queue, volume)
	return current
}

// tailPolling prints changes found by polling the API.
func tailPolling(ctx context.Context, jb core.Jukebox, interval time.Duration, emit func(tail.Event)) error {
	watcher := tail.NewWatcher(jb, interval, log.Logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	for e := range watcher.Events() {
		emit(e)
	}

	return quietCancel(<-errCh)
}

func quietCancel(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
