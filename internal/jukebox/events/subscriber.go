package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	jerrors "github.com/tessro/jukebox/internal/errors"
)

// DefaultReconnectDelay is how long the subscriber waits before reconnecting.
const DefaultReconnectDelay = 3 * time.Second

// Subscriber keeps a connection to the event stream open, reconnecting after
// failures, and publishes decoded events.
type Subscriber struct {
	url        string
	httpClient *http.Client
	delay      time.Duration
	logger     zerolog.Logger
	events     chan Event
	done       chan struct{}
	stopOnce   sync.Once
	lastID     string
}

// Option configures a Subscriber.
type Option func(*Subscriber)

// WithReconnectDelay sets the wait between connection attempts.
func WithReconnectDelay(d time.Duration) Option {
	return func(s *Subscriber) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithHTTPClient sets the HTTP client. It must not have an overall timeout,
// since the stream stays open indefinitely.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Subscriber) {
		if hc != nil {
			s.httpClient = hc
		}
	}
}

// WithLogger sets the logger for connection diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Subscriber) {
		s.logger = l
	}
}

// WithBuffer sets the size of the events channel.
func WithBuffer(n int) Option {
	return func(s *Subscriber) {
		if n >= 0 {
			s.events = make(chan Event, n)
		}
	}
}

// NewSubscriber creates a subscriber for the stream at url.
func NewSubscriber(url string, opts ...Option) *Subscriber {
	s := &Subscriber{
		url:        url,
		httpClient: &http.Client{},
		delay:      DefaultReconnectDelay,
		logger:     zerolog.Nop(),
		events:     make(chan Event, 64),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events returns the channel of stream events. It is closed when Start returns.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Start connects and keeps reconnecting until ctx is cancelled or Stop is
// called.
func (s *Subscriber) Start(ctx context.Context) error {
	defer close(s.events)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		err := s.stream(ctx)
		if ctx.Err() != nil {
			if isStopped(s.done) {
				return nil
			}
			return ctx.Err()
		}

		s.logger.Warn().Err(err).Dur("retry_in", s.delay).Msg("event stream disconnected")
		if !s.emit(ctx, Event{Type: TypeStreamError, Err: err, Received: time.Now()}) {
			continue
		}

		select {
		case <-ctx.Done():
			continue
		case <-time.After(s.delay):
			s.logger.Debug().Str("url", s.url).Msg("reconnecting to event stream")
		}
	}
}

// Stop ends the subscription.
func (s *Subscriber) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func isStopped(done chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}

// stream runs one connection until it fails.
func (s *Subscriber) stream(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if s.lastID != "" {
		req.Header.Set("Last-Event-ID", s.lastID)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", jerrors.ErrServerUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("event stream: unexpected status %d", resp.StatusCode)
	}
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "text/event-stream" {
		return fmt.Errorf("event stream: unexpected content type %q", resp.Header.Get("Content-Type"))
	}

	s.logger.Info().Str("url", s.url).Msg("event stream opened")
	if !s.emit(ctx, Event{Type: TypeStreamOpen, Received: time.Now()}) {
		return ctx.Err()
	}

	dec := NewDecoder(resp.Body)
	for {
		msg, err := dec.Next()
		if retry := dec.Retry(); retry > 0 {
			s.delay = retry
		}
		if id := dec.LastEventID(); id != "" {
			s.lastID = id
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return jerrors.ErrStreamClosed
			}
			return fmt.Errorf("read event stream: %w", err)
		}

		ev, err := Decode(msg)
		if err != nil {
			s.logger.Warn().Err(err).Str("event", msg.Event).Msg("dropping malformed event")
			continue
		}
		if !ev.Type.Known() {
			s.logger.Debug().Str("event", msg.Event).Msg("unknown event")
		}
		if !s.emit(ctx, ev) {
			return ctx.Err()
		}
	}
}

// emit delivers an event unless ctx ends first.
func (s *Subscriber) emit(ctx context.Context, ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
