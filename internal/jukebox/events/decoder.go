package events

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"
	"time"
)

// Message is one dispatched server-sent event before payload decoding.
type Message struct {
	Event string
	Data  string
	ID    string
}

// Decoder reads server-sent events from a text/event-stream body.
type Decoder struct {
	r       *bufio.Reader
	lastID  string
	retry   time.Duration
	started bool
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// LastEventID returns the most recent id field seen on the stream.
func (d *Decoder) LastEventID() string {
	return d.lastID
}

// Retry returns the reconnect delay requested by the server, or zero.
func (d *Decoder) Retry() time.Duration {
	return d.retry
}

// Next blocks until a complete event is dispatched. It returns io.EOF when
// the stream ends; an event not terminated by a blank line is discarded.
func (d *Decoder) Next() (Message, error) {
	var (
		eventType string
		data      strings.Builder
		hasData   bool
	)

	for {
		line, err := d.readLine()
		if err != nil {
			return Message{}, err
		}
		if !d.started {
			line = strings.TrimPrefix(line, "\ufeff")
			d.started = true
		}

		if line == "" {
			if !hasData {
				eventType = ""
				continue
			}
			if eventType == "" {
				eventType = "message"
			}
			return Message{
				Event: eventType,
				Data:  strings.TrimSuffix(data.String(), "\n"),
				ID:    d.lastID,
			}, nil
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, found := strings.Cut(line, ":")
		if found {
			value = strings.TrimPrefix(value, " ")
		}

		switch field {
		case "event":
			eventType = value
		case "data":
			data.WriteString(value)
			data.WriteByte('\n')
			hasData = true
		case "id":
			if !strings.ContainsRune(value, 0) {
				d.lastID = value
			}
		case "retry":
			if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
				d.retry = time.Duration(ms) * time.Millisecond
			}
		}
	}
}

// readLine returns one line without its terminator. CRLF, LF and CR all end
// a line.
func (d *Decoder) readLine() (string, error) {
	var buf bytes.Buffer
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			if err == io.EOF && buf.Len() > 0 {
				// Unterminated final line: the event it belongs to can
				// never be dispatched.
				return "", io.EOF
			}
			return "", err
		}
		switch b {
		case '\n':
			return buf.String(), nil
		case '\r':
			if next, err := d.r.Peek(1); err == nil && next[0] == '\n' {
				_, _ = d.r.ReadByte()
			}
			return buf.String(), nil
		default:
			buf.WriteByte(b)
		}
	}
}
