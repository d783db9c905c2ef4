package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrServerUnreachable = errors.New("jukebox server unreachable")
	ErrNoSongPlaying     = errors.New("no song playing")
	ErrDeviceNotFound    = errors.New("audio device not found")
	ErrEmptyRequest      = errors.New("request is empty")
	ErrInvalidURL        = errors.New("invalid song url")
	ErrRequestFailed     = errors.New("song request failed")
	ErrTimeout           = errors.New("request timeout")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrStreamClosed      = errors.New("event stream closed")
)

// JukeboxError wraps an error with a user-friendly suggestion.
type JukeboxError struct {
	Err        error
	Suggestion string
}

func (e *JukeboxError) Error() string {
	return e.Err.Error()
}

func (e *JukeboxError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &JukeboxError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var jbErr *JukeboxError
	if errors.As(err, &jbErr) && jbErr.Suggestion != "" {
		return jbErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrServerUnreachable) || strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return "Check that the jukebox server is running, or point --server / JUKEBOX_API_BASE_URL at it"
	}

	if errors.Is(err, ErrNoSongPlaying) {
		return "Request a song with 'jukebox request <search terms>'"
	}

	if errors.Is(err, ErrDeviceNotFound) {
		return "Run 'jukebox devices' to see available audio devices"
	}

	if errors.Is(err, ErrEmptyRequest) {
		return "Pass search terms, or --url with a video URL"
	}

	if errors.Is(err, ErrInvalidURL) {
		return "Use a full http(s) URL, e.g. https://www.youtube.com/watch?v=..."
	}

	if errors.Is(err, ErrTimeout) || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return "The server is slow to respond. Try again or raise api.timeout"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) {
		return "Run 'jukebox config init' to create a configuration file"
	}

	if strings.Contains(errStr, "status 5") || strings.Contains(errStr, "server error") {
		return "The jukebox server reported an error. Check its logs"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// Err joins the collected errors, or returns nil.
func (p *PartialResult[T]) Err() error {
	return errors.Join(p.Errors...)
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
