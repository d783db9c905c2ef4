package wizard

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/tessro/jukebox/internal/jukebox/client"
)

// Mode selects how a request is resolved by the jukebox.
type Mode string

const (
	ModeSearch Mode = "search"
	ModeURL    Mode = "url"
)

// Request is a song request entered interactively.
type Request struct {
	Mode Mode
	Text string
}

// validateRequest checks the input against the mode chosen when it runs.
func validateRequest(mode *Mode) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return errors.New("enter something to request")
		}
		if *mode == ModeURL {
			if err := client.ValidateSongURL(s); err != nil {
				return errors.New("not a valid URL")
			}
		}
		return nil
	}
}

// RequestForm builds the form that fills req.
func RequestForm(req *Request) *huh.Form {
	if req.Mode == "" {
		req.Mode = ModeSearch
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Mode]().
				Title("Request a song").
				Options(
					huh.NewOption("Search by text", ModeSearch),
					huh.NewOption("YouTube URL", ModeURL),
				).
				Value(&req.Mode),
			huh.NewInput().
				TitleFunc(func() string {
					if req.Mode == ModeURL {
						return "URL"
					}
					return "Search"
				}, &req.Mode).
				PlaceholderFunc(func() string {
					if req.Mode == ModeURL {
						return "https://www.youtube.com/watch?v=..."
					}
					return "artist, title, or a description"
				}, &req.Mode).
				Value(&req.Text).
				Validate(validateRequest(&req.Mode)),
		),
	)
}

// RunRequest shows the request form. It returns nil if the user cancels.
func RunRequest(mode Mode) (*Request, error) {
	req := &Request{Mode: mode}
	if err := RequestForm(req).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, nil
		}
		return nil, err
	}
	req.Text = strings.TrimSpace(req.Text)
	return req, nil
}
