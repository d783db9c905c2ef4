package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	jerrors "github.com/tessro/jukebox/internal/errors"
	"github.com/tessro/jukebox/internal/jukebox/client"
	"github.com/tessro/jukebox/internal/wizard"
)

var (
	requestURL    bool
	requestSearch bool
)

var requestCmd = &cobra.Command{
	Use:     "request [prompt...]",
	Aliases: []string{"add", "r"},
	Short:   "Request a song by search or URL",
	Long: `Ask the jukebox to find a song and queue it.

The words are sent as a search prompt. A single argument that is an http(s)
URL is requested directly; --url and --search force either mode.
Without arguments on a terminal, an interactive form is shown.

Examples:
  jukebox request daft punk around the world
  jukebox request https://www.youtube.com/watch?v=dQw4w9WgXcQ
  jukebox request --url https://youtu.be/dQw4w9WgXcQ`,
	RunE: runRequest,
}

func init() {
	requestCmd.Flags().BoolVarP(&requestURL, "url", "u", false, "Treat the argument as a song URL")
	requestCmd.Flags().BoolVar(&requestSearch, "search", false, "Treat the arguments as a search prompt")
	requestCmd.MarkFlagsMutuallyExclusive("url", "search")
	rootCmd.AddCommand(requestCmd)
}

// resolveRequest decides the request mode and text from the arguments.
func resolveRequest(args []string, forceURL, forceSearch bool) (wizard.Request, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return wizard.Request{}, jerrors.ErrEmptyRequest
	}

	switch {
	case forceURL:
		if len(args) > 1 {
			return wizard.Request{}, fmt.Errorf("%w: expected one URL, got %d arguments", jerrors.ErrInvalidURL, len(args))
		}
		return wizard.Request{Mode: wizard.ModeURL, Text: text}, nil
	case forceSearch:
		return wizard.Request{Mode: wizard.ModeSearch, Text: text}, nil
	case client.LooksLikeURL(text):
		return wizard.Request{Mode: wizard.ModeURL, Text: text}, nil
	}
	return wizard.Request{Mode: wizard.ModeSearch, Text: text}, nil
}

func runRequest(cmd *cobra.Command, args []string) error {
	var req wizard.Request
	if wizard.NeedsPrompt(args) {
		mode := wizard.ModeSearch
		if requestURL {
			mode = wizard.ModeURL
		}
		interactive := wizard.NewInteractive()
		interactive.SetEnabled(!JSONOutput())
		prompted, err := interactive.PromptRequest(mode)
		if err != nil {
			return err
		}
		if prompted == nil {
			if interactive.CanInteract() {
				return nil // cancelled
			}
			return jerrors.ErrEmptyRequest
		}
		req = *prompted
	} else {
		var err error
		req, err = resolveRequest(args, requestURL, requestSearch)
		if err != nil {
			return err
		}
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := newClient()
	if err != nil {
		return err
	}

	if req.Mode == wizard.ModeURL {
		err = c.RequestSongByURL(ctx, req.Text)
	} else {
		err = c.SearchAndRequestSong(ctx, req.Text)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return PrintJSON(out, map[string]string{
			"status": "requested",
			"mode":   string(req.Mode),
			"query":  req.Text,
		})
	}

	if req.Mode == wizard.ModeURL {
		fmt.Fprintf(out, "🎵 Requested %s\n", req.Text)
	} else {
		fmt.Fprintf(out, "🔎 Requested a search for %q\n", req.Text)
	}
	return nil
}
