package cli

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/tessro/jukebox/internal/browser"
	"github.com/tessro/jukebox/internal/core"
	jerrors "github.com/tessro/jukebox/internal/errors"
)

var openCopy bool

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the current song in your browser",
	Long: `Open the source page of the song that is playing.

With --copy the link is put on the clipboard instead.`,
	Args: cobra.NoArgs,
	RunE: runOpen,
}

func init() {
	openCmd.Flags().BoolVar(&openCopy, "copy", false, "copy the URL to the clipboard instead of opening it")
	rootCmd.AddCommand(openCmd)
}

// currentSongURL returns the link of the song that is loaded.
func currentSongURL(ctx context.Context, jb core.Jukebox) (string, error) {
	current, err := jb.GetCurrentSong(ctx)
	if err != nil {
		return "", err
	}
	if current == nil {
		return "", jerrors.ErrNoSongPlaying
	}
	if current.URL == "" {
		return "", fmt.Errorf("%q has no URL", current.DisplayTitle())
	}
	return current.URL, nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	link, err := currentSongURL(ctx, c)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if openCopy {
		if err := clipboard.WriteAll(link); err != nil {
			return fmt.Errorf("failed to copy URL: %w", err)
		}
	} else if err := browser.Open(link); err != nil {
		return err
	}

	if JSONOutput() {
		return PrintJSON(out, map[string]interface{}{
			"url":    link,
			"copied": openCopy,
		})
	}
	if openCopy {
		fmt.Fprintf(out, "Copied %s\n", link)
	} else {
		fmt.Fprintf(out, "Opened %s\n", link)
	}
	return nil
}
