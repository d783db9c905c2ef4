package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tessro/jukebox/internal/tui"
)

var tuiTheme string

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard stays in sync with the server's live event stream:
  • Now Playing - current song, progress, volume
  • Queue - upcoming songs
  • Devices - audio outputs on the server
  • History - recently played songs

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  /            Request a song
  Ctrl+U       Switch between search and URL (in the request box)
  Space        Play/Pause
  s            Skip
  +/-          Volume up/down
  y            Copy song URL
  o            Open song in browser
  Tab          Switch panel`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiTheme, "theme", "", "color theme: auto, dark or light")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	theme := cfg.TUI.Theme
	if tuiTheme != "" {
		theme = tuiTheme
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	return tui.Run(ctx, tui.Options{
		Jukebox:    c,
		Subscriber: newSubscriber(c),
		VolumeStep: cfg.TUI.VolumeStep,
		Theme:      theme,
		Logger:     log.Logger,
	})
}
