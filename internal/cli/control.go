package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tessro/jukebox/internal/core"
	jerrors "github.com/tessro/jukebox/internal/errors"
)

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause playback",
	Long:  `Pause the current song.`,
	Args:  cobra.NoArgs,
	RunE:  runPause,
}

var resumeCmd = &cobra.Command{
	Use:     "resume",
	Aliases: []string{"play"},
	Short:   "Resume playback",
	Long:    `Resume the paused song.`,
	Args:    cobra.NoArgs,
	RunE:    runResume,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle play/pause",
	Long:  `Pause if playing, resume if paused.`,
	Args:  cobra.NoArgs,
	RunE:  runToggle,
}

var skipCmd = &cobra.Command{
	Use:     "skip",
	Aliases: []string{"next"},
	Short:   "Skip the current song",
	Long:    `Skip to the next song in the queue.`,
	Args:    cobra.NoArgs,
	RunE:    runSkip,
}

var (
	volumeUp   bool
	volumeDown bool
	volumeStep int
)

var volumeCmd = &cobra.Command{
	Use:     "volume [level]",
	Aliases: []string{"vol"},
	Short:   "Show, set or adjust volume",
	Long: `Show the volume, set it (0-100) or adjust it up/down.

Examples:
  jukebox volume          # Show the volume
  jukebox volume 50       # Set volume to 50%
  jukebox volume --up     # Increase volume by the step (default 10)
  jukebox volume --down   # Decrease volume by the step`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVolume,
}

func init() {
	volumeCmd.Flags().BoolVar(&volumeUp, "up", false, "Increase volume by --step")
	volumeCmd.Flags().BoolVar(&volumeDown, "down", false, "Decrease volume by --step")
	volumeCmd.Flags().IntVar(&volumeStep, "step", 10, "Step for --up/--down")
	volumeCmd.MarkFlagsMutuallyExclusive("up", "down")

	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(skipCmd)
	rootCmd.AddCommand(volumeCmd)
}

// control runs a playback call and reports the outcome.
func control(cmd *cobra.Command, status, message string, fn func(context.Context, core.Jukebox) error) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := newClient()
	if err != nil {
		return err
	}

	if err := fn(ctx, c); err != nil {
		return err
	}

	if JSONOutput() {
		return PrintJSON(cmd.OutOrStdout(), map[string]string{"status": status})
	}
	fmt.Fprintln(cmd.OutOrStdout(), message)
	return nil
}

func runPause(cmd *cobra.Command, args []string) error {
	return control(cmd, "paused", "⏸ Paused", func(ctx context.Context, jb core.Jukebox) error {
		if err := jb.PausePlayback(ctx); err != nil {
			return fmt.Errorf("failed to pause: %w", err)
		}
		return nil
	})
}

func runResume(cmd *cobra.Command, args []string) error {
	return control(cmd, "playing", "▶ Resumed", func(ctx context.Context, jb core.Jukebox) error {
		if err := jb.ResumePlayback(ctx); err != nil {
			return fmt.Errorf("failed to resume: %w", err)
		}
		return nil
	})
}

func runSkip(cmd *cobra.Command, args []string) error {
	return control(cmd, "skipped", "⏭ Skipped", func(ctx context.Context, jb core.Jukebox) error {
		if err := jb.SkipSong(ctx); err != nil {
			return fmt.Errorf("failed to skip: %w", err)
		}
		return nil
	})
}

func runToggle(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := newClient()
	if err != nil {
		return err
	}

	status, err := toggle(ctx, c)
	if err != nil {
		return err
	}

	if JSONOutput() {
		return PrintJSON(cmd.OutOrStdout(), map[string]string{"status": status})
	}
	if status == "paused" {
		fmt.Fprintln(cmd.OutOrStdout(), "⏸ Paused")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "▶ Resumed")
	}
	return nil
}

// toggle pauses or resumes based on the current song and returns the new
// status.
func toggle(ctx context.Context, jb core.Jukebox) (string, error) {
	current, err := jb.GetCurrentSong(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get current song: %w", err)
	}
	if current == nil {
		return "", jerrors.ErrNoSongPlaying
	}
	if current.IsPlaying {
		if err := jb.PausePlayback(ctx); err != nil {
			return "", fmt.Errorf("failed to pause: %w", err)
		}
		return "paused", nil
	}
	if err := jb.ResumePlayback(ctx); err != nil {
		return "", fmt.Errorf("failed to resume: %w", err)
	}
	return "playing", nil
}

// volumeTarget works out the requested volume. ok is false when the command
// only shows the volume.
func volumeTarget(args []string, current int, up, down bool, step int) (target int, ok bool, err error) {
	switch {
	case len(args) > 0:
		if up || down {
			return 0, false, fmt.Errorf("give either a level or --up/--down, not both")
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, false, fmt.Errorf("invalid volume level: %s", args[0])
		}
		if v < 0 || v > 100 {
			return 0, false, fmt.Errorf("volume must be between 0 and 100")
		}
		return v, true, nil
	case up:
		return core.ClampVolume(current + step), true, nil
	case down:
		return core.ClampVolume(current - step), true, nil
	}
	return current, false, nil
}

func runVolume(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := newClient()
	if err != nil {
		return err
	}

	current, err := c.GetVolume(ctx)
	if err != nil {
		return fmt.Errorf("failed to get volume: %w", err)
	}

	target, ok, err := volumeTarget(args, current, volumeUp, volumeDown, volumeStep)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !ok {
		if JSONOutput() {
			return PrintJSON(out, map[string]int{"volume": current})
		}
		fmt.Fprintf(out, "🔊 Volume: %d%%\n", current)
		return nil
	}

	if err := c.SetVolume(ctx, target); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}

	if JSONOutput() {
		return PrintJSON(out, map[string]int{"volume": target, "previous": current})
	}
	fmt.Fprintf(out, "🔊 Volume: %d%% (was %d%%)\n", target, current)
	return nil
}
