package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/jukebox/internal/core"
	jerrors "github.com/tessro/jukebox/internal/errors"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"now"},
	Short:   "Show the current song, volume and queue length",
	Long:    `Shows what the jukebox is playing, the playback position, the volume and the number of queued songs.`,
	RunE:    runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusResult is the JSON shape of the status command.
type statusResult struct {
	CurrentSong *core.CurrentSong `json:"current_song"`
	Volume      int               `json:"volume"`
	QueueLength int               `json:"queue_length"`
	Device      *core.AudioDevice `json:"device,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := newClient()
	if err != nil {
		return err
	}

	res := fetchStatus(ctx, c)
	if res.Data.CurrentSong == nil && len(res.Errors) == 3 {
		// Nothing answered.
		return res.Errors[0]
	}
	if res.HasErrors() && Verbose() {
		fmt.Fprintln(os.Stderr, res.ErrorSummary())
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return PrintJSON(out, res.Data)
	}
	printStatus(out, res.Data)
	return nil
}

// fetchStatus collects what it can. A failed device lookup does not hide the
// song.
func fetchStatus(ctx context.Context, jb core.Jukebox) *jerrors.PartialResult[statusResult] {
	res := &jerrors.PartialResult[statusResult]{}

	current, err := jb.GetCurrentSong(ctx)
	res.AddError(err)
	res.Data.CurrentSong = current

	volume, err := jb.GetVolume(ctx)
	res.AddError(err)
	res.Data.Volume = volume

	queue, err := jb.GetQueue(ctx)
	res.AddError(err)
	res.Data.QueueLength = queue.Len()

	device, err := jb.GetCurrentAudioDevice(ctx)
	if err == nil {
		res.Data.Device = device
	}

	return res
}

func printStatus(out io.Writer, s statusResult) {
	if s.CurrentSong == nil {
		fmt.Fprintln(out, "Nothing playing")
	} else {
		c := s.CurrentSong
		icon := "⏸"
		if c.IsPlaying {
			icon = "▶"
		}
		fmt.Fprintf(out, "%s %s\n", icon, c.DisplayTitle())
		if c.Channel != "" {
			fmt.Fprintf(out, "  %s\n", c.Channel)
		}
		fmt.Fprintf(out, "  %s %s %s\n",
			FormatDuration(c.CurrentProgress),
			FormatProgress(c.CurrentProgress, c.Duration, 30),
			FormatDuration(c.Duration))
		if c.URL != "" {
			fmt.Fprintf(out, "  %s\n", c.URL)
		}
	}

	fmt.Fprintf(out, "\n🔊 Volume: %d%%\n", s.Volume)
	switch s.QueueLength {
	case 0:
		fmt.Fprintln(out, "📋 Queue is empty")
	case 1:
		fmt.Fprintln(out, "📋 1 song queued")
	default:
		fmt.Fprintf(out, "📋 %d songs queued\n", s.QueueLength)
	}
	if s.Device != nil {
		fmt.Fprintf(out, "🔈 Output: %s\n", s.Device.Label())
	}
}
