package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/tessro/jukebox/internal/core"
)

var queueLimit int

var queueCmd = &cobra.Command{
	Use:     "queue",
	Aliases: []string{"q"},
	Short:   "Show the queue",
	Long:    `Lists the songs waiting to play, in order.`,
	Args:    cobra.NoArgs,
	RunE:    runQueue,
}

func init() {
	queueCmd.Flags().IntVarP(&queueLimit, "limit", "n", 0, "Show at most this many songs (0 for all)")
	rootCmd.AddCommand(queueCmd)
}

func runQueue(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := newClient()
	if err != nil {
		return err
	}

	queue, err := c.GetQueue(ctx)
	if err != nil {
		return fmt.Errorf("failed to get queue: %w", err)
	}

	shown := queue
	if queueLimit > 0 && len(shown) > queueLimit {
		shown = shown[:queueLimit]
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return PrintJSON(out, map[string]interface{}{"queue": shown})
	}

	if queue.IsEmpty() {
		fmt.Fprintln(out, "No songs in queue")
		return nil
	}

	t := NewTable(out, "#", "Title", "Channel", "Length")
	t.AppendRows(queueRows(shown))
	t.AppendFooter(table.Row{"", fmt.Sprintf("%s songs", humanize.Comma(int64(queue.Len()))), "", FormatDuration(queue.TotalDuration().Seconds())})
	t.Render()

	if len(shown) < len(queue) {
		fmt.Fprintf(out, "... and %d more\n", len(queue)-len(shown))
	}
	return nil
}

func queueRows(q core.Queue) []table.Row {
	return lo.Map(q, func(s core.Song, i int) table.Row {
		length := "-"
		if s.Duration > 0 {
			length = FormatDuration(s.Duration)
		}
		return table.Row{i + 1, TruncateString(s.DisplayTitle(), 60), optional(s.Channel), length}
	})
}
