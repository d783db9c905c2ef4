package cli

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/tessro/jukebox/internal/core"
	jerrors "github.com/tessro/jukebox/internal/errors"
	"github.com/tessro/jukebox/internal/wizard"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio output devices",
	Long:  `Lists the audio outputs available on the jukebox host. The current output is marked.`,
	Args:  cobra.NoArgs,
	RunE:  runDevices,
}

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Show the current audio output device",
	Args:  cobra.NoArgs,
	RunE:  runDevice,
}

var deviceSetDefault bool

var deviceSetCmd = &cobra.Command{
	Use:   "set [id|description]",
	Short: "Switch the audio output device",
	Long: `Switch the jukebox to another audio output.

The device can be given by id or by description. --default selects the
system default output. Without an argument on a terminal, a picker is shown.

Examples:
  jukebox device set "USB DAC"
  jukebox device set --default`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeviceSet,
}

func init() {
	deviceSetCmd.Flags().BoolVar(&deviceSetDefault, "default", false, "Use the system default output")
	deviceCmd.AddCommand(deviceSetCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(deviceCmd)
}

type deviceList struct {
	Devices []core.AudioDevice `json:"devices"`
	Current *core.AudioDevice  `json:"current"`
}

func fetchDevices(ctx context.Context, jb core.Jukebox) (deviceList, error) {
	devices, err := jb.GetAudioDevices(ctx)
	if err != nil {
		return deviceList{}, fmt.Errorf("failed to get devices: %w", err)
	}
	current, err := jb.GetCurrentAudioDevice(ctx)
	if err != nil {
		return deviceList{}, fmt.Errorf("failed to get current device: %w", err)
	}
	return deviceList{Devices: devices, Current: current}, nil
}

func runDevices(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := newClient()
	if err != nil {
		return err
	}

	list, err := fetchDevices(ctx, c)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return PrintJSON(out, list)
	}

	if len(list.Devices) == 0 {
		fmt.Fprintln(out, "No audio devices found")
		return nil
	}

	t := NewTable(out, "", "Description", "ID")
	t.AppendRows(lo.Map(list.Devices, func(d core.AudioDevice, _ int) table.Row {
		active := list.Current != nil && d.Same(*list.Current)
		id := d.ID()
		if d.IsDefault() {
			id = "(default)"
		}
		return table.Row{StatusIcon(active), d.Label(), id}
	}))
	t.Render()
	return nil
}

func runDevice(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := newClient()
	if err != nil {
		return err
	}

	current, err := c.GetCurrentAudioDevice(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current device: %w", err)
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return PrintJSON(out, current)
	}
	if current == nil {
		fmt.Fprintln(out, "🔈 System default")
		return nil
	}
	fmt.Fprintf(out, "🔈 %s\n", current.Label())
	return nil
}

func runDeviceSet(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := newClient()
	if err != nil {
		return err
	}

	var target *core.AudioDevice
	switch {
	case deviceSetDefault:
		if len(args) > 0 {
			return fmt.Errorf("give either a device or --default, not both")
		}
		target = &core.AudioDevice{}

	case len(args) == 1:
		list, err := fetchDevices(ctx, c)
		if err != nil {
			return err
		}
		target = wizard.MatchDevice(list.Devices, args[0])
		if target == nil {
			return jerrors.WithSuggestion(
				fmt.Errorf("%w: %s", jerrors.ErrDeviceNotFound, args[0]),
				"Run 'jukebox devices' to list the available outputs",
			)
		}

	default:
		list, err := fetchDevices(ctx, c)
		if err != nil {
			return err
		}
		interactive := wizard.NewInteractive()
		interactive.SetEnabled(!JSONOutput())
		if !interactive.CanInteract() {
			return fmt.Errorf("no device given; pass an id or description, or --default")
		}
		target, err = interactive.PromptDevice(list.Devices, list.Current)
		if err != nil {
			return err
		}
		if target == nil {
			return nil // cancelled
		}
	}

	if err := c.SetAudioDevice(ctx, target.DeviceID); err != nil {
		return fmt.Errorf("failed to set device: %w", err)
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return PrintJSON(out, map[string]interface{}{"status": "ok", "device_id": target.DeviceID})
	}
	fmt.Fprintf(out, "🔈 Output set to %s\n", target.Label())
	return nil
}
