package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/jukebox/internal/config"
	jerrors "github.com/tessro/jukebox/internal/errors"
	"github.com/tessro/jukebox/internal/wizard"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing jukebox configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, including environment overrides.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), configPath())
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configSetCmd.Long = `Set a configuration value.

Supported keys:
  ` + strings.Join(settableKeys(), "\n  ") + `

Examples:
  jukebox config set api.base_url http://jukebox.local:8000
  jukebox config set tail.notify true`

	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file without asking")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func settableKeys() []string {
	keys := config.Keys()
	sort.Strings(keys)
	return keys
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.Path()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if JSONOutput() {
		return PrintJSON(out, cfg)
	}

	encoder := toml.NewEncoder(out)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path := configPath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return jerrors.WithSuggestion(
			fmt.Errorf("%w: %s", jerrors.ErrConfigNotFound, path),
			"Run 'jukebox config init' first",
		)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath()

	if _, err := os.Stat(path); err == nil {
		overwrite := configInitForce
		if !overwrite && wizard.IsTerminal() {
			err := huh.NewConfirm().
				Title(fmt.Sprintf("%s already exists. Overwrite it?", path)).
				Affirmative("Overwrite").
				Negative("Keep").
				Value(&overwrite).
				Run()
			if err != nil && !errors.Is(err, huh.ErrUserAborted) {
				return err
			}
		}
		if !overwrite {
			return fmt.Errorf("config file already exists at %s", path)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to replace config: %w", err)
		}
	}

	if err := config.WriteDefault(path); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return PrintJSON(out, map[string]string{
			"status": "created",
			"path":   path,
		})
	}

	fmt.Fprintf(out, "Created config file: %s\n", path)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Point api.base_url at your jukebox server, or set JUKEBOX_API_BASE_URL")
	fmt.Fprintln(out, "  2. Run 'jukebox status' to check the connection")
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if err := config.SetValue(configPath(), key, value); err != nil {
		return jerrors.WithSuggestion(
			fmt.Errorf("%w: %v", jerrors.ErrInvalidConfig, err),
			"Run 'jukebox config set --help' to list supported keys",
		)
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return PrintJSON(out, map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Fprintf(out, "Set %s = %s\n", key, value)
	return nil
}
