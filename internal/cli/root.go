package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tessro/jukebox/internal/config"
	jerrors "github.com/tessro/jukebox/internal/errors"
	"github.com/tessro/jukebox/internal/logging"
)

var (
	cfgFile   string
	jsonOut   bool
	verbose   bool
	serverURL string

	cfg      *config.Config
	closeLog func() error
)

var rootCmd = &cobra.Command{
	Use:   "jukebox",
	Short: "Control a jukebox server from the command line",
	Long: `Jukebox is a terminal control panel for a remote jukebox service.

Request songs by search or URL, watch the queue and the current song live,
control playback and volume, and pick the audio output device.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeLog != nil {
			return closeLog()
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.jukeboxrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "jukebox server URL (overrides api.base_url)")
}

func initConfig(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return jerrors.WithSuggestion(
			fmt.Errorf("%w: %v", jerrors.ErrInvalidConfig, err),
			"Run 'jukebox config path' to find the file, or 'jukebox config init' to recreate it",
		)
	}

	if serverURL != "" {
		cfg.API.BaseURL = serverURL
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", jerrors.ErrInvalidConfig, err)
	}

	closeLog, err = logging.Setup(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Verbose: verbose,
		Quiet:   cmd == tuiCmd,
	})
	if err != nil {
		return err
	}

	log.Debug().Str("server", cfg.API.BaseURL).Msg("configuration loaded")
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, jerrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
