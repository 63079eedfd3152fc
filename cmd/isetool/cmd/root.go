package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceISE/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string
	prefsPath  string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "isetool",
	Short: "Edit Xilinx ISE symbols, projects and preferences",
	Long: `isetool reads and edits the files the Xilinx ISE toolchain keeps around:
  - schematic symbols (.sym): attributes, pins and bus widths
  - project files (.xise): project properties
  - the Project Navigator preference file (ISE.conf)

Examples:
  isetool sym info BusMux16.sym                  # List attributes and pins
  isetool sym width BusMux16.sym 'i0(7:0)' 4     # Resize a bus pin
  isetool project prop top.xise "Working Directory"
  isetool prefs recent                           # Most recently opened project`,
	Version:           "0.9.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/isetool/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&prefsPath, "prefs", "", "ISE preference file (default ~/.config/Xilinx/ISE.conf)")
}

// setup loads the config file and builds the logger before any subcommand
// runs.
func setup(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return fmt.Errorf("locate config: %w", err)
		}
	}

	var err error
	if cfg, err = config.Load(path); err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	logger.Debug("configuration loaded", "config", path, "prefs", preferenceFile())
	return nil
}

// preferenceFile resolves the preference file: flag, then config, then the
// ISE default (empty string).
func preferenceFile() string {
	if prefsPath != "" {
		return prefsPath
	}
	if cfg != nil {
		return cfg.PreferenceFile
	}
	return ""
}
