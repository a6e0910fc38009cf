// mindmirrord is the MindMirror AI resolution engine daemon: emotion
// analysis, reflections, art, transcription, and speech behind a
// multi-tier fallback chain that always answers.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mindmirror-ai/mindmirror/internal/config"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:     "mindmirrord",
	Short:   "MindMirror AI resolution engine",
	Version: version,
}

var configInitCmd = &cobra.Command{
	Use:   "config-init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists at %s", configPath)
		}
		cfg := config.Default()
		if err := cfg.Save(configPath); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(os.Stdout, "wrote default config to %s\n", configPath)
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to config file")
	rootCmd.AddCommand(serveCmd, reflectCmd, configInitCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mindmirror", "config.toml")
}

// newLogger builds the process logger from config.
func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if cfg.Logging.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
