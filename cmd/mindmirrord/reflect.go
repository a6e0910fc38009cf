package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mindmirror-ai/mindmirror/internal/config"
	"github.com/mindmirror-ai/mindmirror/internal/server"
)

var reflectCmd = &cobra.Command{
	Use:   "reflect [text]",
	Short: "Run the full pipeline once and print the result as JSON",
	Long: `Run the full pipeline once and print the result as JSON.

Examples:
  mindmirrord reflect "I had a rough day but my friend cheered me up"
  mindmirrord reflect --file entry.txt
  echo "feeling anxious about tomorrow" | mindmirrord reflect`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		text, err := readEntry(args, file)
		if err != nil {
			return err
		}
		return runReflect(text, timeout)
	},
}

func init() {
	reflectCmd.Flags().String("file", "", "read the journal entry from a file")
	reflectCmd.Flags().Duration("timeout", 90*time.Second, "overall pipeline deadline")
}

func readEntry(args []string, file string) (string, error) {
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	case len(args) > 0:
		return strings.TrimSpace(strings.Join(args, " ")), nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
}

func runReflect(text string, timeout time.Duration) error {
	if text == "" {
		return fmt.Errorf("journal entry is empty")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := newLogger(cfg)
	engine := server.BuildEngine(cfg, log)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result := engine.Pipeline.Run(ctx, text, nil)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
