package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type logOptions struct {
	level  string
	format string
	file   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logOpts logOptions

	rootCmd := &cobra.Command{
		Use:   "syncstate",
		Short: "Read-your-writes state cells on top of batched signals",
		Long: `syncstate demonstrates cells: signals you can read right after
writing to them, while effects still see committed values only.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&logOpts.level, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logOpts.format, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&logOpts.file, "log-file", "", "write logs to a rotated file instead of stderr")

	rootCmd.AddCommand(
		formCmd(&logOpts),
		benchCmd(&logOpts),
		versionCmd(),
	)

	return rootCmd
}

// newLogger builds the logger shared by every command.
func newLogger(opts *logOptions) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.level, err)
	}

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if opts.file != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
		out, closer = rotated, rotated
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(opts.format) {
	case "text":
		return slog.New(slog.NewTextHandler(out, handlerOpts)), closer, nil
	case "json":
		return slog.New(slog.NewJSONHandler(out, handlerOpts)), closer, nil
	default:
		return nil, nil, fmt.Errorf("invalid log format %q", opts.format)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
