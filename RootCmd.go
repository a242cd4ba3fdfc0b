package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for chaski
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chaski",
		Short: "Complex weight initialization and documentation crawling",
		Long: `chaski initializes complex-valued neural network weights with a Rayleigh
distributed magnitude and a uniform phase, scaled by the He or Glorot
criterion. It can also crawl a documentation website, validate the links it
finds, and extract the text of each page's main article.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewCrawlCmd())

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its root
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// newLogger returns a text logger writing to the error output of cmd
func newLogger(cmd *cobra.Command) *slog.Logger {
	return setupLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
}

func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
