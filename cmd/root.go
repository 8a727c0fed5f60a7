package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/typebridge/typebridge/cmd/generate"
	"github.com/typebridge/typebridge/internal/logger"
	"github.com/typebridge/typebridge/internal/version"
)

var debug bool

var RootCmd = &cobra.Command{
	Use:   "typebridge",
	Short: "Generate target-language type declarations from Go type definitions",
	Long: fmt.Sprintf(`typebridge generates TypeScript, Kotlin, and Python type declarations
from annotated Go type definitions, so clients in those languages share one
source of truth for serialized data shapes.

Version: %s@%s %s %s

Commands:
  generate    Generate type declarations for the configured targets

Use "typebridge [command] --help" for more information about a command.`,
		version.Version(), version.GetGitCommit(), version.Platform(), version.GetBuildDate()),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	RootCmd.AddCommand(generate.GenerateCmd)
}

func setupLogger() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger.SetGlobal(slog.New(handler), debug)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
