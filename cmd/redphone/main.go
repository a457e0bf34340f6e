// Package main provides the CLI entry point for redphone.
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/jgoldschrafe/redphone-cli/internal/config"
	"github.com/jgoldschrafe/redphone-cli/pkg/logger"
)

var (
	debugMode  bool
	configPath string

	// exitCode carries the dispatch outcome from handlers that complete
	// without a fatal error.
	exitCode int
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	return exitCode
}

var rootCmd = &cobra.Command{
	Use:   "redphone",
	Short: "Bridge command execution to incident management",
	Long: `redphone runs commands and triggers or resolves incidents in an
incident-management service based on the command's exit status.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(
		&debugMode,
		"debug",
		false,
		"Enable debug logging",
	)
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"Path to configuration file (default: ~/"+config.DefaultFileName+")",
	)
}

// newLogger builds the process logger from the --debug flag. It is
// constructed once per invocation and passed explicitly to components.
//
//nolint:ireturn // interface for polymorphism
func newLogger() logger.Logger {
	return logger.NewStderrLogger(debugMode)
}

// newConfigLoader builds the config loader from the --config flag, falling
// back to the well-known location in the home directory.
func newConfigLoader() (*config.Loader, error) {
	path := configPath
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return nil, errors.Wrap(err, "locating config file")
		}

		path = defaultPath
	}

	return config.NewLoader(path), nil
}
