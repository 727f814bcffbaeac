package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logLevel string // Log verbosity level
	logFile  string // Optional rotating log file
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "multicloud-sched",
	Short: "Multi-cloud task dispatcher with local and learned scheduling policies",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := setupLogging(logLevel, logFile); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// setupLogging applies the log level and, when path is set, mirrors log
// output into a size-rotated file.
func setupLogging(level, path string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	if path == "" {
		logrus.SetOutput(os.Stderr)
		return nil
	}
	logrus.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	}))
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up persistent flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file, rotated by size")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(providersCmd)
}
