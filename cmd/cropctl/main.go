// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Command cropctl runs recommendations offline and manages model bundles
// and prediction history without a running server.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cropwise/internal/logging"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "cropctl",
	Short: "Offline tooling for the Cropwise recommendation engine",
	Long: `cropctl scores crops against a model bundle on the command line, inspects
and imports bundles into a versioned model store, and reads the prediction
history database written by the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(logging.Config{
			Level:   logLevel,
			Format:  "console",
			Service: "cropctl",
			Output:  cmd.ErrOrStderr(),
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: trace, debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
