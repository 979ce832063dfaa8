package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wire-demo",
	Short: "wire-demo exercises the wire data-binding adapter",
	Long: `wire-demo binds a sample asynchronous model to a terminal view
through the wire adapter, showing the pending/resolved/rejected
lifecycle, cache-key deduplication, and refresh.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("spec", "", "YAML binding spec file (default: built-in mapping)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
}
