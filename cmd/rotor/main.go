package main

import (
	"os"

	"github.com/quantlab/rotor/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "rotor",
	Short: "ROTOR - momentum-ranked ETF rotation backtester",
	Long: `ROTOR simulates a single-asset rotation strategy over a pool of ETFs:
each trading date it scores every instrument by momentum, rotates the whole
portfolio into the leader, and reports the resulting performance.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

// loadConfig reads the configured file or falls back to defaults.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Defaults(), nil
	}
	return config.Load(cfgFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
