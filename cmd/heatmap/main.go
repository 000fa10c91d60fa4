package main

import (
	"fmt"
	"os"

	"member-heatmap/internal/config"
	"member-heatmap/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfg       config.Config
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Geocode a member roster and build a heatmap",
	Long: `Reads a member roster (CSV or XLSX), resolves every postal code or address
through the CSIS simple geocoder and writes the weighted points.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		logger.Setup(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "./configs", "directory containing app.env")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
