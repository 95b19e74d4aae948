package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/nevintel/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "nevintel",
	Short: "NEV market intelligence pipeline",
	Long:  "Collects Chinese new-energy-vehicle market data from regulatory feeds, vertical platforms, and industry-leader trackers, then scores, fuses, and publishes versioned daily reports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
