package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Bellilty/real-estate-multi-agent/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "real-estate-qa",
	Short: "Natural-language Q&A over a property-transaction ledger",
	Long:  "Interprets financial questions about properties, tenants, and periods, runs deterministic aggregations over the loaded ledger, and answers in prose.",
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
