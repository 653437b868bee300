package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Bellilty/real-estate-multi-agent/internal/dataset"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect and manage the transaction ledger",
}

var importOut string

var datasetImportCmd = &cobra.Command{
	Use:   "import [csv-file]",
	Short: "Import a CSV ledger into a SQLite database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := dataset.LoadCSV(args[0])
		if err != nil {
			return err
		}

		if err := dataset.ImportSQLite(cmd.Context(), importOut, data.Records()); err != nil {
			return err
		}

		zap.L().Info("dataset imported",
			zap.String("source", args[0]),
			zap.String("dest", importOut),
			zap.Int("records", data.Len()))
		fmt.Printf("imported %d records into %s\n", data.Len(), importOut)
		return nil
	},
}

var datasetSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print an overview of the configured ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}

		s := data.Summary()
		fmt.Printf("records:    %d\n", s.Records)
		fmt.Printf("properties: %d (%s)\n", s.PropertyCount, strings.Join(data.Properties(), ", "))
		fmt.Printf("tenants:    %d (%s)\n", s.TenantCount, strings.Join(data.Tenants(), ", "))
		fmt.Printf("years:      %s\n", strings.Join(s.Years, ", "))
		fmt.Printf("revenue:    $%.2f\n", s.Revenue)
		fmt.Printf("expenses:   $%.2f\n", s.Expenses)
		fmt.Printf("net:        $%.2f\n", s.Net)
		return nil
	},
}

func init() {
	datasetImportCmd.Flags().StringVar(&importOut, "out", "data/ledger.db", "destination SQLite file")
	datasetCmd.AddCommand(datasetImportCmd)
	datasetCmd.AddCommand(datasetSummaryCmd)
	rootCmd.AddCommand(datasetCmd)
}
