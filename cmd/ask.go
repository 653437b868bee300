package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	askSession string
	askTrace   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question against the ledger",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}

		res := e.runQuery(cmd.Context(), askSession, strings.Join(args, " "))
		fmt.Println(res.State.Answer)

		if askTrace {
			fmt.Printf("\nrun %s (%s)\n", res.State.RunID, res.State.Outcome)
			for _, s := range res.State.Steps {
				line := fmt.Sprintf("  %-20s %-6s %dms", s.State, s.Status, s.Duration)
				if s.Error != "" {
					line += "  " + s.Error
				}
				fmt.Println(line)
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", "", "session id for follow-up context")
	askCmd.Flags().BoolVar(&askTrace, "trace", false, "print the per-step execution log")
	rootCmd.AddCommand(askCmd)
}
