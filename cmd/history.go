package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/chunkz/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent quiz checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		wrongOnly, _ := cmd.Flags().GetBool("wrong")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		checks, err := s.EventRepo().QueryChecks(cmd.Context(), appConfig.Program.ID, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query checks: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(checks) == 0 {
			fmt.Fprintln(out, "No checks recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-19s  %-12s  %-2s  %-6s  %s\n", "Timestamp", "Sentence", "OK", "Streak", "Answer")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, c := range checks {
			if wrongOnly && c.Correct {
				continue
			}
			ok := "✓"
			if !c.Correct {
				ok = "✗"
			}
			fmt.Fprintf(out, "%-19s  %-12s  %-2s  %-6d  %s\n",
				c.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(c.SentenceID, 12), ok, c.Streak, c.Answer)
			if !c.Correct {
				fmt.Fprintf(out, "%-43s  %s\n", "", "→ "+c.Expected)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of checks to show")
	historyCmd.Flags().Bool("wrong", false, "Only show wrong answers")
}
