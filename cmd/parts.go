package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/chunkz/internal/session"
)

var partsCmd = &cobra.Command{
	Use:   "parts",
	Short: "List the dataset's parts with mastery progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		program, err := loadProgram(ctx)
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctrl, _, err := restoreSession(ctx, s, program, cliLogger())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-12s  %-20s  %9s  %8s  %4s  %5s\n",
			"Part", "ID", "Sentences", "Mastered", "%", "Wrong")
		fmt.Fprintln(out, strings.Repeat("─", 68))

		for _, part := range program.Parts {
			printPartRow(out, part.Label, part.ID, ctrl.PartStats(part.ID))
		}

		fmt.Fprintln(out, strings.Repeat("─", 68))
		printPartRow(out, "TOTAL", "", ctrl.ProgramStats())
		return nil
	},
}

func printPartRow(out io.Writer, label, id string, st session.Stats) {
	fmt.Fprintf(out, "%-12s  %-20s  %9d  %8d  %3d%%  %5d\n",
		truncate(label, 12), truncate(id, 20), st.Total, st.Mastered, st.Percent(), st.Wrong)
}
