package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/chunkz/internal/dataset"
	"github.com/abhisek/chunkz/internal/persist"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset saved progress for one part or the whole program",
	RunE: func(cmd *cobra.Command, args []string) error {
		partArg, _ := cmd.Flags().GetString("part")
		all, _ := cmd.Flags().GetBool("all")
		if (partArg == "") == !all {
			return errors.New("pass exactly one of --part or --all")
		}

		ctx := cmd.Context()
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		logger := cliLogger()

		if all {
			rec := persist.NewRecorder(s.SnapshotRepo(), nil, appConfig.Program.ID, persist.WithLogger(logger))
			if err := rec.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintf(out, "Cleared all progress for %s.\n", appConfig.Program.Label)
			return nil
		}

		program, err := loadProgram(ctx)
		if err != nil {
			return err
		}
		part := findPart(program, partArg)
		if part == nil {
			return fmt.Errorf("no part matches %q (see chunkz parts)", partArg)
		}

		ctrl, rec, err := restoreSession(ctx, s, program, logger)
		if err != nil {
			return err
		}
		if err := ctrl.ResetPart(part.ID); err != nil {
			return fmt.Errorf("reset %s: %w", part.Label, err)
		}
		if err := rec.Save(ctx, ctrl); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared progress for %s (%d sentences).\n", part.Label, len(part.Items))
		return nil
	},
}

func init() {
	resetCmd.Flags().String("part", "", "Part ID, label (\"Part 3\") or number (\"3\")")
	resetCmd.Flags().Bool("all", false, "Clear every part")
}

// findPart matches a part by ID, label or key, ignoring case.
func findPart(program *dataset.Program, arg string) *dataset.Part {
	arg = strings.TrimSpace(arg)
	for i := range program.Parts {
		p := &program.Parts[i]
		if strings.EqualFold(p.ID, arg) || strings.EqualFold(p.Label, arg) || strings.EqualFold(p.Key, arg) {
			return p
		}
	}
	return nil
}
