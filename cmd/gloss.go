package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/chunkz/internal/gloss"
	"github.com/abhisek/chunkz/internal/llm"
)

var glossCmd = &cobra.Command{
	Use:   "gloss",
	Short: "Generate missing chunk meanings with an LLM and cache them",
	Long: `Fill in chunk meanings the dataset leaves empty.

Meanings are cached in the database, so the study screen shows them on the
next start without calling the LLM again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		show, _ := cmd.Flags().GetBool("show")
		ctx := cmd.Context()

		llmCfg, ok := llm.Resolve()
		if !ok {
			return errors.New("no LLM provider configured: set ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY or OPENROUTER_API_KEY")
		}

		program, err := loadProgram(ctx)
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		logger := cliLogger()
		provider, err := llm.NewProvider(ctx, llmCfg, s.EventRepo(), logger)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		svc := gloss.NewService(provider, s.GlossRepo(), glossConfig(), logger)
		filled, stats, err := svc.Fill(ctx, program)
		if err != nil {
			return fmt.Errorf("gloss: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Sentences needing meanings: %d\n", stats.Sentences)
		fmt.Fprintf(out, "  from cache: %d\n", stats.Cached)
		fmt.Fprintf(out, "  generated:  %d\n", stats.Generated)
		fmt.Fprintf(out, "  failed:     %d\n", stats.Failed)

		if show {
			for _, part := range filled.Parts {
				fmt.Fprintf(out, "\n%s\n", part.Label)
				for _, item := range part.Items {
					fmt.Fprintf(out, "  %s  %s\n", item.ID, item.Text)
					for _, c := range item.Chunks {
						fmt.Fprintf(out, "      %s  %-28s %s\n", c.Type.Short(), c.Text, c.Meaning)
					}
				}
			}
		}
		if stats.Failed > 0 {
			return fmt.Errorf("%d sentences could not be glossed (see chunkz llm list)", stats.Failed)
		}
		return nil
	},
}

func init() {
	glossCmd.Flags().Bool("show", false, "Print every chunk with its meaning")
}
