package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/chunkz/internal/segment"
)

var segmentCmd = &cobra.Command{
	Use:   "segment [sentence...]",
	Short: "Split sentences into subject, verb and modifier chunks",
	Long: `Split English sentences into chunks with the same rules the study screen uses.

With no arguments, sentences are read from stdin, one per line.`,
	RunE: runSegment,
}

func init() {
	segmentCmd.Flags().Bool("tokens", false, "Also print the quiz tokens")
	segmentCmd.Flags().Bool("json", false, "Print JSON")
}

type segmentedSentence struct {
	Sentence string          `json:"sentence"`
	Chunks   []segment.Chunk `json:"chunks"`
	Tokens   []string        `json:"tokens,omitempty"`
}

func runSegment(cmd *cobra.Command, args []string) error {
	withTokens, _ := cmd.Flags().GetBool("tokens")
	asJSON, _ := cmd.Flags().GetBool("json")

	sentences := args
	if len(sentences) == 0 {
		var err error
		sentences, err = readLines(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	results := make([]segmentedSentence, 0, len(sentences))
	for _, s := range sentences {
		r := segmentedSentence{Sentence: s, Chunks: segment.Segment(s)}
		if withTokens {
			r.Tokens = segment.QuizTokens(s)
		}
		results = append(results, r)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, r.Sentence)
		for _, c := range r.Chunks {
			fmt.Fprintf(out, "  %s  %s\n", c.Type.Short(), c.Text)
		}
		if withTokens {
			fmt.Fprintf(out, "  tokens: %s\n", strings.Join(r.Tokens, " | "))
		}
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
