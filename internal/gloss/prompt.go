package gloss

import (
	"fmt"
	"strings"

	"github.com/abhisek/chunkz/internal/dataset"
)

func systemPrompt(language string) string {
	return fmt.Sprintf(`You help %s speakers study English sentence structure. Each sentence is split into chunks labeled subject (S), verb (V) or modifier (M). Give a short %s meaning for every chunk as it is used in the sentence.`, language, language)
}

func buildUserMessage(item *dataset.SentenceItem, language string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Sentence: %s\n", item.Text)
	if item.Translation != "" {
		fmt.Fprintf(&b, "Translation (%s): %s\n", language, item.Translation)
	}

	b.WriteString("\nChunks:\n")
	for i, c := range item.Chunks {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, c.Type.Short(), c.Text)
	}

	b.WriteString(`
Instructions:
1. Return one entry per chunk, in the same order, with the chunk text copied exactly.
2. Keep each meaning short (1-6 words) and consistent with the translation.
3. Do not add chunks or merge them.`)

	return b.String()
}
