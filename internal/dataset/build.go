package dataset

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/abhisek/chunkz/internal/segment"
)

// BuildOptions names the program being built.
type BuildOptions struct {
	ProgramID string
	Label     string
	IDPrefix  string // sentence ID prefix, e.g. "p7" yields "p7-3-s1"
}

var partPrefix = regexp.MustCompile(`(?i)^part\s*`)

var leadingDigits = regexp.MustCompile(`^\d+`)

// Build groups rows into parts and segments every sentence. Parts are
// ordered by their numeric label; sentences keep dataset order within a part
// and get IDs derived from the part key and their position.
func Build(opts BuildOptions, rows []Row) *Program {
	prog := &Program{ID: opts.ProgramID, Label: opts.Label}

	index := make(map[string]int)
	for _, row := range rows {
		key := strings.TrimSpace(partPrefix.ReplaceAllString(strings.TrimSpace(row.Part), ""))
		id := fmt.Sprintf("%s-part%s", opts.ProgramID, key)

		i, ok := index[id]
		if !ok {
			i = len(prog.Parts)
			index[id] = i
			prog.Parts = append(prog.Parts, Part{
				ID:     id,
				Label:  "Part " + key,
				Key:    key,
				Number: partNumber(key),
			})
		}

		chunks := segment.ParseSpec(row.Chunks)
		if len(chunks) == 0 {
			chunks = segment.Segment(row.English)
		}

		prog.Parts[i].Items = append(prog.Parts[i].Items, SentenceItem{
			Text:          row.English,
			Translation:   row.Japanese,
			Chunks:        chunks,
			ReorderTokens: segment.QuizTokens(row.English),
		})
	}

	sort.SliceStable(prog.Parts, func(a, b int) bool {
		return prog.Parts[a].Number < prog.Parts[b].Number
	})

	for i := range prog.Parts {
		part := &prog.Parts[i]
		for j := range part.Items {
			part.Items[j].ID = SentenceID(opts.IDPrefix, part.Key, j)
		}
	}
	return prog
}

// SentenceID derives the stable ID of the idx-th (zero-based) sentence of a part.
func SentenceID(prefix, partKey string, idx int) string {
	return fmt.Sprintf("%s-%s-s%d", prefix, partKey, idx+1)
}

func partNumber(key string) int {
	n, err := strconv.Atoi(leadingDigits.FindString(key))
	if err != nil {
		return 0
	}
	return n
}
