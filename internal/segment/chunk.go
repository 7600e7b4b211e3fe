package segment

import "strings"

// ChunkType labels the grammatical role of a chunk.
type ChunkType string

const (
	Subject  ChunkType = "subject"
	Verb     ChunkType = "verb"
	Modifier ChunkType = "modifier"
)

// Short returns the single-letter tag used in compact displays.
func (t ChunkType) Short() string {
	switch t {
	case Subject:
		return "S"
	case Verb:
		return "V"
	default:
		return "M"
	}
}

// Chunk is a labeled contiguous fragment of a sentence.
type Chunk struct {
	Text    string    `json:"text"`
	Type    ChunkType `json:"type"`
	Meaning string    `json:"meaning,omitempty"`
}

// ParseSpec parses a manual chunk cell of the form "text::meaning|text::meaning".
// Chunks are typed by position: subject, verb, then modifiers. Segments with
// empty text are skipped, so an empty or malformed cell yields no chunks and
// the caller falls back to Segment.
func ParseSpec(cell string) []Chunk {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}

	var chunks []Chunk
	for _, part := range strings.Split(cell, "|") {
		text, meaning, _ := strings.Cut(part, "::")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		chunks = append(chunks, Chunk{
			Text:    text,
			Type:    positionalType(len(chunks)),
			Meaning: strings.TrimSpace(meaning),
		})
	}
	return chunks
}

func positionalType(i int) ChunkType {
	switch i {
	case 0:
		return Subject
	case 1:
		return Verb
	default:
		return Modifier
	}
}

// Texts returns the text of each chunk in order.
func Texts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
