package dataset

import "github.com/abhisek/chunkz/internal/segment"

// SentenceItem is one study sentence. Items are built once at load time and
// never mutated afterwards.
type SentenceItem struct {
	ID            string          `json:"id"`
	Text          string          `json:"text"`
	Translation   string          `json:"translation"`
	Chunks        []segment.Chunk `json:"chunks"`
	ReorderTokens []string        `json:"reorder_tokens"`
}

// Part groups the sentences that share a part label.
type Part struct {
	ID     string         `json:"id"`
	Label  string         `json:"label"`
	Key    string         `json:"key"`    // label with the leading "Part" removed, e.g. "3"
	Number int            `json:"number"` // numeric sort key, 0 when Key has no leading digits
	Items  []SentenceItem `json:"items"`
}

// Program is a loaded dataset: an ordered list of parts.
type Program struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Parts []Part `json:"parts"`
}

// Empty reports whether the program has no parts.
func (p *Program) Empty() bool {
	return p == nil || len(p.Parts) == 0
}

// Part returns the part with the given ID.
func (p *Program) Part(id string) (*Part, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.Parts {
		if p.Parts[i].ID == id {
			return &p.Parts[i], true
		}
	}
	return nil, false
}

// Item returns the sentence with the given ID along with its part and index.
func (p *Program) Item(id string) (*SentenceItem, *Part, int, bool) {
	if p == nil {
		return nil, nil, 0, false
	}
	for i := range p.Parts {
		part := &p.Parts[i]
		for j := range part.Items {
			if part.Items[j].ID == id {
				return &part.Items[j], part, j, true
			}
		}
	}
	return nil, nil, 0, false
}

// ItemCount returns the total number of sentences across all parts.
func (p *Program) ItemCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, part := range p.Parts {
		n += len(part.Items)
	}
	return n
}

// ItemIDs returns the IDs of the part's sentences in order.
func (p *Part) ItemIDs() []string {
	ids := make([]string, len(p.Items))
	for i, it := range p.Items {
		ids[i] = it.ID
	}
	return ids
}

// Row is one raw dataset record before segmentation.
type Row struct {
	Part     string
	English  string
	Japanese string
	Chunks   string // optional manual chunk spec, "text::meaning|..."
}
