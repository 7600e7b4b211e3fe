package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		want     []Chunk
	}{
		{
			name:     "how to verb",
			sentence: "How to use a computer.",
			want: []Chunk{
				{Text: "How to use", Type: Modifier},
				{Text: "a computer.", Type: Modifier},
			},
		},
		{
			name:     "contracted negation",
			sentence: "She doesn't like apples.",
			want: []Chunk{
				{Text: "She", Type: Subject},
				{Text: "doesn't like", Type: Verb},
				{Text: "apples.", Type: Modifier},
			},
		},
		{
			name:     "prepositional phrases",
			sentence: "I went to the park with my friends.",
			want: []Chunk{
				{Text: "I", Type: Subject},
				{Text: "went", Type: Verb},
				{Text: "to the park", Type: Modifier},
				{Text: "with my friends.", Type: Modifier},
			},
		},
		{
			name:     "wh question with auxiliary",
			sentence: "What do you want to eat?",
			want: []Chunk{
				{Text: "What", Type: Modifier},
				{Text: "do", Type: Modifier},
				{Text: "you", Type: Subject},
				{Text: "want", Type: Verb},
				{Text: "to eat?", Type: Modifier},
			},
		},
		{
			name:     "auxiliary plus main verb",
			sentence: "He is running in the park.",
			want: []Chunk{
				{Text: "He", Type: Subject},
				{Text: "is running", Type: Verb},
				{Text: "in the park.", Type: Modifier},
			},
		},
		{
			name:     "post verb not",
			sentence: "She does not play.",
			want: []Chunk{
				{Text: "She", Type: Subject},
				{Text: "does not play.", Type: Verb},
			},
		},
		{
			name:     "comparative than",
			sentence: "She is taller than her brother and smarter.",
			want: []Chunk{
				{Text: "She", Type: Subject},
				{Text: "is", Type: Verb},
				{Text: "taller", Type: Modifier},
				{Text: "than her brother", Type: Modifier},
				{Text: "and smarter.", Type: Modifier},
			},
		},
		{
			name:     "the best",
			sentence: "This is the best movie.",
			want: []Chunk{
				{Text: "This", Type: Subject},
				{Text: "is", Type: Verb},
				{Text: "the best", Type: Modifier},
				{Text: "movie.", Type: Modifier},
			},
		},
		{
			name:     "infinitive phrase stops at preposition",
			sentence: "I want to play tennis with him.",
			want: []Chunk{
				{Text: "I", Type: Subject},
				{Text: "want", Type: Verb},
				{Text: "to play tennis", Type: Modifier},
				{Text: "with him.", Type: Modifier},
			},
		},
		{
			name:     "no verb",
			sentence: "Apples and oranges.",
			want: []Chunk{
				{Text: "Apples and oranges.", Type: Modifier},
			},
		},
		{
			name:     "punctuation only",
			sentence: "?",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segment(tt.sentence))
		})
	}
}

func TestSegment_Empty(t *testing.T) {
	assert.Empty(t, Segment(""))
	assert.Empty(t, Segment("   \t "))
	assert.Empty(t, Segment(`""`))
}

func TestSegment_Deterministic(t *testing.T) {
	s := "Why did you go to Tokyo during the summer?"
	first := Segment(s)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Segment(s))
	}
}

func TestSegment_ReconstructsTokens(t *testing.T) {
	sentences := []string{
		"How to use a computer.",
		"She doesn't like apples.",
		"Yesterday, I bought a new bag at the station!",
		`He said "hello" to me.`,
		"Where is the best place to study English?",
		"We have been waiting for you since morning",
		"Nothing here",
	}
	for _, s := range sentences {
		chunks := Segment(s)
		joined := strings.Join(Texts(chunks), " ")
		assert.Equal(t, Tokenize(s), Tokenize(joined), "sentence %q", s)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"He", "said", ",", "Hi", "!"}, Tokenize(`He said, “Hi!”`))
	assert.Equal(t, []string{"Is", "it", "OK", "?"}, Tokenize("Is it OK?"))
}

func TestDetokenize(t *testing.T) {
	assert.Equal(t, "Yes, I do.", Detokenize([]string{"Yes", ",", "I", "do", "."}))
	assert.Equal(t, "", Detokenize(nil))
}

func TestQuizTokens(t *testing.T) {
	assert.Equal(t, []string{"Yes", ",", "I", "do"}, QuizTokens("Yes, I do."))
	assert.Equal(t, []string{"Really"}, QuizTokens("Really?!"))
	assert.Empty(t, QuizTokens(""))
}

func TestLooksLikeVerb(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"played", true},
		{"Running", true},
		{"went", true},
		{"must", true},
		{"apple", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := LooksLikeVerb(tt.word); got != tt.want {
			t.Errorf("LooksLikeVerb(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestParseSpec(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want []Chunk
	}{
		{
			name: "three chunks",
			cell: "I::私は|like::好き|green tea::緑茶を",
			want: []Chunk{
				{Text: "I", Type: Subject, Meaning: "私は"},
				{Text: "like", Type: Verb, Meaning: "好き"},
				{Text: "green tea", Type: Modifier, Meaning: "緑茶を"},
			},
		},
		{
			name: "missing meanings",
			cell: " We | play ::| tennis ",
			want: []Chunk{
				{Text: "We", Type: Subject},
				{Text: "play", Type: Verb},
				{Text: "tennis", Type: Modifier},
			},
		},
		{name: "empty", cell: "", want: nil},
		{name: "only separators", cell: "|::meaning||", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSpec(tt.cell))
		})
	}
}
