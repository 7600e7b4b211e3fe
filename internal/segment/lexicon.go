package segment

// Word sets consulted by the segmenter. All entries are lowercase.

var whWords = wordSet("what", "where", "when", "who", "why", "how")

var auxiliaries = wordSet(
	"do", "does", "did",
	"can", "could", "will", "would", "shall", "should", "may", "might", "must",
	"is", "am", "are", "was", "were",
	"have", "has", "had",
)

var beVerbs = wordSet("am", "is", "are", "was", "were")

var prepositions = wordSet(
	"to", "in", "on", "at", "from", "with", "for", "after", "before",
	"during", "over", "under", "into", "onto", "about", "around", "through",
	"between", "without", "by", "as",
)

var conjunctions = wordSet("and", "but")

// negations are contracted negative auxiliaries that open a verb group.
var negations = wordSet(
	"don't", "doesn't", "didn't", "cannot", "can't", "won't", "wouldn't",
	"shouldn't", "isn't", "aren't", "wasn't", "weren't", "haven't",
	"hasn't", "hadn't",
)

// commonVerbs lists verb forms that carry no regular -ed/-ing suffix.
var commonVerbs = wordSet(
	"go", "goes", "went",
	"enjoy", "enjoys",
	"play", "plays",
	"study", "studies",
	"like", "likes",
	"want", "wants",
	"make", "makes",
	"take", "takes",
	"see", "sees",
	"have", "has", "had",
	"get", "gets", "got",
	"know", "knows", "knew",
	"buy", "buys", "bought",
	"use", "uses", "used",
)

// sentenceEnders may terminate a sentence and are dropped from quiz tokens.
var sentenceEnders = wordSet("?", "!", ".")

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
