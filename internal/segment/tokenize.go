package segment

import "strings"

var quoteStripper = strings.NewReplacer(`"`, "", "“", "", "”", "")

var punctPadder = strings.NewReplacer("?", " ? ", ".", " . ", "!", " ! ", ",", " , ")

// Tokenize strips quote characters, splits punctuation (? . ! ,) into
// standalone tokens and splits the rest on whitespace.
func Tokenize(text string) []string {
	text = quoteStripper.Replace(text)
	text = punctPadder.Replace(text)
	return strings.Fields(text)
}

// Detokenize joins tokens with single spaces and removes the space before
// punctuation tokens.
func Detokenize(tokens []string) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 && !isPunct(t) {
			b.WriteByte(' ')
		}
		b.WriteString(t)
	}
	return b.String()
}

// QuizTokens returns the tokens a learner reorders in the quiz: the
// tokenized sentence without sentence-ending punctuation. Commas stay.
func QuizTokens(sentence string) []string {
	tokens := Tokenize(sentence)
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if sentenceEnders[t] {
			continue
		}
		out = append(out, t)
	}
	return out
}

func isPunct(t string) bool {
	switch t {
	case "?", ".", "!", ",":
		return true
	}
	return false
}
