// Package segment splits English sentences into labeled grammatical chunks
// (subject, verb, modifier) using a small set of lexical rules.
package segment

import "strings"

// Segment splits sentence into ordered chunks. It is pure and never fails:
// an empty sentence yields no chunks, and a sentence without a recognizable
// verb yields modifier chunks only.
//
// Rules are applied left to right:
//   - a leading WH-word (or "how to <verb>") becomes a modifier chunk
//   - a following auxiliary becomes its own modifier chunk
//   - tokens before the first verb-like token form the subject
//   - the verb group absorbs negations, "not" and auxiliary + verb pairs
//   - the remainder is split into modifiers at prepositions, "the best",
//     "than ..." and "to <verb> ..." phrases
//
// Sentence-ending punctuation is reattached to the last chunk.
func Segment(sentence string) []Chunk {
	tokens := Tokenize(sentence)
	if len(tokens) == 0 {
		return nil
	}

	var endPunct string
	if last := tokens[len(tokens)-1]; sentenceEnders[last] {
		endPunct = last
		tokens = tokens[:len(tokens)-1]
	}

	var chunks []Chunk
	emit := func(typ ChunkType, toks []string) {
		if len(toks) == 0 {
			return
		}
		chunks = append(chunks, Chunk{Text: Detokenize(toks), Type: typ})
	}

	if len(tokens) > 0 && whWords[lower(tokens[0])] {
		n := howToLength(tokens)
		if n == 0 {
			n = 1
		}
		emit(Modifier, tokens[:n])
		tokens = tokens[n:]
	}

	if len(tokens) > 0 && auxiliaries[lower(tokens[0])] {
		emit(Modifier, tokens[:1])
		tokens = tokens[1:]
	}

	if v := verbIndex(tokens); v >= 0 {
		emit(Subject, tokens[:v])
		tokens = tokens[v:]

		n := verbGroupLength(tokens)
		emit(Verb, tokens[:n])
		tokens = tokens[n:]
	}

	for _, m := range splitModifiers(tokens) {
		emit(Modifier, m)
	}

	if endPunct != "" && len(chunks) > 0 {
		chunks[len(chunks)-1].Text += endPunct
	}
	return chunks
}

// LooksLikeVerb reports whether w is treated as a verb: a regular -ed/-ing
// form, an auxiliary, or one of the common irregular forms.
func LooksLikeVerb(w string) bool {
	wl := lower(w)
	if wl == "" {
		return false
	}
	if strings.HasSuffix(wl, "ed") || strings.HasSuffix(wl, "ing") {
		return true
	}
	return auxiliaries[wl] || commonVerbs[wl]
}

// howToLength returns 3 when tokens open with "how to <verb>", else 0.
func howToLength(tokens []string) int {
	if len(tokens) >= 3 && lower(tokens[0]) == "how" && lower(tokens[1]) == "to" && LooksLikeVerb(tokens[2]) {
		return 3
	}
	return 0
}

// verbIndex returns the index of the first token that opens a verb group,
// or -1 when there is none.
func verbIndex(tokens []string) int {
	for i, t := range tokens {
		if negations[lower(t)] || LooksLikeVerb(t) {
			return i
		}
	}
	return -1
}

// verbGroupLength returns how many leading tokens belong to the verb group.
// tokens[0] is always part of it.
func verbGroupLength(tokens []string) int {
	first := lower(tokens[0])
	n := 1

	if negations[first] {
		if n < len(tokens) && LooksLikeVerb(tokens[n]) {
			n++
		}
		return n
	}

	if n < len(tokens) && lower(tokens[n]) == "not" {
		n++
	}
	if auxiliaries[first] || beVerbs[first] {
		if n < len(tokens) && LooksLikeVerb(tokens[n]) {
			n++
		}
	}
	return n
}

// splitModifiers groups the tokens after the verb into modifier phrases.
func splitModifiers(tokens []string) [][]string {
	var out [][]string
	var buf []string
	flush := func() {
		if len(buf) > 0 {
			out = append(out, buf)
			buf = nil
		}
	}

	for i := 0; i < len(tokens); i++ {
		wl := lower(tokens[i])

		switch {
		case wl == "the" && i+1 < len(tokens) && lower(tokens[i+1]) == "best":
			flush()
			out = append(out, tokens[i:i+2])
			i++

		case wl == "than":
			flush()
			j := phraseEnd(tokens, i+1)
			out = append(out, tokens[i:j])
			i = j - 1

		case wl == "to" && i+1 < len(tokens) && LooksLikeVerb(tokens[i+1]):
			flush()
			j := phraseEnd(tokens, i+2)
			out = append(out, tokens[i:j])
			i = j - 1

		case prepositions[wl]:
			flush()
			buf = append(buf, tokens[i])

		default:
			buf = append(buf, tokens[i])
		}
	}
	flush()
	return out
}

// phraseEnd returns the index of the first preposition or coordinating
// conjunction at or after from, or len(tokens).
func phraseEnd(tokens []string, from int) int {
	for j := from; j < len(tokens); j++ {
		wl := lower(tokens[j])
		if prepositions[wl] || conjunctions[wl] {
			return j
		}
	}
	return len(tokens)
}

func lower(s string) string {
	return strings.ToLower(s)
}
