package ingest

// SplitSentences splits text on runs of '.', '!' or '?' followed by
// whitespace. The delimiters are dropped; pieces are returned untrimmed and
// a trailing empty piece appears when text ends with a delimiter.
//
// This is a heuristic: "Mr. Darcy" splits after "Mr", and "Stop!" inside
// quotes without a following space does not split.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(text); {
		if !isTerminal(text[i]) {
			i++
			continue
		}
		p := i
		for p < len(text) && isTerminal(text[p]) {
			p++
		}
		q := spaceRun(text, p)
		if q == p {
			i = p
			continue
		}
		sentences = append(sentences, text[start:i])
		start = q
		i = q
	}

	return append(sentences, text[start:])
}

func isTerminal(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}
