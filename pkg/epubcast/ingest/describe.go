package ingest

import (
	"strings"

	"github.com/cognicore/epubcast/pkg/epubcast/lexicon"
)

// DescriptionFinder collects sentences that mention a name together with at
// least one descriptor phrase. Co-occurrence in one sentence is the whole
// signal; nothing checks that the descriptor applies to the named character.
type DescriptionFinder struct {
	lex   *lexicon.Lexicon
	limit int
}

// NewDescriptionFinder creates a finder returning at most limit sentences
// per name (limit <= 0 means no cap).
func NewDescriptionFinder(lex *lexicon.Lexicon, limit int) *DescriptionFinder {
	return &DescriptionFinder{lex: lex, limit: limit}
}

// Find splits text into sentences and returns the descriptive ones for name.
func (f *DescriptionFinder) Find(text, name string) []string {
	return f.FindIn(SplitSentences(text), name)
}

// FindIn is Find over sentences that were already split. Matches are
// trimmed, deduplicated and kept in first-seen order.
func (f *DescriptionFinder) FindIn(sentences []string, name string) []string {
	found := NewOrderedSet()
	for _, s := range sentences {
		if !ContainsWord(s, name) {
			continue
		}
		if !f.lex.MatchesAny(strings.ToLower(s)) {
			continue
		}
		found.Add(TrimSpace(s))
		if f.limit > 0 && found.Len() >= f.limit {
			break
		}
	}
	return found.Values()
}
