package ingest

import (
	"strings"

	"github.com/cognicore/epubcast/pkg/epubcast/lexicon"
)

// Categorize maps every category to the descriptions containing one of its
// phrases. A description can land in several categories; categories with no
// match are left out of the result.
func Categorize(lex *lexicon.Lexicon, descriptions []string) map[string][]string {
	sets := make(map[string]*OrderedSet)

	for _, d := range descriptions {
		for _, id := range lex.MatchingCategories(strings.ToLower(d)) {
			set, ok := sets[id]
			if !ok {
				set = NewOrderedSet()
				sets[id] = set
			}
			set.Add(d)
		}
	}

	result := make(map[string][]string, len(sets))
	for id, set := range sets {
		result[id] = set.Values()
	}
	return result
}
