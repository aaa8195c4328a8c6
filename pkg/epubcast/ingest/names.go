package ingest

import (
	"sort"
	"unicode/utf8"

	"github.com/cognicore/epubcast/pkg/epubcast/stoplist"
)

// NameCandidate is a capitalized word, or pair of words, that recurs often
// enough to be treated as a probable character name.
type NameCandidate struct {
	Name      string `json:"name"`
	Frequency int    `json:"frequency"`
}

// NameExtractor ranks capitalized sequences by frequency.
type NameExtractor struct {
	stops        *stoplist.Manager
	minFrequency int
	maxNames     int
}

// NewNameExtractor creates an extractor. Candidates seen fewer than
// minFrequency times are dropped; at most maxNames are returned
// (maxNames <= 0 means no cap).
func NewNameExtractor(stops *stoplist.Manager, minFrequency, maxNames int) *NameExtractor {
	if minFrequency < 1 {
		minFrequency = 1
	}
	return &NameExtractor{
		stops:        stops,
		minFrequency: minFrequency,
		maxNames:     maxNames,
	}
}

// Candidates returns name candidates sorted by descending frequency, ties in
// order of first appearance. Counting is keyed by the exact matched text, so
// "Mary" and "Mary Jones" are separate candidates.
func (e *NameExtractor) Candidates(text string) []NameCandidate {
	counts := make(map[string]int)
	var order []string

	ScanCapitalized(text, func(match string) {
		if utf8.RuneCountInString(match) <= 2 || e.stops.IsStop(match) {
			return
		}
		if _, seen := counts[match]; !seen {
			order = append(order, match)
		}
		counts[match]++
	})

	result := make([]NameCandidate, 0, len(order))
	for _, name := range order {
		if counts[name] >= e.minFrequency {
			result = append(result, NameCandidate{Name: name, Frequency: counts[name]})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Frequency > result[j].Frequency
	})

	if e.maxNames > 0 && len(result) > e.maxNames {
		result = result[:e.maxNames]
	}
	return result
}

// ScanCapitalized calls fn for every capitalized sequence in text, left to
// right and without overlap. A sequence is a word of one ASCII upper-case
// letter followed by ASCII lower-case letters, optionally followed by
// whitespace and a second such word, with a word boundary on both ends.
func ScanCapitalized(text string, fn func(match string)) {
	for i := 0; i < len(text); {
		end := matchCapitalized(text, i)
		if end < 0 {
			i++
			continue
		}
		fn(text[i:end])
		i = end
	}
}

// matchCapitalized returns the end of the capitalized sequence starting at i,
// or -1 if none starts there. The two-word form is preferred when it fits.
func matchCapitalized(s string, i int) int {
	if !isUpper(s[i]) || wordBefore(s, i) {
		return -1
	}
	j := lowerRun(s, i+1)
	if j == i+1 {
		return -1
	}

	if k := spaceRun(s, j); k > j && k < len(s) && isUpper(s[k]) {
		if l := lowerRun(s, k+1); l > k+1 && !wordAt(s, l) {
			return l
		}
	}

	if wordAt(s, j) {
		return -1
	}
	return j
}
