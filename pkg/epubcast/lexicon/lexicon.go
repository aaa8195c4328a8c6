package lexicon

import (
	"fmt"
	"strings"

	"github.com/cognicore/epubcast/pkg/epubcast/internalerr"
)

// Lexicon stores the descriptor vocabulary used to spot physical descriptions:
// an ordered list of categories, each with the phrases that trigger it.
//
// Design principles:
// - Immutable: built once by New, never modified afterwards
// - Ordered: categories keep their configured order (reports list them that way)
// - Case-insensitive: phrases are stored lower-cased and matched as substrings
type Lexicon struct {
	categories []Category
	index      map[string]int // category ID -> position in categories
	phrases    []string       // every phrase across categories, deduplicated
}

// Category is one semantic grouping of descriptor phrases.
type Category struct {
	ID      string   // Stable key, e.g. "hair"
	Label   string   // Display name, e.g. "Hair"
	Phrases []string // Lower-cased descriptor phrases, e.g. "red hair"
}

// New builds a lexicon from the given categories.
//
// Notes:
// - Phrases are lower-cased and trimmed; duplicates within a category are dropped
// - Multi-word phrases are supported (e.g., "black hair")
// - An empty phrase would match every sentence, so it is rejected
func New(categories []Category) (*Lexicon, error) {
	lex := &Lexicon{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
	}
	seenAll := make(map[string]bool)

	for _, c := range categories {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: category without id", internalerr.ErrInvalidConfig)
		}
		if _, dup := lex.index[id]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", internalerr.ErrInvalidConfig, id)
		}

		phrases := make([]string, 0, len(c.Phrases))
		seen := make(map[string]bool, len(c.Phrases))
		for _, p := range c.Phrases {
			p = strings.ToLower(strings.TrimSpace(p))
			if p == "" {
				return nil, fmt.Errorf("%w: empty phrase in category %q", internalerr.ErrInvalidConfig, id)
			}
			if seen[p] {
				continue
			}
			seen[p] = true
			phrases = append(phrases, p)
			if !seenAll[p] {
				seenAll[p] = true
				lex.phrases = append(lex.phrases, p)
			}
		}

		label := strings.TrimSpace(c.Label)
		if label == "" {
			label = id
		}

		lex.index[id] = len(lex.categories)
		lex.categories = append(lex.categories, Category{ID: id, Label: label, Phrases: phrases})
	}

	return lex, nil
}

// Categories returns a copy of all categories in configured order.
func (l *Lexicon) Categories() []Category {
	out := make([]Category, len(l.categories))
	for i, c := range l.categories {
		out[i] = Category{
			ID:      c.ID,
			Label:   c.Label,
			Phrases: append([]string(nil), c.Phrases...),
		}
	}
	return out
}

// IDs returns category IDs in configured order.
func (l *Lexicon) IDs() []string {
	ids := make([]string, len(l.categories))
	for i, c := range l.categories {
		ids[i] = c.ID
	}
	return ids
}

// Label returns the display label for a category.
// Unknown categories are labelled with their own ID.
func (l *Lexicon) Label(id string) string {
	if i, ok := l.index[id]; ok {
		return l.categories[i].Label
	}
	return id
}

// Phrases returns a copy of the phrases of one category, or nil if unknown.
func (l *Lexicon) Phrases(id string) []string {
	i, ok := l.index[id]
	if !ok {
		return nil
	}
	return append([]string(nil), l.categories[i].Phrases...)
}

// MatchesAny reports whether any phrase of any category occurs in lower.
// The caller passes text already lower-cased with strings.ToLower.
func (l *Lexicon) MatchesAny(lower string) bool {
	for _, p := range l.phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// MatchingCategories returns, in configured order, the IDs of every category
// with at least one phrase occurring in lower (already lower-cased).
func (l *Lexicon) MatchingCategories(lower string) []string {
	var ids []string
	for _, c := range l.categories {
		for _, p := range c.Phrases {
			if strings.Contains(lower, p) {
				ids = append(ids, c.ID)
				break
			}
		}
	}
	return ids
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() LexiconStats {
	total := 0
	for _, c := range l.categories {
		total += len(c.Phrases)
	}
	return LexiconStats{
		Categories:    len(l.categories),
		TotalPhrases:  total,
		UniquePhrases: len(l.phrases),
	}
}

// LexiconStats holds statistics about lexicon contents.
type LexiconStats struct {
	Categories    int // Number of categories
	TotalPhrases  int // Phrases summed over categories
	UniquePhrases int // Distinct phrases across all categories
}
