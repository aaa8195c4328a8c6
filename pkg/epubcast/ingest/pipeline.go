package ingest

import "github.com/cognicore/epubcast/pkg/epubcast/lexicon"

// Pipeline orchestrates the analysis of one flattened book:
// text → name candidates → per-name descriptions → categories
type Pipeline struct {
	names  *NameExtractor
	finder *DescriptionFinder
	lex    *lexicon.Lexicon
}

// NewPipeline creates an analysis pipeline with the given components
func NewPipeline(names *NameExtractor, finder *DescriptionFinder, lex *lexicon.Lexicon) *Pipeline {
	return &Pipeline{
		names:  names,
		finder: finder,
		lex:    lex,
	}
}

// Profile is the aggregated record for one character.
// MatchCount always equals len(Descriptions).
type Profile struct {
	Name         string              `json:"name"`
	Descriptions []string            `json:"descriptions"`
	Categorized  map[string][]string `json:"categorized"`
	MatchCount   int                 `json:"match_count"`
}

// Result is the outcome of processing one text.
type Result struct {
	Candidates []NameCandidate
	Sentences  int
	Profiles   []Profile
}

// Process runs a text through the full pipeline. Profiles keep candidate
// ranking order; candidates without any description are dropped.
func (p *Pipeline) Process(text string) Result {
	// 1. Rank capitalized sequences
	candidates := p.names.Candidates(text)

	// 2. Split once, reuse for every candidate
	sentences := SplitSentences(text)

	profiles := make([]Profile, 0, len(candidates))
	for _, c := range candidates {
		// 3. Descriptions for this name
		descriptions := p.finder.FindIn(sentences, c.Name)
		if len(descriptions) == 0 {
			continue
		}

		// 4. Categorize them
		profiles = append(profiles, Profile{
			Name:         c.Name,
			Descriptions: descriptions,
			Categorized:  Categorize(p.lex, descriptions),
			MatchCount:   len(descriptions),
		})
	}

	return Result{
		Candidates: candidates,
		Sentences:  len(sentences),
		Profiles:   profiles,
	}
}
