// Package epubcast builds physical-appearance profiles of the characters in
// an EPUB book.
//
// A Profiler flattens the book's story entries to plain text, ranks
// recurring capitalized names, collects the sentences that mention each
// name next to a descriptor phrase and sorts those sentences into the
// lexicon's categories.
package epubcast

import (
	"context"
	"crypto/rand"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/epubcast/pkg/epubcast/config"
	"github.com/cognicore/epubcast/pkg/epubcast/epub"
	"github.com/cognicore/epubcast/pkg/epubcast/ingest"
	"github.com/cognicore/epubcast/pkg/epubcast/lexicon"
	"github.com/cognicore/epubcast/pkg/epubcast/stoplist"
)

// CharacterProfile is the aggregated appearance record for one character.
type CharacterProfile = ingest.Profile

// Profiler is the main analysis facade
type Profiler struct {
	pipeline *ingest.Pipeline
	lexicon  *lexicon.Lexicon
	settings config.Settings
	logger   *slog.Logger
}

// Options configures a Profiler. Nil components fall back to the built-in
// lexicon and stoplist; a zero Settings falls back to the canonical limits.
type Options struct {
	Lexicon  *lexicon.Lexicon
	Stoplist *stoplist.Manager
	Settings config.Settings
	Logger   *slog.Logger
}

// New creates a Profiler with the given dependencies
func New(opts Options) (*Profiler, error) {
	lex := opts.Lexicon
	if lex == nil {
		built, err := config.DefaultLexicon().Build()
		if err != nil {
			return nil, err
		}
		lex = built
	}

	stops := opts.Stoplist
	if stops == nil {
		stops = stoplist.NewManager(config.DefaultStoplist().Terms)
	}

	settings := opts.Settings
	if settings == (config.Settings{}) {
		settings = config.DefaultSettings()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("profiler configured",
		"categories", len(lex.IDs()),
		"stopwords", stops.Len(),
		"max_names", settings.MaxNames,
		"max_descriptions", settings.MaxDescriptions,
		"min_frequency", settings.MinFrequency,
	)

	names := ingest.NewNameExtractor(stops, settings.MinFrequency, settings.MaxNames)
	finder := ingest.NewDescriptionFinder(lex, settings.MaxDescriptions)

	return &Profiler{
		pipeline: ingest.NewPipeline(names, finder, lex),
		lexicon:  lex,
		settings: settings,
		logger:   logger,
	}, nil
}

// NewFromComponents creates a Profiler from loaded configuration.
func NewFromComponents(c *config.Components, logger *slog.Logger) (*Profiler, error) {
	return New(Options{
		Lexicon:  c.Lexicon,
		Stoplist: c.Stoplist,
		Settings: c.Settings,
		Logger:   logger,
	})
}

// Lexicon returns the descriptor lexicon in use.
func (p *Profiler) Lexicon() *lexicon.Lexicon { return p.lexicon }

// Settings returns the effective limits.
func (p *Profiler) Settings() config.Settings { return p.settings }

// Analyze extracts the text of an EPUB archive and returns one profile per
// character with at least one description, in name-frequency order.
// Archive failures are returned unchanged as *internalerr.ArchiveError and
// no profiles are produced. An archive without any character is not an
// error.
func (p *Profiler) Analyze(ctx context.Context, data []byte) ([]CharacterProfile, error) {
	runID, ok := RunIDFromContext(ctx)
	if !ok {
		runID = NewRunID()
	}
	logger := p.logger.With("run_id", runID)
	start := time.Now()

	text, err := epub.ExtractText(ctx, data)
	if err != nil {
		logger.Warn("analysis failed", "bytes", len(data), "error", err)
		return nil, err
	}

	result := p.pipeline.Process(text)

	logger.Info("analysis complete",
		"bytes", len(data),
		"text_chars", len(text),
		"sentences", result.Sentences,
		"candidates", len(result.Candidates),
		"profiles", len(result.Profiles),
		"duration", time.Since(start),
	)
	return result.Profiles, nil
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewRunID returns a new, lexically sortable run identifier.
func NewRunID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

type runIDKey struct{}

// WithRunID attaches a run identifier to ctx so that Analyze logs under it.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run identifier attached by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}
