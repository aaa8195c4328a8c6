// Package session tracks the outcome of the most recent upload.
//
// Every Submit starts a new generation. Analyses run in the background and
// only the result belonging to the latest generation is ever applied, so a
// slow earlier upload can never overwrite the output of a newer one.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cognicore/epubcast/pkg/epubcast"
	"github.com/cognicore/epubcast/pkg/epubcast/internalerr"
)

// ErrorPrefix starts every failure message shown for an analysis.
const ErrorPrefix = "Error: "

// Analyzer turns the bytes of an EPUB into character profiles.
type Analyzer interface {
	Analyze(ctx context.Context, data []byte) ([]epubcast.CharacterProfile, error)
}

// Upload is a named file submitted for analysis.
type Upload struct {
	Name string
	Data []byte
}

// State is the visible outcome of the latest upload.
type State struct {
	Generation uint64
	RunID      string
	FileName   string
	Analyzing  bool
	Profiles   []epubcast.CharacterProfile
	Error      string
}

// Failed reports whether the state carries an error message.
func (s State) Failed() bool { return s.Error != "" }

// ValidateUpload checks the file name before any parsing. Only names ending
// in ".epub" (lower case) are accepted.
func ValidateUpload(name string) error {
	if name == "" || !strings.HasSuffix(name, ".epub") {
		return &internalerr.InputValidationError{Name: name}
	}
	return nil
}

// Options configures a Session
type Options struct {
	Logger *slog.Logger

	// OnChange is called with every applied state, in the order states are
	// applied. It must not call Submit.
	OnChange func(State)
}

// Session holds the state of the latest upload
type Session struct {
	analyzer Analyzer
	logger   *slog.Logger
	onChange func(State)

	generation atomic.Uint64

	mu    sync.Mutex
	state State

	notifyMu sync.Mutex
	wg       sync.WaitGroup
}

// New creates a session that analyzes uploads with a.
func New(a Analyzer, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		analyzer: a,
		logger:   logger,
		onChange: opts.OnChange,
	}
}

// Submit starts a new generation for u and returns its number. Rejected
// uploads resolve immediately; accepted ones are analyzed in the background
// and their outcome is applied only if no newer upload arrived meanwhile.
func (s *Session) Submit(ctx context.Context, u Upload) uint64 {
	gen := s.generation.Add(1)

	if err := ValidateUpload(u.Name); err != nil {
		s.logger.Info("upload rejected", "generation", gen, "file", u.Name)
		s.apply(gen, State{Generation: gen, Error: err.Error()})
		return gen
	}

	runID := epubcast.NewRunID()
	s.apply(gen, State{
		Generation: gen,
		RunID:      runID,
		FileName:   u.Name,
		Analyzing:  true,
	})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		profiles, err := s.analyzer.Analyze(epubcast.WithRunID(ctx, runID), u.Data)
		next := State{Generation: gen, RunID: runID, FileName: u.Name}
		if err != nil {
			next.Error = ErrorPrefix + err.Error()
		} else {
			next.Profiles = profiles
		}

		if !s.apply(gen, next) {
			s.logger.Debug("analysis superseded", "generation", gen, "run_id", runID)
		}
	}()

	return gen
}

// apply replaces the current state if gen is still the latest generation.
func (s *Session) apply(gen uint64, next State) bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if gen != s.generation.Load() {
		s.mu.Unlock()
		return false
	}
	s.state = next
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(snapshot)
	}
	return true
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	st := s.state
	if st.Profiles != nil {
		st.Profiles = append([]epubcast.CharacterProfile(nil), st.Profiles...)
	}
	return st
}

// Wait blocks until every background analysis has finished.
func (s *Session) Wait() {
	s.wg.Wait()
}
