package session

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/epubcast/pkg/epubcast"
	"github.com/cognicore/epubcast/pkg/epubcast/internalerr"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// gatedAnalyzer blocks each call until the test releases it by payload.
type gatedAnalyzer struct {
	mu     sync.Mutex
	gates  map[string]chan struct{}
	runIDs []string
}

func newGatedAnalyzer(payloads ...string) *gatedAnalyzer {
	g := &gatedAnalyzer{gates: make(map[string]chan struct{})}
	for _, p := range payloads {
		g.gates[p] = make(chan struct{})
	}
	return g
}

func (g *gatedAnalyzer) Analyze(ctx context.Context, data []byte) ([]epubcast.CharacterProfile, error) {
	g.mu.Lock()
	gate := g.gates[string(data)]
	if id, ok := epubcast.RunIDFromContext(ctx); ok {
		g.runIDs = append(g.runIDs, id)
	}
	g.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if string(data) == "broken" {
		return nil, errors.New("zip: not a valid zip file")
	}
	return []epubcast.CharacterProfile{{Name: string(data), MatchCount: 1, Descriptions: []string{string(data) + " was tall"}}}, nil
}

func (g *gatedAnalyzer) release(payload string) { close(g.gates[payload]) }

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"book.epub", true},
		{"dir/my book.epub", true},
		{".epub", true},
		{"book.txt", false},
		{"book.EPUB", false},
		{"book.epub.zip", false},
		{"", false},
	}
	for _, tt := range tests {
		err := ValidateUpload(tt.name)
		if tt.ok {
			assert.NoError(t, err, tt.name)
			continue
		}
		require.Error(t, err, tt.name)
		assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
		assert.Equal(t, "Please upload a valid EPUB file", err.Error())
	}
}

func TestSubmitRejectsNonEPUB(t *testing.T) {
	a := newGatedAnalyzer()
	s := New(a, Options{Logger: quietLogger})

	gen := s.Submit(context.Background(), Upload{Name: "book.txt", Data: []byte("Sarah")})
	s.Wait()

	st := s.State()
	assert.Equal(t, gen, st.Generation)
	assert.Equal(t, "Please upload a valid EPUB file", st.Error)
	assert.Empty(t, st.Profiles)
	assert.False(t, st.Analyzing)
	assert.Empty(t, a.runIDs, "analysis must not run")
}

func TestSubmitSuccess(t *testing.T) {
	a := newGatedAnalyzer("Sarah")
	s := New(a, Options{Logger: quietLogger})

	s.Submit(context.Background(), Upload{Name: "book.epub", Data: []byte("Sarah")})

	st := s.State()
	assert.True(t, st.Analyzing)
	assert.Equal(t, "book.epub", st.FileName)
	assert.Len(t, st.RunID, 26)

	a.release("Sarah")
	s.Wait()

	st = s.State()
	assert.False(t, st.Analyzing)
	assert.False(t, st.Failed())
	require.Len(t, st.Profiles, 1)
	assert.Equal(t, "Sarah", st.Profiles[0].Name)
	assert.Equal(t, []string{st.RunID}, a.runIDs, "run id reaches the analyzer")
}

func TestSubmitFailurePrefixesError(t *testing.T) {
	a := newGatedAnalyzer()
	s := New(a, Options{Logger: quietLogger})

	s.Submit(context.Background(), Upload{Name: "book.epub", Data: []byte("broken")})
	s.Wait()

	st := s.State()
	assert.True(t, st.Failed())
	assert.Equal(t, "Error: zip: not a valid zip file", st.Error)
	assert.Empty(t, st.Profiles)
}

func TestLastSubmittedWins(t *testing.T) {
	a := newGatedAnalyzer("first", "second")
	s := New(a, Options{Logger: quietLogger})
	ctx := context.Background()

	s.Submit(ctx, Upload{Name: "first.epub", Data: []byte("first")})
	second := s.Submit(ctx, Upload{Name: "second.epub", Data: []byte("second")})

	// Newer run completes first, older one afterwards.
	a.release("second")
	require.Eventually(t, func() bool { return !s.State().Analyzing }, time.Second, time.Millisecond)
	a.release("first")
	s.Wait()

	st := s.State()
	assert.Equal(t, second, st.Generation)
	assert.Equal(t, "second.epub", st.FileName)
	require.Len(t, st.Profiles, 1)
	assert.Equal(t, "second", st.Profiles[0].Name)
}

func TestRejectedUploadSupersedesRunningAnalysis(t *testing.T) {
	a := newGatedAnalyzer("first")
	s := New(a, Options{Logger: quietLogger})
	ctx := context.Background()

	s.Submit(ctx, Upload{Name: "first.epub", Data: []byte("first")})
	s.Submit(ctx, Upload{Name: "notes.txt"})
	a.release("first")
	s.Wait()

	st := s.State()
	assert.Equal(t, uint64(2), st.Generation)
	assert.Equal(t, "Please upload a valid EPUB file", st.Error)
	assert.Empty(t, st.Profiles)
}

func TestOnChangeSeesAppliedStatesInOrder(t *testing.T) {
	a := newGatedAnalyzer("first", "second")

	var mu sync.Mutex
	var seen []State
	s := New(a, Options{Logger: quietLogger, OnChange: func(st State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, st)
	}})
	ctx := context.Background()

	s.Submit(ctx, Upload{Name: "first.epub", Data: []byte("first")})
	s.Submit(ctx, Upload{Name: "second.epub", Data: []byte("second")})
	a.release("first")
	a.release("second")
	s.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 3, "the stale first result is never applied")
	assert.True(t, seen[0].Analyzing)
	assert.Equal(t, "first.epub", seen[0].FileName)
	assert.True(t, seen[1].Analyzing)
	assert.Equal(t, "second.epub", seen[1].FileName)
	assert.False(t, seen[2].Analyzing)
	assert.Equal(t, "second", seen[2].Profiles[0].Name)
}

func TestStateIsACopy(t *testing.T) {
	a := newGatedAnalyzer()
	s := New(a, Options{Logger: quietLogger})

	s.Submit(context.Background(), Upload{Name: "book.epub", Data: []byte("Sarah")})
	s.Wait()

	st := s.State()
	st.Profiles[0] = epubcast.CharacterProfile{Name: "Changed"}
	assert.Equal(t, "Sarah", s.State().Profiles[0].Name)
}

func TestSessionWithProfiler(t *testing.T) {
	p, err := epubcast.New(epubcast.Options{Logger: quietLogger})
	require.NoError(t, err)
	s := New(p, Options{Logger: quietLogger})

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("OEBPS/chapter1.xhtml")
	require.NoError(t, err)
	_, err = io.WriteString(w, "<html><body><p>Sarah walked in. Sarah was tall and wore a red dress. John smiled. Sarah laughed again. Sarah spoke softly.</p></body></html>")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	s.Submit(context.Background(), Upload{Name: "story.epub", Data: buf.Bytes()})
	s.Wait()

	st := s.State()
	require.Empty(t, st.Error)
	require.Len(t, st.Profiles, 1)
	assert.Equal(t, "Sarah", st.Profiles[0].Name)

	s.Submit(context.Background(), Upload{Name: "corrupt.epub", Data: []byte("not a zip")})
	s.Wait()

	st = s.State()
	assert.Contains(t, st.Error, "Error: ")
	assert.Equal(t, 0, len(st.Profiles))
}
