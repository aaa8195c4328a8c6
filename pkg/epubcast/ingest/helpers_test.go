package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cognicore/epubcast/pkg/epubcast/lexicon"
)

func newTestLexicon(t *testing.T) *lexicon.Lexicon {
	t.Helper()
	lex, err := lexicon.New([]lexicon.Category{
		{ID: "body", Label: "Body Type", Phrases: []string{"tall", "slender"}},
		{ID: "clothing", Label: "Western Clothing", Phrases: []string{"dress", "coat"}},
		{ID: "hair", Label: "Hair", Phrases: []string{"red hair", "curly"}},
	})
	require.NoError(t, err)
	return lex
}
