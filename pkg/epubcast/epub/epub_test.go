package epub

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/cognicore/epubcast/pkg/epubcast/internalerr"
)

type entry struct {
	name string
	body string
}

func page(body string) string {
	return `<?xml version="1.0" encoding="utf-8"?>` +
		`<html xmlns="http://www.w3.org/1999/xhtml"><head><title>Ignored</title></head>` +
		`<body>` + body + `</body></html>`
}

func buildArchive(t *testing.T, entries ...entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Store})
		require.NoError(t, err)
		_, err = w.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestIsTextEntry(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"chapter1.xhtml", true},
		{"OEBPS/Text/CH2.XHTML", true},
		{"OEBPS/page.htm", true},
		{"OEBPS/part.html", true},
		{"toc.xhtml", false},
		{"cover.html", false},
		{"OEBPS/nav.xhtml", false},
		{"OEBPS/navigation/ch1.xhtml", false},
		{"stock.xhtml", false}, // contains "toc"
		{"Cover.html", true},   // marker check is case-sensitive
		{"OEBPS/style.css", false},
		{"OEBPS/content.opf", false},
		{"mimetype", false},
		{"chapter1.xhtml.bak", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTextEntry(tt.name), tt.name)
	}
}

func TestExtractTextOrderAndFilter(t *testing.T) {
	data := buildArchive(t,
		entry{"mimetype", "application/epub+zip"},
		entry{"OEBPS/ch2.xhtml", page("<p>Second</p>")},
		entry{"OEBPS/toc.xhtml", page("<p>TOC</p>")},
		entry{"OEBPS/ch1.xhtml", page("<p>First</p>")},
		entry{"OEBPS/cover.html", page("<p>Cover</p>")},
		entry{"OEBPS/content.opf", "<package/>"},
	)

	text, err := ExtractText(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "First\n\nSecond\n\n", text)
}

func TestExtractTextStripsScriptAndStyle(t *testing.T) {
	data := buildArchive(t, entry{"ch1.xhtml", page(
		`<p>Sarah</p><script>var x = "Hidden";</script><style>p { color: red }</style><p>Jones</p>`,
	)})

	text, err := ExtractText(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "SarahJones\n\n", text)
	assert.NotContains(t, text, "Hidden")
	assert.NotContains(t, text, "color")
	assert.NotContains(t, text, "Ignored", "head content is not body text")
}

func TestExtractTextNoscriptAndTemplate(t *testing.T) {
	data := buildArchive(t, entry{"ch1.xhtml", page(
		`<p>Sarah wore a dress.</p><noscript><p>Hidden</p></noscript><template><p>Tmpl</p></template>`,
	)})

	text, err := ExtractText(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "Sarah wore a dress.Hidden\n\n", text)
	assert.NotContains(t, text, "<p>")
}

func TestExtractTextFragmentWithoutBody(t *testing.T) {
	data := buildArchive(t, entry{"ch1.html", "<p>Plain</p>"})

	text, err := ExtractText(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "Plain\n\n", text)
}

func TestExtractTextUTF16WithBOM(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	body, err := enc.String("<html><body><p>Hello Sarah</p></body></html>")
	require.NoError(t, err)

	data := buildArchive(t, entry{"ch1.xhtml", body})

	text, err := ExtractText(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "Hello Sarah\n\n", text)
}

func TestExtractTextManyEntriesKeepSortedOrder(t *testing.T) {
	var entries []entry
	var want strings.Builder
	for i := 49; i >= 0; i-- {
		entries = append(entries, entry{fmt.Sprintf("OEBPS/ch%03d.xhtml", i), page(fmt.Sprintf("Part %d", i))})
	}
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&want, "Part %d\n\n", i)
	}

	text, err := ExtractText(context.Background(), buildArchive(t, entries...))
	require.NoError(t, err)
	assert.Equal(t, want.String(), text)
}

func TestExtractTextDuplicateNameLastWins(t *testing.T) {
	data := buildArchive(t,
		entry{"ch1.xhtml", page("Old")},
		entry{"ch1.xhtml", page("New")},
	)

	text, err := ExtractText(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "New\n\n", text)
}

func TestExtractTextNoStoryEntries(t *testing.T) {
	data := buildArchive(t, entry{"mimetype", "application/epub+zip"})

	text, err := ExtractText(context.Background(), data)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractTextNotAnArchive(t *testing.T) {
	_, err := ExtractText(context.Background(), []byte("definitely not a zip file"))
	require.Error(t, err)

	var archiveErr *internalerr.ArchiveError
	require.ErrorAs(t, err, &archiveErr)
	assert.Equal(t, "open archive", archiveErr.Op)
	assert.ErrorIs(t, err, internalerr.ErrArchive)
	assert.ErrorIs(t, err, zip.ErrFormat)
}

func TestExtractTextCorruptEntry(t *testing.T) {
	data := buildArchive(t,
		entry{"ch1.xhtml", page("Sarah was tall")},
		entry{"ch2.xhtml", page("Fine")},
	)
	// Flip stored bytes so the entry no longer matches its checksum
	corrupt := bytes.Replace(data, []byte("Sarah was tall"), []byte("Sarah was tell"), 1)
	require.NotEqual(t, data, corrupt)

	text, err := ExtractText(context.Background(), corrupt)
	require.Error(t, err)
	assert.Empty(t, text, "no partial text on failure")

	var archiveErr *internalerr.ArchiveError
	require.ErrorAs(t, err, &archiveErr)
	assert.Equal(t, "ch1.xhtml", archiveErr.Entry)
	assert.ErrorIs(t, err, zip.ErrChecksum)
}

func TestExtractTextCancelled(t *testing.T) {
	data := buildArchive(t, entry{"ch1.xhtml", page("Sarah")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExtractText(ctx, data)
	require.Error(t, err)
	assert.ErrorIs(t, err, internalerr.ErrArchive)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTextEntries(t *testing.T) {
	data := buildArchive(t,
		entry{"b.xhtml", page("B")},
		entry{"nav.xhtml", page("N")},
		entry{"a.html", page("A")},
	)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	for _, f := range TextEntries(zr) {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a.html", "b.xhtml"}, names)
}
