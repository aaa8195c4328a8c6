// Package epub flattens the readable content of an EPUB archive into one
// plain-text document.
package epub

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"runtime"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cognicore/epubcast/pkg/epubcast/internalerr"
)

// EntrySeparator follows the text of every entry.
const EntrySeparator = "\n\n"

var (
	textExtensions = []string{".xhtml", ".html", ".htm"}

	// Entries whose path contains one of these are navigation or cover
	// pages, not story text. The check is case-sensitive.
	excludedMarkers = []string{"nav", "toc", "cover"}
)

// IsTextEntry reports whether an archive entry holds story text: its name
// ends in .xhtml, .html or .htm (any case) and does not contain "nav",
// "toc" or "cover".
func IsTextEntry(name string) bool {
	lower := strings.ToLower(name)
	hasExt := false
	for _, ext := range textExtensions {
		if strings.HasSuffix(lower, ext) {
			hasExt = true
			break
		}
	}
	if !hasExt {
		return false
	}
	for _, m := range excludedMarkers {
		if strings.Contains(name, m) {
			return false
		}
	}
	return true
}

// TextEntries returns the story entries of an archive sorted by name.
// Sorting stands in for the package manifest's reading order; for most
// books chapter files are numbered so the two agree.
func TextEntries(zr *zip.Reader) []*zip.File {
	byName := make(map[string]*zip.File)
	for _, f := range zr.File {
		if IsTextEntry(f.Name) {
			byName[f.Name] = f // later duplicates win
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	files := make([]*zip.File, len(names))
	for i, name := range names {
		files[i] = byName[name]
	}
	return files
}

// ExtractText opens data as an EPUB archive and returns the visible text of
// its story entries in name order, each followed by EntrySeparator.
//
// Entries are decoded concurrently but assembled in sorted order. Any
// failure aborts the whole extraction with an *internalerr.ArchiveError;
// no partial text is returned. Cancelling ctx stops pending entries.
func ExtractText(ctx context.Context, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &internalerr.ArchiveError{Op: "open archive", Err: err}
	}

	files := TextEntries(zr)
	texts := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return &internalerr.ArchiveError{Op: "read entry", Entry: f.Name, Err: err}
			}
			text, err := entryText(f)
			if err != nil {
				return err
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, text := range texts {
		b.WriteString(text)
		b.WriteString(EntrySeparator)
	}
	return b.String(), nil
}

// entryText decodes one entry and returns the text of its body, without
// script, style and template contents.
func entryText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", &internalerr.ArchiveError{Op: "open entry", Entry: f.Name, Err: err}
	}
	defer rc.Close()

	// UTF-8 unless a BOM says otherwise; invalid bytes become U+FFFD.
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	raw, err := io.ReadAll(transform.NewReader(rc, decoder))
	if err != nil {
		return "", &internalerr.ArchiveError{Op: "read entry", Entry: f.Name, Err: err}
	}

	// Scripting off so <noscript> content parses as markup, not raw text.
	root, err := html.ParseWithOptions(bytes.NewReader(raw), html.ParseOptionEnableScripting(false))
	if err != nil {
		return "", &internalerr.ArchiveError{Op: "parse entry", Entry: f.Name, Err: err}
	}

	doc := goquery.NewDocumentFromNode(root)
	doc.Find("script, style, template").Remove()
	return doc.Find("body").Text(), nil
}
