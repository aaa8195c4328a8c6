package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/epubcast/pkg/epubcast"
	"github.com/cognicore/epubcast/pkg/epubcast/lexicon"
	"github.com/cognicore/epubcast/pkg/epubcast/session"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// renderer writes session states in the selected output format.
type renderer struct {
	w      io.Writer
	format string
	lex    *lexicon.Lexicon
}

func newRenderer(w io.Writer, format string, lex *lexicon.Lexicon) (*renderer, error) {
	switch format {
	case formatText, formatJSON:
	default:
		return nil, fmt.Errorf("unknown output format %q (want text or json)", format)
	}
	return &renderer{w: w, format: format, lex: lex}, nil
}

func (r *renderer) render(st session.State) error {
	if r.format == formatJSON {
		return r.renderJSON(st)
	}
	return r.renderText(st)
}

// stateOutput is the JSON shape of one session state.
type stateOutput struct {
	Generation uint64                      `json:"generation"`
	RunID      string                      `json:"run_id,omitempty"`
	File       string                      `json:"file,omitempty"`
	Analyzing  bool                        `json:"analyzing"`
	Characters []epubcast.CharacterProfile `json:"characters"`
	Error      string                      `json:"error,omitempty"`
}

func (r *renderer) renderJSON(st session.State) error {
	out := stateOutput{
		Generation: st.Generation,
		RunID:      st.RunID,
		File:       st.FileName,
		Analyzing:  st.Analyzing,
		Characters: st.Profiles,
		Error:      st.Error,
	}
	if out.Characters == nil {
		out.Characters = []epubcast.CharacterProfile{}
	}

	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (r *renderer) renderText(st session.State) error {
	var b strings.Builder

	switch {
	case st.Error != "":
		fmt.Fprintln(&b, st.Error)
	case st.Analyzing:
		fmt.Fprintf(&b, "%s: Scanning text for physical details...\n", st.FileName)
	case len(st.Profiles) == 0:
		fmt.Fprintf(&b, "%s: no character descriptions found\n", st.FileName)
	default:
		fmt.Fprintf(&b, "%s\n", st.FileName)
		for _, p := range st.Profiles {
			fmt.Fprintln(&b)
			r.writeProfile(&b, p)
		}
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *renderer) writeProfile(b *strings.Builder, p epubcast.CharacterProfile) {
	fmt.Fprintf(b, "%s  [%d Match(es)]\n", strings.ToUpper(p.Name), p.MatchCount)

	// Category tags in lexicon order
	var labels []string
	for _, id := range r.lex.IDs() {
		if _, ok := p.Categorized[id]; ok {
			labels = append(labels, r.lex.Label(id))
		}
	}
	if len(labels) > 0 {
		fmt.Fprintf(b, "  %s\n", strings.Join(labels, " | "))
	}

	for _, d := range p.Descriptions {
		fmt.Fprintf(b, "  %q\n", d)
	}
}
