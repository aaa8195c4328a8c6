package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/epubcast/pkg/epubcast/lexicon"
)

//go:embed defaults/*.yaml
var defaults embed.FS

// Lexicon represents the descriptor lexicon configuration
type Lexicon struct {
	Categories []LexiconCategory `yaml:"categories"`
}

// LexiconCategory is one category entry of the lexicon file
type LexiconCategory struct {
	ID      string   `yaml:"id"`
	Label   string   `yaml:"label"`
	Phrases []string `yaml:"phrases"`
}

// Build converts the file representation into an immutable lexicon.
func (l *Lexicon) Build() (*lexicon.Lexicon, error) {
	cats := make([]lexicon.Category, len(l.Categories))
	for i, c := range l.Categories {
		cats[i] = lexicon.Category{ID: c.ID, Label: c.Label, Phrases: c.Phrases}
	}
	return lexicon.New(cats)
}

// LoadLexicon loads the descriptor lexicon from a YAML file
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes lexicon YAML. Unknown fields are rejected so that a
// typo in a category key fails loudly instead of silently dropping phrases.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := decodeStrict(data, &lex); err != nil {
		return nil, err
	}
	return &lex, nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}

// DefaultLexicon returns the built-in lexicon configuration.
func DefaultLexicon() *Lexicon {
	data := mustDefault("defaults/lexicon.yaml")
	lex, err := ParseLexicon(data)
	if err != nil {
		panic(fmt.Sprintf("config: embedded lexicon: %v", err))
	}
	return lex
}

// DefaultStoplist returns the built-in stoplist configuration.
func DefaultStoplist() *Stoplist {
	var sl Stoplist
	if err := yaml.Unmarshal(mustDefault("defaults/stoplist.yaml"), &sl); err != nil {
		panic(fmt.Sprintf("config: embedded stoplist: %v", err))
	}
	return &sl
}

func mustDefault(name string) []byte {
	data, err := defaults.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("config: missing embedded %s: %v", name, err))
	}
	return data
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		// An empty document decodes to io.EOF; treat it as empty config.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
