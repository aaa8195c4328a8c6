package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/cognicore/epubcast/pkg/epubcast/lexicon"
	"github.com/cognicore/epubcast/pkg/epubcast/stoplist"
)

// Loader loads all configuration files and constructs components.
// Empty paths fall back to the embedded defaults.
type Loader struct {
	LexiconPath  string `env:"EPUBCAST_LEXICON"`
	StoplistPath string `env:"EPUBCAST_STOPLIST"`
	SettingsPath string `env:"EPUBCAST_SETTINGS"`
}

// LoaderFromEnv returns a loader whose paths come from EPUBCAST_* variables.
func LoaderFromEnv() (Loader, error) {
	var l Loader
	if err := env.Parse(&l); err != nil {
		return Loader{}, fmt.Errorf("parse env: %w", err)
	}
	return l, nil
}

// Components holds all loaded configuration components
type Components struct {
	Lexicon  *lexicon.Lexicon
	Stoplist *stoplist.Manager
	Settings Settings
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	// Load lexicon
	lexCfg := DefaultLexicon()
	if l.LexiconPath != "" {
		loaded, err := LoadLexicon(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		lexCfg = loaded
	}
	lex, err := lexCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build lexicon: %w", err)
	}
	comp.Lexicon = lex

	// Load stoplist
	stops := DefaultStoplist()
	if l.StoplistPath != "" {
		loaded, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		stops = loaded
	}
	comp.Stoplist = stoplist.NewManager(stops.Terms)

	// Load settings, then let the environment override them
	settings := DefaultSettings()
	if l.SettingsPath != "" {
		loaded, err := LoadSettings(l.SettingsPath)
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
		settings = loaded
	}
	if err := settings.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	comp.Settings = settings

	return comp, nil
}
