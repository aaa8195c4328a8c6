package main

import (
	"github.com/spf13/cobra"

	"github.com/cognicore/epubcast/pkg/epubcast/config"
)

// configFlags are the configuration overrides shared by several commands.
type configFlags struct {
	lexiconPath     string
	stoplistPath    string
	settingsPath    string
	maxNames        int
	maxDescriptions int
	minFrequency    int
}

func (f *configFlags) registerLexicon(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.lexiconPath, "lexicon", "", "Path to lexicon YAML (overrides EPUBCAST_LEXICON)")
}

func (f *configFlags) registerStoplist(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.stoplistPath, "stoplist", "", "Path to stoplist YAML (overrides EPUBCAST_STOPLIST)")
}

func (f *configFlags) register(cmd *cobra.Command) {
	f.registerLexicon(cmd)
	f.registerStoplist(cmd)
	cmd.Flags().StringVar(&f.settingsPath, "settings", "", "Path to settings YAML (overrides EPUBCAST_SETTINGS)")
	cmd.Flags().IntVar(&f.maxNames, "max-names", config.DefaultMaxNames, "Maximum number of character names to profile")
	cmd.Flags().IntVar(&f.maxDescriptions, "max-descriptions", config.DefaultMaxDescriptions, "Maximum descriptions kept per character")
	cmd.Flags().IntVar(&f.minFrequency, "min-frequency", config.DefaultMinFrequency, "Minimum occurrences for a name to count")
}

// load resolves configuration: defaults, then files, then environment,
// then flags the user set explicitly. Flags a command did not register are
// never reported as changed.
func (f *configFlags) load(cmd *cobra.Command) (*config.Components, error) {
	loader, err := config.LoaderFromEnv()
	if err != nil {
		return nil, err
	}
	if f.lexiconPath != "" {
		loader.LexiconPath = f.lexiconPath
	}
	if f.stoplistPath != "" {
		loader.StoplistPath = f.stoplistPath
	}
	if f.settingsPath != "" {
		loader.SettingsPath = f.settingsPath
	}

	comp, err := loader.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-names") {
		comp.Settings.MaxNames = f.maxNames
	}
	if flags.Changed("max-descriptions") {
		comp.Settings.MaxDescriptions = f.maxDescriptions
	}
	if flags.Changed("min-frequency") {
		comp.Settings.MinFrequency = f.minFrequency
	}
	if err := comp.Settings.Validate(); err != nil {
		return nil, err
	}
	return comp, nil
}
