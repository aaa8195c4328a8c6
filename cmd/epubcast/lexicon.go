package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/epubcast/pkg/epubcast/config"
)

func newLexiconCmd() *cobra.Command {
	opts := &configFlags{}

	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Print the effective descriptor lexicon as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			comp, err := opts.load(cmd)
			if err != nil {
				return err
			}

			var file config.Lexicon
			for _, c := range comp.Lexicon.Categories() {
				file.Categories = append(file.Categories, config.LexiconCategory{
					ID:      c.ID,
					Label:   c.Label,
					Phrases: c.Phrases,
				})
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(file); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	opts.registerLexicon(cmd)
	return cmd
}
