package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/epubcast/pkg/epubcast/config"
)

func newStoplistCmd() *cobra.Command {
	opts := &configFlags{}

	cmd := &cobra.Command{
		Use:   "stoplist",
		Short: "Print the effective name stoplist as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			comp, err := opts.load(cmd)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(config.Stoplist{Terms: comp.Stoplist.All()}); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	opts.registerStoplist(cmd)
	return cmd
}
