package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/epubcast/pkg/epubcast"
	"github.com/cognicore/epubcast/pkg/epubcast/session"
)

type analyzeOptions struct {
	configFlags
	format  string
	timeout time.Duration
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file.epub>",
		Short: "Profile the characters of one EPUB book",
		Long:  "Extract the story text of an EPUB book and print an appearance profile for every recurring character.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, root, opts, args[0])
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "Output format (text, json)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Abort the analysis after this duration (0 means no limit)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions, path string) error {
	comp, err := opts.load(cmd)
	if err != nil {
		return err
	}

	out, err := newRenderer(cmd.OutOrStdout(), opts.format, comp.Lexicon)
	if err != nil {
		return err
	}

	profiler, err := epubcast.NewFromComponents(comp, root.logger)
	if err != nil {
		return err
	}

	upload := session.Upload{Name: filepath.Base(path)}
	s := session.New(profiler, session.Options{Logger: root.logger})

	// Rejected names never touch the filesystem.
	if session.ValidateUpload(upload.Name) == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		upload.Data = data
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	s.Submit(ctx, upload)
	s.Wait()

	st := s.State()
	if err := out.render(st); err != nil {
		return err
	}
	if st.Failed() {
		return errReported
	}
	return nil
}
