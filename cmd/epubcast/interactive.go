package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/epubcast/pkg/epubcast"
	"github.com/cognicore/epubcast/pkg/epubcast/session"
)

type interactiveOptions struct {
	configFlags
	format string
}

func newInteractiveCmd(root *rootOptions) *cobra.Command {
	opts := &interactiveOptions{}

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Analyze EPUB paths read from standard input",
		Long: "Read one file path per line from standard input and analyze each as a new upload. " +
			"A newer upload replaces the result of any earlier one still in progress; every applied state is printed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, root, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "Output format (text, json)")

	return cmd
}

func runInteractive(cmd *cobra.Command, root *rootOptions, opts *interactiveOptions) error {
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

	s := session.New(profiler, session.Options{
		Logger: root.logger,
		OnChange: func(st session.State) {
			if err := out.render(st); err != nil {
				root.logger.Error("render state", "generation", st.Generation, "error", err)
			}
		},
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		path := strings.TrimSpace(scanner.Text())
		if path == "" {
			continue
		}

		upload := session.Upload{Name: filepath.Base(path)}
		if session.ValidateUpload(upload.Name) == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: failed to read %s: %v\n", path, err)
				continue
			}
			upload.Data = data
		}
		s.Submit(ctx, upload)
	}
	s.Wait()

	return scanner.Err()
}
