// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"docredact/internal/config"
	"docredact/internal/core"
	"docredact/internal/detector"
	"docredact/internal/formatters"
	_ "docredact/internal/formatters/json"
	_ "docredact/internal/formatters/text"
	_ "docredact/internal/formatters/yaml"
)

// selection holds the flags that choose detectors and search terms
type selection struct {
	detectors []string
	terms     []string
	termsCS   []string
	profile   string
}

func (s *selection) register(flags *pflag.FlagSet) {
	flags.StringSliceVarP(&s.detectors, "detectors", "d", nil, "detector keys to enable, comma separated, or \"all\"")
	flags.StringArrayVarP(&s.terms, "term", "t", nil, "literal search term, matched case-insensitively (repeatable)")
	flags.StringArrayVar(&s.termsCS, "term-cs", nil, "literal search term, matched case-sensitively (repeatable)")
	flags.StringVarP(&s.profile, "profile", "p", "", "named profile from the config file")
}

// resolve turns the flags into detector keys and search terms. Profile terms
// come first, then the terms given on the command line.
func (s *selection) resolve(cfg *config.Config, catalog *detector.Catalog) ([]string, []detector.SearchTerm, error) {
	var profile *config.ProfileConfig
	if s.profile != "" {
		p, err := cfg.GetProfile(s.profile)
		if err != nil {
			return nil, nil, &usageError{err: err}
		}
		profile = p
	}

	keys := core.SelectDetectors(s.detectors, profile, cfg, catalog)

	var terms []detector.SearchTerm
	if profile != nil {
		terms = append(terms, profile.Terms...)
	}
	for _, t := range s.terms {
		terms = append(terms, detector.SearchTerm{Term: t})
	}
	for _, t := range s.termsCS {
		terms = append(terms, detector.SearchTerm{Term: t, CaseSensitive: true})
	}
	return keys, terms, nil
}

// output holds the report rendering flags
type output struct {
	format  string
	verbose bool
}

func (o *output) register(flags *pflag.FlagSet) {
	flags.StringVarP(&o.format, "format", "f", "text", "output format: json, text, yaml")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "show match previews with context")
}

func (o *output) check() error {
	if _, ok := formatters.Get(o.format); !ok {
		return usagef("unsupported format %q (available: %v)", o.format, formatters.List())
	}
	return nil
}

func (a *app) render(o *output, reports []*formatters.Report) error {
	out, err := formatters.Export(o.format, reports, formatters.FormatterOptions{
		Verbose: o.verbose,
		NoColor: a.noColor,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, out)
	return nil
}

func warningStrings(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

func newScanCommand(a *app) *cobra.Command {
	var sel selection
	var out output

	cmd := &cobra.Command{
		Use:   "scan <file>...",
		Short: "Scan documents and print a redaction summary",
		Long: `Scan extracts the text of each document, runs the selected detectors and
search terms, resolves overlapping matches and prints the summary that would
be shown before redacting. Nothing is written.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.check(); err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}
			keys, terms, err := sel.resolve(a.cfg, engine.Catalog())
			if err != nil {
				return err
			}

			reports := make([]*formatters.Report, 0, len(args))
			for _, path := range args {
				session, err := engine.ScanFile(path, keys, terms)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				reports = append(reports, &formatters.Report{
					File:      path,
					Kind:      session.Document.Kind.String(),
					Detectors: keys,
					Warnings:  warningStrings(session.Warnings),
					Summary:   session.Summary,
				})
			}
			return a.render(&out, reports)
		},
	}
	sel.register(cmd.Flags())
	out.register(cmd.Flags())
	return cmd
}
