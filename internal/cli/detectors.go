// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"docredact/internal/detector"
)

type detectorInfo struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Replacement string `json:"replacement"`
	Description string `json:"description"`
	Pattern     string `json:"pattern"`
}

func newDetectorsCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "detectors",
		Short: "List the available detectors",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return usagef("unsupported format %q (available: json, text)", format)
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}
			if format == "json" {
				return writeDetectorsJSON(a, engine.Catalog())
			}
			writeDetectorsTable(a, engine.Catalog())
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: json, text")
	return cmd
}

func writeDetectorsJSON(a *app, catalog *detector.Catalog) error {
	infos := make([]detectorInfo, 0, catalog.Len())
	for _, d := range catalog.Detectors() {
		infos = append(infos, detectorInfo{
			Key:         d.Key,
			Label:       d.Label,
			Replacement: d.Replacement,
			Description: d.Description,
			Pattern:     d.Pattern(),
		})
	}
	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, string(data))
	return nil
}

func writeDetectorsTable(a *app, catalog *detector.Catalog) {
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tLABEL\tREPLACEMENT\tDESCRIPTION")
	for _, d := range catalog.Detectors() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Key, d.Label, d.Replacement, strings.TrimSpace(d.Description))
	}
	tw.Flush()
}
