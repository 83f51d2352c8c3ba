// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"docredact/internal/chunks"
)

func newChunksCommand(a *app) *cobra.Command {
	var sel selection
	var chunkSize int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "chunks <file>",
		Short: "Print the chunk indices touched by the redaction",
		Long: `Chunks scans the document like "scan" and prints the sorted, distinct
indices of the fixed-size blocks that the canonical matches overlap. Only
offsets are reported, never the matched content.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("chunk-size") {
				chunkSize = a.cfg.Redaction.ChunkSize
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}
			keys, terms, err := sel.resolve(a.cfg, engine.Catalog())
			if err != nil {
				return err
			}
			session, err := engine.ScanFile(args[0], keys, terms)
			if err != nil {
				return err
			}

			idx, err := session.Chunks(chunkSize)
			if err != nil {
				var sizeErr *chunks.InvalidChunkSizeError
				if errors.As(err, &sizeErr) {
					return &usageError{err: err}
				}
				return err
			}

			if asJSON {
				data, err := json.Marshal(idx)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, string(data))
				return nil
			}
			parts := make([]string, len(idx))
			for i, n := range idx {
				parts[i] = strconv.Itoa(n)
			}
			fmt.Fprintln(a.stdout, strings.Join(parts, ","))
			return nil
		},
	}
	sel.register(cmd.Flags())
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "chunk size in bytes (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the indices as a JSON array")
	return cmd
}
