// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package chunks maps redacted spans onto fixed-size block indices for
// integrity-proof tooling. It only looks at offsets, never at content.
package chunks

import (
	"fmt"
	"sort"

	"docredact/internal/detector"
)

// DefaultSize is the block size used when none is configured.
const DefaultSize = 128

// InvalidChunkSizeError reports a chunk size that is not positive.
type InvalidChunkSizeError struct {
	Size int
}

func (e *InvalidChunkSizeError) Error() string {
	return fmt.Sprintf("invalid chunk size %d: must be greater than zero", e.Size)
}

// Map returns the sorted, distinct indices of every block of chunkSize bytes
// touched by a match. A match [s, e) covers blocks s/chunkSize through
// (e-1)/chunkSize inclusive. Empty spans cover nothing.
func Map(matches []detector.Match, chunkSize int) ([]int, error) {
	if chunkSize <= 0 {
		return nil, &InvalidChunkSizeError{Size: chunkSize}
	}

	set := make(map[int]struct{})
	for _, m := range matches {
		if m.End <= m.Start || m.Start < 0 {
			continue
		}
		for idx := m.Start / chunkSize; idx <= (m.End-1)/chunkSize; idx++ {
			set[idx] = struct{}{}
		}
	}

	out := make([]int, 0, len(set))
	for idx := range set {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out, nil
}
