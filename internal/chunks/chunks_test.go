// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package chunks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"docredact/internal/detector"
)

func TestMap(t *testing.T) {
	cases := []struct {
		name    string
		matches []detector.Match
		size    int
		want    []int
	}{
		{"single block", []detector.Match{{Start: 130, End: 135}}, 128, []int{1}},
		{"spans blocks", []detector.Match{{Start: 120, End: 260}}, 128, []int{0, 1, 2}},
		{"end is exclusive", []detector.Match{{Start: 0, End: 128}}, 128, []int{0}},
		{"deduplicated and sorted", []detector.Match{{Start: 300, End: 301}, {Start: 5, End: 6}, {Start: 7, End: 9}}, 128, []int{0, 2}},
		{"empty input", nil, 16, []int{}},
		{"size one", []detector.Match{{Start: 2, End: 5}}, 1, []int{2, 3, 4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Map(tc.matches, tc.size)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMap_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := Map([]detector.Match{{Start: 0, End: 1}}, size)
		var invalid *InvalidChunkSizeError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, size, invalid.Size)
	}
}

func TestMap_Monotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.IntRange(1, 256).Draw(t, "size")
		start := rapid.IntRange(0, 5000).Draw(t, "start")
		end := start + rapid.IntRange(1, 2000).Draw(t, "len")
		growLeft := rapid.IntRange(0, start).Draw(t, "growLeft")
		growRight := rapid.IntRange(0, 2000).Draw(t, "growRight")

		small, err := Map([]detector.Match{{Start: start, End: end}}, size)
		if err != nil {
			t.Fatal(err)
		}
		large, err := Map([]detector.Match{{Start: start - growLeft, End: end + growRight}}, size)
		if err != nil {
			t.Fatal(err)
		}

		have := make(map[int]bool, len(large))
		for _, idx := range large {
			have[idx] = true
		}
		for _, idx := range small {
			if !have[idx] {
				t.Fatalf("index %d lost when enlarging [%d,%d)", idx, start, end)
			}
		}
	})
}
