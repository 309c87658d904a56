// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sequence checks whether numeric citation markers first appear in
// ascending order. Implements: prd003-sequence (R1-R3).
package sequence

import (
	"sort"

	"github.com/pdiddy/citation-engine/internal/resolve"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Analyze scans citations in document order and reports whether the first
// occurrences of their reference numbers are non-decreasing.
//
// A number is out of order when its first occurrence is below the running
// maximum at the point it is seen. Repeated non-adjacent occurrences of a
// number are not specially handled.
func Analyze(citations []types.Citation) types.SequenceAnalysis {
	ordered := make([]types.Citation, len(citations))
	copy(ordered, citations)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartOffset < ordered[j].StartOffset
	})

	seen := make(map[int]bool)
	var first []int // first-occurrence order
	for _, c := range ordered {
		tokens, _ := resolve.Tokens(c.ID, c.RawText)
		for _, t := range tokens {
			for _, n := range t.Numbers() {
				if !seen[n] {
					seen[n] = true
					first = append(first, n)
				}
			}
		}
	}

	analysis := types.SequenceAnalysis{
		IsSequential: true,
		ActualOrder:  first,
	}

	runningMax := 0
	for _, n := range first {
		if n < runningMax {
			analysis.IsSequential = false
			analysis.OutOfOrder = append(analysis.OutOfOrder, n)
		} else {
			runningMax = n
		}
	}

	analysis.ExpectedOrder = make([]int, len(first))
	copy(analysis.ExpectedOrder, first)
	sort.Ints(analysis.ExpectedOrder)

	return analysis
}

// Applies reports whether sequence analysis is meaningful for a style:
// only numeric-marker styles carry an appearance-order convention.
func Applies(style types.Style) bool {
	return style.IsNumeric()
}
