// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package style

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Marker renders the in-text citation marker for a set of cited references
// in the target style. refs must be the resolved targets of one citation.
func Marker(refs []types.Reference, style types.Style) string {
	if len(refs) == 0 {
		return ""
	}
	if style.IsNumeric() {
		return numericMarker(refs, style)
	}
	return authorYearMarker(refs, style)
}

// numericMarker renders "[1]", "[2,6]", collapsing contiguous runs of three
// or more into a range: "[3-5]". AMA uses parentheses instead of brackets.
func numericMarker(refs []types.Reference, style types.Style) string {
	nums := make([]int, len(refs))
	for i, r := range refs {
		nums[i] = r.Number
	}
	sort.Ints(nums)

	var parts []string
	for i := 0; i < len(nums); {
		j := i
		for j+1 < len(nums) && nums[j+1] == nums[j]+1 {
			j++
		}
		if j-i >= 2 {
			parts = append(parts, fmt.Sprintf("%d-%d", nums[i], nums[j]))
		} else {
			for k := i; k <= j; k++ {
				parts = append(parts, strconv.Itoa(nums[k]))
			}
		}
		i = j + 1
	}

	body := strings.Join(parts, ",")
	if style == types.StyleAMA {
		return "(" + body + ")"
	}
	return "[" + body + "]"
}

// authorYearMarker renders "(Smith, 2020)" and friends, joining multiple
// cited works with semicolons in reference-number order.
func authorYearMarker(refs []types.Reference, style types.Style) string {
	ordered := make([]types.Reference, len(refs))
	copy(ordered, refs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Number < ordered[j].Number
	})

	var parts []string
	for _, r := range ordered {
		parts = append(parts, inlineAuthors(r, style))
	}
	return "(" + strings.Join(parts, "; ") + ")"
}

func inlineAuthors(r types.Reference, style types.Style) string {
	names := familyNames(r.Authors)
	year := yearOrND(r.Year)

	var who string
	switch {
	case len(names) == 0:
		who = shortTitle(r.Title)
	case len(names) == 1:
		who = names[0]
	case len(names) == 2:
		sep := " and "
		if style == types.StyleAPA {
			sep = " & "
		}
		who = names[0] + sep + names[1]
	default:
		who = names[0] + " et al."
	}

	switch style {
	case types.StyleAPA:
		return who + ", " + year
	case types.StyleMLA:
		return who
	default: // chicago, harvard
		return who + " " + year
	}
}

func familyNames(authors []string) []string {
	var names []string
	for _, a := range authors {
		family, _ := splitName(a)
		if family != "" {
			names = append(names, family)
		}
	}
	return names
}

// shortTitle stands in for the author block when a work has no authors.
func shortTitle(title string) string {
	words := strings.Fields(title)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}
