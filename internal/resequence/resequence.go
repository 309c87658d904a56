// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resequence renumbers references into first-appearance order and
// rewrites the citation markers that depend on those numbers.
// Implements: prd004-resequence (R1-R5).
package resequence

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/citation-engine/internal/resolve"
	"github.com/pdiddy/citation-engine/pkg/types"
)

const opName = "resequence"

// Plan computes the old-number to new-number mapping that puts references
// into first-appearance order. Citations are scanned by StartOffset; a
// reference's position is fixed the first time any citation links it.
// References never cited keep their relative order after all cited ones.
//
// The mapping is a bijection over 1..N. Duplicate reference numbers make a
// bijection impossible and return an IntegrityError.
func Plan(doc *types.Document) (map[int]int, error) {
	byNumber := make(map[int]*types.Reference, len(doc.References))
	for i := range doc.References {
		r := &doc.References[i]
		if _, dup := byNumber[r.Number]; dup {
			return nil, &types.IntegrityError{
				Op:     opName,
				Reason: fmt.Sprintf("duplicate reference number %d", r.Number),
			}
		}
		byNumber[r.Number] = r
	}

	ordered := make([]types.Citation, len(doc.Citations))
	copy(ordered, doc.Citations)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartOffset < ordered[j].StartOffset
	})

	// First appearance of each reference identity, generalized across
	// styles: numeric tokens where present, claimed links otherwise.
	seen := make(map[string]bool, len(doc.References))
	var appearance []int // old numbers in first-appearance order
	for _, c := range ordered {
		for _, n := range citedNumbers(c) {
			ref, ok := byNumber[n]
			if !ok || seen[ref.ID] {
				continue
			}
			seen[ref.ID] = true
			appearance = append(appearance, n)
		}
	}

	// Uncited references follow, in current number order.
	var rest []int
	for n, ref := range byNumber {
		if !seen[ref.ID] {
			rest = append(rest, n)
		}
	}
	sort.Ints(rest)
	appearance = append(appearance, rest...)

	mapping := make(map[int]int, len(appearance))
	for i, old := range appearance {
		mapping[old] = i + 1
	}
	return mapping, nil
}

// citedNumbers returns the reference numbers a citation cites, in the order
// they appear within its marker text.
func citedNumbers(c types.Citation) []int {
	tokens, _ := resolve.Tokens(c.ID, c.RawText)
	if len(tokens) == 0 {
		return c.LinkedReferenceNumbers
	}
	var nums []int
	for _, t := range tokens {
		nums = append(nums, t.Numbers()...)
	}
	return nums
}

// Apply renumbers doc in place: reference Number fields, citation marker
// text, and citation links all move to first-appearance order, then orphan
// flags are refreshed. Orphaned markers keep their text and stay orphaned
// even when the number they spell is reassigned to a surviving reference.
// The operation is all-or-nothing: any citation whose marker cannot be
// rewritten safely aborts the whole renumbering, leaving doc untouched.
// Applying twice without intervening edits is a no-op.
func Apply(doc *types.Document) error {
	mapping, err := Plan(doc)
	if err != nil {
		return err
	}

	// Rewrite all markers before mutating anything, so a late failure
	// leaves the document intact.
	rewritten := make([]string, len(doc.Citations))
	stale := make([]map[int]bool, len(doc.Citations))
	for i, c := range doc.Citations {
		text, kept, err := rewriteMarker(c, mapping)
		if err != nil {
			return err
		}
		rewritten[i] = text
		stale[i] = kept
	}

	for i := range doc.References {
		if n, ok := mapping[doc.References[i].Number]; ok {
			doc.References[i].Number = n
		}
	}
	sort.SliceStable(doc.References, func(i, j int) bool {
		return doc.References[i].Number < doc.References[j].Number
	})

	for i := range doc.Citations {
		doc.Citations[i].RawText = rewritten[i]
		var linked []int
		for _, n := range doc.Citations[i].LinkedReferenceNumbers {
			if mapped, ok := mapping[n]; ok {
				linked = append(linked, mapped)
			}
		}
		doc.Citations[i].LinkedReferenceNumbers = linked
	}

	doc.Citations = resolve.Resolve(doc.Citations, doc.References)

	// A kept orphan token may now spell a number the renumbering assigned
	// to a different reference. The rewrite never reinterprets text, so
	// those numbers must not resolve as links.
	for i, kept := range stale {
		if len(kept) == 0 {
			continue
		}
		c := &doc.Citations[i]
		var linked []int
		for _, n := range c.LinkedReferenceNumbers {
			if !kept[n] {
				linked = append(linked, n)
			}
		}
		c.LinkedReferenceNumbers = linked
		c.IsOrphaned = len(linked) == 0
		c.NeedsReview = c.NeedsReview || len(linked) > 0
	}
	return nil
}

// rewriteMarker substitutes mapped numbers into a citation's raw text,
// token by token, preserving surrounding punctuation and brackets verbatim.
// Orphan tokens (no such reference) are kept as-is and returned so the
// caller can stop them from resolving under their stale numbers.
//
// A range token like "3–5" denotes a contiguous span, so it is rewritten
// only when its mapped members still form one: otherwise the substitution
// would silently change which references the citation cites, and the
// operation must abort instead. A rewritten number equal to a kept orphan
// token aborts too: the two would be indistinguishable afterwards.
func rewriteMarker(c types.Citation, mapping map[int]int) (string, map[int]bool, error) {
	tokens, _ := resolve.Tokens(c.ID, c.RawText)
	if len(tokens) == 0 {
		return c.RawText, nil, nil
	}

	var b strings.Builder
	kept := make(map[int]bool)
	var mapped []int
	last := 0
	for _, t := range tokens {
		b.WriteString(c.RawText[last:t.Start])

		if t.IsRange() {
			lo, hi, ok := mapRange(t, mapping)
			if !ok {
				return "", nil, &types.IntegrityError{
					Op: opName,
					Reason: fmt.Sprintf("citation %s: range %q does not stay contiguous under renumbering",
						c.ID, t.Text),
				}
			}
			b.WriteString(strconv.Itoa(lo))
			b.WriteString(rangeSeparator(t.Text))
			b.WriteString(strconv.Itoa(hi))
			for n := lo; n <= hi; n++ {
				mapped = append(mapped, n)
			}
		} else if n, ok := mapping[t.Lo]; ok {
			b.WriteString(strconv.Itoa(n))
			mapped = append(mapped, n)
		} else {
			// Orphan token: no such reference, keep the text as-is.
			kept[t.Lo] = true
			b.WriteString(t.Text)
		}

		last = t.End
	}
	b.WriteString(c.RawText[last:])

	for _, n := range mapped {
		if kept[n] {
			return "", nil, &types.IntegrityError{
				Op: opName,
				Reason: fmt.Sprintf("citation %s: new number %d collides with unresolved marker in %q",
					c.ID, n, c.RawText),
			}
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	return b.String(), kept, nil
}

// rangeSeparator returns the text between a range token's two numbers
// (hyphen, en dash, possibly spaced) so the rewrite preserves it verbatim.
func rangeSeparator(text string) string {
	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	j := len(text)
	for j > i && text[j-1] >= '0' && text[j-1] <= '9' {
		j--
	}
	return text[i:j]
}

// mapRange maps every member of a range token and reports the new bounds.
// The mapped set must be exactly a contiguous ascending run; members with
// no mapping entry (deleted references) also disqualify the rewrite.
func mapRange(t resolve.Token, mapping map[int]int) (lo, hi int, ok bool) {
	mapped := make([]int, 0, t.Hi-t.Lo+1)
	for _, n := range t.Numbers() {
		m, exists := mapping[n]
		if !exists {
			return 0, 0, false
		}
		mapped = append(mapped, m)
	}
	sort.Ints(mapped)
	for i := 1; i < len(mapped); i++ {
		if mapped[i] != mapped[i-1]+1 {
			return 0, 0, false
		}
	}
	return mapped[0], mapped[len(mapped)-1], true
}
