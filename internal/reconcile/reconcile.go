// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile computes change records from a three-way comparison of
// citation state: ORIGINAL (document load snapshot), CURRENT (before the
// triggering operation), and FINAL (after it).
//
// The three-way design keeps reported changes cumulative: after a style
// conversion followed by a resequence, every record still measures against
// what the user originally saw, so dismissing the first operation's changes
// cannot hide the second's.
// Implements: prd006-reconcile (R1-R3).
package reconcile

import (
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Reconcile produces one ChangeRecord per FINAL citation. OldText always
// carries the ORIGINAL text and NewText the FINAL text.
//
// Classification, in priority order:
//
//	deleted    orphaned in FINAL but not in ORIGINAL
//	renumber   only numeric tokens changed
//	style      non-numeric formatting changed, with or without numbers
//	unchanged  FINAL matches ORIGINAL
//
// The renumber/style distinction compares FINAL against CURRENT when the
// triggering operation touched the citation, and against ORIGINAL when a
// prior operation did.
func Reconcile(original, current, final []types.Citation) []types.ChangeRecord {
	origByID := index(original)
	currByID := index(current)

	records := make([]types.ChangeRecord, 0, len(final))
	for _, f := range final {
		orig, hasOrig := origByID[f.ID]
		if !hasOrig {
			orig = f
		}
		curr, hasCurr := currByID[f.ID]
		if !hasCurr {
			curr = orig
		}

		rec := types.ChangeRecord{
			CitationID: f.ID,
			OldText:    orig.RawText,
			NewText:    f.RawText,
			Type:       classify(orig, curr, f),
		}
		records = append(records, rec)
	}
	return records
}

func classify(orig, curr, final types.Citation) types.ChangeType {
	if final.IsOrphaned && !orig.IsOrphaned {
		return types.ChangeDeleted
	}
	if final.RawText == orig.RawText {
		return types.ChangeUnchanged
	}

	base := curr.RawText
	if base == final.RawText {
		base = orig.RawText
	}
	if stripDigits(base) == stripDigits(final.RawText) {
		return types.ChangeRenumber
	}
	return types.ChangeStyle
}

// stripDigits removes digit runs so two markers can be compared on their
// non-numeric skeleton alone.
func stripDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Changed filters records down to the ones callers surface: everything not
// classified unchanged.
func Changed(records []types.ChangeRecord) []types.ChangeRecord {
	var out []types.ChangeRecord
	for _, r := range records {
		if r.Type != types.ChangeUnchanged {
			out = append(out, r)
		}
	}
	return out
}

func index(citations []types.Citation) map[string]types.Citation {
	m := make(map[string]types.Citation, len(citations))
	for _, c := range citations {
		m[c.ID] = c
	}
	return m
}
