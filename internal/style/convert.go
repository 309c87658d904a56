// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package style

import (
	"github.com/pdiddy/citation-engine/internal/resequence"
	"github.com/pdiddy/citation-engine/internal/resolve"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Convert rewrites doc in place to the target style: every reference gets a
// formatted string for the style and every linked citation gets a new
// marker. Bibliographic fields and reference identity never change.
//
// References missing mandatory fields for the style are still converted
// with best-effort text and flagged NeedsReview. Orphaned citations keep
// their raw text so the orphan stays visible.
//
// Crossing between numeric and author-year conventions invalidates the
// display numbering, so conversion resequences afterwards to restore
// first-appearance order.
func Convert(doc *types.Document, target types.Style) error {
	doc.Citations = resolve.Resolve(doc.Citations, doc.References)

	byNumber := make(map[int]types.Reference, len(doc.References))
	for i := range doc.References {
		ref := &doc.References[i]
		text, ferr := FormatReference(*ref, target)
		if ref.Formatted == nil {
			ref.Formatted = make(map[types.Style]string)
		}
		ref.Formatted[target] = text
		if ferr != nil {
			ref.NeedsReview = true
		}
		byNumber[ref.Number] = *ref
	}

	for i := range doc.Citations {
		c := &doc.Citations[i]
		if c.IsOrphaned || len(c.LinkedReferenceNumbers) == 0 {
			continue
		}
		var refs []types.Reference
		for _, n := range c.LinkedReferenceNumbers {
			if r, ok := byNumber[n]; ok {
				refs = append(refs, r)
			}
		}
		c.RawText = Marker(refs, target)
	}

	crossed := doc.DetectedStyle.IsNumeric() != target.IsNumeric()
	doc.DetectedStyle = target

	if crossed {
		return resequence.Apply(doc)
	}
	doc.Citations = resolve.Resolve(doc.Citations, doc.References)
	return nil
}
