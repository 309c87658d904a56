// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document owns a single editing session: the ORIGINAL snapshot
// taken at load, the current citation and reference stores, and the
// transactional discipline every mutating operation runs under.
//
// The session is the unit of consistency. Operations are synchronous,
// whole-document transformations: each one mutates a deep clone and swaps
// it in only on success, so a failed or cancelled operation leaves the
// stores byte-for-byte identical to their pre-operation values. There is
// no module-level state; callers hold the session and serialize access.
// Implements: prd001-document-model (R4-R6), prd006-reconcile (R4).
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/citation-engine/internal/reconcile"
	"github.com/pdiddy/citation-engine/internal/resequence"
	"github.com/pdiddy/citation-engine/internal/resolve"
	"github.com/pdiddy/citation-engine/internal/sequence"
	"github.com/pdiddy/citation-engine/internal/style"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Quarantined records one malformed input record set aside at the load
// boundary instead of being propagated through the pipeline.
type Quarantined struct {
	// Kind is "citation" or "reference".
	Kind string `json:"kind" yaml:"kind"`

	// ID is the record's identifier, possibly empty when that is what
	// failed validation.
	ID string `json:"id" yaml:"id"`

	// Reason is the validation failure message.
	Reason string `json:"reason" yaml:"reason"`
}

// Session is one document editing session.
type Session struct {
	// ID identifies the session.
	ID string

	// Doc is the current document state.
	Doc *types.Document

	// Original is the snapshot taken at load, immutable for the session.
	Original *types.Document

	// Quarantine lists records rejected at the load boundary.
	Quarantine []Quarantined

	// Changes is the change set from the last mutating operation,
	// non-unchanged records only.
	Changes []types.ChangeRecord

	// CreatedAt is when the session was opened.
	CreatedAt time.Time
}

// Load validates a document, quarantines malformed records, resolves
// citation links, and opens a session with the result as both the ORIGINAL
// snapshot and the current state.
func Load(doc types.Document) (*Session, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("validating document: %w", err)
	}

	var quarantine []Quarantined
	var citations []types.Citation
	for _, c := range doc.Citations {
		if err := c.Validate(); err != nil {
			quarantine = append(quarantine, Quarantined{Kind: "citation", ID: c.ID, Reason: err.Error()})
			continue
		}
		citations = append(citations, c)
	}
	var references []types.Reference
	for _, r := range doc.References {
		if err := r.Validate(); err != nil {
			quarantine = append(quarantine, Quarantined{Kind: "reference", ID: r.ID, Reason: err.Error()})
			continue
		}
		references = append(references, r)
	}

	doc.Citations = resolve.Resolve(citations, references)
	doc.References = references

	current := cloneDocument(&doc)
	original := cloneDocument(&doc)

	return &Session{
		ID:         uuid.NewString(),
		Doc:        current,
		Original:   original,
		Quarantine: quarantine,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Analyze computes sequence analysis for the current citation store.
func (s *Session) Analyze() types.SequenceAnalysis {
	return sequence.Analyze(s.Doc.Citations)
}

// Resequence renumbers references into first-appearance order and rewrites
// dependent markers, returning the surfaced change records.
func (s *Session) Resequence(ctx context.Context, dryRun bool) ([]types.ChangeRecord, error) {
	return s.apply(ctx, dryRun, resequence.Apply)
}

// ConvertStyle rewrites markers and reference formatting to the target
// style, returning the surfaced change records.
func (s *Session) ConvertStyle(ctx context.Context, target types.Style, dryRun bool) ([]types.ChangeRecord, error) {
	return s.apply(ctx, dryRun, func(doc *types.Document) error {
		return style.Convert(doc, target)
	})
}

// DeleteReference removes a reference by ID and refreshes orphan flags.
// Remaining references keep their numbers; a later resequence closes the
// gap. Returns the surfaced change records.
func (s *Session) DeleteReference(ctx context.Context, refID string, dryRun bool) ([]types.ChangeRecord, error) {
	return s.apply(ctx, dryRun, func(doc *types.Document) error {
		kept := doc.References[:0]
		found := false
		for _, r := range doc.References {
			if r.ID == refID {
				found = true
				continue
			}
			kept = append(kept, r)
		}
		if !found {
			return fmt.Errorf("reference %s not found", refID)
		}
		doc.References = kept
		doc.Citations = resolve.Resolve(doc.Citations, doc.References)
		return nil
	})
}

// Dismiss clears the surfaced change set. The ORIGINAL snapshot is not
// re-baselined: later operations still report cumulatively.
func (s *Session) Dismiss() {
	s.Changes = nil
}

// apply runs a mutating operation transactionally: the operation mutates a
// deep clone, changes are reconciled against ORIGINAL and the pre-operation
// state, and only then is the clone committed. An error or a cancelled
// context leaves s.Doc untouched.
func (s *Session) apply(ctx context.Context, dryRun bool, op func(*types.Document) error) ([]types.ChangeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	next := cloneDocument(s.Doc)
	if err := op(next); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		// Cancelled mid-operation: discard the clone, keep the snapshot.
		return nil, err
	}

	records := reconcile.Reconcile(s.Original.Citations, s.Doc.Citations, next.Citations)
	changed := reconcile.Changed(records)

	if dryRun {
		return changed, nil
	}
	s.Doc = next
	s.Changes = changed
	return changed, nil
}

// cloneDocument deep-copies a document so operations can mutate freely.
func cloneDocument(d *types.Document) *types.Document {
	out := *d

	out.Citations = make([]types.Citation, len(d.Citations))
	copy(out.Citations, d.Citations)
	for i := range out.Citations {
		nums := make([]int, len(out.Citations[i].LinkedReferenceNumbers))
		copy(nums, out.Citations[i].LinkedReferenceNumbers)
		out.Citations[i].LinkedReferenceNumbers = nums
	}

	out.References = make([]types.Reference, len(d.References))
	copy(out.References, d.References)
	for i := range out.References {
		authors := make([]string, len(out.References[i].Authors))
		copy(authors, out.References[i].Authors)
		out.References[i].Authors = authors

		if src := d.References[i].Formatted; src != nil {
			formatted := make(map[types.Style]string, len(src))
			for k, v := range src {
				formatted[k] = v
			}
			out.References[i].Formatted = formatted
		}
	}

	return &out
}
