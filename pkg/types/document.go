// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared vocabulary of the citation engine: the
// document model handed in by upstream extraction, the change records handed
// back to callers, and the configuration structs bound by the CLI.
// Implements: prd001-document-model (R1-R3).
package types

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Reference is one bibliography entry. Number is the current display
// position, 1-based; at rest the Number fields of a document's references
// form a dense permutation of 1..N with no gaps or duplicates.
type Reference struct {
	// ID is a stable identifier assigned by upstream extraction.
	ID string `json:"id" yaml:"id"`

	// Number is the current display position (1-based).
	Number int `json:"number" yaml:"number"`

	// Authors lists the cited work's authors, "Given Family" form.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year" yaml:"year"`

	// Title is the cited work's title.
	Title string `json:"title" yaml:"title"`

	// Source is the journal, conference, or publisher.
	Source string `json:"source" yaml:"source"`

	// DOI is the digital object identifier, empty when absent.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// URL is a resolvable link to the work, empty when absent.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Formatted caches the rendered reference string per style code.
	Formatted map[Style]string `json:"formatted,omitempty" yaml:"formatted,omitempty"`

	// NeedsReview marks entries whose last formatting pass was best-effort
	// because mandatory fields for the style were missing.
	NeedsReview bool `json:"needs_review,omitempty" yaml:"needs_review,omitempty"`
}

// Validate checks the fields upstream extraction must supply.
func (r Reference) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Number, validation.Min(1)),
		validation.Field(&r.Title, validation.Required),
	)
}

// Citation is one in-text citation occurrence. Citations hold references by
// Number, not by identity, so renumbering rewrites citation text rather than
// store bookkeeping.
type Citation struct {
	// ID is a stable identifier assigned by upstream extraction.
	ID string `json:"id" yaml:"id"`

	// RawText is the marker exactly as it appears in the document,
	// e.g. "[3]", "[3-5]", "(Smith, 2020)".
	RawText string `json:"raw_text" yaml:"raw_text"`

	// StartOffset and EndOffset locate the marker in the document text.
	StartOffset int `json:"start_offset" yaml:"start_offset"`
	EndOffset   int `json:"end_offset" yaml:"end_offset"`

	// ParagraphIndex is the zero-based paragraph the marker appears in.
	ParagraphIndex int `json:"paragraph_index" yaml:"paragraph_index"`

	// LinkedReferenceNumbers lists the reference numbers this citation
	// cites. Ranges expand inclusively: "[3-5]" links {3,4,5}.
	LinkedReferenceNumbers []int `json:"linked_reference_numbers" yaml:"linked_reference_numbers"`

	// IsOrphaned is true when none of the cited references exist. Orphan
	// status is visible and reversible, never an implicit delete.
	IsOrphaned bool `json:"is_orphaned,omitempty" yaml:"is_orphaned,omitempty"`

	// NeedsReview marks citations with unparseable tokens or partially
	// missing targets.
	NeedsReview bool `json:"needs_review,omitempty" yaml:"needs_review,omitempty"`
}

// Validate checks the fields upstream extraction must supply.
func (c Citation) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.RawText, validation.Required),
		validation.Field(&c.StartOffset, validation.Min(0)),
		validation.Field(&c.EndOffset, validation.Min(c.StartOffset).Error("must not precede start_offset")),
	)
}

// Document is the in-memory model supplied by upstream extraction.
type Document struct {
	// ID identifies the source document.
	ID string `json:"document_id" yaml:"document_id"`

	// Name is the source file base name, used for export naming.
	Name string `json:"name" yaml:"name"`

	// Text is the extracted document body. Citation offsets index into it.
	Text string `json:"text" yaml:"text"`

	// DetectedStyle is the citation style upstream detection reported.
	DetectedStyle Style `json:"detected_style" yaml:"detected_style"`

	Citations  []Citation  `json:"citations" yaml:"citations"`
	References []Reference `json:"references" yaml:"references"`
}

// Validate checks the document envelope; per-record validation happens at
// the load boundary where malformed records are quarantined, not rejected.
func (d Document) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ID, validation.Required),
	)
}

// ChangeType classifies how a citation changed across an operation.
type ChangeType string

const (
	ChangeStyle     ChangeType = "style"
	ChangeRenumber  ChangeType = "renumber"
	ChangeDeleted   ChangeType = "deleted"
	ChangeUnchanged ChangeType = "unchanged"
)

// ChangeRecord describes one citation's change across an operation,
// measured against the ORIGINAL snapshot taken at document load. Records
// are recomputed on every mutating operation and never persisted as a
// source of truth.
type ChangeRecord struct {
	// CitationID identifies the citation the record describes.
	CitationID string `json:"citation_id" yaml:"citation_id"`

	// OldText is the citation's text in the original snapshot.
	OldText string `json:"old_text" yaml:"old_text"`

	// NewText is the citation's text after the operation.
	NewText string `json:"new_text" yaml:"new_text"`

	// Type classifies the change: style, renumber, deleted, or unchanged.
	Type ChangeType `json:"change_type" yaml:"change_type"`
}

// SequenceAnalysis reports whether numeric citation markers first appear in
// ascending order. It is a pure function of the citation store and is
// recomputed on demand, never stored.
type SequenceAnalysis struct {
	// IsSequential is true when the first-occurrence list of citation
	// numbers is non-decreasing.
	IsSequential bool `json:"is_sequential" yaml:"is_sequential"`

	// OutOfOrder lists numbers whose first occurrence is below the running
	// maximum at the point they are seen.
	OutOfOrder []int `json:"out_of_order" yaml:"out_of_order"`

	// ExpectedOrder is the ascending sort of the first-occurrence numbers.
	ExpectedOrder []int `json:"expected_order" yaml:"expected_order"`

	// ActualOrder is the first-occurrence order as encountered.
	ActualOrder []int `json:"actual_order" yaml:"actual_order"`
}
