// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ValidationError reports a malformed citation token or unparseable numeric
// range. It is always recovered locally: the offending token is skipped and
// the citation flagged NeedsReview, never aborting the whole document.
type ValidationError struct {
	CitationID string
	Token      string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("citation %s: invalid token %q: %s", e.CitationID, e.Token, e.Reason)
}

// IntegrityError reports a renumbering that would break referential
// integrity, e.g. a non-bijective number mapping or an unsafe marker
// rewrite. It is fatal to the operation: the caller must return the
// pre-operation state unchanged.
type IntegrityError struct {
	Op     string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// StyleFormattingError reports a reference that could not be fully rendered
// in the target style because mandatory fields are missing. It is recovered
// by emitting best-effort text and flagging the entry NeedsReview.
type StyleFormattingError struct {
	ReferenceID string
	Style       Style
	Missing     []string
}

func (e *StyleFormattingError) Error() string {
	return fmt.Sprintf("reference %s: style %s requires missing fields %v", e.ReferenceID, e.Style, e.Missing)
}
