// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export materializes a session's FINAL state as document bytes,
// either with all changes accepted or with tracked changes marked inline.
// Output is a deterministic function of the ORIGINAL snapshot and the
// current stores; no other state participates.
// Implements: prd007-export (R1-R4).
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/citation-engine/internal/style"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Mode selects the materialization behavior.
type Mode string

const (
	// ModeAcceptAll renders the FINAL text only, discarding change metadata.
	ModeAcceptAll Mode = "accept"

	// ModeTrackChanges renders the FINAL text with deletions and insertions
	// marked inline per change record, using CriticMarkup
	// ({--deleted--}{++inserted++}) so the output round-trips into a word
	// processor's native tracked changes.
	ModeTrackChanges Mode = "track"
)

// Materializer renders a document in one export mode. The two modes
// implement this interface the way conversion backends do elsewhere in the
// codebase.
type Materializer interface {
	// Render produces the exported document bytes.
	Render(original, final *types.Document, records []types.ChangeRecord) ([]byte, error)

	// Suffix is the filename suffix convention for the mode.
	Suffix() string
}

// New returns the materializer for a mode.
func New(mode Mode) (Materializer, error) {
	switch mode {
	case ModeAcceptAll:
		return acceptAll{}, nil
	case ModeTrackChanges:
		return trackChanges{}, nil
	default:
		return nil, fmt.Errorf("unsupported export mode %q: use accept or track", mode)
	}
}

// FileName applies the suffix convention to a document base name.
func FileName(name string, m Materializer) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = "document"
	}
	return base + m.Suffix() + ".md"
}

// WriteFile renders the export and writes it under dir using the mode's
// filename convention, returning the written path.
func WriteFile(dir string, m Materializer, original, final *types.Document, records []types.ChangeRecord) (string, error) {
	data, err := m.Render(original, final, records)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	name := final.Name
	if name == "" {
		name = final.ID
	}
	path := filepath.Join(dir, FileName(name, m))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

type acceptAll struct{}

func (acceptAll) Suffix() string { return "_corrected" }

func (acceptAll) Render(original, final *types.Document, _ []types.ChangeRecord) ([]byte, error) {
	body := spliceBody(original, final, func(_, updated string) string {
		return updated
	})
	return []byte(body + referenceList(final)), nil
}

type trackChanges struct{}

func (trackChanges) Suffix() string { return "_tracked_changes" }

func (trackChanges) Render(original, final *types.Document, _ []types.ChangeRecord) ([]byte, error) {
	body := spliceBody(original, final, func(old, updated string) string {
		if old == updated {
			return updated
		}
		return "{--" + old + "--}{++" + updated + "++}"
	})

	return []byte(body + trackedReferenceList(original, final)), nil
}

// spliceBody replaces each citation's ORIGINAL span with the rendered
// replacement, working from the end of the text so earlier offsets stay
// valid. Citation offsets anchor in the ORIGINAL text for the whole
// session, which is what makes regeneration deterministic.
func spliceBody(original, final *types.Document, render func(old, updated string) string) string {
	finalByID := make(map[string]types.Citation, len(final.Citations))
	for _, c := range final.Citations {
		finalByID[c.ID] = c
	}

	spans := make([]types.Citation, len(original.Citations))
	copy(spans, original.Citations)
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].StartOffset > spans[j].StartOffset
	})

	text := original.Text
	for _, orig := range spans {
		f, ok := finalByID[orig.ID]
		if !ok {
			continue
		}
		if orig.StartOffset < 0 || orig.EndOffset > len(text) || orig.StartOffset > orig.EndOffset {
			continue
		}
		replacement := render(orig.RawText, f.RawText)
		text = text[:orig.StartOffset] + replacement + text[orig.EndOffset:]
	}
	return text
}

// referenceList renders the FINAL reference section. Numeric styles prefix
// each entry with its display number.
func referenceList(final *types.Document) string {
	var b strings.Builder
	b.WriteString("\n\n## References\n\n")

	refs := sortedRefs(final.References)
	for _, r := range refs {
		writeEntry(&b, r, final.DetectedStyle)
	}
	return b.String()
}

// trackedReferenceList renders the reference section with formatting
// changes and deletions marked. Entries removed since load appear as
// deletions so the export carries the full audit trail.
func trackedReferenceList(original, final *types.Document) string {
	var b strings.Builder
	b.WriteString("\n\n## References\n\n")

	finalIDs := make(map[string]bool, len(final.References))
	for _, r := range final.References {
		finalIDs[r.ID] = true
	}
	origByID := make(map[string]types.Reference, len(original.References))
	for _, r := range original.References {
		origByID[r.ID] = r
	}

	for _, r := range sortedRefs(final.References) {
		oldText := ""
		if orig, ok := origByID[r.ID]; ok {
			oldText = formattedEntry(orig, original.DetectedStyle)
		}
		newText := formattedEntry(r, final.DetectedStyle)
		if oldText != "" && oldText != newText {
			fmt.Fprintf(&b, "%s{--%s--}{++%s++}\n", numberPrefix(r, final.DetectedStyle), oldText, newText)
			continue
		}
		writeEntry(&b, r, final.DetectedStyle)
	}

	for _, r := range sortedRefs(original.References) {
		if !finalIDs[r.ID] {
			fmt.Fprintf(&b, "{--%s%s--}\n", numberPrefix(r, original.DetectedStyle), formattedEntry(r, original.DetectedStyle))
		}
	}
	return b.String()
}

func writeEntry(b *strings.Builder, r types.Reference, s types.Style) {
	fmt.Fprintf(b, "%s%s\n", numberPrefix(r, s), formattedEntry(r, s))
}

func numberPrefix(r types.Reference, s types.Style) string {
	if s.IsNumeric() {
		return fmt.Sprintf("%d. ", r.Number)
	}
	return ""
}

// formattedEntry prefers the cached formatted string and falls back to
// rendering from bibliographic fields, which keeps export total even for
// documents loaded without cached formatting.
func formattedEntry(r types.Reference, s types.Style) string {
	if text, ok := r.Formatted[s]; ok && text != "" {
		return text
	}
	text, _ := style.FormatReference(r, s)
	return text
}

func sortedRefs(refs []types.Reference) []types.Reference {
	out := make([]types.Reference, len(refs))
	copy(out, refs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
