// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve maintains the many-to-many association between in-text
// citations and reference entries. Resolution is a pure read: callers decide
// whether to persist the annotated copies it returns.
// Implements: prd002-linking (R1-R4).
package resolve

import (
	"regexp"
	"strconv"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// maxMarkerNumber bounds the numbers treated as citation markers. Larger
// integers (years, page numbers) are ignored as noise.
const maxMarkerNumber = 1000

// markerTokenRe matches a numeric marker token: a bare integer or an
// inclusive range joined by a hyphen or en/em dash, e.g. "3", "3-5", "3–5".
var markerTokenRe = regexp.MustCompile(`(\d+)(?:\s*[-–—]\s*(\d+))?`)

// Token is one numeric marker token inside a citation's raw text.
type Token struct {
	// Text is the token exactly as matched.
	Text string

	// Start and End locate the token within the citation's RawText.
	Start, End int

	// Lo and Hi are the inclusive bounds; Lo == Hi for a single number.
	Lo, Hi int
}

// Numbers expands the token into its inclusive member set.
func (t Token) Numbers() []int {
	nums := make([]int, 0, t.Hi-t.Lo+1)
	for n := t.Lo; n <= t.Hi; n++ {
		nums = append(nums, n)
	}
	return nums
}

// IsRange reports whether the token spans more than one number.
func (t Token) IsRange() bool {
	return t.Hi > t.Lo
}

// Tokens extracts the numeric marker tokens from a citation's raw text.
// Unparseable tokens (an inverted range like "5-3", numbers outside
// 1..1000) are skipped and reported as ValidationErrors so the caller can
// flag the citation for review without aborting the document.
func Tokens(citationID, rawText string) ([]Token, []*types.ValidationError) {
	var tokens []Token
	var errs []*types.ValidationError

	for _, m := range markerTokenRe.FindAllStringSubmatchIndex(rawText, -1) {
		text := rawText[m[0]:m[1]]
		lo, err := strconv.Atoi(rawText[m[2]:m[3]])
		if err != nil {
			errs = append(errs, &types.ValidationError{
				CitationID: citationID, Token: text, Reason: "not an integer",
			})
			continue
		}
		hi := lo
		if m[4] >= 0 {
			hi, err = strconv.Atoi(rawText[m[4]:m[5]])
			if err != nil {
				errs = append(errs, &types.ValidationError{
					CitationID: citationID, Token: text, Reason: "not an integer",
				})
				continue
			}
		}

		if lo < 1 || hi > maxMarkerNumber {
			// Noise, not an error: years and page numbers land here.
			continue
		}
		if hi < lo {
			errs = append(errs, &types.ValidationError{
				CitationID: citationID, Token: text, Reason: "inverted range",
			})
			continue
		}

		tokens = append(tokens, Token{Text: text, Start: m[0], End: m[1], Lo: lo, Hi: hi})
	}

	return tokens, errs
}

// Resolve recomputes every citation's linked reference numbers against the
// current reference store. Numeric tokens in the raw text are authoritative;
// citations without numeric tokens (author-year markers) keep their claimed
// links and are validated against the store.
//
// A citation is orphaned only when none of its cited numbers resolve.
// Partially missing targets keep their surviving links and set NeedsReview.
func Resolve(citations []types.Citation, references []types.Reference) []types.Citation {
	known := make(map[int]bool, len(references))
	for _, r := range references {
		known[r.Number] = true
	}

	resolved := make([]types.Citation, len(citations))
	copy(resolved, citations)

	for i := range resolved {
		c := &resolved[i]

		claimed := claimedNumbers(c)
		tokens, tokErrs := Tokens(c.ID, c.RawText)
		if len(tokens) > 0 {
			claimed = nil
			seen := make(map[int]bool)
			for _, t := range tokens {
				for _, n := range t.Numbers() {
					if !seen[n] {
						seen[n] = true
						claimed = append(claimed, n)
					}
				}
			}
		}

		var linked []int
		missing := 0
		for _, n := range claimed {
			if known[n] {
				linked = append(linked, n)
			} else {
				missing++
			}
		}

		c.LinkedReferenceNumbers = linked
		c.IsOrphaned = len(claimed) > 0 && len(linked) == 0
		c.NeedsReview = len(tokErrs) > 0 || (missing > 0 && len(linked) > 0)
	}

	return resolved
}

func claimedNumbers(c *types.Citation) []int {
	nums := make([]int, len(c.LinkedReferenceNumbers))
	copy(nums, c.LinkedReferenceNumbers)
	return nums
}
