// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"reflect"
	"testing"

	"github.com/pdiddy/citation-engine/pkg/types"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name     string
		rawText  string
		want     [][2]int // lo, hi per token
		wantErrs int
	}{
		{
			name:    "single bracketed number",
			rawText: "[3]",
			want:    [][2]int{{3, 3}},
		},
		{
			name:    "comma list",
			rawText: "[3,4]",
			want:    [][2]int{{3, 3}, {4, 4}},
		},
		{
			name:    "hyphen range",
			rawText: "[3-5]",
			want:    [][2]int{{3, 5}},
		},
		{
			name:    "en dash range",
			rawText: "[3–5]",
			want:    [][2]int{{3, 5}},
		},
		{
			name:    "spaced range",
			rawText: "(2 - 4)",
			want:    [][2]int{{2, 4}},
		},
		{
			name:    "bare number",
			rawText: "7",
			want:    [][2]int{{7, 7}},
		},
		{
			name:    "year ignored as noise",
			rawText: "(Smith, 2020)",
			want:    nil,
		},
		{
			name:     "inverted range flagged",
			rawText:  "[5-3]",
			want:     nil,
			wantErrs: 1,
		},
		{
			name:    "zero ignored as noise",
			rawText: "[0]",
			want:    nil,
		},
		{
			name:    "no tokens",
			rawText: "(ibid.)",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, errs := Tokens("c1", tt.rawText)
			if len(errs) != tt.wantErrs {
				t.Fatalf("Tokens(%q) errs = %d, want %d", tt.rawText, len(errs), tt.wantErrs)
			}
			var got [][2]int
			for _, tok := range tokens {
				got = append(got, [2]int{tok.Lo, tok.Hi})
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokens(%q) = %v, want %v", tt.rawText, got, tt.want)
			}
		})
	}
}

func TestTokenNumbers(t *testing.T) {
	tok := Token{Lo: 3, Hi: 5}
	want := []int{3, 4, 5}
	if got := tok.Numbers(); !reflect.DeepEqual(got, want) {
		t.Errorf("Numbers() = %v, want %v", got, want)
	}
	if !tok.IsRange() {
		t.Error("IsRange() = false for 3..5")
	}
}

func refs(numbers ...int) []types.Reference {
	out := make([]types.Reference, len(numbers))
	for i, n := range numbers {
		out[i] = types.Reference{ID: string(rune('a' + i)), Number: n, Title: "T"}
	}
	return out
}

func TestResolveAfterDeletion(t *testing.T) {
	// References 2 and 4 exist; 3 was deleted.
	citations := []types.Citation{
		{ID: "c1", RawText: "[2]"},
		{ID: "c2", RawText: "[3]"},
		{ID: "c3", RawText: "[3,4]"},
	}
	references := []types.Reference{
		{ID: "r2", Number: 2, Title: "T"},
		{ID: "r4", Number: 4, Title: "T"},
	}

	resolved := Resolve(citations, references)

	if got := resolved[0]; got.IsOrphaned || !reflect.DeepEqual(got.LinkedReferenceNumbers, []int{2}) {
		t.Errorf("[2]: orphaned=%v links=%v", got.IsOrphaned, got.LinkedReferenceNumbers)
	}
	if got := resolved[1]; !got.IsOrphaned || len(got.LinkedReferenceNumbers) != 0 {
		t.Errorf("[3]: orphaned=%v links=%v, want orphaned with no links", got.IsOrphaned, got.LinkedReferenceNumbers)
	}
	if got := resolved[2]; got.IsOrphaned || !reflect.DeepEqual(got.LinkedReferenceNumbers, []int{4}) {
		t.Errorf("[3,4]: orphaned=%v links=%v, want link to 4 only", got.IsOrphaned, got.LinkedReferenceNumbers)
	}
	if !resolved[2].NeedsReview {
		t.Error("[3,4]: partially missing target should set NeedsReview")
	}
}

func TestResolveRange(t *testing.T) {
	citations := []types.Citation{{ID: "c1", RawText: "[3-5]"}}
	resolved := Resolve(citations, refs(1, 2, 3, 4, 5))

	want := []int{3, 4, 5}
	if !reflect.DeepEqual(resolved[0].LinkedReferenceNumbers, want) {
		t.Errorf("links = %v, want %v", resolved[0].LinkedReferenceNumbers, want)
	}
}

func TestResolveAuthorYearKeepsClaimedLinks(t *testing.T) {
	citations := []types.Citation{{
		ID:                     "c1",
		RawText:                "(Smith, 2020)",
		LinkedReferenceNumbers: []int{2},
	}}
	resolved := Resolve(citations, refs(1, 2))

	if !reflect.DeepEqual(resolved[0].LinkedReferenceNumbers, []int{2}) {
		t.Errorf("links = %v, want [2]", resolved[0].LinkedReferenceNumbers)
	}
	if resolved[0].IsOrphaned {
		t.Error("citation with valid claimed link marked orphaned")
	}
}

func TestResolveOrphanIsReversible(t *testing.T) {
	citations := []types.Citation{{ID: "c1", RawText: "[3]", IsOrphaned: true}}

	resolved := Resolve(citations, refs(1, 2, 3))
	if resolved[0].IsOrphaned {
		t.Error("orphan flag not cleared once the reference exists again")
	}
}

func TestResolveInvalidTokenFlagsReview(t *testing.T) {
	citations := []types.Citation{{ID: "c1", RawText: "[5-3]"}}
	resolved := Resolve(citations, refs(1, 2, 3))

	if !resolved[0].NeedsReview {
		t.Error("unparseable range should set NeedsReview")
	}
	if resolved[0].IsOrphaned {
		t.Error("unparseable range alone should not orphan the citation")
	}
}
