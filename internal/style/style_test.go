// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package style

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/citation-engine/pkg/types"
)

var smith2020 = types.Reference{
	ID:      "r1",
	Number:  1,
	Authors: []string{"Jane Smith", "Robert Jones"},
	Year:    2020,
	Title:   "Deep learning for citation analysis",
	Source:  "Journal of Documentation",
	DOI:     "10.1000/xyz",
}

func TestFormatReference(t *testing.T) {
	tests := []struct {
		style types.Style
		want  string
	}{
		{
			style: types.StyleAPA,
			want:  "Smith, J., & Jones, R. (2020). Deep learning for citation analysis. *Journal of Documentation*. https://doi.org/10.1000/xyz",
		},
		{
			style: types.StyleMLA,
			want:  `Smith, Jane, and Robert Jones. "Deep learning for citation analysis." *Journal of Documentation*, 2020.`,
		},
		{
			style: types.StyleChicago,
			want:  `Smith, Jane, and Robert Jones. "Deep learning for citation analysis." *Journal of Documentation* (2020).`,
		},
		{
			style: types.StyleVancouver,
			want:  "Smith J, Jones R. Deep learning for citation analysis. Journal of Documentation. 2020.",
		},
		{
			style: types.StyleIEEE,
			want:  `J. Smith and R. Jones, "Deep learning for citation analysis," *Journal of Documentation*, 2020.`,
		},
		{
			style: types.StyleHarvard,
			want:  "Smith, J. and Jones, R. (2020) 'Deep learning for citation analysis', *Journal of Documentation*.",
		},
		{
			style: types.StyleAMA,
			want:  "Smith J, Jones R. Deep learning for citation analysis. *Journal of Documentation*. 2020. doi:10.1000/xyz",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			got, ferr := FormatReference(smith2020, tt.style)
			if ferr != nil {
				t.Fatalf("unexpected formatting error: %v", ferr)
			}
			if got != tt.want {
				t.Errorf("FormatReference(%s)\n got  %q\n want %q", tt.style, got, tt.want)
			}
		})
	}
}

func TestFormatReferenceMissingFields(t *testing.T) {
	ref := types.Reference{ID: "r1", Number: 1, Title: "Untitled report"}

	got, ferr := FormatReference(ref, types.StyleAPA)
	if ferr == nil {
		t.Fatal("expected StyleFormattingError for missing authors/year/source")
	}
	if !strings.Contains(got, "n.d.") {
		t.Errorf("best-effort text %q should carry n.d. for the missing year", got)
	}
	for _, field := range []string{"authors", "year", "source"} {
		found := false
		for _, m := range ferr.Missing {
			if m == field {
				found = true
			}
		}
		if !found {
			t.Errorf("Missing = %v, want it to include %q", ferr.Missing, field)
		}
	}
}

func TestFormatReferenceAMARequiresDOI(t *testing.T) {
	ref := smith2020
	ref.DOI = ""

	_, ferr := FormatReference(ref, types.StyleAMA)
	if ferr == nil || !reflect.DeepEqual(ferr.Missing, []string{"doi"}) {
		t.Errorf("ferr = %v, want missing doi", ferr)
	}
}

func TestMarkerNumeric(t *testing.T) {
	tests := []struct {
		name    string
		style   types.Style
		numbers []int
		want    string
	}{
		{name: "single ieee", style: types.StyleIEEE, numbers: []int{1}, want: "[1]"},
		{name: "pair vancouver", style: types.StyleVancouver, numbers: []int{2, 6}, want: "[2,6]"},
		{name: "contiguous run collapses", style: types.StyleIEEE, numbers: []int{3, 4, 5}, want: "[3-5]"},
		{name: "pair stays explicit", style: types.StyleIEEE, numbers: []int{3, 4}, want: "[3,4]"},
		{name: "ama parentheses", style: types.StyleAMA, numbers: []int{7}, want: "(7)"},
		{name: "unsorted input", style: types.StyleIEEE, numbers: []int{5, 3, 4}, want: "[3-5]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs := make([]types.Reference, len(tt.numbers))
			for i, n := range tt.numbers {
				refs[i] = types.Reference{ID: "r", Number: n, Title: "T"}
			}
			if got := Marker(refs, tt.style); got != tt.want {
				t.Errorf("Marker = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarkerAuthorYear(t *testing.T) {
	two := smith2020
	solo := types.Reference{ID: "r2", Number: 2, Authors: []string{"Ada Lovelace"}, Year: 1843, Title: "Notes"}
	crowd := types.Reference{ID: "r3", Number: 3, Authors: []string{"A One", "B Two", "C Three"}, Year: 1999, Title: "T"}

	tests := []struct {
		name  string
		style types.Style
		refs  []types.Reference
		want  string
	}{
		{name: "apa two authors", style: types.StyleAPA, refs: []types.Reference{two}, want: "(Smith & Jones, 2020)"},
		{name: "apa solo", style: types.StyleAPA, refs: []types.Reference{solo}, want: "(Lovelace, 1843)"},
		{name: "harvard", style: types.StyleHarvard, refs: []types.Reference{solo}, want: "(Lovelace 1843)"},
		{name: "chicago et al", style: types.StyleChicago, refs: []types.Reference{crowd}, want: "(One et al. 1999)"},
		{name: "mla no year", style: types.StyleMLA, refs: []types.Reference{solo}, want: "(Lovelace)"},
		{name: "multiple works joined", style: types.StyleAPA, refs: []types.Reference{solo, crowd}, want: "(Lovelace, 1843; One et al., 1999)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Marker(tt.refs, tt.style); got != tt.want {
				t.Errorf("Marker = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApaAuthorsTruncation(t *testing.T) {
	authors := make([]string, 25)
	for i := range authors {
		authors[i] = "Ann Author" // identical names are fine for the count
	}
	got := apaAuthors(authors)
	if !strings.Contains(got, "...") {
		t.Errorf("apaAuthors with 25 authors should elide: %q", got)
	}
	if n := strings.Count(got, "Author"); n != 20 {
		t.Errorf("apaAuthors lists %d names, want 20 (19 + last)", n)
	}
}

func TestConvertRewritesMarkersAndFormats(t *testing.T) {
	d := numericDoc()

	if err := Convert(d, types.StyleAPA); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if d.DetectedStyle != types.StyleAPA {
		t.Errorf("DetectedStyle = %s", d.DetectedStyle)
	}
	if got := d.Citations[0].RawText; got != "(Smith & Jones, 2020)" {
		t.Errorf("marker = %q", got)
	}
	if _, ok := d.References[0].Formatted[types.StyleAPA]; !ok {
		t.Error("reference missing cached APA formatting")
	}
}

func TestConvertFlagsIncompleteReferences(t *testing.T) {
	d := numericDoc()
	d.References = append(d.References, types.Reference{ID: "r9", Number: 2, Title: "No metadata"})

	if err := Convert(d, types.StyleHarvard); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	var bare *types.Reference
	for i := range d.References {
		if d.References[i].ID == "r9" {
			bare = &d.References[i]
		}
	}
	if bare == nil || !bare.NeedsReview {
		t.Error("reference without authors/year/source should be flagged NeedsReview")
	}
	if smith := findRef(d, "r1"); smith.NeedsReview {
		t.Error("complete reference wrongly flagged")
	}
}

func TestConvertRoundTrip(t *testing.T) {
	d := numericDoc()
	if err := Convert(d, types.StyleVancouver); err != nil {
		t.Fatalf("seed Convert: %v", err)
	}
	seed := findRef(d, "r1").Formatted[types.StyleVancouver]

	if err := Convert(d, types.StyleMLA); err != nil {
		t.Fatalf("Convert to MLA: %v", err)
	}
	if err := Convert(d, types.StyleVancouver); err != nil {
		t.Fatalf("Convert back: %v", err)
	}

	if got := findRef(d, "r1").Formatted[types.StyleVancouver]; got != seed {
		t.Errorf("round trip changed formatting:\n got  %q\n want %q", got, seed)
	}
}

func TestConvertOrphanKeepsText(t *testing.T) {
	d := numericDoc()
	d.Citations = append(d.Citations, types.Citation{
		ID: "c9", RawText: "[9]", StartOffset: 50, EndOffset: 53,
	})

	if err := Convert(d, types.StyleAPA); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	for _, c := range d.Citations {
		if c.ID == "c9" {
			if c.RawText != "[9]" {
				t.Errorf("orphan marker = %q, want untouched [9]", c.RawText)
			}
			if !c.IsOrphaned {
				t.Error("citation [9] should be orphaned")
			}
		}
	}
}

func numericDoc() *types.Document {
	return &types.Document{
		ID:            "doc-1",
		DetectedStyle: types.StyleVancouver,
		Citations: []types.Citation{
			{ID: "c1", RawText: "[1]", StartOffset: 0, EndOffset: 3},
		},
		References: []types.Reference{smith2020},
	}
}

func findRef(d *types.Document, id string) types.Reference {
	for _, r := range d.References {
		if r.ID == id {
			return r
		}
	}
	return types.Reference{}
}
