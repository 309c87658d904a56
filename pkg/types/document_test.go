// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "testing"

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in     string
		want   Style
		wantOK bool
	}{
		{in: "apa", want: StyleAPA, wantOK: true},
		{in: "APA", want: StyleAPA, wantOK: true},
		{in: " vancouver ", want: StyleVancouver, wantOK: true},
		{in: "ieee", want: StyleIEEE, wantOK: true},
		{in: "bluebook", wantOK: false},
		{in: "", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := ParseStyle(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseStyle(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestStyleIsNumeric(t *testing.T) {
	numeric := map[Style]bool{
		StyleVancouver: true,
		StyleIEEE:      true,
		StyleAMA:       true,
	}
	for _, s := range Styles {
		if got := s.IsNumeric(); got != numeric[s] {
			t.Errorf("%s.IsNumeric() = %v, want %v", s, got, numeric[s])
		}
	}
}

func TestReferenceValidate(t *testing.T) {
	valid := Reference{ID: "r1", Number: 1, Title: "T"}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid reference rejected: %v", err)
	}

	for name, ref := range map[string]Reference{
		"missing id":      {Number: 1, Title: "T"},
		"negative number": {ID: "r1", Number: -1, Title: "T"},
		"missing title":   {ID: "r1", Number: 1},
	} {
		if err := ref.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestCitationValidate(t *testing.T) {
	valid := Citation{ID: "c1", RawText: "[1]", StartOffset: 5, EndOffset: 8}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid citation rejected: %v", err)
	}

	for name, c := range map[string]Citation{
		"missing id":       {RawText: "[1]"},
		"missing raw text": {ID: "c1"},
		"negative offset":  {ID: "c1", RawText: "[1]", StartOffset: -1},
		"end before start": {ID: "c1", RawText: "[1]", StartOffset: 8, EndOffset: 5},
	} {
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestDocumentValidate(t *testing.T) {
	if err := (Document{ID: "doc-1"}).Validate(); err != nil {
		t.Errorf("valid document rejected: %v", err)
	}
	if err := (Document{}).Validate(); err == nil {
		t.Error("document without id should be rejected")
	}
}
