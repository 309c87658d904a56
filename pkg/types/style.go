// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Style identifies a citation style. Per prd005-styles R1.1.
type Style string

const (
	StyleAPA       Style = "apa"
	StyleMLA       Style = "mla"
	StyleChicago   Style = "chicago"
	StyleVancouver Style = "vancouver"
	StyleIEEE      Style = "ieee"
	StyleHarvard   Style = "harvard"
	StyleAMA       Style = "ama"
)

// Styles lists every supported style code.
var Styles = []Style{
	StyleAPA, StyleMLA, StyleChicago, StyleVancouver,
	StyleIEEE, StyleHarvard, StyleAMA,
}

// ParseStyle normalizes a style code string. Unknown codes return false.
func ParseStyle(s string) (Style, bool) {
	style := Style(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Styles {
		if style == known {
			return style, true
		}
	}
	return "", false
}

// IsNumeric reports whether the style uses bare or bracketed integers as
// in-text markers (as opposed to author-year markers).
func (s Style) IsNumeric() bool {
	switch s {
	case StyleVancouver, StyleIEEE, StyleAMA:
		return true
	}
	return false
}
