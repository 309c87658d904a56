// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package style renders references and citation markers in the supported
// citation styles and converts documents between them.
// Implements: prd005-styles (R1-R4).
//
// Style templates (italics use Markdown asterisks):
//
//	apa        marker "(Family, Year)"       ref "Family, I., & Family, I. (Year). Title. *Source*. https://doi.org/DOI"
//	mla        marker "(Family)"             ref "Family, Given, et al. \"Title.\" *Source*, Year."
//	chicago    marker "(Family Year)"        ref "Family, Given, and Given Family. \"Title.\" *Source* (Year)."
//	vancouver  marker "[N]"                  ref "Family I, Family I. Title. Source. Year."
//	ieee       marker "[N]"                  ref "I. Family and I. Family, \"Title,\" *Source*, Year."
//	harvard    marker "(Family Year)"        ref "Family, I. and Family, I. (Year) 'Title', *Source*."
//	ama        marker "(N)"                  ref "Family I, Family I. Title. *Source*. Year. doi:DOI"
//
// AMA prescribes superscript citation numbers; plain text renders them as
// parenthesized numbers instead.
package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// FormatReference renders one reference in the target style. When mandatory
// fields are missing it still returns best-effort text along with a
// StyleFormattingError so the caller can flag the entry for review.
func FormatReference(ref types.Reference, style types.Style) (string, *types.StyleFormattingError) {
	var missing []string
	if len(ref.Authors) == 0 {
		missing = append(missing, "authors")
	}
	if ref.Year == 0 {
		missing = append(missing, "year")
	}
	if ref.Source == "" {
		missing = append(missing, "source")
	}
	if style == types.StyleAMA && ref.DOI == "" {
		missing = append(missing, "doi")
	}

	var text string
	switch style {
	case types.StyleAPA:
		text = formatAPA(ref)
	case types.StyleMLA:
		text = formatMLA(ref)
	case types.StyleChicago:
		text = formatChicago(ref)
	case types.StyleVancouver:
		text = formatVancouver(ref)
	case types.StyleIEEE:
		text = formatIEEE(ref)
	case types.StyleHarvard:
		text = formatHarvard(ref)
	case types.StyleAMA:
		text = formatAMA(ref)
	default:
		text = formatAPA(ref)
	}

	if len(missing) > 0 {
		return text, &types.StyleFormattingError{ReferenceID: ref.ID, Style: style, Missing: missing}
	}
	return text, nil
}

func formatAPA(r types.Reference) string {
	var b strings.Builder
	if a := apaAuthors(r.Authors); a != "" {
		fmt.Fprintf(&b, "%s ", a)
	}
	fmt.Fprintf(&b, "(%s). %s.", yearOrND(r.Year), r.Title)
	if r.Source != "" {
		fmt.Fprintf(&b, " *%s*.", r.Source)
	}
	if r.DOI != "" {
		fmt.Fprintf(&b, " https://doi.org/%s", r.DOI)
	} else if r.URL != "" {
		fmt.Fprintf(&b, " %s", r.URL)
	}
	return b.String()
}

func formatMLA(r types.Reference) string {
	var b strings.Builder
	if len(r.Authors) > 0 {
		family, given := splitName(r.Authors[0])
		if given != "" {
			fmt.Fprintf(&b, "%s, %s", family, given)
		} else {
			b.WriteString(family)
		}
		if len(r.Authors) > 2 {
			b.WriteString(", et al")
		} else if len(r.Authors) == 2 {
			fmt.Fprintf(&b, ", and %s", r.Authors[1])
		}
		b.WriteString(". ")
	}
	fmt.Fprintf(&b, "%q", r.Title+".")
	if r.Source != "" {
		fmt.Fprintf(&b, " *%s*,", r.Source)
	}
	fmt.Fprintf(&b, " %s.", yearOrND(r.Year))
	return b.String()
}

func formatChicago(r types.Reference) string {
	var b strings.Builder
	if len(r.Authors) > 0 {
		family, given := splitName(r.Authors[0])
		if given != "" {
			fmt.Fprintf(&b, "%s, %s", family, given)
		} else {
			b.WriteString(family)
		}
		for i := 1; i < len(r.Authors); i++ {
			if i == len(r.Authors)-1 {
				fmt.Fprintf(&b, ", and %s", r.Authors[i])
			} else {
				fmt.Fprintf(&b, ", %s", r.Authors[i])
			}
		}
		b.WriteString(". ")
	}
	fmt.Fprintf(&b, "%q", r.Title+".")
	if r.Source != "" {
		fmt.Fprintf(&b, " *%s*", r.Source)
	}
	fmt.Fprintf(&b, " (%s).", yearOrND(r.Year))
	return b.String()
}

func formatVancouver(r types.Reference) string {
	var b strings.Builder
	if a := initialAuthors(r.Authors, 6); a != "" {
		fmt.Fprintf(&b, "%s. ", a)
	}
	fmt.Fprintf(&b, "%s.", r.Title)
	if r.Source != "" {
		fmt.Fprintf(&b, " %s.", r.Source)
	}
	fmt.Fprintf(&b, " %s.", yearOrND(r.Year))
	return b.String()
}

func formatIEEE(r types.Reference) string {
	var b strings.Builder
	if len(r.Authors) > 0 {
		names := make([]string, 0, len(r.Authors))
		limit := len(r.Authors)
		if limit > 6 {
			limit = 1
		}
		for _, a := range r.Authors[:limit] {
			family, given := splitName(a)
			if given != "" {
				names = append(names, initials(given)+" "+family)
			} else {
				names = append(names, family)
			}
		}
		joined := strings.Join(names, ", ")
		if len(r.Authors) > 6 {
			joined += " et al."
		} else if len(names) > 1 {
			last := names[len(names)-1]
			joined = strings.Join(names[:len(names)-1], ", ") + " and " + last
		}
		fmt.Fprintf(&b, "%s, ", joined)
	}
	fmt.Fprintf(&b, "%q", r.Title+",")
	if r.Source != "" {
		fmt.Fprintf(&b, " *%s*,", r.Source)
	}
	fmt.Fprintf(&b, " %s.", yearOrND(r.Year))
	return b.String()
}

func formatHarvard(r types.Reference) string {
	var b strings.Builder
	if len(r.Authors) > 0 {
		names := make([]string, 0, len(r.Authors))
		for _, a := range r.Authors {
			family, given := splitName(a)
			if given != "" {
				names = append(names, family+", "+initials(given))
			} else {
				names = append(names, family)
			}
		}
		joined := names[0]
		if len(names) == 2 {
			joined = names[0] + " and " + names[1]
		} else if len(names) > 2 {
			joined = strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
		}
		fmt.Fprintf(&b, "%s ", joined)
	}
	fmt.Fprintf(&b, "(%s) '%s',", yearOrND(r.Year), r.Title)
	if r.Source != "" {
		fmt.Fprintf(&b, " *%s*.", r.Source)
	} else {
		b.WriteString(".")
	}
	return b.String()
}

func formatAMA(r types.Reference) string {
	var b strings.Builder
	if a := amaAuthors(r.Authors); a != "" {
		fmt.Fprintf(&b, "%s. ", a)
	}
	fmt.Fprintf(&b, "%s.", r.Title)
	if r.Source != "" {
		fmt.Fprintf(&b, " *%s*.", r.Source)
	}
	fmt.Fprintf(&b, " %s.", yearOrND(r.Year))
	if r.DOI != "" {
		fmt.Fprintf(&b, " doi:%s", r.DOI)
	}
	return b.String()
}

// apaAuthors renders "Family, I., Family, I., & Family, I.". Beyond 20
// authors the list truncates to the first 19, an ellipsis, and the last.
func apaAuthors(authors []string) string {
	if len(authors) == 0 {
		return ""
	}
	render := func(a string) string {
		family, given := splitName(a)
		if given == "" {
			return family
		}
		return family + ", " + initials(given)
	}

	var names []string
	if len(authors) > 20 {
		for _, a := range authors[:19] {
			names = append(names, render(a))
		}
		names = append(names, "...", render(authors[len(authors)-1]))
		return strings.Join(names, ", ")
	}
	for _, a := range authors {
		names = append(names, render(a))
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", & " + names[len(names)-1]
}

// initialAuthors renders "Family I, Family I" truncating to limit authors
// followed by "et al" (Vancouver and AMA list form).
func initialAuthors(authors []string, limit int) string {
	if len(authors) == 0 {
		return ""
	}
	var names []string
	n := len(authors)
	if n > limit {
		n = limit
	}
	for _, a := range authors[:n] {
		family, given := splitName(a)
		if given == "" {
			names = append(names, family)
		} else {
			names = append(names, family+" "+strings.NewReplacer(".", "", " ", "").Replace(initials(given)))
		}
	}
	out := strings.Join(names, ", ")
	if len(authors) > limit {
		out += ", et al"
	}
	return out
}

// amaAuthors truncates to three authors followed by "et al".
func amaAuthors(authors []string) string {
	if len(authors) > 6 {
		return initialAuthors(authors[:3], 3) + ", et al"
	}
	return initialAuthors(authors, 6)
}

// splitName splits a "Given Family" name on its last space. Single-token
// names are treated as a bare family name.
func splitName(name string) (family, given string) {
	name = strings.TrimSpace(name)
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return name, ""
	}
	return name[idx+1:], name[:idx]
}

// initials renders given names as dotted initials: "John Ronald" → "J. R.".
func initials(given string) string {
	var parts []string
	for _, w := range strings.Fields(given) {
		r := []rune(w)
		parts = append(parts, strings.ToUpper(string(r[0]))+".")
	}
	return strings.Join(parts, " ")
}

func yearOrND(year int) string {
	if year == 0 {
		return "n.d."
	}
	return strconv.Itoa(year)
}
