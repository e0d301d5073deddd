package usecase

import (
	"regexp"
	"strings"
)

// TitleParts is a cart title split into its base product name and the
// trailing color/variant suffix. Color is empty when no suffix was found.
type TitleParts struct {
	Base  string
	Color string
}

// Package-level compiled regex patterns for performance
var (
	// Matches the ":-" vendor convention, e.g. "Varsity Tee Size:- Navy, M"
	colonSuffixPattern = regexp.MustCompile(`^(.*\S)\s*:-\s*(\S.*)$`)

	// Dash-like separator (hyphen, en-dash, em-dash) surrounded by whitespace
	dashSeparatorPattern = regexp.MustCompile(`\s+[-–—]\s+`)

	// Trailing "Size" label left over once a colon suffix is stripped
	trailingSizeLabelPattern = regexp.MustCompile(`(?i)\s+size$`)
)

// titleFormat recognizes one vendor title convention. Formats are tried
// in order; the first one that applies wins.
type titleFormat func(title string) (TitleParts, bool)

var titleFormats = []titleFormat{
	parseColonSuffixTitle,
	parseDashSuffixTitle,
}

// SplitTitle splits a raw cart title into base name and color suffix.
// Unrecognized titles come back whole, with no color.
func SplitTitle(title string) TitleParts {
	trimmed := strings.TrimSpace(title)

	for _, format := range titleFormats {
		if parts, ok := format(trimmed); ok {
			return parts
		}
	}

	return TitleParts{Base: trimmed}
}

// parseColonSuffixTitle handles the "Name Size:- Color, Size" convention,
// where the colon-delimited fragment carries "color, size" and the word
// before the colon is a label, not part of the product name.
func parseColonSuffixTitle(title string) (TitleParts, bool) {
	m := colonSuffixPattern.FindStringSubmatch(title)
	if m == nil {
		return TitleParts{}, false
	}

	base := trailingSizeLabelPattern.ReplaceAllString(strings.TrimSpace(m[1]), "")

	// The suffix reads "Color, Size"; only the color half is matchable
	suffix := m[2]
	if idx := strings.Index(suffix, ","); idx >= 0 {
		suffix = suffix[:idx]
	}

	color := strings.TrimSpace(suffix)
	if base == "" || color == "" {
		return TitleParts{}, false
	}

	return TitleParts{Base: base, Color: color}, true
}

// parseDashSuffixTitle handles the common "Base Name - Color" convention.
// With multiple dash separators the last segment is the color and the
// remainder is rejoined as the base.
func parseDashSuffixTitle(title string) (TitleParts, bool) {
	parts := dashSeparatorPattern.Split(title, -1)
	if len(parts) < 2 {
		return TitleParts{}, false
	}

	color := strings.TrimSpace(parts[len(parts)-1])
	base := strings.TrimSpace(strings.Join(parts[:len(parts)-1], " - "))
	if base == "" || color == "" {
		return TitleParts{}, false
	}

	return TitleParts{Base: base, Color: color}, true
}
