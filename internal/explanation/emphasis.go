package explanation

import "strings"

const emphasisDelimiter = "**"

// SectionSymbols mark a block as a section header when it also carries
// emphasis.
var SectionSymbols = []string{"🏥", "🎯", "💪", "📈", "📋"}

// Span is a run of text with or without emphasis.
type Span struct {
	Text     string
	Emphasis bool
}

// SplitEmphasis splits block on "**"; odd-indexed parts are emphasized.
// Empty parts are dropped. An unpaired trailing delimiter leaves the final
// part emphasized, matching the split rule.
func SplitEmphasis(block string) []Span {
	parts := strings.Split(block, emphasisDelimiter)
	spans := make([]Span, 0, len(parts))
	for i, p := range parts {
		if p == "" {
			continue
		}
		spans = append(spans, Span{Text: p, Emphasis: i%2 == 1})
	}
	return spans
}

// HasEmphasis reports whether block contains a paired emphasis marker.
func HasEmphasis(block string) bool {
	first := strings.Index(block, emphasisDelimiter)
	if first < 0 {
		return false
	}
	return strings.Contains(block[first+len(emphasisDelimiter):], emphasisDelimiter)
}

// IsSectionHeader reports whether block should render as a heading.
func IsSectionHeader(block string) bool {
	if !HasEmphasis(block) {
		return false
	}
	for _, sym := range SectionSymbols {
		if strings.Contains(block, sym) {
			return true
		}
	}
	return false
}
