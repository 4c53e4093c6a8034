package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// reStripControl excludes tab, LF and CR so whitespace controls reach the
// collapsing step as whitespace instead of being deleted mid-word.
var (
	reCollapseSpaces = regexp.MustCompile(`\s+`)
	reStripControl   = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func stripControl(s string) string {
	return reStripControl.ReplaceAllString(s, "")
}

func collapseSpaces(s string) string {
	return reCollapseSpaces.ReplaceAllString(s, " ")
}

// NormalizeName cleans free-text fields such as customer and pet names:
// control characters removed, runs of whitespace collapsed, surrounding
// whitespace trimmed. Case is preserved.
func NormalizeName(input string) string {
	p := Pipeline{
		stripControl,
		collapseSpaces,
		trim,
	}
	return p.Apply(input)
}

// NormalizeNotes is NormalizeName without space collapsing, so line breaks
// and deliberate spacing in free-form notes survive.
func NormalizeNotes(input string) string {
	p := Pipeline{
		stripControl,
		trim,
	}
	return p.Apply(input)
}

// NormalizeEmail lowercases and trims an email address; shape validation is
// the validator's job.
func NormalizeEmail(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
