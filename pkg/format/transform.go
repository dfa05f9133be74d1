package format

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Transformer rewrites a member name on its way to becoming a label.
type Transformer interface {
	Transform(s string) string
}

type TransformerFunc func(string) string

func (f TransformerFunc) Transform(s string) string {
	return f(s)
}

var (
	// SplitCamelCase puts a space between the words of a camel-cased
	// name: "OrderLineID" becomes "Order Line ID".
	SplitCamelCase Transformer = TransformerFunc(splitCamelCase)

	// UpperFirst upper-cases the first letter, dropping leading
	// spaces.
	UpperFirst Transformer = TransformerFunc(upperFirst)

	Trim Transformer = TransformerFunc(strings.TrimSpace)
)

// DefaultTransformers are applied, in order, to member names which
// have no display label.
func DefaultTransformers() []Transformer {
	return []Transformer{SplitCamelCase, UpperFirst, Trim}
}

// Apply runs s through each transformer in turn.
func Apply(s string, transformers ...Transformer) string {
	for _, t := range transformers {
		s = t.Transform(s)
	}
	return s
}

var upper = cases.Upper(language.Und)

func upperFirst(s string) string {
	s = strings.TrimLeft(s, " ")
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return upper.String(s[:size]) + s[size:]
}

// splitCamelCase starts a new word at a lower-case letter followed by
// an upper-case one, at the last of a run of upper-case letters
// followed by a lower-case one, and at the first digit after a
// letter.
func splitCamelCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && wordStart(runes, i) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func wordStart(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(cur):
		return i+1 < len(runes) && unicode.IsLower(runes[i+1])
	case unicode.IsLetter(prev) && unicode.IsDigit(cur):
		return true
	}
	return false
}
