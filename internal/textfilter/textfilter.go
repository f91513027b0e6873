// Package textfilter normalizes raw ASR transcripts before injection.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"
)

// Options controls transcript normalization behavior.
type Options struct {
	CapitalizeSentences bool
	TrailingSpace       bool
}

// Filter is a deterministic, pure transcript normalizer.
type Filter struct {
	opts Options
}

// New builds a filter with the given options.
func New(opts Options) *Filter {
	return &Filter{opts: opts}
}

// Apply collapses whitespace and applies configured casing rules. Empty and
// whitespace-only input maps to the empty string with no trailing space.
func (f *Filter) Apply(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return ""
	}

	if f.opts.CapitalizeSentences {
		normalized = capitalizeSentences(normalized)
	}
	if f.opts.TrailingSpace {
		return normalized + " "
	}
	return normalized
}

var (
	pronounIContractionPattern = regexp.MustCompile(`\bi['’](?:m|d|ll|ve|re|s)\b`)
	pronounIWordPattern        = regexp.MustCompile(`\bi\b`)
)

// lowercaseAbbreviations are sentence-internal tokens whose trailing period
// does not end a sentence.
var lowercaseAbbreviations = map[string]struct{}{
	"e.g": {}, "i.e": {}, "etc": {}, "vs": {}, "cf": {}, "al": {},
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "st": {},
	"approx": {}, "dept": {}, "est": {}, "min": {}, "max": {}, "no": {},
}

func capitalizeSentences(text string) string {
	text = capitalizeSentenceStarts(text)
	text = pronounIContractionPattern.ReplaceAllStringFunc(text, func(match string) string {
		return "I" + match[1:]
	})
	return capitalizeStandalonePronounI(text)
}

// capitalizeSentenceStarts uppercases the first letter of the text and the
// first letter after a sentence-ending [.!?] plus whitespace.
func capitalizeSentenceStarts(text string) string {
	runes := []rune(text)

	var out strings.Builder
	out.Grow(len(text))

	capitalizeNext := true
	for i, r := range runes {
		if capitalizeNext && unicode.IsLetter(r) {
			r = unicode.ToUpper(r)
			capitalizeNext = false
		} else if capitalizeNext && unicode.IsDigit(r) {
			capitalizeNext = false
		}

		out.WriteRune(r)

		switch r {
		case '.':
			if endsSentence(runes, i) {
				capitalizeNext = true
			}
		case '!', '?':
			capitalizeNext = true
		}
	}
	return out.String()
}

// endsSentence reports whether the period at idx terminates a sentence rather
// than an abbreviation, initialism, or decimal number.
func endsSentence(runes []rune, idx int) bool {
	// A digit on either side marks a decimal or version number.
	if idx > 0 && unicode.IsDigit(runes[idx-1]) {
		return false
	}
	if idx+1 < len(runes) && unicode.IsDigit(runes[idx+1]) {
		return false
	}
	// No whitespace after means the period is mid-token ("example.com").
	if idx+1 < len(runes) && !unicode.IsSpace(runes[idx+1]) {
		return false
	}

	start := idx
	for start > 0 && (unicode.IsLetter(runes[start-1]) || runes[start-1] == '.') {
		start--
	}
	token := strings.ToLower(strings.Trim(string(runes[start:idx]), "."))
	_, abbreviated := lowercaseAbbreviations[token]
	return !abbreviated
}

// capitalizeStandalonePronounI rewrites the bare word "i" as "I", leaving
// initialism-like neighborhoods ("i.e", "a.i.") alone.
func capitalizeStandalonePronounI(text string) string {
	matches := pronounIWordPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var out strings.Builder
	out.Grow(len(text))

	last := 0
	for _, match := range matches {
		start, end := match[0], match[1]
		out.WriteString(text[last:start])
		if partOfInitialism(text, start, end) {
			out.WriteString(text[start:end])
		} else {
			out.WriteString("I")
		}
		last = end
	}
	out.WriteString(text[last:])
	return out.String()
}

func partOfInitialism(text string, start, end int) bool {
	followedByLetter := end+1 < len(text) && text[end] == '.' && isASCIILetter(text[end+1])
	precededByDotted := start > 1 && text[start-1] == '.' && isASCIILetter(text[start-2])
	return followedByLetter || (precededByDotted && end < len(text) && text[end] == '.')
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
