package analysis

import (
	"unicode"
	"unicode/utf8"
)

// Token is a word in a line of text. Start and End are byte offsets.
type Token struct {
	Text  string
	Start int
	End   int
}

// Tokens splits s into words: maximal runs of letters, digits and '_'.
func Tokens(s string) []Token {
	var out []Token
	start := -1
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			out = append(out, Token{Text: s[start:i], Start: start, End: i})
			start = -1
		}
		i += size
	}
	if start >= 0 {
		out = append(out, Token{Text: s[start:], Start: start, End: len(s)})
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
