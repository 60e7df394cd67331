// Package highlight matches query terms against text and produces escaped,
// highlighted fragments: the term matcher, the markup stripper used on
// cached cross-reference pages, and the summarizer that picks the best
// excerpt of a stripped page.
package highlight

import (
	"strings"

	"github.com/surgebase/porter2"

	"github.com/starford/xrefview/internal/analysis"
	"github.com/starford/xrefview/internal/web"
)

// Matcher decides whether a word matches one of the query terms. Words match
// case-insensitively, either verbatim or by Porter2 stem.
type Matcher struct {
	terms []string
	exact map[string]struct{}
	stems map[string]struct{}
}

// NewMatcher builds a matcher for terms. Each term is tokenized, so
// "foo_bar baz" contributes two words.
func NewMatcher(terms []string) *Matcher {
	m := &Matcher{
		exact: make(map[string]struct{}),
		stems: make(map[string]struct{}),
	}
	for _, term := range terms {
		for _, tk := range analysis.Tokens(term) {
			w := strings.ToLower(tk.Text)
			if _, dup := m.exact[w]; dup {
				continue
			}
			m.terms = append(m.terms, w)
			m.exact[w] = struct{}{}
			m.stems[porter2.Stem(w)] = struct{}{}
		}
	}
	return m
}

// Terms returns the normalized query words in query order.
func (m *Matcher) Terms() []string {
	return m.terms
}

// Empty reports whether the matcher has no terms.
func (m *Matcher) Empty() bool {
	return len(m.terms) == 0
}

// Match reports whether word matches a query term.
func (m *Matcher) Match(word string) bool {
	w := strings.ToLower(word)
	if _, ok := m.exact[w]; ok {
		return true
	}
	_, ok := m.stems[porter2.Stem(w)]
	return ok
}

// Highlight escapes line for markup and wraps every matching word in <b>.
// The second result reports whether anything matched.
func (m *Matcher) Highlight(line string) (string, bool) {
	var b strings.Builder
	matched := false
	last := 0
	for _, tk := range analysis.Tokens(line) {
		if !m.Match(tk.Text) {
			continue
		}
		matched = true
		b.WriteString(web.Htmlize(line[last:tk.Start]))
		b.WriteString("<b>")
		b.WriteString(web.Htmlize(tk.Text))
		b.WriteString("</b>")
		last = tk.End
	}
	b.WriteString(web.Htmlize(line[last:]))
	return b.String(), matched
}
