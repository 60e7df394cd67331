package highlight

import (
	"strings"

	"github.com/starford/xrefview/internal/analysis"
)

const (
	defaultWindow    = 10 // words of context on each side of a match
	defaultFragments = 3
	ellipsis         = " ... "
)

// Summarizer picks the excerpts of a plain text that best show where the
// query matched.
type Summarizer struct {
	m         *Matcher
	window    int
	fragments int
}

// NewSummarizer returns a summarizer for the given query terms.
func NewSummarizer(terms []string) *Summarizer {
	return &Summarizer{
		m:         NewMatcher(terms),
		window:    defaultWindow,
		fragments: defaultFragments,
	}
}

// Summary returns escaped markup with up to three excerpts around matching
// words, matches wrapped in <b>. Without any match it returns the start of
// the text.
func (s *Summarizer) Summary(text string) string {
	toks := analysis.Tokens(text)
	if len(toks) == 0 {
		return ""
	}

	type span struct{ from, to int } // token indexes, inclusive
	var spans []span
	for i, tk := range toks {
		if !s.m.Match(tk.Text) {
			continue
		}
		from, to := max(0, i-s.window), min(len(toks)-1, i+s.window)
		if n := len(spans); n > 0 && from <= spans[n-1].to+1 {
			spans[n-1].to = to
			continue
		}
		if len(spans) == s.fragments {
			break
		}
		spans = append(spans, span{from, to})
	}
	if len(spans) == 0 {
		spans = append(spans, span{0, min(len(toks)-1, 2*s.window)})
	}

	var b strings.Builder
	if spans[0].from > 0 {
		b.WriteString("... ")
	}
	for i, sp := range spans {
		if i > 0 {
			b.WriteString(ellipsis)
		}
		frag := strings.Join(strings.Fields(text[toks[sp.from].Start:toks[sp.to].End]), " ")
		hl, _ := s.m.Highlight(frag)
		b.WriteString(hl)
	}
	if spans[len(spans)-1].to < len(toks)-1 {
		b.WriteString(" ...")
	}
	return b.String()
}
