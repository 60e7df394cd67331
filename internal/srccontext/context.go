// Package srccontext renders the matching lines of a plain-text file as a
// highlighted context fragment. The fast path reads the lines stored in the
// index; the slow path re-tokenizes the live source file. Both produce the
// same markup.
package srccontext

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/starford/xrefview/internal/analysis"
	"github.com/starford/xrefview/internal/highlight"
	"github.com/starford/xrefview/internal/index"
	"github.com/starford/xrefview/internal/web"
)

// DefaultLimit is the number of matching lines shown per file before the
// "[all...]" link.
const DefaultLimit = 10

// Outcome tells whether the fast path produced context.
type Outcome int

const (
	// Rendered means Fragment holds the context.
	Rendered Outcome = iota
	// NeedsFallback means the index could not produce context for this
	// document and the source file has to be re-analyzed.
	NeedsFallback
)

// FastResult is the result of the fast path.
type FastResult struct {
	Outcome  Outcome
	Fragment string
}

// Args describe the file being rendered.
type Args struct {
	Path    string
	TabSize int
	Defs    *analysis.Definitions // may be nil
	Scopes  *analysis.Scopes      // may be nil
}

// LineStore returns the lines stored for a document.
type LineStore interface {
	Lines(ctx context.Context, id int64) ([]index.Line, error)
}

// Stater reports the state of a source file.
type Stater interface {
	Stat(path string) (fs.FileInfo, error)
}

// Context renders context fragments for one query.
type Context struct {
	m     *highlight.Matcher
	links web.Links
	lines LineStore
	src   Stater
	limit int
}

// New returns a Context for terms. lines and src back the fast path; with
// either nil every document falls back to re-analysis.
func New(terms []string, links web.Links, lines LineStore, src Stater) *Context {
	return &Context{
		m:     highlight.NewMatcher(terms),
		links: links,
		lines: lines,
		src:   src,
		limit: DefaultLimit,
	}
}

// WithLimit sets the number of lines shown per file.
func (c *Context) WithLimit(n int) *Context {
	if n > 0 {
		c.limit = n
	}
	return c
}

// Fast renders context for doc from the lines stored in the index. It
// reports NeedsFallback when the document has no stored lines or the source
// file changed since it was indexed, so the stored lines no longer match.
func (c *Context) Fast(ctx context.Context, log *slog.Logger, doc *index.Document, a Args) FastResult {
	fallback := FastResult{Outcome: NeedsFallback}
	if c.lines == nil || c.src == nil || doc.Date == "" {
		return fallback
	}
	info, err := c.src.Stat(doc.Path)
	if err != nil {
		return fallback
	}
	if index.FormatDate(info.ModTime()) != doc.Date {
		log.Debug("context: stale index entry", slog.String("path", doc.Path))
		return fallback
	}
	lines, err := c.lines.Lines(ctx, doc.ID)
	if err != nil {
		log.Warn("context: read stored lines failed",
			slog.String("path", doc.Path),
			slog.String("error", err.Error()))
		return fallback
	}
	if len(lines) == 0 {
		return fallback
	}

	var b strings.Builder
	f := c.newFormatter(&b, a)
	for _, l := range lines {
		f.line(l.Number, l.Text)
	}
	if err := f.finish(); err != nil {
		return fallback
	}
	return FastResult{Outcome: Rendered, Fragment: b.String()}
}

// Reanalyze reads r line by line as UTF-8 and writes context for every
// matching line to w. Read and write errors are returned as is.
func (c *Context) Reanalyze(w io.Writer, r io.Reader, a Args) error {
	br := bufio.NewReader(r)
	f := c.newFormatter(w, a)
	for n := 1; ; n++ {
		text, err := br.ReadString('\n')
		if len(text) > 0 {
			text = strings.TrimRight(text, "\r\n")
			if !utf8.ValidString(text) {
				text = strings.ToValidUTF8(text, string(utf8.RuneError))
			}
			f.line(n, text)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("srccontext: read %s: %w", a.Path, err)
		}
	}
	return f.finish()
}

type formatter struct {
	c       *Context
	w       io.Writer
	a       Args
	href    string
	shown   int
	matched int
	err     error
}

func (c *Context) newFormatter(w io.Writer, a Args) *formatter {
	return &formatter{c: c, w: w, a: a, href: c.links.Xref(a.Path)}
}

func (f *formatter) write(parts ...string) {
	for _, p := range parts {
		if f.err != nil {
			return
		}
		_, f.err = io.WriteString(f.w, p)
	}
}

func (f *formatter) line(n int, text string) {
	text = expandTabs(text, f.a.TabSize)
	hl, ok := f.c.m.Highlight(text)
	if !ok {
		return
	}
	f.matched++
	if f.shown >= f.c.limit {
		return
	}
	f.shown++

	num := strconv.Itoa(n)
	f.write(`<a class="s" href="`, f.href, "#", num, `"><span class="l">`, num, "</span> ", hl, "</a>")
	if sc, ok := f.a.Scopes.At(n); ok {
		f.write(` <span class="scope"><a href="`, f.href, "#", strconv.Itoa(sc.LineFrom), `">in `,
			web.Htmlize(sc.Name), "()</a></span>")
	}
	if tag, ok := f.definition(n, text); ok {
		f.write(" <i>", web.Htmlize(tag.Type), "</i>")
	}
	f.write("<br/>")
}

// definition returns the definition on line n of a word matching the query.
func (f *formatter) definition(n int, text string) (analysis.Tag, bool) {
	for _, tk := range analysis.Tokens(text) {
		if !f.c.m.Match(tk.Text) {
			continue
		}
		if tag, ok := f.a.Defs.DefinedAt(tk.Text, n); ok {
			return tag, true
		}
	}
	return analysis.Tag{}, false
}

func (f *formatter) finish() error {
	if f.matched > f.shown {
		query := strings.Join(f.c.m.Terms(), " ")
		f.write(`<a href="`, f.c.links.More(f.a.Path), "?t=", web.QueryEncode(query), `">[all...]</a>`)
	}
	return f.err
}

// expandTabs replaces tabs with spaces up to the next multiple of size.
func expandTabs(s string, size int) string {
	if size <= 0 || !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := size - col%size
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}
