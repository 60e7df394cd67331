package results

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/starford/xrefview/internal/index"
	"github.com/starford/xrefview/internal/projects"
	"github.com/starford/xrefview/internal/srccontext"
	"github.com/starford/xrefview/internal/web"
)

const (
	evenRowClass = "search-result-even-row"
	// shortDateTime is the tooltip layout of a file's last-modified date.
	shortDateTime = "1/2/06 3:04 PM"
)

// Render writes the result rows of hits[start:stop] to w as a
// <tbody class="search-result"> block. Output is written as it is produced,
// so on error w may hold a partial block.
//
// Recoverable failures (a missing cache page, a bad date) are logged to
// req.Logger and leave the affected cell empty. Failures to read the index
// or the source of a plain-text hit are returned.
func Render(ctx context.Context, w io.Writer, req *Request, start, stop int) error {
	log := req.logger()

	grouping, err := Group(ctx, req.Docs, req.Hits, start, stop)
	if err != nil {
		return err
	}
	for _, id := range grouping.Dropped {
		log.Warn("results: hit without path", slog.Int64("doc_id", id))
	}

	p := &page{
		w:     w,
		req:   req,
		log:   log,
		links: web.NewLinks(req.ContextPath),
		x:     &extractor{req: req, log: log},
	}
	p.write(`<tbody class="search-result">`)
	for _, g := range grouping.Groups {
		if err := p.group(ctx, g); err != nil {
			return err
		}
	}
	p.write("</tbody>")
	return p.err
}

// page carries the state of one render. It remembers the first write
// error; later writes are no-ops.
type page struct {
	w     io.Writer
	req   *Request
	log   *slog.Logger
	links web.Links
	x     *extractor

	odd bool // the next row is odd; the first row is even
	err error
}

func (p *page) Write(b []byte) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	n, err := p.w.Write(b)
	if err != nil {
		p.err = fmt.Errorf("results: write: %w", err)
	}
	return n, p.err
}

func (p *page) write(parts ...string) {
	for _, s := range parts {
		if p.err != nil {
			return
		}
		_, _ = io.WriteString(p, s)
	}
}

func (p *page) group(ctx context.Context, g DirectoryGroup) error {
	proj, hasProj := p.project(g.Dir)

	p.write(`<tr class="dir"><td colspan="3"><a href="`,
		strings.TrimSuffix(p.links.Xref(g.Dir), "/"), `/">`,
		web.Htmlize(g.Dir), "/</a>")
	if desc := p.req.Descriptions[g.Dir]; desc != "" {
		p.write(" - <i>", web.Htmlize(desc), "</i>")
	}
	if hasProj {
		if err := p.messages(proj); err != nil {
			return err
		}
	}
	p.write("</td></tr>")

	tabSize := p.req.TabSize
	if hasProj && proj.TabSize > 0 {
		tabSize = proj.TabSize
	}
	for _, id := range g.Hits {
		if err := p.hit(ctx, id, tabSize); err != nil {
			return err
		}
	}
	return p.err
}

func (p *page) project(dir string) (projects.Project, bool) {
	if p.req.Projects == nil {
		return projects.Project{}, false
	}
	return p.req.Projects.ForDir(dir)
}

// messages writes the notification marker of proj when it has pending
// messages.
func (p *page) messages(proj projects.Project) error {
	if p.req.Messages == nil {
		return nil
	}
	msgs := p.req.Messages.Pending(proj)
	if len(msgs) == 0 {
		return nil
	}
	data, err := projects.EncodeJSON(msgs)
	if err != nil {
		return err
	}
	p.write(` <a href="`, p.links.Xref(proj.Path), `">`,
		`<span class="important-note important-note-rounded" data-messages="`,
		web.Htmlize(data), `">!</span></a>`)
	return nil
}

func (p *page) hit(ctx context.Context, id int64, tabSize int) error {
	doc, err := p.req.Docs.Document(ctx, id)
	if err != nil {
		return fmt.Errorf("results: read document %d: %w", id, err)
	}

	if p.odd {
		p.write("<tr>")
	} else {
		p.write(`<tr class="`, evenRowClass, `">`)
	}
	p.odd = !p.odd

	xref := p.links.Xref(doc.Path)
	p.write(`<td class="q"><a href="`, p.links.History(doc.Path), `" title="History">H</a> `,
		`<a href="`, xref, `?a=true" title="Annotate">A</a> `,
		`<a href="`, p.links.Download(doc.Path), `" title="Download">D</a></td>`)

	p.write(`<td class="f"><a href="`, xref, `"`)
	if p.req.LastEdited {
		p.lastEdited(doc)
	}
	p.write(">", web.Htmlize(baseName(doc.Path)), "</a></td>")

	p.write(`<td><code class="con">`)
	snip, err := p.x.extract(ctx, doc, srccontext.Args{Path: doc.Path, TabSize: tabSize})
	if err != nil {
		return err
	}
	p.log.Debug("results: snippet",
		slog.String("path", doc.Path),
		slog.String("source", snip.Source.String()))
	p.write(snip.Text)
	if p.req.History != nil && p.err == nil {
		if err := p.req.History.Render(ctx, p, doc.Path); err != nil {
			return fmt.Errorf("results: history of %s: %w", doc.Path, err)
		}
	}
	p.write("</code></td></tr>\n")
	return p.err
}

// lastEdited writes the tooltip attributes of the file link. A date that
// does not parse is logged and the tooltip omitted.
func (p *page) lastEdited(doc *index.Document) {
	t, err := index.ParseDate(doc.Date)
	if err != nil {
		p.log.Warn("results: parse last-modified date failed",
			slog.String("path", doc.Path),
			slog.String("date", doc.Date),
			slog.String("error", err.Error()))
		return
	}
	p.write(` class="result-annotate" title="Last modified: `,
		web.Htmlize(t.UTC().Format(shortDateTime)), `"`)
}
