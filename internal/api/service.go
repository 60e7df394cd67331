package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/starford/xrefview/internal/highlight"
	"github.com/starford/xrefview/internal/history"
	"github.com/starford/xrefview/internal/index"
	"github.com/starford/xrefview/internal/projects"
	"github.com/starford/xrefview/internal/results"
	"github.com/starford/xrefview/internal/srccontext"
	"github.com/starford/xrefview/internal/storage"
	"github.com/starford/xrefview/internal/web"
)

// Options configures the result pages served by a Service.
type Options struct {
	ContextPath    string
	TabSize        int
	SourceContext  bool
	HistoryContext bool
	LastEdited     bool
	ContextLimit   int
	PageSize       int
	MaxHits        int
	CompressXrefs  bool

	Projects     *projects.Registry
	Messages     *projects.Store
	Descriptions map[string]string
	Logger       *slog.Logger
}

// Service runs searches against the index and renders result pages.
type Service struct {
	db   index.Reader
	src  storage.Provider
	xref storage.Provider
	opts Options
}

// NewService creates a new Service. src is the source tree, xref the cache
// of pre-rendered cross-reference pages.
func NewService(db index.Reader, src, xref storage.Provider, opts Options) *Service {
	if opts.PageSize <= 0 {
		opts.PageSize = 25
	}
	if opts.ContextLimit <= 0 {
		opts.ContextLimit = srccontext.DefaultLimit
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{db: db, src: src, xref: xref, opts: opts}
}

// PageSize returns the default number of hits per page.
func (s *Service) PageSize() int {
	return s.opts.PageSize
}

// Search looks up query and writes the result rows of hits
// [start, start+n) to w.
func (s *Service) Search(ctx context.Context, w io.Writer, query string, start, n int) (Page, error) {
	terms := strings.Fields(query)
	hits, err := s.db.Search(ctx, terms, s.opts.MaxHits)
	if err != nil {
		return Page{}, fmt.Errorf("search %q: %w", query, err)
	}
	page := Page{Query: query, Total: len(hits), Start: min(start, len(hits))}
	page.Stop = min(page.Start+n, len(hits))

	if err := results.Render(ctx, w, s.request(terms, hits), page.Start, page.Stop); err != nil {
		return Page{}, fmt.Errorf("render %q: %w", query, err)
	}
	return page, nil
}

// request builds the render configuration of one query.
func (s *Service) request(terms []string, hits []index.Hit) *results.Request {
	links := web.NewLinks(s.opts.ContextPath)
	req := &results.Request{
		Docs:         s.db,
		Hits:         hits,
		Logger:       s.opts.Logger,
		ContextPath:  s.opts.ContextPath,
		TabSize:      s.opts.TabSize,
		SourceRoot:   s.src,
		XrefCache:    s.xref,
		Compressed:   s.opts.CompressXrefs,
		Descriptions: s.opts.Descriptions,
		LastEdited:   s.opts.LastEdited,
	}
	if s.opts.Projects != nil {
		req.Projects = s.opts.Projects
	}
	if s.opts.Messages != nil {
		req.Messages = s.opts.Messages
	}
	if s.opts.SourceContext {
		req.SourceContext = srccontext.New(terms, links, s.db, s.src).WithLimit(s.opts.ContextLimit)
		req.Summarizer = highlight.NewSummarizer(terms)
	}
	if s.opts.HistoryContext {
		req.History = history.New(s.db, terms, links)
	}
	return req
}
