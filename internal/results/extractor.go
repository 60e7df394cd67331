package results

import (
	"context"
	"io"
	"log/slog"

	"github.com/starford/xrefview/internal/analysis"
	"github.com/starford/xrefview/internal/highlight"
	"github.com/starford/xrefview/internal/index"
	"github.com/starford/xrefview/internal/srccontext"
)

// cacheReadLimit bounds how much of a cached page or HTML file is read to
// build a summary.
const cacheReadLimit = 8 << 10

// Source tells which strategy produced a snippet.
type Source int

const (
	SourceNone Source = iota
	SourceXrefCache
	SourceRichText
	SourceFastContext
	SourceSlowContext
)

func (s Source) String() string {
	switch s {
	case SourceXrefCache:
		return "xref-cache"
	case SourceRichText:
		return "rich-text"
	case SourceFastContext:
		return "fast-context"
	case SourceSlowContext:
		return "slow-context"
	default:
		return "none"
	}
}

// Snippet is the context markup of one hit.
type Snippet struct {
	Text   string
	Source Source
}

type strategy func(ctx context.Context, x *extractor, doc *index.Document, a srccontext.Args) (Snippet, error)

// strategies maps each genre to its snippet strategy. Genres not listed
// get no snippet.
var strategies = map[analysis.Genre]strategy{
	analysis.GenreXref:  xrefSnippet,
	analysis.GenreHTML:  richTextSnippet,
	analysis.GenrePlain: plainSnippet,
}

type extractor struct {
	req *Request
	log *slog.Logger
}

// extract returns the snippet of doc. Only failures of the slow context
// path are returned; everything else degrades to an empty snippet.
func (x *extractor) extract(ctx context.Context, doc *index.Document, a srccontext.Args) (Snippet, error) {
	if x.req.SourceContext == nil {
		return Snippet{}, nil
	}
	s, ok := strategies[doc.Genre]
	if !ok {
		return Snippet{}, nil
	}
	return s(ctx, x, doc, a)
}

func xrefSnippet(_ context.Context, x *extractor, doc *index.Document, _ srccontext.Args) (Snippet, error) {
	if x.req.Summarizer == nil || x.req.XrefCache == nil {
		return Snippet{}, nil
	}
	open := x.req.XrefCache.Open
	if x.req.Compressed {
		open = x.req.XrefCache.OpenGzip
	}
	text, ok := x.load(open, doc.Path, x.req.Compressed)
	if !ok {
		return Snippet{}, nil
	}
	return Snippet{Text: x.req.Summarizer.Summary(text), Source: SourceXrefCache}, nil
}

func richTextSnippet(_ context.Context, x *extractor, doc *index.Document, _ srccontext.Args) (Snippet, error) {
	if x.req.Summarizer == nil || x.req.SourceRoot == nil {
		return Snippet{}, nil
	}
	text, ok := x.load(x.req.SourceRoot.Open, doc.Path, false)
	if !ok {
		return Snippet{}, nil
	}
	return Snippet{Text: x.req.Summarizer.Summary(text), Source: SourceRichText}, nil
}

// load reads the first cacheReadLimit bytes of path and strips the markup.
// Failures are logged and reported as !ok.
func (x *extractor) load(open func(string) (io.ReadCloser, error), path string, compressed bool) (string, bool) {
	rc, err := open(path)
	if err != nil {
		x.log.Warn("results: load cached page failed",
			slog.String("path", path),
			slog.Bool("compressed", compressed),
			slog.String("error", err.Error()))
		return "", false
	}
	defer rc.Close()

	text, err := highlight.StripTags(rc, cacheReadLimit)
	if err != nil {
		x.log.Warn("results: load cached page failed",
			slog.String("path", path),
			slog.Bool("compressed", compressed),
			slog.String("error", err.Error()))
		return "", false
	}
	return text, true
}
