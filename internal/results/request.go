// Package results renders a page of search hits as the body of the result
// table: hits grouped by directory, each with a snippet showing where the
// query matched.
package results

import (
	"context"
	"io"
	"log/slog"

	"github.com/starford/xrefview/internal/index"
	"github.com/starford/xrefview/internal/projects"
	"github.com/starford/xrefview/internal/srccontext"
	"github.com/starford/xrefview/internal/storage"
)

// DocumentReader returns the stored fields of a hit.
type DocumentReader interface {
	Document(ctx context.Context, id int64) (*index.Document, error)
}

// Summarizer picks the excerpt of a plain text around the query terms and
// returns it as markup.
type Summarizer interface {
	Summary(text string) string
}

// ContextEngine produces context for plain-text hits, cheaply from the
// index when it can and by re-analyzing the source otherwise.
type ContextEngine interface {
	Fast(ctx context.Context, log *slog.Logger, doc *index.Document, a srccontext.Args) srccontext.FastResult
	Reanalyze(w io.Writer, r io.Reader, a srccontext.Args) error
}

// HistoryRenderer writes version-history context for a file.
type HistoryRenderer interface {
	Render(ctx context.Context, w io.Writer, path string) error
}

// ProjectLookup finds the project a directory belongs to.
type ProjectLookup interface {
	ForDir(dir string) (projects.Project, bool)
}

// MessageLookup returns the notifications pending for a project.
type MessageLookup interface {
	Pending(p projects.Project) []projects.Message
}

// Request is the per-request configuration of one render. The renderer
// only reads it.
type Request struct {
	Docs DocumentReader
	Hits []index.Hit

	// Logger receives the warnings of recoverable failures. Nil discards them.
	Logger *slog.Logger

	// ContextPath is the URL prefix of the web application, e.g. "/source".
	ContextPath string
	// TabSize is used for projects without their own tab size.
	TabSize int

	// SourceRoot holds the original files.
	SourceRoot storage.Provider
	// XrefCache holds pre-rendered cross-reference pages by file path.
	XrefCache storage.Provider
	// Compressed selects the gzip-compressed form of the xref cache.
	Compressed bool

	// SourceContext enables snippets. Nil renders the plain listing.
	SourceContext ContextEngine
	// Summarizer enables snippets for cross-reference and HTML hits.
	Summarizer Summarizer
	// History enables version-history context. May be nil.
	History HistoryRenderer

	Projects     ProjectLookup
	Messages     MessageLookup
	Descriptions map[string]string // directory path -> description

	// LastEdited adds a last-modified tooltip to every file link.
	LastEdited bool
}

func (r *Request) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}
