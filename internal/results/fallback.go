package results

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/xrefview/internal/analysis"
	"github.com/starford/xrefview/internal/index"
	"github.com/starford/xrefview/internal/srccontext"
)

// plainSnippet renders context from the index and falls back to
// re-analyzing the live source file when the index cannot serve it.
func plainSnippet(ctx context.Context, x *extractor, doc *index.Document, a srccontext.Args) (Snippet, error) {
	defs, err := analysis.DecodeDefinitions(doc.Defs)
	if err != nil {
		return Snippet{}, fmt.Errorf("results: definitions of %s: %w", doc.Path, err)
	}
	scopes, err := analysis.DecodeScopes(doc.Scopes)
	if err != nil {
		return Snippet{}, fmt.Errorf("results: scopes of %s: %w", doc.Path, err)
	}
	a.Defs, a.Scopes = defs, scopes

	eng := x.req.SourceContext
	if r := eng.Fast(ctx, x.log, doc, a); r.Outcome == srccontext.Rendered {
		return Snippet{Text: r.Fragment, Source: SourceFastContext}, nil
	}
	if x.req.SourceRoot == nil {
		return Snippet{}, nil
	}

	f, err := x.req.SourceRoot.Open(doc.Path)
	if err != nil {
		return Snippet{}, fmt.Errorf("results: open source %s: %w", doc.Path, err)
	}
	defer f.Close()

	x.log.Debug("results: re-analyzing source", slog.String("path", doc.Path))
	var b strings.Builder
	if err := eng.Reanalyze(&b, f, a); err != nil {
		return Snippet{}, fmt.Errorf("results: re-analyze %s: %w", doc.Path, err)
	}
	return Snippet{Text: b.String(), Source: SourceSlowContext}, nil
}
