// Package history renders the version-history entries of a file whose log
// messages match the query.
package history

import (
	"context"
	"fmt"
	"io"

	"github.com/starford/xrefview/internal/highlight"
	"github.com/starford/xrefview/internal/index"
	"github.com/starford/xrefview/internal/web"
)

// Log returns the history of a file, newest first.
type Log interface {
	History(ctx context.Context, path string) ([]index.HistoryEntry, error)
}

// Context renders history context for one query.
type Context struct {
	log   Log
	m     *highlight.Matcher
	links web.Links
}

// New returns a Context matching log messages against terms.
func New(log Log, terms []string, links web.Links) *Context {
	return &Context{log: log, m: highlight.NewMatcher(terms), links: links}
}

// Render writes one line per history entry of path whose message matches
// the query. Errors reading the log are returned.
func (c *Context) Render(ctx context.Context, w io.Writer, path string) error {
	if c.m.Empty() {
		return nil
	}
	entries, err := c.log.History(ctx, path)
	if err != nil {
		return fmt.Errorf("history: %s: %w", path, err)
	}
	href := c.links.History(path)
	for _, e := range entries {
		msg, ok := c.m.Highlight(e.Message)
		if !ok {
			continue
		}
		_, err := fmt.Fprintf(w, `<a class="h" href="%s#%s" title="%s">%s</a> %s<br/>`,
			href, web.URIEncodePath(e.Revision), web.Htmlize(e.Author), web.Htmlize(e.Revision), msg)
		if err != nil {
			return err
		}
	}
	return nil
}
