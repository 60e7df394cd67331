package results

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/xrefview/internal/index"
)

// DirectoryGroup is the hits of one page that share a parent directory, in
// rank order.
type DirectoryGroup struct {
	Dir  string
	Hits []int64
}

// Grouping is the result of Group.
type Grouping struct {
	// Groups are ordered by the first appearance of their directory.
	Groups []DirectoryGroup
	// Dropped lists hits whose document has no path.
	Dropped []int64
}

// Group reads the documents of hits[start:stop] and groups them by parent
// directory. Hits without a path are skipped and reported in Dropped. A
// failure to read a document aborts the grouping.
func Group(ctx context.Context, docs DocumentReader, hits []index.Hit, start, stop int) (Grouping, error) {
	start, stop = max(start, 0), min(stop, len(hits))

	var g Grouping
	pos := make(map[string]int)
	for i := start; i < stop; i++ {
		id := hits[i].DocID
		doc, err := docs.Document(ctx, id)
		if err != nil {
			return Grouping{}, fmt.Errorf("results: read hit %d: %w", i, err)
		}
		if doc.Path == "" {
			g.Dropped = append(g.Dropped, id)
			continue
		}
		dir := parentDir(doc.Path)
		j, ok := pos[dir]
		if !ok {
			j = len(g.Groups)
			pos[dir] = j
			g.Groups = append(g.Groups, DirectoryGroup{Dir: dir})
		}
		g.Groups[j].Hits = append(g.Groups[j].Hits, id)
	}
	return g, nil
}

// parentDir strips the last segment of a slash-separated path. A path with
// no slash lives in the root directory "".
func parentDir(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return ""
}

// baseName returns the last segment of a slash-separated path.
func baseName(p string) string {
	return p[strings.LastIndexByte(p, '/')+1:]
}
