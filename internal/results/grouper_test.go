package results

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/xrefview/internal/apperr"
	"github.com/starford/xrefview/internal/index"
)

type fakeDocs struct {
	docs  map[int64]*index.Document
	reads int
}

func (f *fakeDocs) Document(_ context.Context, id int64) (*index.Document, error) {
	f.reads++
	d, ok := f.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %d: %w", id, apperr.ErrCorruptIndex)
	}
	return d, nil
}

// docsAt builds a reader whose document i+1 has paths[i].
func docsAt(paths ...string) (*fakeDocs, []index.Hit) {
	f := &fakeDocs{docs: make(map[int64]*index.Document)}
	var hits []index.Hit
	for i, p := range paths {
		id := int64(i + 1)
		f.docs[id] = &index.Document{ID: id, Path: p}
		hits = append(hits, index.Hit{DocID: id})
	}
	return f, hits
}

func TestGroupByFirstOccurrence(t *testing.T) {
	docs, hits := docsAt("a/b/X.c", "a/d/Y.c", "a/b/Z.c")

	g, err := Group(context.Background(), docs, hits, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []DirectoryGroup{
		{Dir: "a/b", Hits: []int64{1, 3}},
		{Dir: "a/d", Hits: []int64{2}},
	}, g.Groups)
	assert.Empty(t, g.Dropped)
}

func TestGroupDropsHitsWithoutPath(t *testing.T) {
	docs, hits := docsAt("", "p/A.java")

	g, err := Group(context.Background(), docs, hits, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []DirectoryGroup{{Dir: "p", Hits: []int64{2}}}, g.Groups)
	assert.Equal(t, []int64{1}, g.Dropped)
}

func TestGroupRange(t *testing.T) {
	docs, hits := docsAt("a/1", "b/2", "c/3", "d/4")

	g, err := Group(context.Background(), docs, hits, 1, 3)
	require.NoError(t, err)
	require.Len(t, g.Groups, 2)
	assert.Equal(t, "b", g.Groups[0].Dir)
	assert.Equal(t, "c", g.Groups[1].Dir)
	assert.Equal(t, 2, docs.reads, "only hits in range are read")

	g, err = Group(context.Background(), docs, hits, 3, 100)
	require.NoError(t, err)
	assert.Equal(t, []DirectoryGroup{{Dir: "d", Hits: []int64{4}}}, g.Groups)

	g, err = Group(context.Background(), docs, hits, 2, 2)
	require.NoError(t, err)
	assert.Empty(t, g.Groups)
}

func TestGroupRootAndNestedDirs(t *testing.T) {
	docs, hits := docsAt("README", "/proj/src/main.go", "/proj/src/util.go", "/proj/doc.go")

	g, err := Group(context.Background(), docs, hits, 0, len(hits))
	require.NoError(t, err)
	assert.Equal(t, []DirectoryGroup{
		{Dir: "", Hits: []int64{1}},
		{Dir: "/proj/src", Hits: []int64{2, 3}},
		{Dir: "/proj", Hits: []int64{4}},
	}, g.Groups)
}

func TestGroupReadFailure(t *testing.T) {
	docs, hits := docsAt("a/1")
	hits = append(hits, index.Hit{DocID: 99})

	_, err := Group(context.Background(), docs, hits, 0, 2)
	require.ErrorIs(t, err, apperr.ErrCorruptIndex)
}

func TestParentAndBaseName(t *testing.T) {
	for _, tc := range []struct{ path, dir, base string }{
		{"a/b/c.txt", "a/b", "c.txt"},
		{"/x.c", "", "x.c"},
		{"x.c", "", "x.c"},
	} {
		assert.Equal(t, tc.dir, parentDir(tc.path), tc.path)
		assert.Equal(t, tc.base, baseName(tc.path), tc.path)
	}
}
