package history

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/xrefview/internal/index"
	"github.com/starford/xrefview/internal/web"
)

type fakeLog map[string][]index.HistoryEntry

func (f fakeLog) History(_ context.Context, path string) ([]index.HistoryEntry, error) {
	if path == "broken" {
		return nil, errors.New("log unavailable")
	}
	return f[path], nil
}

func TestRender_MatchingEntries(t *testing.T) {
	log := fakeLog{"a/X.c": {
		{Revision: "r2", Author: "bob <b@x>", Message: "fix leak in connect"},
		{Revision: "r1", Author: "ann", Message: "initial import"},
	}}
	c := New(log, []string{"connect"}, web.NewLinks("/src"))
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b, "a/X.c"))
	assert.Equal(t,
		`<a class="h" href="/src/history/a/X.c#r2" title="bob &lt;b@x&gt;">r2</a> fix leak in <b>connect</b><br/>`,
		b.String())
}

func TestRender_NoTerms(t *testing.T) {
	c := New(fakeLog{}, nil, web.NewLinks(""))
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b, "broken"))
	assert.Empty(t, b.String())
}

func TestRender_LogError(t *testing.T) {
	c := New(fakeLog{}, []string{"x"}, web.NewLinks(""))
	err := c.Render(context.Background(), &strings.Builder{}, "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log unavailable")
}
