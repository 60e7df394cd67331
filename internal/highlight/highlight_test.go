package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_ExactAndStem(t *testing.T) {
	m := NewMatcher([]string{"Connect", "buffer_size"})
	assert.True(t, m.Match("connect"))
	assert.True(t, m.Match("CONNECTING"), "stemmed form should match")
	assert.True(t, m.Match("connections"))
	assert.True(t, m.Match("buffer_size"))
	assert.False(t, m.Match("buffer"))
	assert.Equal(t, []string{"connect", "buffer_size"}, m.Terms())
}

func TestMatcher_Empty(t *testing.T) {
	m := NewMatcher([]string{"", "  ", "--"})
	assert.True(t, m.Empty())
	assert.False(t, m.Match("anything"))
}

func TestMatcher_HighlightEscapes(t *testing.T) {
	m := NewMatcher([]string{"size"})
	got, ok := m.Highlight(`if (a < size && b > 0) "size"`)
	require.True(t, ok)
	assert.Equal(t, `if (a &lt; <b>size</b> &amp;&amp; b &gt; 0) &#34;<b>size</b>&#34;`, got)

	got, ok = m.Highlight("nothing here")
	assert.False(t, ok)
	assert.Equal(t, "nothing here", got)
}

func TestStripTags(t *testing.T) {
	in := `<html><head><style>.x{}</style><script>var a = "<b>";</script></head>` +
		`<body><a class="l" name="1">1</a> int <b>main</b>() &amp;&amp; done</body></html>`
	got, err := StripTags(strings.NewReader(in), 8<<10)
	require.NoError(t, err)
	assert.Equal(t, "1 int main() && done", got)
}

func TestStripTags_Limit(t *testing.T) {
	in := "<p>" + strings.Repeat("a", 100) + "</p>"
	got, err := StripTags(strings.NewReader(in), 13)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 10), got)
}

func TestSummarizer_Excerpts(t *testing.T) {
	words := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		words = append(words, "w")
	}
	words[50] = "needle"
	s := NewSummarizer([]string{"needle"})
	got := s.Summary(strings.Join(words, " "))
	assert.True(t, strings.HasPrefix(got, "... "), "got %q", got)
	assert.True(t, strings.HasSuffix(got, " ..."), "got %q", got)
	assert.Contains(t, got, "<b>needle</b>")
	assert.Equal(t, 21, len(strings.Fields(strings.Trim(got, ". "))))
}

func TestSummarizer_NoMatchReturnsStart(t *testing.T) {
	s := NewSummarizer([]string{"absent"})
	got := s.Summary("first second\nthird")
	assert.Equal(t, "first second third", got)
}

func TestSummarizer_EscapesText(t *testing.T) {
	s := NewSummarizer([]string{"x"})
	got := s.Summary("a < x")
	assert.Equal(t, "a &lt; <b>x</b>", got)
}
