package web

import (
	"html"
	"strings"
	"testing"
)

func TestHtmlize_RoundTrip(t *testing.T) {
	raw := `a<b & "c" 'd'`
	esc := Htmlize(raw)
	if strings.ContainsAny(esc, `<>"'`) {
		t.Fatalf("escaped %q still contains markup characters", esc)
	}
	if got := html.UnescapeString(esc); got != raw {
		t.Errorf("unescape = %q, want %q", got, raw)
	}
}

func TestURIEncodePath(t *testing.T) {
	cases := map[string]string{
		"a/b/c.c":         "a/b/c.c",
		"dir with/sp ace": "dir%20with/sp%20ace",
		"a/<b>&c":         "a/%3Cb%3E&c",
		"q?x#y":           "q%3Fx%23y",
		"":                "",
	}
	for in, want := range cases {
		if got := URIEncodePath(in); got != want {
			t.Errorf("URIEncodePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLinks(t *testing.T) {
	l := NewLinks("/source/")
	if got := l.Xref("a/b c/X.c"); got != "/source/xref/a/b%20c/X.c" {
		t.Errorf("Xref = %q", got)
	}
	if got := l.History("/a/X.c"); got != "/source/history/a/X.c" {
		t.Errorf("History = %q", got)
	}
	if got := NewLinks("").Download("X.c"); got != "/download/X.c" {
		t.Errorf("Download = %q", got)
	}
}
