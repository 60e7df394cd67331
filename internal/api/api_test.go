package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/xrefview/internal/analysis"
	"github.com/starford/xrefview/internal/index"
	"github.com/starford/xrefview/internal/projects"
	"github.com/starford/xrefview/internal/testutil"
)

// testEnv seeds an index with two plain-text files and returns a router
// over it. An empty authToken disables auth.
func testEnv(t *testing.T, authToken string) (*index.DB, string, http.Handler) {
	t.Helper()
	ctx := context.Background()

	srcDir, src := testutil.TestTree(t, map[string]string{
		"app/main.c": "int main(void)\n{\n\treturn helper();\n}\n",
		"lib/util.c": "int helper(void)\n{\n\treturn 0;\n}\n",
	})
	_, xref := testutil.TestTree(t, nil)
	db := testutil.TestDB(t)

	for _, f := range []struct {
		path  string
		lines []index.Line
	}{
		{"app/main.c", []index.Line{{Number: 1, Text: "int main(void)"}, {Number: 3, Text: "\treturn helper();"}}},
		{"lib/util.c", []index.Line{{Number: 1, Text: "int helper(void)"}}},
	} {
		info, err := os.Stat(filepath.Join(srcDir, filepath.FromSlash(f.path)))
		if err != nil {
			t.Fatal(err)
		}
		doc := index.Document{Path: f.path, Genre: analysis.GenrePlain, Date: index.FormatDate(info.ModTime())}
		if _, err := db.UpsertDocument(ctx, doc, f.lines); err != nil {
			t.Fatalf("UpsertDocument: %v", err)
		}
	}

	logger, _ := testutil.CaptureLogger(t)
	svc := NewService(db, src, xref, Options{
		ContextPath:   "/source",
		TabSize:       4,
		SourceContext: true,
		PageSize:      10,
		Projects:      projects.NewRegistry([]projects.Project{{Name: "app", Path: "app"}}),
		Messages:      projects.NewStore(projects.Message{Text: "frozen", Tags: []string{"app"}}),
		Descriptions:  map[string]string{"lib": "Shared helpers"},
		Logger:        logger,
	})
	return db, srcDir, NewRouter(svc, authToken != "", authToken)
}

func get(h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSearchRendersPage(t *testing.T) {
	_, _, router := testEnv(t, "")

	w := get(router, "/search?q=helper")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	body := w.Body.String()
	for _, want := range []string{
		"Results 1 &ndash; 2 of 2",
		`<tbody class="search-result">`,
		`<a href="/source/xref/app/">app/</a>`,
		`data-messages="[{&#34;text&#34;:&#34;frozen&#34;`,
		`<a href="/source/xref/lib/">lib/</a> - <i>Shared helpers</i>`,
		`<span class="l">3</span>     return <b>helper</b>();</a>`,
		`<span class="l">1</span> int <b>helper</b>(void)</a>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q\n%s", want, body)
		}
	}
}

func TestSearchPagination(t *testing.T) {
	_, _, router := testEnv(t, "")

	w := get(router, "/search?q=helper&start=1&n=1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Results 2 &ndash; 2 of 2") {
		t.Errorf("unexpected title:\n%s", body)
	}
	if strings.Contains(body, "main.c") || !strings.Contains(body, "util.c") {
		t.Errorf("page should hold only the second hit:\n%s", body)
	}
}

func TestSearchNoMatch(t *testing.T) {
	_, _, router := testEnv(t, "")

	w := get(router, "/search?q=nothing_here")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "did not match any files") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestSearchBadRequest(t *testing.T) {
	_, _, router := testEnv(t, "")

	for _, target := range []string{"/search", "/search?q=%20", "/search?q=x&start=-1", "/search?q=x&n=0", "/search?q=x&n=abc"} {
		w := get(router, target)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, w.Code)
			continue
		}
		var resp errResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil || resp.Error == "" {
			t.Errorf("%s: bad error body: %v", target, err)
		}
	}
}

func TestSearchSourceGone(t *testing.T) {
	_, srcDir, router := testEnv(t, "")

	// Without the file the stored lines cannot be trusted and re-analysis fails.
	if err := os.Remove(filepath.Join(srcDir, "lib", "util.c")); err != nil {
		t.Fatal(err)
	}
	w := get(router, "/search?q=helper")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	_, _, router := testEnv(t, "secret")

	if w := get(router, "/search?q=helper"); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d", w.Code)
	}
	if w := get(router, "/search?q=helper", "Authorization", "Bearer wrong"); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d", w.Code)
	}
	if w := get(router, "/search?q=helper", "Authorization", "Bearer secret"); w.Code != http.StatusOK {
		t.Errorf("valid token: status = %d", w.Code)
	}
}

func TestSearchPastLastPage(t *testing.T) {
	_, _, router := testEnv(t, "")

	w := get(router, "/search?q=helper&start=5")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No results past 2.") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestSearchETag(t *testing.T) {
	_, _, router := testEnv(t, "")

	first := get(router, "/search?q=helper")
	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	again := get(router, "/search?q=helper", "If-None-Match", etag)
	if again.Code != http.StatusNotModified {
		t.Fatalf("status = %d, want 304", again.Code)
	}
	if again.Body.Len() != 0 {
		t.Error("304 must not carry a body")
	}
	other := get(router, "/search?q=main", "If-None-Match", etag)
	if other.Code != http.StatusOK {
		t.Errorf("different page: status = %d", other.Code)
	}
}
