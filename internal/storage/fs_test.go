package storage

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/starford/xrefview/internal/apperr"
)

func tempRoot(t *testing.T) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs, dir
}

func writeFile(t *testing.T, dir, rel string, data []byte) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return string(data)
}

func TestOpen(t *testing.T) {
	s, dir := tempRoot(t)
	writeFile(t, dir, "a/b/c.c", []byte("int x;\n"))

	rc, err := s.Open("a/b/c.c")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := readAll(t, rc); got != "int x;\n" {
		t.Errorf("content = %q", got)
	}
}

func TestOpen_LeadingSlash(t *testing.T) {
	s, dir := tempRoot(t)
	writeFile(t, dir, "proj/main.c", []byte("x"))
	rc, err := s.Open("/proj/main.c")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := readAll(t, rc); got != "x" {
		t.Errorf("content = %q", got)
	}
}

func TestOpen_StripsBOM(t *testing.T) {
	s, dir := tempRoot(t)
	writeFile(t, dir, "bom.txt", append([]byte{0xEF, 0xBB, 0xBF}, "hello"...))
	rc, err := s.Open("bom.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := readAll(t, rc); got != "hello" {
		t.Errorf("content = %q, want BOM stripped", got)
	}
}

func TestOpen_Missing(t *testing.T) {
	s, _ := tempRoot(t)
	_, err := s.Open("nope.c")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestOpen_TraversalRejected(t *testing.T) {
	s, _ := tempRoot(t)
	for _, p := range []string{"../secret", "a/../../etc/passwd"} {
		if _, err := s.Open(p); !errors.Is(err, apperr.ErrInvalidPath) {
			t.Errorf("Open(%q) err = %v, want ErrInvalidPath", p, err)
		}
	}
}

func TestOpenGzip(t *testing.T) {
	s, dir := tempRoot(t)
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte("<b>compressed</b>"))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "x/y.c"+GzipSuffix, buf.Bytes())

	rc, err := s.OpenGzip("x/y.c")
	if err != nil {
		t.Fatalf("OpenGzip: %v", err)
	}
	if got := readAll(t, rc); got != "<b>compressed</b>" {
		t.Errorf("content = %q", got)
	}
}

func TestOpenGzip_NotGzip(t *testing.T) {
	s, dir := tempRoot(t)
	writeFile(t, dir, "plain.c"+GzipSuffix, []byte("not gzip at all"))
	if _, err := s.OpenGzip("plain.c"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSub(t *testing.T) {
	s, dir := tempRoot(t)
	writeFile(t, dir, "xref/a.c", []byte("x"))
	sub, err := s.Sub("xref")
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if _, err := sub.Stat("a.c"); err != nil {
		t.Errorf("Stat: %v", err)
	}
	if sub.Root() != filepath.Join(s.Root(), "xref") {
		t.Errorf("root = %q", sub.Root())
	}
}
