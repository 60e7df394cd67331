// Package storage provides read access to the path-addressed trees the
// renderer reads from: the source root and the cross-reference cache.
package storage

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/starford/xrefview/internal/apperr"
)

// GzipSuffix is appended to a cache path when the cache is compressed.
const GzipSuffix = ".gz"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Provider opens files under a root by repository-relative path.
type Provider interface {
	// Open returns the file at path with any UTF-8 byte order mark removed.
	Open(path string) (io.ReadCloser, error)
	// OpenGzip returns the decompressed content of path+".gz".
	OpenGzip(path string) (io.ReadCloser, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path
}

var _ Provider = (*FS)(nil)

// NewFS creates a provider rooted at dir. The directory does not have to
// exist yet; opens below a missing root simply fail.
func NewFS(dir string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute root directory.
func (f *FS) Root() string {
	return f.root
}

// Sub returns a provider rooted at a subdirectory of f.
func (f *FS) Sub(dir string) (*FS, error) {
	abs, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	return &FS{root: abs}, nil
}

// safePath resolves a repository-relative path against the root and rejects
// any result that escapes it. Index paths carry a leading slash, which is
// accepted.
func (f *FS) safePath(rel string) (string, error) {
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "/")
	if rel == "" {
		return f.root, nil
	}
	abs := filepath.Join(f.root, filepath.FromSlash(rel))
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: %s escapes root: %w", rel, apperr.ErrInvalidPath)
	}
	return abs, nil
}

// Open opens path for reading.
func (f *FS) Open(path string) (io.ReadCloser, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	return &readCloser{Reader: stripBOM(file), closers: []io.Closer{file}}, nil
}

// OpenGzip opens path+".gz" and decompresses it.
func (f *FS) OpenGzip(path string) (io.ReadCloser, error) {
	abs, err := f.safePath(path + GzipSuffix)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s%s: %w", path, GzipSuffix, err)
	}
	zr, err := gzip.NewReader(bufio.NewReader(file))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("storage: gunzip %s%s: %w", path, GzipSuffix, err)
	}
	return &readCloser{Reader: stripBOM(zr), closers: []io.Closer{zr, file}}, nil
}

// Stat returns file info for path.
func (f *FS) Stat(path string) (fs.FileInfo, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat %s: %w", path, err)
	}
	return info, nil
}

// stripBOM drops a leading UTF-8 byte order mark.
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// readCloser closes every layer of a decoded stream, innermost first.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
