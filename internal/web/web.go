// Package web holds the escaping helpers and URL prefixes shared by every
// piece of generated markup. Text placed in markup goes through Htmlize;
// text placed in a URL goes through URIEncodePath or QueryEncode. The two
// are never interchangeable.
package web

import (
	"html"
	"net/url"
	"strings"
)

// URL prefixes of the cross-reference views, relative to the context path.
const (
	XrefPrefix     = "/xref"
	MorePrefix     = "/more"
	HistoryPrefix  = "/history"
	DownloadPrefix = "/download"
)

// Htmlize escapes s for use as markup text or a quoted attribute value.
func Htmlize(s string) string {
	return html.EscapeString(s)
}

// URIEncodePath percent-encodes every segment of a slash-separated path,
// keeping the separators.
func URIEncodePath(p string) string {
	if p == "" {
		return ""
	}
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// QueryEncode percent-encodes s for use as a query parameter value.
func QueryEncode(s string) string {
	return url.QueryEscape(s)
}

// Links builds the hrefs of the cross-reference views under one context path.
type Links struct {
	ctx string // encoded context path, no trailing slash
}

// NewLinks returns link builders rooted at contextPath (e.g. "/source").
func NewLinks(contextPath string) Links {
	return Links{ctx: URIEncodePath(strings.TrimSuffix(contextPath, "/"))}
}

// Context returns the encoded context path.
func (l Links) Context() string { return l.ctx }

// Xref returns the cross-reference link for a repository-relative path.
func (l Links) Xref(p string) string { return l.view(XrefPrefix, p) }

// More returns the "all matches" link for p.
func (l Links) More(p string) string { return l.view(MorePrefix, p) }

// History returns the history link for p.
func (l Links) History(p string) string { return l.view(HistoryPrefix, p) }

// Download returns the raw download link for p.
func (l Links) Download(p string) string { return l.view(DownloadPrefix, p) }

func (l Links) view(prefix, p string) string {
	return l.ctx + prefix + "/" + URIEncodePath(strings.TrimPrefix(p, "/"))
}
