package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/starford/xrefview/internal/checksum"
	"github.com/starford/xrefview/internal/web"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// intParam reads a non-negative integer query parameter.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("query parameter %q must be a non-negative integer", name)
	}
	return v, nil
}

// Search handles GET /search.
//
//	@Summary		Search the index and render a page of results
//	@Tags			search
//	@Produce		html
//	@Param			q		query		string	true	"Search terms"
//	@Param			start	query		int		false	"Index of the first hit"
//	@Param			n		query		int		false	"Hits per page"
//	@Success		200
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	start, err := intParam(r, "start", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	n, err := intParam(r, "n", h.svc.PageSize())
	if err != nil || n == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter \"n\" must be a positive integer"))
		return
	}

	var rows bytes.Buffer
	page, err := h.svc.Search(r.Context(), &rows, q, start, n)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeHTML(w, r, page, rows.Bytes())
}

// writeHTML wraps the result rows in a page tagged with a content ETag.
func writeHTML(w http.ResponseWriter, r *http.Request, page Page, rows []byte) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html><head><title>%s - Search</title></head><body>\n", web.Htmlize(page.Query))
	switch {
	case page.Empty():
		b.WriteString("<p class=\"pagetitle\">Your search did not match any files.</p>\n")
	case page.Start >= page.Stop:
		fmt.Fprintf(&b, "<p class=\"pagetitle\">No results past %d.</p>\n", page.Total)
	default:
		fmt.Fprintf(&b, "<p class=\"pagetitle\">Results %d &ndash; %d of %d</p>\n", page.Start+1, page.Stop, page.Total)
		b.WriteString("<table id=\"results\">\n")
		b.Write(rows)
		b.WriteString("\n</table>\n")
	}
	b.WriteString("</body></html>\n")

	etag := checksum.ETag(b.Bytes())
	w.Header().Set("ETag", etag)
	if checksum.Matches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := b.WriteTo(w); err != nil {
		slog.Error("write page failed", slog.String("error", err.Error()))
	}
}
