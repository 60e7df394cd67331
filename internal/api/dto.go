package api

// Page describes the slice of hits rendered for a query.
type Page struct {
	Query string
	Total int
	Start int // index of the first rendered hit
	Stop  int // index past the last rendered hit
}

// Empty reports whether the query matched nothing.
func (p Page) Empty() bool {
	return p.Total == 0
}
