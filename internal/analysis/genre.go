// Package analysis holds the per-file metadata the indexer stores alongside a
// document: its content genre, symbol definitions and scopes, plus the line
// tokenizer shared by every context renderer.
package analysis

// Genre classifies a file's content and selects how a snippet is produced
// for it. New kinds of content get a new Genre value, not a new branch at
// the call sites.
type Genre int

const (
	// GenreOther covers binary, image and data files; they never get a snippet.
	GenreOther Genre = iota
	// GenreXref is source that has a pre-rendered cross-reference page.
	GenreXref
	// GenreHTML is already markup (e.g. .html sources).
	GenreHTML
	// GenrePlain is text that is re-tokenized line by line.
	GenrePlain
)

// Codes as stored in the index "genre" field.
const (
	codeXref  = "x"
	codeHTML  = "h"
	codePlain = "p"
)

// ParseGenre maps a stored genre code to a Genre. Unknown codes (including
// image "i" and data "d") map to GenreOther.
func ParseGenre(code string) Genre {
	switch code {
	case codeXref:
		return GenreXref
	case codeHTML:
		return GenreHTML
	case codePlain:
		return GenrePlain
	default:
		return GenreOther
	}
}

// Code returns the stored form of g.
func (g Genre) Code() string {
	switch g {
	case GenreXref:
		return codeXref
	case GenreHTML:
		return codeHTML
	case GenrePlain:
		return codePlain
	default:
		return ""
	}
}

func (g Genre) String() string {
	switch g {
	case GenreXref:
		return "xref"
	case GenreHTML:
		return "html"
	case GenrePlain:
		return "plain"
	default:
		return "other"
	}
}
