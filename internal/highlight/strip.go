package highlight

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// StripTags reads at most limit bytes of markup from r and returns its text
// content with every tag removed and entities decoded. Script and style
// bodies are dropped.
func StripTags(r io.Reader, limit int64) (string, error) {
	z := html.NewTokenizer(io.LimitReader(r, limit))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("highlight: strip tags: %w", err)
			}
			return b.String(), nil
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			if isRawText(z) {
				skip++
			}
		case html.EndTagToken:
			if skip > 0 && isRawText(z) {
				skip--
			}
		}
	}
}

func isRawText(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
