package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tag is one symbol definition found by the indexer.
type Tag struct {
	Symbol string `json:"symbol"`
	Type   string `json:"type"`
	Line   int    `json:"line"`
	Text   string `json:"text,omitempty"`
}

// Definitions is the symbol-definition table of a file. The zero value is an
// empty table.
type Definitions struct {
	tags   []Tag
	byLine map[int][]Tag
}

// NewDefinitions builds a table from tags.
func NewDefinitions(tags ...Tag) *Definitions {
	d := &Definitions{byLine: make(map[int][]Tag, len(tags))}
	for _, t := range tags {
		d.tags = append(d.tags, t)
		d.byLine[t.Line] = append(d.byLine[t.Line], t)
	}
	return d
}

// DecodeDefinitions deserializes a stored definitions blob. An absent blob
// yields an empty table.
func DecodeDefinitions(data []byte) (*Definitions, error) {
	if len(data) == 0 {
		return NewDefinitions(), nil
	}
	var tags []Tag
	if err := json.Unmarshal(data, &tags); err != nil {
		return nil, fmt.Errorf("analysis: decode definitions: %w", err)
	}
	return NewDefinitions(tags...), nil
}

// Encode serializes the table for storage.
func (d *Definitions) Encode() ([]byte, error) {
	tags := d.tags
	if tags == nil {
		tags = []Tag{}
	}
	return json.Marshal(tags)
}

// Tags returns every definition in insertion order.
func (d *Definitions) Tags() []Tag {
	return d.tags
}

// At returns the definitions on line (1-based).
func (d *Definitions) At(line int) []Tag {
	if d == nil {
		return nil
	}
	return d.byLine[line]
}

// DefinedAt reports whether symbol is defined on line. Symbols compare
// case-insensitively.
func (d *Definitions) DefinedAt(symbol string, line int) (Tag, bool) {
	for _, t := range d.At(line) {
		if strings.EqualFold(t.Symbol, symbol) {
			return t, true
		}
	}
	return Tag{}, false
}
