package analysis

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Scope is a named line range, typically a function body.
type Scope struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
	LineFrom  int    `json:"from"`
	LineTo    int    `json:"to"`
}

// Scopes is the scope table of a file, ordered by starting line.
type Scopes struct {
	scopes []Scope
}

// NewScopes builds a table from scopes.
func NewScopes(scopes ...Scope) *Scopes {
	s := &Scopes{scopes: append([]Scope(nil), scopes...)}
	sort.SliceStable(s.scopes, func(i, j int) bool {
		return s.scopes[i].LineFrom < s.scopes[j].LineFrom
	})
	return s
}

// DecodeScopes deserializes a stored scopes blob. An absent blob yields an
// empty table.
func DecodeScopes(data []byte) (*Scopes, error) {
	if len(data) == 0 {
		return NewScopes(), nil
	}
	var scopes []Scope
	if err := json.Unmarshal(data, &scopes); err != nil {
		return nil, fmt.Errorf("analysis: decode scopes: %w", err)
	}
	return NewScopes(scopes...), nil
}

// Encode serializes the table for storage.
func (s *Scopes) Encode() ([]byte, error) {
	scopes := s.scopes
	if scopes == nil {
		scopes = []Scope{}
	}
	return json.Marshal(scopes)
}

// Len returns the number of scopes.
func (s *Scopes) Len() int {
	if s == nil {
		return 0
	}
	return len(s.scopes)
}

// At returns the innermost scope containing line.
func (s *Scopes) At(line int) (Scope, bool) {
	if s == nil {
		return Scope{}, false
	}
	// Scopes nest, so the containing scope that starts last is innermost.
	for i := len(s.scopes) - 1; i >= 0; i-- {
		sc := s.scopes[i]
		if sc.LineFrom <= line && line <= sc.LineTo {
			return sc, true
		}
	}
	return Scope{}, false
}
