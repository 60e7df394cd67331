// Package apperr holds the sentinel errors shared across xrefview packages.
package apperr

import "errors"

var (
	// ErrCorruptIndex marks index records that cannot be read back, such as
	// a hit whose document row is missing.
	ErrCorruptIndex = errors.New("corrupt index")
	ErrInvalidPath  = errors.New("invalid path")
)
