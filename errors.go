package hyperloglog

import (
	"errors"
	"fmt"
)

// ErrConfiguration is returned by New when p falls outside [4, 16].
var ErrConfiguration = errors.New("hyperloglog: p must be in [4, 16]")

// MergeMismatchError is returned by Merge when the two estimators were
// built with incompatible parameters and cannot be combined.
type MergeMismatchError struct {
	Field      string
	Got, Other int
}

func (e *MergeMismatchError) Error() string {
	return fmt.Sprintf("hyperloglog: merge mismatch on %s: %d != %d", e.Field, e.Got, e.Other)
}

// SizeMismatchError is returned when a dense register merge or load
// encounters an array of the wrong length for the configured precision.
type SizeMismatchError struct {
	Got, Want int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("hyperloglog: register size mismatch: got %d registers, want %d", e.Got, e.Want)
}
