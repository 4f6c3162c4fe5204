// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"fmt"
)

var (
	ErrLevel   = errors.New("qr: invalid level")
	ErrVersion = errors.New("qr: invalid version")
	ErrMask    = errors.New("qr: invalid mask")
)

// ValidationError represents an invalid argument, rejected before any
// encoding or decoding work.
type ValidationError struct {
	What  string // name of the argument
	Value any    // offending value
}

func (e *ValidationError) Error() string {
	if s, ok := e.Value.(string); ok {
		return fmt.Sprintf("qr: invalid %s %#q", e.What, s)
	}
	return fmt.Sprintf("qr: invalid %s %v", e.What, e.Value)
}

// Is makes a ValidationError for a level, version or mask match
// ErrLevel, ErrVersion or ErrMask respectively.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrLevel:
		return e.What == "level"
	case ErrVersion:
		return e.What == "version"
	case ErrMask:
		return e.What == "mask"
	}
	return false
}

// CapacityError reports data that does not fit.
type CapacityError struct {
	What string // what did not fit
	Need int    // required size
	Have int    // available size
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("qr: cannot fit %d %s into %d", e.Need, e.What, e.Have)
}

// DecodeError reports a failure to decode a code.
type DecodeError struct {
	What string // failed stage
	Err  error  // underlying error, may be nil
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "qr: decode: " + e.What
	}
	return "qr: decode: " + e.What + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }
