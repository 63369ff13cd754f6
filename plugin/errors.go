// Copyright 2020 the Drone Authors. All rights reserved.
// Use of this source code is governed by the Blue Oak Model License
// that can be found in the LICENSE file.

package plugin

import "fmt"

// StructuralError reports a document shape that matches no known suite or
// test layout.
type StructuralError struct {
	Path   string
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("unsupported report structure at %s: %s", e.Path, e.Reason)
}

// MissingFieldError reports a required attribute or element that is absent.
type MissingFieldError struct {
	Field   string
	Element string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %s on %s", e.Field, e.Element)
}

// ParseError reports a value that could not be parsed.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s value %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
