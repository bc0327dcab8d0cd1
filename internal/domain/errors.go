package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrSuperseded = errors.New("aggregation cycle superseded by a newer one")
)

// TransportError means the backend could not be reached at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: transport: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// ResponseError means the backend answered but with a non-2xx status or a
// body that could not be decoded.
type ResponseError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *ResponseError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: bad response (status %d): %v", e.Op, e.Status, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: bad status %d: %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: bad status %d", e.Op, e.Status)
}

func (e *ResponseError) Unwrap() error { return e.Err }
