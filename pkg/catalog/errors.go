package catalog

import (
	"fmt"
	"net/http"
)

// FetchError reports that the catalog source could not be read: the
// transport failed or the server answered with a non-2xx status.
type FetchError struct {
	Source string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog: fetch %s: %d %s", e.Source, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("catalog: fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a payload that is not a well-formed item array.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("catalog: parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
