// File: internal/formparser/errors.go
package formparser

import (
	"errors"
	"fmt"
)

// ErrInvalidFormURL marks URLs no form ID can be extracted from.
var ErrInvalidFormURL = errors.New("invalid form URL: could not extract a form ID")

// FetchError reports that the target document could not be retrieved, either
// because the transport failed or because the target answered with an
// unexpected status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch form %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to fetch form %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }
