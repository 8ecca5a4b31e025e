package commerce

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse means the platform answered without errors yet the
// payload is missing the node the operation promises.
var ErrMalformedResponse = errors.New("malformed commerce api response")

// ErrNotFound is returned by single-resource lookups when the platform
// resolves the query to null.
var ErrNotFound = errors.New("resource not found")

func errMalformedResponse(op string) error {
	return fmt.Errorf("%s: %w", op, ErrMalformedResponse)
}
