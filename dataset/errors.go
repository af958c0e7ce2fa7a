package dataset

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("zip code not found")

// NotFoundError is returned when a postal code isn't in the index.
type NotFoundError struct {
	Code string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("zip code %s not found", e.Code)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateCodeError is returned by New when a code appears twice.
type DuplicateCodeError struct {
	Code string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("duplicate zip code %s", e.Code)
}
