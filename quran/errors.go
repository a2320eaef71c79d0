package quran

import (
	"errors"
	"fmt"
)

// Sentinel errors for selection and content operations
var (
	ErrChapterOutOfRange = errors.New("chapter must be between 1 and 114")
	ErrVerseOutOfRange   = errors.New("verse does not exist in chapter")
	ErrBadVerseRange     = errors.New("verse range must start at 1 or above and not end before it starts")
	ErrMalformedNumber   = errors.New("not a number")
	ErrChapterNotFound   = errors.New("chapter not found")
	ErrMalformedPayload  = errors.New("malformed upstream payload")
)

// InvalidSelectionError reports a selection that failed structural
// validation. Chapter and Verses carry the raw values as received so they
// can be shown back to the user.
type InvalidSelectionError struct {
	Chapter string
	Verses  string
	Err     error
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid selection %s/%s: %v", e.Chapter, e.Verses, e.Err)
}

func (e *InvalidSelectionError) Unwrap() error { return e.Err }

// UpstreamFetchError reports a failed or structurally invalid response from
// the content provider. Status is zero for transport and decode failures.
type UpstreamFetchError struct {
	Resource string
	Status   int
	Err      error
}

func (e *UpstreamFetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s: status %d: %v", e.Resource, e.Status, e.Err)
	}
	return fmt.Sprintf("upstream %s: %v", e.Resource, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// ValidationRejectError reports a payload field exceeding its safety bound.
// Such payloads are rejected, never truncated.
type ValidationRejectError struct {
	Field  string
	Length int
	Limit  int
}

func (e *ValidationRejectError) Error() string {
	return fmt.Sprintf("%s too long: %d > %d", e.Field, e.Length, e.Limit)
}
