package hobbylog

import "errors"

var (
	// ErrEntryNotFound is returned when deleting a position the log does not have.
	ErrEntryNotFound = errors.New("hobbylog: entry not found")
	// ErrUnknownHobby is returned when logging a hobby missing from the catalog.
	ErrUnknownHobby = errors.New("hobbylog: unknown hobby")
	// ErrInvalidRating is returned for a rating outside meh, good and great.
	ErrInvalidRating = errors.New("hobbylog: invalid rating")
	// ErrAbsent is what a Store returns when nothing has been persisted yet.
	ErrAbsent = errors.New("hobbylog: no persisted log")
)
