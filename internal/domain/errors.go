package domain

import "errors"

// Domain errors
var (
	ErrEmptyWord       = errors.New("word is empty after cleanup")
	ErrWaitlisted      = errors.New("participant is waitlisted")
	ErrStoryNotActive  = errors.New("story is not accepting words yet")
	ErrIndexNotSynced  = errors.New("story index has not been synced")
	ErrStoryFull       = errors.New("story is at capacity")
	ErrNotEligible     = errors.New("participant is not eligible to title")
	ErrEntryOutOfRange = errors.New("entry index out of range")
)
