package domain

// RejectCode classifies why a submission was refused. Codes are wire
// protocol constants carried in `r` packets.
type RejectCode int

const (
	RejectEmptyWord   RejectCode = 0 // Text empty or invalid after cleanup
	RejectWaitlisted  RejectCode = 1 // Participant throttled; extra carries remaining count
	RejectTooEarly    RejectCode = 2 // Submitted before the story reactivation time
	RejectNotSynced   RejectCode = 3 // Story index not yet synced from the archive
	RejectStoryFull   RejectCode = 4 // Story at capacity, titling not yet begun
	RejectNotEligible RejectCode = 5 // Not among the eligible titlers during TITLING
)

// RejectCodeFor maps a domain error to its wire rejection code. The
// second return is false for errors with no protocol representation.
func RejectCodeFor(err error) (RejectCode, bool) {
	switch err {
	case ErrEmptyWord:
		return RejectEmptyWord, true
	case ErrWaitlisted:
		return RejectWaitlisted, true
	case ErrStoryNotActive:
		return RejectTooEarly, true
	case ErrIndexNotSynced:
		return RejectNotSynced, true
	case ErrStoryFull:
		return RejectStoryFull, true
	case ErrNotEligible:
		return RejectNotEligible, true
	}
	return 0, false
}
