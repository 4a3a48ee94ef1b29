package balance

import "errors"

// Sentinel errors for malformed assignments.
var (
	ErrEmptyAssignment = errors.New("assignment has no teams")
	ErrIncompleteSlot  = errors.New("team is missing a member")
)
