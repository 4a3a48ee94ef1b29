package roster

import "errors"

// Input errors abort before any search begins.
var (
	ErrReadRoster          = errors.New("read roster")
	ErrMalformedLine       = errors.New("malformed roster line")
	ErrDuplicateCompetitor = errors.New("duplicate competitor")
)

// Precondition errors: rosters loaded fine but cannot be teamed up.
var (
	ErrEmptyRoster         = errors.New("empty roster")
	ErrCardinalityMismatch = errors.New("roster sizes differ")
)
