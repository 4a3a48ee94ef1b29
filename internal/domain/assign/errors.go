package assign

import "errors"

// ErrPrecondition reports rosters that cannot fill the requested teams.
var ErrPrecondition = errors.New("assignment precondition violated")
