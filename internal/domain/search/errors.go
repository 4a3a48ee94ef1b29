package search

import "errors"

// ErrInvalidPatience reports a non-positive patience budget.
var ErrInvalidPatience = errors.New("patience must be positive")
