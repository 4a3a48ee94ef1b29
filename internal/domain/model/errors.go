package model

import "errors"

// Sentinel errors for model validation.
var (
	ErrUnknownCategory     = errors.New("unknown category")
	ErrInvalidCompetitor   = errors.New("invalid competitor")
	ErrDuplicateCompetitor = errors.New("duplicate competitor")
)
