package report

import "errors"

var (
	// ErrUnknownFormat is returned for report formats other than text and json.
	ErrUnknownFormat = errors.New("unknown report format")
	// ErrWriteReport wraps filesystem failures while writing a report.
	ErrWriteReport = errors.New("write report failed")
)
