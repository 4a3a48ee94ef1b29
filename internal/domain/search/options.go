package search

import (
	"github.com/okian/quiver/internal/domain/assign"
	"github.com/okian/quiver/pkg/logger"
)

// Option applies a configuration option to the Searcher.
type Option func(*Searcher)

// WithPatience sets how many consecutive non-improving trials end the
// search. Values <= 0 make Run fail.
func WithPatience(patience int) Option {
	return func(s *Searcher) {
		s.patience = patience
	}
}

// WithSource draws candidates from src. Ignored when WithGenerator is also given.
func WithSource(src assign.Source) Option {
	return func(s *Searcher) {
		if src != nil && s.gen == nil {
			s.gen = assign.NewGenerator(src)
		}
	}
}

// WithGenerator replaces the candidate generator.
func WithGenerator(gen Generator) Option {
	return func(s *Searcher) {
		if gen != nil {
			s.gen = gen
		}
	}
}

// WithStopOnPerfect ends the search as soon as a zero-spread assignment is
// found, since no candidate can beat it.
func WithStopOnPerfect(stop bool) Option {
	return func(s *Searcher) {
		s.stopOnPerfect = stop
	}
}

// WithObserver registers a callback for improvements.
func WithObserver(o Observer) Option {
	return func(s *Searcher) {
		s.observer = o
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(s *Searcher) {
		if id != "" {
			s.runID = id
		}
	}
}

// WithLogger sets a custom logger for the searcher.
func WithLogger(l logger.Logger) Option {
	return func(s *Searcher) {
		if l != nil {
			s.logger = l
		}
	}
}
