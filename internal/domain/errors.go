package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrOutputValidation is returned when a constructed enrichment
	// result fails schema re-validation (internal defect, debug builds)
	ErrOutputValidation = errors.New("enrichment output failed validation")

	// ErrInvalidRegistry is returned when an extractor pattern registry
	// cannot be loaded or compiled
	ErrInvalidRegistry = errors.New("invalid extractor pattern registry")
)
