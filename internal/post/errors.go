package post

import "errors"

// Errors returned by lookups and validation.
var (
	// ErrUnknownEffect indicates an effect kind name that does not exist.
	ErrUnknownEffect = errors.New("unknown effect")

	// ErrUnknownTemplate indicates a template name that does not exist.
	ErrUnknownTemplate = errors.New("unknown template")

	// ErrUnknownImageSlot indicates an image slot name that does not exist.
	ErrUnknownImageSlot = errors.New("unknown image slot")

	// ErrUnknownFilter indicates a filter name that does not exist.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrInvalidState indicates a state that failed validation.
	ErrInvalidState = errors.New("invalid state")
)
