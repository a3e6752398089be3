package persist

import "errors"

var (
	// ErrCorrupt indicates a slot that is not a decodable, valid session.
	ErrCorrupt = errors.New("corrupt session data")

	// ErrUnsupportedVersion indicates an envelope written by a newer release.
	ErrUnsupportedVersion = errors.New("unsupported session version")
)
