// Package post defines the editable state of a styled social-media post.
//
// State is a plain value: every field is a string, number, bool or nested
// value struct, so two states are equal exactly when == says so. Edits are
// expressed as Producers, pure functions from one State to the next, which
// is the shape the undo/redo history commits.
//
// Text effects form a closed set (shadow, outline, glow, neon, advanced,
// animation). Each is its own record type implementing Effect; SetEffect
// writes exactly one of them.
package post
