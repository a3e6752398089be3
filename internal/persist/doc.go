// Package persist saves and restores the editing session through a
// store.Store slot.
//
// The slot holds a versioned JSON envelope:
//
//	{"version":1,"session":"<uuid>","savedAt":"<RFC3339>","state":{...}}
//
// Older slots that hold a bare state object are migrated on read. Slots
// that cannot be decoded or fail validation are treated as absent and
// removed, so a poisoned slot never blocks startup.
//
// The Bridge tracks a SaveStatus for the status indicator. Callers drive it
// from a history observer: MarkDirty on every commit, Save once the
// autosave debouncer settles.
package persist
