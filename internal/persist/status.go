package persist

// SaveStatus is the autosave indicator state.
type SaveStatus string

const (
	// StatusIdle means nothing has been edited or restored yet.
	StatusIdle SaveStatus = "idle"
	// StatusUnsaved means the current state differs from the slot.
	StatusUnsaved SaveStatus = "unsaved"
	// StatusSaving means a write is in flight.
	StatusSaving SaveStatus = "saving"
	// StatusSaved means the slot holds the current state.
	StatusSaved SaveStatus = "saved"
)

// String returns the status name.
func (s SaveStatus) String() string {
	return string(s)
}

// Label returns the text shown in the status indicator.
func (s SaveStatus) Label() string {
	switch s {
	case StatusUnsaved:
		return "Unsaved changes..."
	case StatusSaving:
		return "Saving..."
	case StatusSaved:
		return "Saved"
	default:
		return ""
	}
}
