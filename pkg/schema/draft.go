package schema

// Draft holds the current, possibly incomplete values a user is editing.
// It starts empty, is mutated only through Set, and is discarded (Reset)
// after a successful submission. Drafts are not persisted anywhere; an
// interrupted session loses unsaved edits.
type Draft struct {
	values map[string]string
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{values: make(map[string]string)}
}

// Set records the current value for a field key. Setting a value for a key
// the schema does not know is harmless; Validate ignores it.
func (d *Draft) Set(key, value string) {
	if d.values == nil {
		d.values = make(map[string]string)
	}
	d.values[key] = value
}

// Get returns the current value for a key, or "" when unset.
func (d *Draft) Get(key string) string {
	if d == nil {
		return ""
	}
	return d.values[key]
}

// Reset discards every value, returning the draft to its mount state.
func (d *Draft) Reset() {
	d.values = make(map[string]string)
}

// Len reports how many keys hold a value.
func (d *Draft) Len() int {
	if d == nil {
		return 0
	}
	return len(d.values)
}
