package bscmp

// StateTracker records which component states were changed while handling
// one request. A state registers itself on its first change, including
// changes applied from request parameters during construction.
//
// The tracker only records; what to do with the dirty set (flush data,
// re-query, skip work for untouched widgets) is up to the application, which
// can also observe changes as they happen through OnChange.
type StateTracker struct {
	order []*State
	dirty map[*State]bool

	// OnChange, if set, is called once per state on its first change.
	OnChange func(*State)
}

// NewStateTracker creates an empty tracker.
func NewStateTracker() *StateTracker {
	return &StateTracker{dirty: make(map[*State]bool)}
}

// MarkChanged adds s to the dirty set.
func (t *StateTracker) MarkChanged(s *State) {
	if t.dirty[s] {
		return
	}
	t.dirty[s] = true
	t.order = append(t.order, s)
	if t.OnChange != nil {
		t.OnChange(s)
	}
}

// IsDirty reports whether s changed during the request.
func (t *StateTracker) IsDirty(s *State) bool {
	return t.dirty[s]
}

// Changed returns the dirty states in the order they first changed.
func (t *StateTracker) Changed() []*State {
	return append([]*State(nil), t.order...)
}
