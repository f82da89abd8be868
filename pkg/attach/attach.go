package attach

import (
	"fmt"
	"strconv"
	"sync"
)

// Image is one locally picked image. URI is opaque to this package; LocalID
// identifies the item for removal and is generated when the picker did not
// supply one.
type Image struct {
	URI     string
	LocalID string
}

// AddResult reports what happened to the images passed to a single Add call.
type AddResult struct {
	// Accepted holds the images that fit within the slot's remaining
	// capacity, with LocalIDs assigned.
	Accepted []Image

	// Rejected counts the images that did not fit. The call itself still
	// succeeds; callers surface the count to the user.
	Rejected int
}

// SlotView is a read-only snapshot of one slot.
type SlotView struct {
	Name     string
	MaxCount int
	Items    []Image
}

// Snapshot is the read-only view of every slot, in definition order, taken at
// submission time.
type Snapshot []SlotView

// Slot returns the view for a named slot.
func (s Snapshot) Slot(name string) (SlotView, bool) {
	for _, view := range s {
		if view.Name == name {
			return view, true
		}
	}
	return SlotView{}, false
}

type slot struct {
	name     string
	maxCount int
	items    []Image
}

// Manager owns the attachment slots of one form instance. It is safe for
// concurrent use; the capacity invariant holds on every mutating call, never
// only at submission time.
type Manager struct {
	mu    sync.Mutex
	slots []*slot
	index map[string]*slot
	seq   int
}

// NewManager returns a Manager with no slots defined.
func NewManager() *Manager {
	return &Manager{index: make(map[string]*slot)}
}

// DefineSlot registers a named slot accepting at most maxCount images.
func (m *Manager) DefineSlot(name string, maxCount int) error {
	if name == "" {
		return fmt.Errorf("attach: slot name is required")
	}
	if maxCount < 1 {
		return fmt.Errorf("attach: slot %q must accept at least one image", name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.index[name]; exists {
		return fmt.Errorf("attach: duplicate slot %q", name)
	}
	s := &slot{name: name, maxCount: maxCount}
	m.slots = append(m.slots, s)
	m.index[name] = s
	return nil
}

// Add appends images to a slot up to its remaining capacity. Images beyond
// capacity are counted in AddResult.Rejected; the accepted ones are kept.
func (m *Manager) Add(slotName string, images ...Image) (AddResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.index[slotName]
	if !ok {
		return AddResult{}, fmt.Errorf("attach: unknown slot %q", slotName)
	}

	remaining := s.maxCount - len(s.items)
	if remaining < 0 {
		remaining = 0
	}

	var result AddResult
	for _, img := range images {
		if remaining == 0 {
			result.Rejected++
			continue
		}
		if img.LocalID == "" {
			img.LocalID = m.nextID(s)
		}
		s.items = append(s.items, img)
		result.Accepted = append(result.Accepted, img)
		remaining--
	}
	return result, nil
}

// nextID generates a local id that is not already taken in the slot, so an
// id supplied by a picker can never be shadowed by a later generated one.
func (m *Manager) nextID(s *slot) string {
	for {
		m.seq++
		id := "img-" + strconv.Itoa(m.seq)
		if !s.contains(id) {
			return id
		}
	}
}

func (s *slot) contains(id string) bool {
	for _, img := range s.items {
		if img.LocalID == id {
			return true
		}
	}
	return false
}

// Remove deletes a single image by LocalID. Removing an id that is not
// present is a no-op, not an error: a second tap on an already removed
// thumbnail must not crash.
func (m *Manager) Remove(slotName, localID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.index[slotName]
	if !ok {
		return fmt.Errorf("attach: unknown slot %q", slotName)
	}
	for i, img := range s.items {
		if img.LocalID == localID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

// Count reports how many images a slot currently holds.
func (m *Manager) Count(slotName string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.index[slotName]
	if !ok {
		return 0, fmt.Errorf("attach: unknown slot %q", slotName)
	}
	return len(s.items), nil
}

// Snapshot returns a read-only copy of every slot in definition order. The
// returned views do not change when the manager is mutated afterwards.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(Snapshot, 0, len(m.slots))
	for _, s := range m.slots {
		out = append(out, SlotView{
			Name:     s.name,
			MaxCount: s.maxCount,
			Items:    append([]Image(nil), s.items...),
		})
	}
	return out
}

// Reset empties every slot while keeping the slot definitions.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.slots {
		s.items = nil
	}
}
