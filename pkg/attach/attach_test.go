package attach

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDefineSlotRejectsDuplicates(t *testing.T) {
	m := NewManager()
	if err := m.DefineSlot("aadhaarImage", 2); err != nil {
		t.Fatalf("define slot: %v", err)
	}
	if err := m.DefineSlot("aadhaarImage", 2); err == nil {
		t.Fatalf("expected duplicate slot to fail")
	}
	if err := m.DefineSlot("", 1); err == nil {
		t.Fatalf("expected empty slot name to fail")
	}
	if err := m.DefineSlot("donorImage", 0); err == nil {
		t.Fatalf("expected zero capacity to fail")
	}
}

func TestAddEnforcesCapacityPerCall(t *testing.T) {
	m := NewManager()
	if err := m.DefineSlot("aadhaarImage", 2); err != nil {
		t.Fatalf("define slot: %v", err)
	}

	result, err := m.Add("aadhaarImage",
		Image{URI: "file:///a.jpg"},
		Image{URI: "file:///b.jpg"},
		Image{URI: "file:///c.jpg"},
	)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(result.Accepted) != 2 {
		t.Fatalf("expected 2 accepted, got %d", len(result.Accepted))
	}
	if result.Rejected != 1 {
		t.Fatalf("expected rejected count 1, got %d", result.Rejected)
	}
	if count, _ := m.Count("aadhaarImage"); count != 2 {
		t.Fatalf("expected slot to hold 2 items, got %d", count)
	}
}

func TestAddAcrossCallsReportsOverflow(t *testing.T) {
	m := NewManager()
	if err := m.DefineSlot("aadhaarImage", 2); err != nil {
		t.Fatalf("define slot: %v", err)
	}

	if _, err := m.Add("aadhaarImage", Image{URI: "file:///a.jpg"}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	result, err := m.Add("aadhaarImage", Image{URI: "file:///b.jpg"}, Image{URI: "file:///c.jpg"})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if result.Rejected != 1 {
		t.Fatalf("expected rejected count 1 on second call, got %d", result.Rejected)
	}
	if count, _ := m.Count("aadhaarImage"); count != 2 {
		t.Fatalf("expected final count 2, got %d", count)
	}
}

func TestRemoveAbsentIDIsNoOp(t *testing.T) {
	m := NewManager()
	if err := m.DefineSlot("donorImage", 1); err != nil {
		t.Fatalf("define slot: %v", err)
	}
	if _, err := m.Add("donorImage", Image{URI: "file:///a.jpg", LocalID: "id-1"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := m.Remove("donorImage", "missing"); err != nil {
		t.Fatalf("remove of absent id errored: %v", err)
	}
	if count, _ := m.Count("donorImage"); count != 1 {
		t.Fatalf("remove of absent id changed count: %d", count)
	}

	if err := m.Remove("donorImage", "id-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	// Second removal of the same id, as from a double tap.
	if err := m.Remove("donorImage", "id-1"); err != nil {
		t.Fatalf("repeat remove errored: %v", err)
	}
	if count, _ := m.Count("donorImage"); count != 0 {
		t.Fatalf("expected empty slot, got %d items", count)
	}
}

func TestAddAssignsLocalIDs(t *testing.T) {
	m := NewManager()
	if err := m.DefineSlot("donorImage", 2); err != nil {
		t.Fatalf("define slot: %v", err)
	}
	result, err := m.Add("donorImage", Image{URI: "file:///a.jpg"}, Image{URI: "file:///b.jpg"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	seen := make(map[string]struct{})
	for _, img := range result.Accepted {
		if img.LocalID == "" {
			t.Fatalf("expected generated LocalID for %q", img.URI)
		}
		if _, dup := seen[img.LocalID]; dup {
			t.Fatalf("duplicate LocalID %q", img.LocalID)
		}
		seen[img.LocalID] = struct{}{}
	}
}

func TestGeneratedIDsSkipSuppliedOnes(t *testing.T) {
	m := NewManager()
	if err := m.DefineSlot("donorImage", 3); err != nil {
		t.Fatalf("define slot: %v", err)
	}

	// A picker-supplied id that matches the generated scheme must not be
	// shadowed by a later generated id in the same slot.
	if _, err := m.Add("donorImage", Image{URI: "file:///picked.jpg", LocalID: "img-2"}); err != nil {
		t.Fatalf("add picked: %v", err)
	}
	result, err := m.Add("donorImage", Image{URI: "file:///a.jpg"}, Image{URI: "file:///b.jpg"})
	if err != nil {
		t.Fatalf("add generated: %v", err)
	}
	for _, img := range result.Accepted {
		if img.LocalID == "img-2" {
			t.Fatalf("generated id collided with the supplied one")
		}
	}

	if err := m.Remove("donorImage", "img-2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	view, ok := m.Snapshot().Slot("donorImage")
	if !ok {
		t.Fatalf("missing slot view")
	}
	if len(view.Items) != 2 {
		t.Fatalf("expected 2 items after removal, got %d", len(view.Items))
	}
	for _, img := range view.Items {
		if img.URI == "file:///picked.jpg" {
			t.Fatalf("picked image still present; removal took a generated one")
		}
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	m := NewManager()
	if err := m.DefineSlot("donorImage", 1); err != nil {
		t.Fatalf("define slot: %v", err)
	}
	if err := m.DefineSlot("aadhaarImage", 2); err != nil {
		t.Fatalf("define slot: %v", err)
	}
	if _, err := m.Add("donorImage", Image{URI: "file:///a.jpg", LocalID: "id-1"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	snap := m.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 slots in snapshot, got %d", len(snap))
	}
	if snap[0].Name != "donorImage" || snap[1].Name != "aadhaarImage" {
		t.Fatalf("snapshot order does not follow definition order: %v", snap)
	}

	if err := m.Remove("donorImage", "id-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	view, ok := snap.Slot("donorImage")
	if !ok || len(view.Items) != 1 {
		t.Fatalf("snapshot mutated by later removal: %+v", view)
	}
}

func TestUnknownSlotErrors(t *testing.T) {
	m := NewManager()
	if _, err := m.Add("nope", Image{URI: "file:///a.jpg"}); err == nil {
		t.Fatalf("expected add to unknown slot to fail")
	}
	if err := m.Remove("nope", "id"); err == nil {
		t.Fatalf("expected remove on unknown slot to fail")
	}
	if _, err := m.Count("nope"); err == nil {
		t.Fatalf("expected count on unknown slot to fail")
	}
}

func TestDirPickerWalksDirectoryInOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.png", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	picker := &DirPicker{Dir: dir}
	first, err := picker.PickFromLibrary(context.Background(), false)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if len(first) != 1 || filepath.Base(first[0].URI) != "a.png" {
		t.Fatalf("expected a.png first, got %v", first)
	}

	rest, err := picker.PickFromLibrary(context.Background(), true)
	if err != nil {
		t.Fatalf("pick rest: %v", err)
	}
	if len(rest) != 1 || filepath.Base(rest[0].URI) != "b.jpg" {
		t.Fatalf("expected b.jpg next, got %v", rest)
	}

	empty, err := picker.PickFromLibrary(context.Background(), true)
	if err != nil {
		t.Fatalf("pick empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected exhausted picker, got %v", empty)
	}
}
