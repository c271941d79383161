package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStorePutAndGet(t *testing.T) {
	store := openTestStore(t)

	data := []byte(`{"version":1,"level_id":"demo"}`)
	if err := store.Put("quick", "demo", 420, data); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	entry, err := store.Get("quick")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if entry.Slot != "quick" || entry.LevelID != "demo" || entry.Tics != 420 {
		t.Errorf("Get() metadata = %q/%q/%d, want quick/demo/420", entry.Slot, entry.LevelID, entry.Tics)
	}
	if !bytes.Equal(entry.Data, data) {
		t.Error("Get() data does not round-trip")
	}
}

func TestStorePutReplacesSlot(t *testing.T) {
	store := openTestStore(t)

	if err := store.Put("quick", "demo", 10, []byte("old")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := store.Put("quick", "demo", 99, []byte("new")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	entry, err := store.Get("quick")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if entry.Tics != 99 || string(entry.Data) != "new" {
		t.Errorf("slot not replaced: tics=%d data=%q", entry.Tics, entry.Data)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("List() returned %d entries, want 1", len(entries))
	}
}

func TestStoreGetMissingSlot(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get("nothing")
	if !errors.Is(err, ErrNoSave) {
		t.Errorf("Get() on empty slot = %v, want ErrNoSave", err)
	}
}

func TestStoreList(t *testing.T) {
	store := openTestStore(t)

	if err := store.Put("slot1", "demo", 1, []byte("a")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := store.Put("slot2", "bunker2", 2, []byte("b")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() returned %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if len(e.Data) != 0 {
			t.Error("List() should not load data blobs")
		}
	}
}

func TestStoreDelete(t *testing.T) {
	store := openTestStore(t)

	if err := store.Put("quick", "demo", 1, []byte("a")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := store.Delete("quick"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.Get("quick"); !errors.Is(err, ErrNoSave) {
		t.Error("deleted slot should read as empty")
	}

	// Deleting an empty slot is fine.
	if err := store.Delete("quick"); err != nil {
		t.Errorf("Delete() on empty slot failed: %v", err)
	}
}
