package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestHistory(t *testing.T, keep int) *History {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	h, err := Open(dbPath, keep)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistory_RecordLast(t *testing.T) {
	h := openTestHistory(t, 10)

	if _, err := h.Last(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Last on empty = %v, want ErrEmpty", err)
	}

	base := time.Now()
	for i, m := range []string{"findAll", "findOne"} {
		err := h.Record(Entry{
			File:    "src/users/users.service.ts",
			Class:   "UsersService",
			Method:  m,
			Command: "await $(UsersService)." + m + "()",
			Created: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	last, err := h.Last()
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if last.Method != "findOne" || last.Command != "await $(UsersService).findOne()" {
		t.Errorf("Last = %+v", last)
	}
	if !last.Created.Equal(base.Add(time.Second)) {
		t.Errorf("Created = %v, want %v", last.Created, base.Add(time.Second))
	}
}

func TestHistory_Trim(t *testing.T) {
	h := openTestHistory(t, 3)
	base := time.Now()
	for i := 0; i < 5; i++ {
		if err := h.Record(Entry{File: "a.ts", Class: "A", Method: "m", Command: "x", Created: base.Add(time.Duration(i) * time.Millisecond)}); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := h.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if !entries[0].Created.After(entries[2].Created) {
		t.Error("expected newest first")
	}
}

func TestHistory_NilReceiver(t *testing.T) {
	var h *History
	if err := h.Record(Entry{}); err != nil {
		t.Errorf("Record on nil: %v", err)
	}
	if entries, err := h.Recent(5); err != nil || entries != nil {
		t.Errorf("Recent on nil = %v, %v", entries, err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}
