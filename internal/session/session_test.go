package session

import (
	"context"
	"errors"
	"testing"

	"github.com/ambia/UTAPWeLS/internal/store"
)

func newTestSession() *Session {
	return New(store.NewInMemoryCaseStore(), nil, nil)
}

func TestCreateWell(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	defer s.Close()

	w, err := s.CreateWell(ctx, "test-1", 1000, 1500)
	if err != nil {
		t.Fatalf("CreateWell: %v", err)
	}
	if w.Name != "test-1" {
		t.Errorf("Name = %q, want 'test-1'", w.Name)
	}
	if w.Earth.NumLayers() != 1 {
		t.Errorf("NumLayers = %d, want 1", w.Earth.NumLayers())
	}
}

func TestCreateWell_DuplicateName(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	defer s.Close()

	if _, err := s.CreateWell(ctx, "dup", 1000, 1500); err != nil {
		t.Fatalf("CreateWell: %v", err)
	}
	if _, err := s.CreateWell(ctx, "dup", 2000, 2500); !errors.Is(err, store.ErrWellExists) {
		t.Errorf("duplicate create error = %v, want ErrWellExists", err)
	}
}

func TestWell_LoadsFromStore(t *testing.T) {
	ctx := context.Background()
	cs := store.NewInMemoryCaseStore()

	s1 := New(cs, nil, nil)
	if _, err := s1.CreateWell(ctx, "persisted", 500, 800); err != nil {
		t.Fatalf("CreateWell: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2 := New(cs, nil, nil)
	defer s2.Close()

	w, err := s2.Well(ctx, "persisted")
	if err != nil {
		t.Fatalf("Well: %v", err)
	}
	if w.TopMD != 500 || w.BottomMD != 800 {
		t.Errorf("interval = [%v, %v], want [500, 800]", w.TopMD, w.BottomMD)
	}

	// Second fetch must return the same cached instance
	w2, err := s2.Well(ctx, "persisted")
	if err != nil {
		t.Fatalf("second Well: %v", err)
	}
	if w != w2 {
		t.Error("expected cached well instance on repeat fetch")
	}
}

func TestWell_NotFound(t *testing.T) {
	s := newTestSession()
	defer s.Close()

	if _, err := s.Well(context.Background(), "missing"); !errors.Is(err, store.ErrWellNotFound) {
		t.Errorf("Well error = %v, want ErrWellNotFound", err)
	}
}

func TestDeleteWell(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	defer s.Close()

	if _, err := s.CreateWell(ctx, "gone", 1000, 1500); err != nil {
		t.Fatalf("CreateWell: %v", err)
	}
	if err := s.DeleteWell(ctx, "gone"); err != nil {
		t.Fatalf("DeleteWell: %v", err)
	}

	names, err := s.Wells(ctx)
	if err != nil {
		t.Fatalf("Wells: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Wells = %v, want empty", names)
	}
	if _, err := s.Well(ctx, "gone"); !errors.Is(err, store.ErrWellNotFound) {
		t.Errorf("Well after delete error = %v, want ErrWellNotFound", err)
	}
}

func TestWells_Sorted(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	defer s.Close()

	for _, name := range []string{"zulu", "alpha", "mike"} {
		if _, err := s.CreateWell(ctx, name, 1000, 1500); err != nil {
			t.Fatalf("CreateWell %s: %v", name, err)
		}
	}

	names, err := s.Wells(ctx)
	if err != nil {
		t.Fatalf("Wells: %v", err)
	}
	want := []string{"alpha", "mike", "zulu"}
	if len(names) != len(want) {
		t.Fatalf("Wells = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Wells[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestClose_FlushesWells(t *testing.T) {
	ctx := context.Background()
	cs := store.NewInMemoryCaseStore()

	s := New(cs, nil, nil)
	w, err := s.CreateWell(ctx, "flushed", 1000, 1500)
	if err != nil {
		t.Fatalf("CreateWell: %v", err)
	}
	// Mutate after the create-time save; Close must persist the change
	if _, err := w.Earth.AddBB(1200); err != nil {
		t.Fatalf("AddBB: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := cs.LoadWell(ctx, "flushed")
	if err != nil {
		t.Fatalf("LoadWell: %v", err)
	}
	if got.Earth.NumLayers() != 2 {
		t.Errorf("NumLayers = %d, want 2 after flush", got.Earth.NumLayers())
	}
}

func TestClosedSession(t *testing.T) {
	ctx := context.Background()
	s := newTestSession()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := s.CreateWell(ctx, "late", 0, 100); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("CreateWell error = %v, want ErrSessionClosed", err)
	}
	if _, err := s.Wells(ctx); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Wells error = %v, want ErrSessionClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

func TestOpen_ProjectRoot(t *testing.T) {
	root := t.TempDir()

	s, err := Open(root, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.CreateWell(context.Background(), "on-disk", 100, 200); err != nil {
		t.Fatalf("CreateWell: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(root, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	names, err := s2.Wells(context.Background())
	if err != nil {
		t.Fatalf("Wells: %v", err)
	}
	if len(names) != 1 || names[0] != "on-disk" {
		t.Errorf("Wells = %v, want [on-disk]", names)
	}
}
