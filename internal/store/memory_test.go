package store

import (
	"context"
	"errors"
	"testing"

	"github.com/ambia/UTAPWeLS/internal/model"
)

func TestInMemoryCaseStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryCaseStore()
	defer s.Close()

	w := testWell(t, "mem")
	if err := s.SaveWell(ctx, w); err != nil {
		t.Fatalf("SaveWell: %v", err)
	}

	got, err := s.LoadWell(ctx, "mem")
	if err != nil {
		t.Fatalf("LoadWell: %v", err)
	}
	if got.Name != "mem" || got.Earth.NumLayers() != 2 {
		t.Errorf("got name=%q layers=%d, want mem/2", got.Name, got.Earth.NumLayers())
	}
	if _, err := got.FindLog(model.LogSetSimulated, "RD"); err != nil {
		t.Errorf("FindLog: %v", err)
	}
}

func TestInMemoryCaseStore_Isolation(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryCaseStore()

	w := testWell(t, "isolated")
	if err := s.SaveWell(ctx, w); err != nil {
		t.Fatalf("SaveWell: %v", err)
	}

	// Mutating the saved pointer must not leak into the store
	if _, err := w.Earth.AddBB(1015); err != nil {
		t.Fatalf("AddBB: %v", err)
	}

	got, err := s.LoadWell(ctx, "isolated")
	if err != nil {
		t.Fatalf("LoadWell: %v", err)
	}
	if n := got.Earth.NumLayers(); n != 2 {
		t.Errorf("stored well has %d layers, want 2 (snapshot leaked)", n)
	}
}

func TestInMemoryCaseStore_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryCaseStore()

	for _, name := range []string{"b", "a"} {
		if err := s.SaveWell(ctx, testWell(t, name)); err != nil {
			t.Fatalf("SaveWell %s: %v", name, err)
		}
	}

	names, err := s.ListWells(ctx)
	if err != nil {
		t.Fatalf("ListWells: %v", err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("ListWells = %v, want [a b]", names)
	}

	if err := s.DeleteWell(ctx, "a"); err != nil {
		t.Fatalf("DeleteWell: %v", err)
	}
	if err := s.DeleteWell(ctx, "a"); !errors.Is(err, ErrWellNotFound) {
		t.Errorf("second delete error = %v, want ErrWellNotFound", err)
	}

	ok, err := s.HasWell(ctx, "b")
	if err != nil || !ok {
		t.Errorf("HasWell(b) = %v, %v, want true", ok, err)
	}
}

func TestInMemoryCaseStore_LoadMissing(t *testing.T) {
	s := NewInMemoryCaseStore()
	if _, err := s.LoadWell(context.Background(), "nope"); !errors.Is(err, ErrWellNotFound) {
		t.Errorf("LoadWell error = %v, want ErrWellNotFound", err)
	}
}
