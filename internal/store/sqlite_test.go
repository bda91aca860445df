package store

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ambia/UTAPWeLS/internal/curves"
	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/units"
)

// testWell builds a two-layer well with one simulated log for store tests.
func testWell(t *testing.T, name string) *model.Well {
	t.Helper()

	w, err := model.NewWell(name, 1000, 1020)
	if err != nil {
		t.Fatalf("NewWell: %v", err)
	}
	if _, err := w.Earth.AddBB(1010); err != nil {
		t.Fatalf("AddBB: %v", err)
	}
	if err := w.Earth.SetProperty(model.PropPorosityTotal, 0, 0.12); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}
	if err := w.Earth.AddInvasionZone(1, 0.3); err != nil {
		t.Fatalf("AddInvasionZone: %v", err)
	}

	set := w.EnsureLogSet(model.LogSetSimulated)
	log := &curves.Log{
		Name:   "RD",
		Unit:   units.OhmMeter,
		Depths: []float64{1000, 1010, 1020},
		Values: []float64{98.5, 50.2, 1.1},
		Meta:   map[string]string{"tool": "induction"},
	}
	if err := set.Add(log); err != nil {
		t.Fatalf("Add log: %v", err)
	}

	return w
}

func TestSQLiteCaseStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteCaseStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteCaseStore: %v", err)
	}
	defer s.Close()

	w := testWell(t, "roundtrip")
	if err := s.SaveWell(ctx, w); err != nil {
		t.Fatalf("SaveWell: %v", err)
	}

	got, err := s.LoadWell(ctx, "roundtrip")
	if err != nil {
		t.Fatalf("LoadWell: %v", err)
	}

	if got.TopMD != 1000 || got.BottomMD != 1020 {
		t.Errorf("interval = [%v, %v], want [1000, 1020]", got.TopMD, got.BottomMD)
	}
	if n := got.Earth.NumLayers(); n != 2 {
		t.Fatalf("NumLayers = %d, want 2", n)
	}
	phi, err := got.Earth.Property(model.PropPorosityTotal, 0)
	if err != nil {
		t.Fatalf("Property: %v", err)
	}
	if phi != 0.12 {
		t.Errorf("porosity = %v, want 0.12", phi)
	}
	// Layer 1 porosity was never set and must come back unset
	if _, err := got.Earth.Property(model.PropPorosityTotal, 1); !errors.Is(err, model.ErrPropertyUnset) {
		t.Errorf("layer 1 porosity error = %v, want ErrPropertyUnset", err)
	}
	if n, err := got.Earth.NumZones(1); err != nil || n != 1 {
		t.Errorf("NumZones(1) = %d, %v, want 1", n, err)
	}

	log, err := got.FindLog(model.LogSetSimulated, "RD")
	if err != nil {
		t.Fatalf("FindLog: %v", err)
	}
	if len(log.Values) != 3 || log.Values[1] != 50.2 {
		t.Errorf("log values = %v, want [98.5 50.2 1.1]", log.Values)
	}
	if log.Meta["tool"] != "induction" {
		t.Errorf("log meta tool = %q, want 'induction'", log.Meta["tool"])
	}
}

func TestSQLiteCaseStore_SaveReplacesLogSets(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteCaseStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteCaseStore: %v", err)
	}
	defer s.Close()

	w := testWell(t, "replace")
	if err := s.SaveWell(ctx, w); err != nil {
		t.Fatalf("SaveWell: %v", err)
	}

	set, err := w.LogSet(model.LogSetSimulated)
	if err != nil {
		t.Fatalf("LogSet: %v", err)
	}
	if err := set.Remove("RD"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.SaveWell(ctx, w); err != nil {
		t.Fatalf("re-SaveWell: %v", err)
	}

	got, err := s.LoadWell(ctx, "replace")
	if err != nil {
		t.Fatalf("LoadWell: %v", err)
	}
	gotSet, err := got.LogSet(model.LogSetSimulated)
	if err != nil {
		t.Fatalf("LogSet after reload: %v", err)
	}
	if gotSet.Len() != 0 {
		t.Errorf("reloaded set has %d logs, want 0", gotSet.Len())
	}
}

func TestSQLiteCaseStore_LoadMissing(t *testing.T) {
	s, err := NewSQLiteCaseStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteCaseStore: %v", err)
	}
	defer s.Close()

	_, err = s.LoadWell(context.Background(), "ghost")
	if !errors.Is(err, ErrWellNotFound) {
		t.Errorf("LoadWell error = %v, want ErrWellNotFound", err)
	}
}

func TestSQLiteCaseStore_DeleteWell(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteCaseStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteCaseStore: %v", err)
	}
	defer s.Close()

	if err := s.SaveWell(ctx, testWell(t, "doomed")); err != nil {
		t.Fatalf("SaveWell: %v", err)
	}
	if err := s.DeleteWell(ctx, "doomed"); err != nil {
		t.Fatalf("DeleteWell: %v", err)
	}

	ok, err := s.HasWell(ctx, "doomed")
	if err != nil {
		t.Fatalf("HasWell: %v", err)
	}
	if ok {
		t.Error("well still present after delete")
	}

	if err := s.DeleteWell(ctx, "doomed"); !errors.Is(err, ErrWellNotFound) {
		t.Errorf("second delete error = %v, want ErrWellNotFound", err)
	}
}

func TestSQLiteCaseStore_ListWells(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteCaseStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteCaseStore: %v", err)
	}
	defer s.Close()

	for _, name := range []string{"charlie", "alpha", "bravo"} {
		if err := s.SaveWell(ctx, testWell(t, name)); err != nil {
			t.Fatalf("SaveWell %s: %v", name, err)
		}
	}

	names, err := s.ListWells(ctx)
	if err != nil {
		t.Fatalf("ListWells: %v", err)
	}
	want := []string{"alpha", "bravo", "charlie"}
	if len(names) != len(want) {
		t.Fatalf("ListWells = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ListWells[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestSQLiteCaseStore_SyncExportsJSONL(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewSQLiteCaseStore(root)
	if err != nil {
		t.Fatalf("NewSQLiteCaseStore: %v", err)
	}

	if err := s.SaveWell(ctx, testWell(t, "exported")); err != nil {
		t.Fatalf("SaveWell: %v", err)
	}

	dirty, err := s.IsDirty(ctx)
	if err != nil {
		t.Fatalf("IsDirty: %v", err)
	}
	if !dirty {
		t.Error("store not dirty after save")
	}

	if err := s.Sync(ctx); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	dirty, err = s.IsDirty(ctx)
	if err != nil {
		t.Fatalf("IsDirty after sync: %v", err)
	}
	if dirty {
		t.Error("store still dirty after sync")
	}

	wellsFile := filepath.Join(LocalWelsPath(root), "wells.jsonl")
	if _, err := os.Stat(wellsFile); err != nil {
		t.Errorf("wells.jsonl missing after sync: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestSQLiteCaseStore_ReopenPersists(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	s, err := NewSQLiteCaseStore(root)
	if err != nil {
		t.Fatalf("NewSQLiteCaseStore: %v", err)
	}
	if err := s.SaveWell(ctx, testWell(t, "durable")); err != nil {
		t.Fatalf("SaveWell: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := NewSQLiteCaseStore(root)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.LoadWell(ctx, "durable")
	if err != nil {
		t.Fatalf("LoadWell after reopen: %v", err)
	}
	phi, err := got.Earth.Property(model.PropPorosityTotal, 0)
	if err != nil {
		t.Fatalf("Property: %v", err)
	}
	if math.Abs(phi-0.12) > 1e-12 {
		t.Errorf("porosity = %v, want 0.12", phi)
	}
}

func TestSQLiteCaseStore_ImportWellsFromJSONL(t *testing.T) {
	ctx := context.Background()

	// Export from one store, import into a fresh one
	srcRoot := t.TempDir()
	src, err := NewSQLiteCaseStore(srcRoot)
	if err != nil {
		t.Fatalf("NewSQLiteCaseStore: %v", err)
	}
	if err := src.SaveWell(ctx, testWell(t, "migrant")); err != nil {
		t.Fatalf("SaveWell: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	dst, err := NewSQLiteCaseStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteCaseStore (dst): %v", err)
	}
	defer dst.Close()

	jsonlPath := filepath.Join(LocalWelsPath(srcRoot), "wells.jsonl")
	if err := dst.ImportWellsFromJSONL(ctx, jsonlPath); err != nil {
		t.Fatalf("ImportWellsFromJSONL: %v", err)
	}

	got, err := dst.LoadWell(ctx, "migrant")
	if err != nil {
		t.Fatalf("LoadWell after import: %v", err)
	}
	if _, err := got.FindLog(model.LogSetSimulated, "RD"); err != nil {
		t.Errorf("FindLog after import: %v", err)
	}
}
