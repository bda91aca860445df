package model

import (
	"errors"
	"testing"

	"github.com/ambia/UTAPWeLS/internal/curves"
	"github.com/ambia/UTAPWeLS/internal/units"
)

func TestNewWell(t *testing.T) {
	if _, err := NewWell("", 0, 100); err == nil {
		t.Error("empty name should fail")
	}
	if _, err := NewWell("W1", 100, 100); err == nil {
		t.Error("empty interval should fail")
	}

	w, err := NewWell("W1", 1000, 1100)
	if err != nil {
		t.Fatalf("NewWell: %v", err)
	}
	if w.Earth == nil || w.Earth.NumLayers() != 1 {
		t.Errorf("fresh well earth model = %+v", w.Earth)
	}
}

func TestWellLogSets(t *testing.T) {
	w, err := NewWell("W1", 1000, 1100)
	if err != nil {
		t.Fatalf("NewWell: %v", err)
	}

	if _, err := w.LogSet(LogSetSimulated); !errors.Is(err, ErrNoSuchLogSet) {
		t.Errorf("missing set: got %v, want ErrNoSuchLogSet", err)
	}

	s := w.EnsureLogSet(LogSetSimulated)
	if s2 := w.EnsureLogSet(LogSetSimulated); s2 != s {
		t.Error("EnsureLogSet created a second instance for the same name")
	}

	if err := s.Add(&curves.Log{
		Name:   "GR",
		Unit:   units.GAPI,
		Depths: []float64{1000, 1001},
		Values: []float64{40, 60},
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	l, err := w.FindLog(LogSetSimulated, "GR")
	if err != nil {
		t.Fatalf("FindLog: %v", err)
	}
	if l.Values[1] != 60 {
		t.Errorf("FindLog returned %v", l.Values)
	}
	if _, err := w.FindLog(LogSetSimulated, "RT"); !errors.Is(err, curves.ErrNoSuchLog) {
		t.Errorf("missing log: got %v, want curves.ErrNoSuchLog", err)
	}

	names := w.LogSetNames()
	if len(names) != 1 || names[0] != LogSetSimulated {
		t.Errorf("LogSetNames() = %v", names)
	}
}
