package model

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ambia/UTAPWeLS/internal/curves"
)

// ErrNoSuchLogSet is returned when a named log set is absent from a well.
var ErrNoSuchLogSet = errors.New("no such log set")

// Standard log set names.
const (
	LogSetSimulated = "Simulated"
	LogSetField     = "Field"
	LogSetComposite = "Composite"
)

// Well is a synthetic well: a modeling interval, an earth model and the log
// sets holding its simulated and composited curves.
type Well struct {
	Name     string  `json:"name"`
	TopMD    float64 `json:"top_md"`
	BottomMD float64 `json:"bottom_md"`

	Earth *EarthModel `json:"earth"`

	sets map[string]*curves.LogSet
}

// NewWell creates a well with a single-layer earth model over [top, bottom].
func NewWell(name string, top, bottom float64) (*Well, error) {
	if name == "" {
		return nil, errors.New("well name must not be empty")
	}
	em, err := NewEarthModel(top, bottom)
	if err != nil {
		return nil, fmt.Errorf("well %q: %w", name, err)
	}
	return &Well{
		Name:     name,
		TopMD:    top,
		BottomMD: bottom,
		Earth:    em,
		sets:     make(map[string]*curves.LogSet),
	}, nil
}

// LogSet fetches a named log set.
func (w *Well) LogSet(name string) (*curves.LogSet, error) {
	s, ok := w.sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q on well %q", ErrNoSuchLogSet, name, w.Name)
	}
	return s, nil
}

// EnsureLogSet fetches a named log set, creating it if absent.
func (w *Well) EnsureLogSet(name string) *curves.LogSet {
	if w.sets == nil {
		w.sets = make(map[string]*curves.LogSet)
	}
	s, ok := w.sets[name]
	if !ok {
		s = curves.NewLogSet(name)
		w.sets[name] = s
	}
	return s
}

// LogSetNames returns the well's log set names, sorted.
func (w *Well) LogSetNames() []string {
	out := make([]string, 0, len(w.sets))
	for name := range w.sets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// FindLog resolves "set/log" into the named log.
func (w *Well) FindLog(set, log string) (*curves.Log, error) {
	s, err := w.LogSet(set)
	if err != nil {
		return nil, err
	}
	return s.Get(log)
}
