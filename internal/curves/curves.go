// Package curves implements log sets and depth-indexed curves: the named
// containers simulated and measured output series live in, plus the
// resampling, splicing and relabeling operations used to composite results.
package curves

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/ambia/UTAPWeLS/internal/units"
)

var (
	// ErrNoSuchLog is returned when a named log is absent from a set.
	ErrNoSuchLog = errors.New("no such log")

	// ErrLogExists is returned when adding a log whose name is taken.
	ErrLogExists = errors.New("log already exists")
)

// Log is a depth-indexed output series. Depths and Values are parallel
// slices; Depths is strictly increasing.
type Log struct {
	Name   string            `json:"name"`
	Unit   units.Unit        `json:"unit"`
	Depths []float64         `json:"depths"`
	Values []float64         `json:"values"`
	Meta   map[string]string `json:"meta,omitempty"`
}

// Validate checks the structural invariants of the log.
func (l *Log) Validate() error {
	if l.Name == "" {
		return errors.New("log name must not be empty")
	}
	if len(l.Depths) != len(l.Values) {
		return fmt.Errorf("log %q: %d depths but %d values", l.Name, len(l.Depths), len(l.Values))
	}
	for i := 1; i < len(l.Depths); i++ {
		if l.Depths[i] <= l.Depths[i-1] {
			return fmt.Errorf("log %q: depth grid not strictly increasing at index %d", l.Name, i)
		}
	}
	return nil
}

// SetMeta records a metadata key on the log, allocating the map on first use.
func (l *Log) SetMeta(key, value string) {
	if l.Meta == nil {
		l.Meta = make(map[string]string)
	}
	l.Meta[key] = value
}

// Clone returns a deep copy of the log.
func (l *Log) Clone() *Log {
	c := &Log{
		Name:   l.Name,
		Unit:   l.Unit,
		Depths: append([]float64(nil), l.Depths...),
		Values: append([]float64(nil), l.Values...),
	}
	if l.Meta != nil {
		c.Meta = make(map[string]string, len(l.Meta))
		for k, v := range l.Meta {
			c.Meta[k] = v
		}
	}
	return c
}

// ValueAt returns the log value linearly interpolated at the given depth.
// Depths outside the grid clamp to the end samples.
func (l *Log) ValueAt(md float64) float64 {
	n := len(l.Depths)
	if n == 0 {
		return 0
	}
	if md <= l.Depths[0] {
		return l.Values[0]
	}
	if md >= l.Depths[n-1] {
		return l.Values[n-1]
	}
	i := sort.SearchFloat64s(l.Depths, md)
	// l.Depths[i-1] < md <= l.Depths[i]
	d0, d1 := l.Depths[i-1], l.Depths[i]
	v0, v1 := l.Values[i-1], l.Values[i]
	frac := (md - d0) / (d1 - d0)
	return v0 + frac*(v1-v0)
}

// LogSet is a named, ordered container of logs.
type LogSet struct {
	Name string
	logs map[string]*Log
	// order preserves insertion order for deterministic listings.
	order []string
}

// NewLogSet creates an empty log set.
func NewLogSet(name string) *LogSet {
	return &LogSet{Name: name, logs: make(map[string]*Log)}
}

// Add registers a log in the set. The log name must be unique within the set.
func (s *LogSet) Add(l *Log) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if _, ok := s.logs[l.Name]; ok {
		return fmt.Errorf("%w: %q in set %q", ErrLogExists, l.Name, s.Name)
	}
	s.logs[l.Name] = l
	s.order = append(s.order, l.Name)
	return nil
}

// Put registers a log, replacing any existing log of the same name.
func (s *LogSet) Put(l *Log) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if _, ok := s.logs[l.Name]; !ok {
		s.order = append(s.order, l.Name)
	}
	s.logs[l.Name] = l
	return nil
}

// Get fetches a log by name.
func (s *LogSet) Get(name string) (*Log, error) {
	l, ok := s.logs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in set %q", ErrNoSuchLog, name, s.Name)
	}
	return l, nil
}

// Names returns the log names in insertion order.
func (s *LogSet) Names() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of logs in the set.
func (s *LogSet) Len() int { return len(s.logs) }

// Overwrite replaces the raw value series of a named log. The replacement
// must match the existing depth grid sample for sample.
func (s *LogSet) Overwrite(name string, values []float64) error {
	l, err := s.Get(name)
	if err != nil {
		return err
	}
	if len(values) != len(l.Depths) {
		return fmt.Errorf("log %q: %d replacement values for %d samples", name, len(values), len(l.Depths))
	}
	copy(l.Values, values)
	return nil
}

// Relabel renames a log within the set.
func (s *LogSet) Relabel(oldName, newName string) error {
	l, err := s.Get(oldName)
	if err != nil {
		return err
	}
	if _, ok := s.logs[newName]; ok {
		return fmt.Errorf("%w: %q in set %q", ErrLogExists, newName, s.Name)
	}
	delete(s.logs, oldName)
	l.Name = newName
	s.logs[newName] = l
	for i, n := range s.order {
		if n == oldName {
			s.order[i] = newName
			break
		}
	}
	return nil
}

// Remove deletes a log from the set.
func (s *LogSet) Remove(name string) error {
	if _, err := s.Get(name); err != nil {
		return err
	}
	delete(s.logs, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// CopyTo copies a named log into another set under the same name,
// replacing any log already there.
func (s *LogSet) CopyTo(dst *LogSet, name string) error {
	l, err := s.Get(name)
	if err != nil {
		return err
	}
	return dst.Put(l.Clone())
}

// logSetJSON is the wire form of a LogSet. Logs are kept as an ordered
// array so insertion order survives a round trip.
type logSetJSON struct {
	Name string `json:"name"`
	Logs []*Log `json:"logs"`
}

// MarshalJSON serializes the set with its logs in insertion order.
func (s *LogSet) MarshalJSON() ([]byte, error) {
	out := logSetJSON{Name: s.Name, Logs: make([]*Log, 0, len(s.order))}
	for _, name := range s.order {
		out.Logs = append(out.Logs, s.logs[name])
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a set serialized by MarshalJSON.
func (s *LogSet) UnmarshalJSON(data []byte) error {
	var in logSetJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.Name = in.Name
	s.logs = make(map[string]*Log, len(in.Logs))
	s.order = s.order[:0]
	for _, l := range in.Logs {
		if _, ok := s.logs[l.Name]; ok {
			return fmt.Errorf("%w: %q in set %q", ErrLogExists, l.Name, in.Name)
		}
		s.logs[l.Name] = l
		s.order = append(s.order, l.Name)
	}
	return nil
}
