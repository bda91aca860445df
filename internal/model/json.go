package model

import (
	"encoding/json"
	"math"

	"github.com/ambia/UTAPWeLS/internal/curves"
)

// earthModelJSON is the wire form of an EarthModel. Unset property entries
// are stored as NaN in memory, which JSON cannot carry, so Props crosses
// the wire as nullable values.
type earthModelJSON struct {
	TopMD      float64               `json:"top_md"`
	BottomMD   float64               `json:"bottom_md"`
	Boundaries []float64             `json:"boundaries"`
	Props      map[string][]*float64 `json:"props"`
	Invasion   [][]float64           `json:"invasion"`
	ZoneProps  []ZoneProperty        `json:"zone_props,omitempty"`
	Classes    []string              `json:"classes"`
	Comps      []Composition         `json:"comps,omitempty"`
}

// MarshalJSON serializes the model with unset property entries as null.
func (m *EarthModel) MarshalJSON() ([]byte, error) {
	out := earthModelJSON{
		TopMD:      m.TopMD,
		BottomMD:   m.BottomMD,
		Boundaries: m.Boundaries,
		Invasion:   m.Invasion,
		ZoneProps:  m.ZoneProps,
		Classes:    m.Classes,
		Comps:      m.Comps,
	}
	if m.Props != nil {
		out.Props = make(map[string][]*float64, len(m.Props))
		for name, values := range m.Props {
			nullable := make([]*float64, len(values))
			for i := range values {
				if !math.IsNaN(values[i]) {
					v := values[i]
					nullable[i] = &v
				}
			}
			out.Props[name] = nullable
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a model serialized by MarshalJSON.
func (m *EarthModel) UnmarshalJSON(data []byte) error {
	var in earthModelJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.TopMD = in.TopMD
	m.BottomMD = in.BottomMD
	m.Boundaries = in.Boundaries
	m.Invasion = in.Invasion
	m.ZoneProps = in.ZoneProps
	m.Classes = in.Classes
	m.Comps = in.Comps
	m.Props = nil
	if in.Props != nil {
		m.Props = make(map[string][]float64, len(in.Props))
		for name, nullable := range in.Props {
			values := make([]float64, len(nullable))
			for i, p := range nullable {
				if p == nil {
					values[i] = math.NaN()
				} else {
					values[i] = *p
				}
			}
			m.Props[name] = values
		}
	}
	return nil
}

// wellJSON is the wire form of a Well including its log sets.
type wellJSON struct {
	Name     string           `json:"name"`
	TopMD    float64          `json:"top_md"`
	BottomMD float64          `json:"bottom_md"`
	Earth    *EarthModel      `json:"earth"`
	LogSets  []*curves.LogSet `json:"log_sets,omitempty"`
}

// MarshalJSON serializes the well with its log sets in name order.
func (w *Well) MarshalJSON() ([]byte, error) {
	out := wellJSON{
		Name:     w.Name,
		TopMD:    w.TopMD,
		BottomMD: w.BottomMD,
		Earth:    w.Earth,
	}
	for _, name := range w.LogSetNames() {
		out.LogSets = append(out.LogSets, w.sets[name])
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a well serialized by MarshalJSON.
func (w *Well) UnmarshalJSON(data []byte) error {
	var in wellJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	w.Name = in.Name
	w.TopMD = in.TopMD
	w.BottomMD = in.BottomMD
	w.Earth = in.Earth
	w.sets = make(map[string]*curves.LogSet, len(in.LogSets))
	for _, s := range in.LogSets {
		w.sets[s.Name] = s
	}
	return nil
}
