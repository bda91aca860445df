package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/ambia/UTAPWeLS/internal/curves"
	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/units"
)

// Resistivity output curve names.
const (
	OutResistivityDeep    = "RD"
	OutResistivityShallow = "RS"
)

// resistivityTools maps tool variants to vertical resolution in meters.
var resistivityTools = map[string]float64{
	"induction": 2.0,
	"laterolog": 0.6,
}

// Resistivity simulates a two-depth resistivity tool. The deep curve reads
// the true formation resistivity; the shallow curve reads the flushed-zone
// resistivity on layers carrying an invasion front, falling back to Rt where
// no invasion is modeled. Both curves are smoothed by the tool's vertical
// response (a geometric mean over the response window).
type Resistivity struct {
	Config

	// Tool selects the variant: "induction" or "laterolog".
	Tool string

	// Outputs lists which curves to compute (RD, RS). Empty means both.
	Outputs []string
}

// NewResistivity returns an induction-tool simulator with default sampling.
func NewResistivity() *Resistivity {
	return &Resistivity{Tool: "induction"}
}

// Name implements Simulator.
func (s *Resistivity) Name() string { return "Resistivity" }

// Run implements Simulator.
func (s *Resistivity) Run(ctx context.Context, w *model.Well) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.validate(); err != nil {
		return err
	}
	resolution, ok := resistivityTools[s.Tool]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTool, s.Tool)
	}
	if err := checkOutputs(s.Outputs, []string{OutResistivityDeep, OutResistivityShallow}); err != nil {
		return err
	}

	em := w.Earth
	grid, err := curves.UniformGrid(em.TopMD, em.BottomMD, s.samplingRate())
	if err != nil {
		return err
	}
	window := responseWindow(resolution, s.samplingRate())

	if wantOutput(s.Outputs, OutResistivityDeep) {
		raw, err := sampleLayers(em, grid, func(layer int) (float64, error) {
			return em.Property(model.PropResistivityTrue, layer)
		})
		if err != nil {
			return fmt.Errorf("deep resistivity: %w", err)
		}
		l := &curves.Log{
			Name:   OutResistivityDeep,
			Unit:   units.OhmMeter,
			Depths: append([]float64(nil), grid...),
			Values: boxcarLog(raw, window),
		}
		if err := storeOutput(w, s.Config, s.Tool, l); err != nil {
			return err
		}
	}

	if wantOutput(s.Outputs, OutResistivityShallow) {
		raw, err := sampleLayers(em, grid, func(layer int) (float64, error) {
			nz, err := em.NumZones(layer)
			if err != nil {
				return 0, err
			}
			if nz > 0 {
				rxo, err := em.ZoneProperty(model.PropResistivityXO, layer, 0)
				if err == nil {
					return rxo, nil
				}
				if !errors.Is(err, model.ErrPropertyUnset) {
					return 0, err
				}
				// Invasion front without an Rxo assignment reads Rt.
			}
			return em.Property(model.PropResistivityTrue, layer)
		})
		if err != nil {
			return fmt.Errorf("shallow resistivity: %w", err)
		}
		l := &curves.Log{
			Name:   OutResistivityShallow,
			Unit:   units.OhmMeter,
			Depths: append([]float64(nil), grid...),
			Values: boxcarLog(raw, window),
		}
		if err := storeOutput(w, s.Config, s.Tool, l); err != nil {
			return err
		}
	}
	return nil
}
