package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/ambia/UTAPWeLS/internal/curves"
	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/units"
)

// OutSlowness is the sonic output curve name.
const OutSlowness = "DT"

// sonicResolution is the vertical resolution of the sonic tool in meters.
const sonicResolution = 0.6

// Sonic variant names.
const (
	SonicWyllie = "wyllie"
	SonicRHG    = "rhg"
)

// Sonic simulates compressional slowness from porosity and the matrix/fluid
// slowness mix, using either the Wyllie time-average or the
// Raymer-Hunt-Gardner transform.
type Sonic struct {
	Config

	// Variant selects the porosity-slowness transform: "wyllie" or "rhg".
	Variant string
}

// NewSonic returns a Wyllie time-average simulator.
func NewSonic() *Sonic {
	return &Sonic{Variant: SonicWyllie}
}

// Name implements Simulator.
func (s *Sonic) Name() string { return "Sonic" }

// Run implements Simulator.
func (s *Sonic) Run(ctx context.Context, w *model.Well) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.validate(); err != nil {
		return err
	}
	if s.Variant != SonicWyllie && s.Variant != SonicRHG {
		return fmt.Errorf("%w: %q", ErrUnknownTool, s.Variant)
	}

	em := w.Earth
	grid, err := curves.UniformGrid(em.TopMD, em.BottomMD, s.samplingRate())
	if err != nil {
		return err
	}
	window := responseWindow(sonicResolution, s.samplingRate())

	raw, err := sampleLayers(em, grid, func(layer int) (float64, error) {
		phi, err := em.Property(model.PropPorosityTotal, layer)
		if err != nil {
			return 0, err
		}
		if phi < 0 || phi >= 1 {
			return 0, fmt.Errorf("porosity %v outside [0, 1) on layer %d", phi, layer)
		}
		matrix, err := slotAverage(em, model.SlotMatrix, layer, "quartz")
		if err != nil {
			return 0, err
		}
		fluid, err := slotAverage(em, model.SlotFluid, layer, "water")
		if err != nil {
			return 0, err
		}
		switch s.Variant {
		case SonicRHG:
			return matrix.Slowness / math.Pow(1-phi, 2), nil
		default:
			return (1-phi)*matrix.Slowness + phi*fluid.Slowness, nil
		}
	})
	if err != nil {
		return fmt.Errorf("sonic: %w", err)
	}

	l := &curves.Log{
		Name:   OutSlowness,
		Unit:   units.USPerFoot,
		Depths: append([]float64(nil), grid...),
		Values: boxcar(raw, window),
	}
	l.SetMeta("variant", s.Variant)
	return storeOutput(w, s.Config, s.Variant, l)
}
