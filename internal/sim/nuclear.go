package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/ambia/UTAPWeLS/internal/curves"
	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/units"
)

// Nuclear output curve names.
const (
	OutBulkDensity     = "RHOB"
	OutNeutronPorosity = "NPHI"
	OutGammaRay        = "GR"
)

// nuclearTools maps tool variants to vertical resolution in meters.
var nuclearTools = map[string]float64{
	"standard": 0.6,
	"hires":    0.3,
}

// Nuclear simulates the nuclear tool family: bulk density from the
// volumetric mix of solids and fluids, neutron porosity from hydrogen index,
// and gamma ray from the radioactive minerals in the solid fraction.
type Nuclear struct {
	Config

	// Tool selects the variant: "standard" or "hires".
	Tool string

	// Outputs lists which curves to compute (RHOB, NPHI, GR). Empty means
	// all three.
	Outputs []string
}

// NewNuclear returns a standard-resolution nuclear simulator.
func NewNuclear() *Nuclear {
	return &Nuclear{Tool: "standard"}
}

// Name implements Simulator.
func (s *Nuclear) Name() string { return "Nuclear" }

// layerMix aggregates the response constants of one layer's solids and
// fluids, honoring the shale volume split when a shale slot is present.
type layerMix struct {
	solidDensity float64
	solidHI      float64
	solidGamma   float64
	fluidDensity float64
	fluidHI      float64
	porosity     float64
}

// slotAverage volume-averages component props over a composition slot.
func slotAverage(em *model.EarthModel, slot model.Slot, layer int, fallback string) (model.ComponentProps, error) {
	comps, err := em.Composition(slot, layer)
	if errors.Is(err, model.ErrCompositionUnset) {
		return model.ComponentCatalog(fallback)
	}
	if err != nil {
		return model.ComponentProps{}, err
	}
	var avg model.ComponentProps
	for _, c := range comps {
		p, err := model.ComponentCatalog(c.Name)
		if err != nil {
			return model.ComponentProps{}, err
		}
		avg.Density += c.Fraction * p.Density
		avg.Slowness += c.Fraction * p.Slowness
		avg.GammaAPI += c.Fraction * p.GammaAPI
		avg.HydrogenIndex += c.Fraction * p.HydrogenIndex
	}
	return avg, nil
}

// mixFor builds the layer response mix. Unset matrix defaults to quartz,
// unset fluid to water; shale enters through the Shale Volume property and
// the shale slot (defaulting to illite).
func mixFor(em *model.EarthModel, layer int) (layerMix, error) {
	var mix layerMix

	phi, err := em.Property(model.PropPorosityTotal, layer)
	if err != nil {
		return mix, err
	}
	if phi < 0 || phi > 1 {
		return mix, fmt.Errorf("porosity %v outside [0, 1] on layer %d", phi, layer)
	}
	mix.porosity = phi

	matrix, err := slotAverage(em, model.SlotMatrix, layer, "quartz")
	if err != nil {
		return mix, err
	}
	fluid, err := slotAverage(em, model.SlotFluid, layer, "water")
	if err != nil {
		return mix, err
	}

	vsh := 0.0
	if v, err := em.Property(model.PropShaleVolume, layer); err == nil {
		vsh = v
	} else if !errors.Is(err, model.ErrPropertyUnset) {
		return mix, err
	}
	if vsh < 0 || vsh > 1 {
		return mix, fmt.Errorf("shale volume %v outside [0, 1] on layer %d", vsh, layer)
	}

	solid := matrix
	if vsh > 0 {
		shale, err := slotAverage(em, model.SlotShale, layer, "illite")
		if err != nil {
			return mix, err
		}
		solid.Density = (1-vsh)*matrix.Density + vsh*shale.Density
		solid.GammaAPI = (1-vsh)*matrix.GammaAPI + vsh*shale.GammaAPI
		solid.HydrogenIndex = (1-vsh)*matrix.HydrogenIndex + vsh*shale.HydrogenIndex
	}

	mix.solidDensity = solid.Density
	mix.solidGamma = solid.GammaAPI
	mix.solidHI = solid.HydrogenIndex
	mix.fluidDensity = fluid.Density
	mix.fluidHI = fluid.HydrogenIndex
	return mix, nil
}

// Run implements Simulator.
func (s *Nuclear) Run(ctx context.Context, w *model.Well) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.validate(); err != nil {
		return err
	}
	resolution, ok := nuclearTools[s.Tool]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTool, s.Tool)
	}
	known := []string{OutBulkDensity, OutNeutronPorosity, OutGammaRay}
	if err := checkOutputs(s.Outputs, known); err != nil {
		return err
	}

	em := w.Earth
	grid, err := curves.UniformGrid(em.TopMD, em.BottomMD, s.samplingRate())
	if err != nil {
		return err
	}
	window := responseWindow(resolution, s.samplingRate())

	mixes := make(map[int]layerMix, em.NumLayers())
	mixOf := func(layer int) (layerMix, error) {
		if m, ok := mixes[layer]; ok {
			return m, nil
		}
		m, err := mixFor(em, layer)
		if err != nil {
			return m, err
		}
		mixes[layer] = m
		return m, nil
	}

	type output struct {
		name string
		unit units.Unit
		eval func(layerMix) float64
	}
	outputs := []output{
		{OutBulkDensity, units.GramPerCC, func(m layerMix) float64 {
			return (1-m.porosity)*m.solidDensity + m.porosity*m.fluidDensity
		}},
		{OutNeutronPorosity, units.VolFraction, func(m layerMix) float64 {
			return m.porosity*m.fluidHI + (1-m.porosity)*m.solidHI
		}},
		{OutGammaRay, units.GAPI, func(m layerMix) float64 {
			return (1 - m.porosity) * m.solidGamma
		}},
	}

	for _, out := range outputs {
		if !wantOutput(s.Outputs, out.name) {
			continue
		}
		raw, err := sampleLayers(em, grid, func(layer int) (float64, error) {
			m, err := mixOf(layer)
			if err != nil {
				return 0, err
			}
			return out.eval(m), nil
		})
		if err != nil {
			return fmt.Errorf("%s: %w", out.name, err)
		}
		l := &curves.Log{
			Name:   out.name,
			Unit:   out.unit,
			Depths: append([]float64(nil), grid...),
			Values: boxcar(raw, window),
		}
		if err := storeOutput(w, s.Config, s.Tool, l); err != nil {
			return err
		}
	}
	return nil
}
