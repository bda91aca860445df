package calc

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ambia/UTAPWeLS/internal/model"
)

// powf is math.Pow under a short local name; the Archie evaluation reads
// better with it.
func powf(x, y float64) float64 { return math.Pow(x, y) }

// RockClass holds the Archie parameters of one rock class.
type RockClass struct {
	// A is the tortuosity factor.
	A float64 `yaml:"a"`
	// M is the cementation exponent.
	M float64 `yaml:"m"`
	// N is the saturation exponent.
	N float64 `yaml:"n"`
}

// DefaultRockClass is used for layers without an assigned class.
var DefaultRockClass = RockClass{A: 1, M: 2, N: 2}

// Archie derives true formation resistivity per layer from water
// resistivity, porosity and water saturation:
//
//	Rt = a * Rw / (phi^m * Sw^n)
//
// Layers carrying invasion zones additionally get a flushed-zone
// resistivity from the mud filtrate resistivity, with the flushed-zone
// saturation taken as Sxo = Sw^(1/5).
type Archie struct {
	// Classes maps rock class names to Archie parameters. Layers whose
	// class is missing from the map use DefaultRockClass.
	Classes map[string]RockClass
}

// NewArchie returns an Archie calculator with an empty class table.
func NewArchie() *Archie {
	return &Archie{Classes: make(map[string]RockClass)}
}

// Name implements Calculator.
func (c *Archie) Name() string { return "Archie" }

func (c *Archie) classFor(name string) RockClass {
	if rc, ok := c.Classes[name]; ok {
		return rc
	}
	return DefaultRockClass
}

// Calculate implements Calculator.
func (c *Archie) Calculate(ctx context.Context, w *model.Well) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	em := w.Earth
	for layer := 0; layer < em.NumLayers(); layer++ {
		rw, err := em.Property(model.PropWaterResistivity, layer)
		if err != nil {
			return fmt.Errorf("archie on layer %d: %w", layer, err)
		}
		phi, err := em.Property(model.PropPorosityTotal, layer)
		if err != nil {
			return fmt.Errorf("archie on layer %d: %w", layer, err)
		}
		sw, err := em.Property(model.PropWaterSatTotal, layer)
		if err != nil {
			return fmt.Errorf("archie on layer %d: %w", layer, err)
		}
		if phi <= 0 || phi > 1 {
			return fmt.Errorf("archie on layer %d: porosity %v outside (0, 1]", layer, phi)
		}
		if sw <= 0 || sw > 1 {
			return fmt.Errorf("archie on layer %d: water saturation %v outside (0, 1]", layer, sw)
		}

		class, err := em.RockClass(layer)
		if err != nil {
			return err
		}
		rc := c.classFor(class)

		rt := rc.A * rw / (powf(phi, rc.M) * powf(sw, rc.N))
		if err := em.SetProperty(model.PropResistivityTrue, layer, rt); err != nil {
			return fmt.Errorf("archie on layer %d: %w", layer, err)
		}

		nz, err := em.NumZones(layer)
		if err != nil {
			return err
		}
		if nz == 0 {
			continue
		}
		rmf, err := em.Property(model.PropMudFiltrateRes, layer)
		if errors.Is(err, model.ErrPropertyUnset) {
			// No filtrate resistivity assigned: leave invaded zones alone.
			continue
		}
		if err != nil {
			return err
		}
		sxo := powf(sw, 0.2)
		rxo := rc.A * rmf / (powf(phi, rc.M) * powf(sxo, rc.N))
		for zone := 0; zone < nz; zone++ {
			if err := em.SetZoneProperty(model.PropResistivityXO, layer, zone, rxo); err != nil {
				return fmt.Errorf("archie on layer %d zone %d: %w", layer, zone, err)
			}
		}
	}
	return nil
}
