// Package calc implements the property calculators: temperature, pressure,
// water resistivity and Archie formation resistivity. Each calculator is a
// configured object whose Calculate method derives per-layer properties on a
// well's earth model from properties already present.
package calc

import (
	"context"

	"github.com/ambia/UTAPWeLS/internal/model"
)

// Calculator derives physical properties on a well's earth model.
type Calculator interface {
	// Name identifies the calculator in logs and scenario steps.
	Name() string

	// Calculate runs the derivation, writing per-layer (and per-zone)
	// properties on the well's earth model.
	Calculate(ctx context.Context, w *model.Well) error
}

// layerMidpoint returns the midpoint depth of a layer.
func layerMidpoint(m *model.EarthModel, layer int) (float64, error) {
	top, bottom, err := m.LayerBounds(layer)
	if err != nil {
		return 0, err
	}
	return (top + bottom) / 2, nil
}
