// Package sim implements the synthetic tool-response simulators: resistivity,
// nuclear and sonic. Each simulator samples the layered earth model onto a
// uniform depth grid at the configured sampling rate, applies a vertical
// response filter for the selected tool variant, and registers the resulting
// curves in the well's simulated log set.
package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/ambia/UTAPWeLS/internal/constants"
	"github.com/ambia/UTAPWeLS/internal/curves"
	"github.com/ambia/UTAPWeLS/internal/model"
)

// ErrUnknownTool is returned for a tool variant outside a simulator's table.
var ErrUnknownTool = errors.New("unknown tool variant")

// ErrUnknownOutput is returned when an output name is not produced by the
// simulator.
var ErrUnknownOutput = errors.New("unknown simulator output")

// DefaultSamplingRate is the default log sampling rate in meters (half foot).
const DefaultSamplingRate = constants.DefaultSamplingRate

// Config holds the settings shared by every simulator.
type Config struct {
	// SamplingRate is the output grid step in meters. Zero means
	// DefaultSamplingRate.
	SamplingRate float64

	// LogSet names the destination log set. Empty means the well's
	// simulated set.
	LogSet string
}

func (c Config) samplingRate() float64 {
	if c.SamplingRate == 0 {
		return DefaultSamplingRate
	}
	return c.SamplingRate
}

func (c Config) logSet() string {
	if c.LogSet == "" {
		return model.LogSetSimulated
	}
	return c.LogSet
}

func (c Config) validate() error {
	if c.SamplingRate < 0 {
		return fmt.Errorf("sampling rate must be non-negative, got %v", c.SamplingRate)
	}
	return nil
}

// Simulator computes a synthetic tool response from the earth model.
type Simulator interface {
	// Name identifies the simulator in logs and scenario steps.
	Name() string

	// Run simulates the tool response and stores the output curves on the
	// well.
	Run(ctx context.Context, w *model.Well) error
}

// sampleLayers evaluates a per-layer function at every grid depth.
func sampleLayers(em *model.EarthModel, grid []float64, f func(layer int) (float64, error)) ([]float64, error) {
	// Memoize per layer; adjacent samples usually share one.
	cache := make(map[int]float64, em.NumLayers())
	out := make([]float64, len(grid))
	for i, md := range grid {
		layer, err := em.LayerAt(md)
		if err != nil {
			return nil, err
		}
		v, ok := cache[layer]
		if !ok {
			v, err = f(layer)
			if err != nil {
				return nil, err
			}
			cache[layer] = v
		}
		out[i] = v
	}
	return out, nil
}

// storeOutput registers a simulated curve, replacing any previous run.
func storeOutput(w *model.Well, cfg Config, tool string, l *curves.Log) error {
	l.SetMeta("tool", tool)
	set := w.EnsureLogSet(cfg.logSet())
	if err := set.Put(l); err != nil {
		return fmt.Errorf("storing %q: %w", l.Name, err)
	}
	return nil
}

// wantOutput reports whether name is in the requested output list; an empty
// list requests everything.
func wantOutput(outputs []string, name string) bool {
	if len(outputs) == 0 {
		return true
	}
	for _, o := range outputs {
		if o == name {
			return true
		}
	}
	return false
}

// checkOutputs verifies every requested output is one the simulator produces.
func checkOutputs(outputs, known []string) error {
	for _, o := range outputs {
		found := false
		for _, k := range known {
			if o == k {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %q (known: %v)", ErrUnknownOutput, o, known)
		}
	}
	return nil
}
