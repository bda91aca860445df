// Package noise injects synthetic Gaussian noise into simulated curves.
//
// The perturbation model is
//
//	y = x + x*N(0, k) + a*N(0, 1) + bias
//
// with k the multiplicative factor, a the additive scale and fresh normal
// draws per sample. Over many trials the mean of (y - x) approaches bias.
package noise

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/ambia/UTAPWeLS/internal/curves"
)

// Params configures one noise injection.
type Params struct {
	// Mult is the standard deviation of the multiplicative term, as a
	// fraction of the sample value (e.g. 0.05 for 5% noise).
	Mult float64

	// Add is the standard deviation of the additive term, in curve units.
	Add float64

	// Bias is a constant offset added to every sample.
	Bias float64

	// Seed seeds the generator so injections are reproducible. Zero means
	// draw a random seed.
	Seed uint64
}

// Validate checks the parameters.
func (p Params) Validate() error {
	if p.Mult < 0 {
		return fmt.Errorf("multiplicative factor must be non-negative, got %v", p.Mult)
	}
	if p.Add < 0 {
		return fmt.Errorf("additive scale must be non-negative, got %v", p.Add)
	}
	return nil
}

// Injector draws Gaussian perturbations from a seeded source.
type Injector struct {
	params Params
	rng    *rand.Rand
}

// NewInjector creates an injector for the given parameters.
func NewInjector(p Params) (*Injector, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	seed := p.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Injector{
		params: p,
		rng:    rand.New(rand.NewPCG(seed, seed)),
	}, nil
}

// Perturb returns a perturbed copy of the series. The input is not modified.
func (in *Injector) Perturb(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x
		if in.params.Mult > 0 {
			out[i] += x * in.rng.NormFloat64() * in.params.Mult
		}
		if in.params.Add > 0 {
			out[i] += in.rng.NormFloat64() * in.params.Add
		}
		out[i] += in.params.Bias
	}
	return out
}

// Apply perturbs a named log in place, recording the noise parameters in the
// log's metadata.
func Apply(set *curves.LogSet, logName string, p Params) error {
	in, err := NewInjector(p)
	if err != nil {
		return err
	}
	l, err := set.Get(logName)
	if err != nil {
		return err
	}
	copy(l.Values, in.Perturb(l.Values))
	l.SetMeta("noise_mult", strconv.FormatFloat(p.Mult, 'g', -1, 64))
	l.SetMeta("noise_add", strconv.FormatFloat(p.Add, 'g', -1, 64))
	if p.Bias != 0 {
		l.SetMeta("noise_bias", strconv.FormatFloat(p.Bias, 'g', -1, 64))
	}
	return nil
}
