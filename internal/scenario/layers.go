package scenario

import (
	"fmt"
	"math/rand/v2"

	"github.com/ambia/UTAPWeLS/internal/model"
)

// GenerateLayers divides a well's modeling interval into count layers whose
// thicknesses are drawn around the uniform mean with Gaussian jitter (a
// fraction of the mean thickness). The same seed always produces the same
// layering.
func GenerateLayers(w *model.Well, count int, jitter float64, seed uint64) error {
	if count < 2 {
		return fmt.Errorf("layer count must be at least 2, got %d", count)
	}
	if jitter < 0 {
		return fmt.Errorf("jitter must be non-negative, got %v", jitter)
	}
	if n := w.Earth.NumLayers(); n != 1 {
		return fmt.Errorf("well %q already has %d layers", w.Name, n)
	}

	interval := w.BottomMD - w.TopMD
	mean := interval / float64(count)
	rng := rand.New(rand.NewPCG(seed, seed))

	// Draw jittered thicknesses, floored so no layer collapses, then scale
	// the stack to fill the interval exactly.
	thick := make([]float64, count)
	var total float64
	for i := range thick {
		t := mean * (1 + jitter*rng.NormFloat64())
		if t < 0.05*mean {
			t = 0.05 * mean
		}
		thick[i] = t
		total += t
	}

	md := w.TopMD
	for i := 0; i < count-1; i++ {
		md += thick[i] * interval / total
		if _, err := w.Earth.AddBB(md); err != nil {
			return fmt.Errorf("boundary %d at %v: %w", i, md, err)
		}
	}
	return nil
}
