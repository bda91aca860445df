package sim

import "math"

// responseWindow converts a tool's vertical resolution to an odd sample
// count on the given grid step.
func responseWindow(resolution, step float64) int {
	if resolution <= 0 || step <= 0 {
		return 1
	}
	n := int(math.Round(resolution / step))
	if n < 1 {
		n = 1
	}
	if n%2 == 0 {
		n++
	}
	return n
}

// boxcar applies a centered running mean of the given odd window length,
// clamping at the series ends. window <= 1 returns a plain copy.
func boxcar(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	if window <= 1 {
		copy(out, xs)
		return out
	}
	half := window / 2
	for i := range xs {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(xs)-1 {
			hi = len(xs) - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += xs[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

// boxcarLog runs the boxcar on log10 of the series, which is how averaging
// behaves for resistivity: the filtered value is the geometric mean over the
// response window.
func boxcarLog(xs []float64, window int) []float64 {
	if window <= 1 {
		out := make([]float64, len(xs))
		copy(out, xs)
		return out
	}
	logs := make([]float64, len(xs))
	for i, x := range xs {
		logs[i] = math.Log10(x)
	}
	smoothed := boxcar(logs, window)
	out := make([]float64, len(xs))
	for i, v := range smoothed {
		out[i] = math.Pow(10, v)
	}
	return out
}
