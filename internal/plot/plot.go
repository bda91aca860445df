// Package plot renders multi-track depth plots of well logs as SVG and
// serves them over a localhost viewer.
package plot

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/ambia/UTAPWeLS/internal/curves"
	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/units"
)

// Track layout constants, in SVG user units.
const (
	trackWidth   = 180
	trackGap     = 20
	trackHeight  = 600
	marginTop    = 50
	marginBottom = 30
	marginLeft   = 70
	gridLines    = 10
)

// trackColors cycles through the curve stroke colors, one per track.
var trackColors = []string{"steelblue", "tomato", "mediumseagreen", "goldenrod", "mediumpurple", "sienna"}

// Track is one plotted curve with its axis scaling.
type Track struct {
	Log      *curves.Log
	LogScale bool
	Min, Max float64
}

// logScaleUnits holds the units plotted on a logarithmic value axis.
var logScaleUnits = map[units.Unit]bool{
	units.OhmMeter: true,
}

// buildTrack computes axis bounds for a log. Resistivity curves get a
// log10 axis padded to decades; linear axes get 5% headroom.
func buildTrack(l *curves.Log) (Track, error) {
	if len(l.Values) == 0 {
		return Track{}, fmt.Errorf("log %q has no samples", l.Name)
	}

	t := Track{Log: l, LogScale: logScaleUnits[l.Unit]}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range l.Values {
		if math.IsNaN(v) {
			continue
		}
		if t.LogScale && v <= 0 {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return Track{}, fmt.Errorf("log %q has no plottable samples", l.Name)
	}

	if t.LogScale {
		t.Min = math.Pow(10, math.Floor(math.Log10(lo)))
		t.Max = math.Pow(10, math.Ceil(math.Log10(hi)))
		if t.Min == t.Max {
			t.Max *= 10
		}
	} else {
		pad := 0.05 * (hi - lo)
		if pad == 0 {
			pad = math.Max(0.5, 0.05*math.Abs(hi))
		}
		t.Min = lo - pad
		t.Max = hi + pad
	}
	return t, nil
}

// x maps a curve value to a horizontal offset within the track.
func (t Track) x(v float64) (float64, bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	var frac float64
	if t.LogScale {
		if v <= 0 {
			return 0, false
		}
		frac = (math.Log10(v) - math.Log10(t.Min)) / (math.Log10(t.Max) - math.Log10(t.Min))
	} else {
		frac = (v - t.Min) / (t.Max - t.Min)
	}
	return frac * trackWidth, true
}

// RenderSVG renders the named logs of a well's log set as side-by-side
// depth tracks. An empty logNames plots every log in the set.
func RenderSVG(w io.Writer, well *model.Well, setName string, logNames []string) error {
	set, err := well.LogSet(setName)
	if err != nil {
		return err
	}
	if len(logNames) == 0 {
		logNames = set.Names()
	}
	if len(logNames) == 0 {
		return fmt.Errorf("log set %q is empty", setName)
	}

	tracks := make([]Track, 0, len(logNames))
	top, bottom := math.Inf(1), math.Inf(-1)
	for _, name := range logNames {
		l, err := set.Get(name)
		if err != nil {
			return err
		}
		t, err := buildTrack(l)
		if err != nil {
			return err
		}
		tracks = append(tracks, t)
		top = math.Min(top, l.Depths[0])
		bottom = math.Max(bottom, l.Depths[len(l.Depths)-1])
	}

	width := marginLeft + len(tracks)*(trackWidth+trackGap)
	height := marginTop + trackHeight + marginBottom

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" font-family="Helvetica" font-size="11">%s`, width, height, "\n")
	fmt.Fprintf(&b, "  <rect width=\"%d\" height=\"%d\" fill=\"white\"/>\n", width, height)
	fmt.Fprintf(&b, "  <text x=\"%d\" y=\"20\" font-size=\"14\">%s / %s</text>\n", marginLeft, escape(well.Name), escape(setName))

	// Depth axis with grid lines across all tracks
	for i := 0; i <= gridLines; i++ {
		frac := float64(i) / gridLines
		y := marginTop + frac*trackHeight
		md := top + frac*(bottom-top)
		fmt.Fprintf(&b, "  <line x1=\"%d\" y1=\"%.1f\" x2=\"%d\" y2=\"%.1f\" stroke=\"lightgray\"/>\n",
			marginLeft, y, width-trackGap, y)
		fmt.Fprintf(&b, "  <text x=\"%d\" y=\"%.1f\" text-anchor=\"end\">%.1f</text>\n",
			marginLeft-6, y+4, md)
	}

	depthY := func(md float64) float64 {
		return marginTop + (md-top)/(bottom-top)*trackHeight
	}

	for ti, t := range tracks {
		x0 := marginLeft + ti*(trackWidth+trackGap)
		color := trackColors[ti%len(trackColors)]

		fmt.Fprintf(&b, "  <rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"none\" stroke=\"gray\"/>\n",
			x0, marginTop, trackWidth, trackHeight)

		label := t.Log.Name
		if t.Log.Unit != units.None {
			label += " (" + string(t.Log.Unit) + ")"
		}
		fmt.Fprintf(&b, "  <text x=\"%d\" y=\"%d\" fill=\"%s\">%s</text>\n",
			x0, marginTop-8, color, escape(label))

		var points []string
		for i, md := range t.Log.Depths {
			dx, ok := t.x(t.Log.Values[i])
			if !ok {
				continue
			}
			points = append(points, fmt.Sprintf("%.1f,%.1f", float64(x0)+dx, depthY(md)))
		}
		fmt.Fprintf(&b, "  <polyline points=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\"/>\n",
			strings.Join(points, " "), color)
	}

	b.WriteString("</svg>\n")
	_, err = io.WriteString(w, b.String())
	return err
}

// WriteSVGFile renders a plot to an SVG file on disk.
func WriteSVGFile(path string, well *model.Well, setName string, logNames []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := RenderSVG(f, well, setName, logNames); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// escape replaces the characters SVG text content cannot carry verbatim.
func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
