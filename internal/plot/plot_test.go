package plot

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/ambia/UTAPWeLS/internal/curves"
	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/units"
)

func plotWell(t *testing.T) *model.Well {
	t.Helper()

	w, err := model.NewWell("plotted", 1000, 1010)
	if err != nil {
		t.Fatalf("NewWell: %v", err)
	}
	set := w.EnsureLogSet(model.LogSetSimulated)
	logs := []*curves.Log{
		{
			Name:   "RD",
			Unit:   units.OhmMeter,
			Depths: []float64{1000, 1005, 1010},
			Values: []float64{100, 10, 1},
		},
		{
			Name:   "RHOB",
			Unit:   units.GramPerCC,
			Depths: []float64{1000, 1005, 1010},
			Values: []float64{2.4, 2.5, 2.6},
		},
	}
	for _, l := range logs {
		if err := set.Add(l); err != nil {
			t.Fatalf("Add %s: %v", l.Name, err)
		}
	}
	return w
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSVG(&buf, plotWell(t), model.LogSetSimulated, nil); err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}

	svg := buf.String()
	if !strings.HasPrefix(svg, "<svg") {
		t.Errorf("output does not start with <svg: %.40q", svg)
	}
	for _, want := range []string{"RD (ohm.m)", "RHOB (g/cm3)", "<polyline", "plotted / Simulated"} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if got := strings.Count(svg, "<polyline"); got != 2 {
		t.Errorf("got %d polylines, want 2", got)
	}
}

func TestRenderSVG_SelectedLogs(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSVG(&buf, plotWell(t), model.LogSetSimulated, []string{"RHOB"}); err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	svg := buf.String()
	if strings.Contains(svg, "RD (ohm.m)") {
		t.Error("SVG contains unselected log RD")
	}
	if !strings.Contains(svg, "RHOB") {
		t.Error("SVG missing selected log RHOB")
	}
}

func TestRenderSVG_Errors(t *testing.T) {
	w := plotWell(t)
	var buf bytes.Buffer

	if err := RenderSVG(&buf, w, "nope", nil); err == nil {
		t.Error("expected error for missing log set")
	}
	if err := RenderSVG(&buf, w, model.LogSetSimulated, []string{"GR"}); err == nil {
		t.Error("expected error for missing log")
	}
}

func TestBuildTrack_LogScale(t *testing.T) {
	tr, err := buildTrack(&curves.Log{
		Name:   "RD",
		Unit:   units.OhmMeter,
		Depths: []float64{0, 1},
		Values: []float64{3, 700},
	})
	if err != nil {
		t.Fatalf("buildTrack: %v", err)
	}
	if !tr.LogScale {
		t.Error("resistivity track should use log scale")
	}
	if tr.Min != 1 || tr.Max != 1000 {
		t.Errorf("bounds = [%v, %v], want [1, 1000] (decade padding)", tr.Min, tr.Max)
	}

	// Midpoint of a 3-decade axis lands at 10^1.5
	x, ok := tr.x(math.Pow(10, 1.5))
	if !ok {
		t.Fatal("x not plottable")
	}
	if diff := x - trackWidth/2; diff > 1 || diff < -1 {
		t.Errorf("x(10^1.5) = %v, want ~%v", x, trackWidth/2)
	}
}

func TestBuildTrack_NoPlottableSamples(t *testing.T) {
	_, err := buildTrack(&curves.Log{
		Name:   "RD",
		Unit:   units.OhmMeter,
		Depths: []float64{0},
		Values: []float64{-5},
	})
	if err == nil {
		t.Error("expected error for non-positive resistivity samples")
	}
}
