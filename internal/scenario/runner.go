package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/ambia/UTAPWeLS/internal/calc"
	"github.com/ambia/UTAPWeLS/internal/curves"
	"github.com/ambia/UTAPWeLS/internal/export"
	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/noise"
	"github.com/ambia/UTAPWeLS/internal/plot"
	"github.com/ambia/UTAPWeLS/internal/session"
	"github.com/ambia/UTAPWeLS/internal/sim"
)

// Runner executes scenarios against a session. Steps run in order and the
// run stops at the first failing step.
type Runner struct {
	sess   *session.Session
	logger *slog.Logger
}

// NewRunner creates a runner over an open session.
func NewRunner(sess *session.Session) *Runner {
	return &Runner{sess: sess, logger: sess.Logger()}
}

// Result summarizes one scenario run.
type Result struct {
	RunID    string `json:"run_id"`
	Scenario string `json:"scenario"`
	StepsRun int    `json:"steps_run"`
}

// Run executes every step of a scenario. On failure the returned result
// still reports how many steps completed.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.NewString(), Scenario: sc.Name}
	r.logger.Info("scenario started", "scenario", sc.Name, "run_id", res.RunID, "steps", len(sc.Steps))

	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r.logger.Debug("running step", "run_id", res.RunID, "step", i, "kind", st.Kind, "well", st.Well)
		if err := r.runStep(ctx, st); err != nil {
			r.logger.Error("step failed", "run_id", res.RunID, "step", i, "kind", st.Kind, "error", err)
			return res, fmt.Errorf("step %d (%s): %w", i, st.Kind, err)
		}
		res.StepsRun++
	}

	if err := r.sess.Flush(ctx); err != nil {
		return res, fmt.Errorf("failed to flush session: %w", err)
	}

	r.logger.Info("scenario finished", "scenario", sc.Name, "run_id", res.RunID, "steps_run", res.StepsRun)
	return res, nil
}

func (r *Runner) runStep(ctx context.Context, st Step) error {
	if st.Kind == StepCreateWell {
		_, err := r.sess.CreateWell(ctx, st.Well, st.TopMD, st.BottomMD)
		return err
	}

	w, err := r.sess.Well(ctx, st.Well)
	if err != nil {
		return err
	}

	switch st.Kind {
	case StepGenerateLayers:
		return GenerateLayers(w, st.Count, st.Jitter, st.Seed)

	case StepAddBB:
		_, err := w.Earth.AddBB(st.MD)
		return err

	case StepMoveBB:
		return w.Earth.MoveBB(st.Index, st.MD)

	case StepDeleteBB:
		return w.Earth.DeleteBB(st.Index)

	case StepSetProperty:
		if st.Layer == nil {
			return w.Earth.SetPropertyAll(st.Property, st.Value)
		}
		return w.Earth.SetProperty(st.Property, *st.Layer, st.Value)

	case StepSetZoneProperty:
		if st.Layer == nil {
			return fmt.Errorf("layer is required")
		}
		return w.Earth.SetZoneProperty(st.Property, *st.Layer, st.Zone, st.Value)

	case StepSetRockClass:
		if st.Layer == nil {
			return fmt.Errorf("layer is required")
		}
		return w.Earth.SetRockClass(*st.Layer, st.Class)

	case StepSetComposition:
		if st.Layer == nil {
			return fmt.Errorf("layer is required")
		}
		return w.Earth.SetComposition(model.Slot(st.Slot), *st.Layer, componentList(st.Components))

	case StepAddInvasion:
		if st.Layer == nil {
			return fmt.Errorf("layer is required")
		}
		return w.Earth.AddInvasionZone(*st.Layer, st.Radius)

	case StepCalculate:
		return r.calculate(ctx, w, st)

	case StepSimulate:
		return r.simulate(ctx, w, st)

	case StepAddNoise:
		return r.addNoise(w, st)

	case StepComposite:
		return r.composite(w, st)

	case StepExport:
		return r.export(w, st)

	case StepPlot:
		return r.plot(w, st)
	}

	return fmt.Errorf("%w: %q", ErrUnknownStep, st.Kind)
}

// componentList flattens a name-to-fraction map into a deterministic
// component slice.
func componentList(m map[string]float64) []model.Component {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]model.Component, 0, len(names))
	for _, name := range names {
		out = append(out, model.Component{Name: name, Fraction: m[name]})
	}
	return out
}

func (r *Runner) calculate(ctx context.Context, w *model.Well, st Step) error {
	var c calc.Calculator
	switch st.Calculator {
	case "temperature":
		c = calc.DefaultTemperature()
	case "pressure":
		c = calc.DefaultPressure()
	case "water_resistivity":
		c = calc.DefaultWaterResistivity()
	case "archie":
		c = calc.NewArchie()
	default:
		return fmt.Errorf("unknown calculator %q", st.Calculator)
	}
	return c.Calculate(ctx, w)
}

func (r *Runner) simulate(ctx context.Context, w *model.Well, st Step) error {
	cfg := r.sess.Config()
	base := sim.Config{SamplingRate: st.SamplingRate, LogSet: st.Set}
	if base.SamplingRate == 0 {
		base.SamplingRate = cfg.Simulation.SamplingRate
	}

	var s sim.Simulator
	switch st.Simulator {
	case "resistivity":
		tool := st.Tool
		if tool == "" {
			tool = cfg.Simulation.ResistivityTool
		}
		s = &sim.Resistivity{Config: base, Tool: tool, Outputs: st.Outputs}
	case "nuclear":
		tool := st.Tool
		if tool == "" {
			tool = cfg.Simulation.NuclearTool
		}
		s = &sim.Nuclear{Config: base, Tool: tool, Outputs: st.Outputs}
	case "sonic":
		variant := st.Variant
		if variant == "" {
			variant = cfg.Simulation.SonicVariant
		}
		s = &sim.Sonic{Config: base, Variant: variant}
	default:
		return fmt.Errorf("unknown simulator %q", st.Simulator)
	}
	return s.Run(ctx, w)
}

func (r *Runner) addNoise(w *model.Well, st Step) error {
	setName := st.Set
	if setName == "" {
		setName = model.LogSetSimulated
	}
	set, err := w.LogSet(setName)
	if err != nil {
		return err
	}
	seed := st.Seed
	if seed == 0 {
		seed = r.sess.Config().Noise.Seed
	}
	return noise.Apply(set, st.Log, noise.Params{
		Mult: st.Mult,
		Add:  st.Add,
		Bias: st.Bias,
		Seed: seed,
	})
}

// composite overlays a donor log onto a base log from the same set and
// stores the result in the well's composite set under the base name.
// Without a window the donor fills only the base log's gaps; with a
// [top, bottom] window that interval takes the donor's values instead.
func (r *Runner) composite(w *model.Well, st Step) error {
	setName := st.Set
	if setName == "" {
		setName = model.LogSetSimulated
	}
	base, err := w.FindLog(setName, st.Log)
	if err != nil {
		return err
	}
	donor, err := w.FindLog(setName, st.Donor)
	if err != nil {
		return err
	}

	var out *curves.Log
	if st.Top != 0 || st.Bottom != 0 {
		out = base.Clone()
		if err := curves.Splice(out, donor, st.Top, st.Bottom); err != nil {
			return err
		}
	} else {
		out, err = curves.Composite(st.Log, base, donor)
		if err != nil {
			return err
		}
	}
	return w.EnsureLogSet(model.LogSetComposite).Put(out)
}

func (r *Runner) export(w *model.Well, st Step) error {
	setName := st.Set
	if setName == "" {
		setName = model.LogSetSimulated
	}
	set, err := w.LogSet(setName)
	if err != nil {
		return err
	}
	if st.Path == "" {
		return fmt.Errorf("path is required")
	}
	switch st.Format {
	case "arrow", "":
		return export.WriteArrowFile(st.Path, set)
	case "csv":
		return export.WriteCSVFile(st.Path, set)
	}
	return fmt.Errorf("unknown export format %q", st.Format)
}

func (r *Runner) plot(w *model.Well, st Step) error {
	if st.Path == "" {
		return fmt.Errorf("path is required")
	}
	setName := st.Set
	if setName == "" {
		setName = model.LogSetSimulated
	}
	return plot.WriteSVGFile(st.Path, w, setName, st.Logs)
}
