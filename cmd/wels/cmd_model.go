package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/scenario"
	"github.com/ambia/UTAPWeLS/internal/session"
)

func newModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Edit a well's layered earth model",
	}

	cmd.AddCommand(
		newModelAddBBCmd(),
		newModelMoveBBCmd(),
		newModelDeleteBBCmd(),
		newModelGenerateLayersCmd(),
		newModelSetPropCmd(),
		newModelSetClassCmd(),
		newModelSetCompCmd(),
		newModelAddInvasionCmd(),
	)

	return cmd
}

// withWell opens the session, loads the named well, applies fn and flushes
// the result back to the store.
func withWell(cmd *cobra.Command, well string, fn func(sess *session.Session, w *model.Well) error) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	w, err := sess.Well(context.Background(), well)
	if err != nil {
		return err
	}
	if err := fn(sess, w); err != nil {
		return err
	}
	return sess.SaveWell(context.Background(), well)
}

func newModelAddBBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-bb <well>",
		Short: "Insert a bed boundary at a measured depth",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, _ := cmd.Flags().GetFloat64("md")
			return withWell(cmd, args[0], func(sess *session.Session, w *model.Well) error {
				idx, err := w.Earth.AddBB(md)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added boundary %d at %.4g m (%d layers)\n", idx, md, w.Earth.NumLayers())
				return nil
			})
		},
	}

	cmd.Flags().Float64("md", 0, "Measured depth of the new boundary (m)")
	cmd.MarkFlagRequired("md")

	return cmd
}

func newModelMoveBBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move-bb <well>",
		Short: "Move a bed boundary to a new measured depth",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, _ := cmd.Flags().GetInt("index")
			md, _ := cmd.Flags().GetFloat64("md")
			return withWell(cmd, args[0], func(sess *session.Session, w *model.Well) error {
				if err := w.Earth.MoveBB(index, md); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved boundary %d to %.4g m\n", index, md)
				return nil
			})
		},
	}

	cmd.Flags().Int("index", 0, "Boundary index")
	cmd.Flags().Float64("md", 0, "New measured depth (m)")
	cmd.MarkFlagRequired("md")

	return cmd
}

func newModelDeleteBBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-bb <well>",
		Short: "Delete a bed boundary, merging the adjacent layers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, _ := cmd.Flags().GetInt("index")
			return withWell(cmd, args[0], func(sess *session.Session, w *model.Well) error {
				if err := w.Earth.DeleteBB(index); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted boundary %d (%d layers)\n", index, w.Earth.NumLayers())
				return nil
			})
		},
	}

	cmd.Flags().Int("index", 0, "Boundary index")

	return cmd
}

func newModelGenerateLayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-layers <well>",
		Short: "Divide the modeled interval into jittered layers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			jitter, _ := cmd.Flags().GetFloat64("jitter")
			seed, _ := cmd.Flags().GetUint64("seed")
			return withWell(cmd, args[0], func(sess *session.Session, w *model.Well) error {
				if err := scenario.GenerateLayers(w, count, jitter, seed); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Generated %d layers\n", w.Earth.NumLayers())
				return nil
			})
		},
	}

	cmd.Flags().Int("count", 10, "Number of layers to generate")
	cmd.Flags().Float64("jitter", 0.3, "Thickness jitter as a fraction of the mean")
	cmd.Flags().Uint64("seed", 0, "Random seed for reproducible layering")

	return cmd
}

func newModelSetPropCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-prop <well>",
		Short: "Set a property on one layer, one zone, or every layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prop, _ := cmd.Flags().GetString("property")
			value, _ := cmd.Flags().GetFloat64("value")
			layer, _ := cmd.Flags().GetInt("layer")
			zone, _ := cmd.Flags().GetInt("zone")
			layerSet := cmd.Flags().Changed("layer")
			zoneSet := cmd.Flags().Changed("zone")

			return withWell(cmd, args[0], func(sess *session.Session, w *model.Well) error {
				switch {
				case zoneSet:
					if !layerSet {
						return fmt.Errorf("--zone requires --layer")
					}
					return w.Earth.SetZoneProperty(prop, layer, zone, value)
				case layerSet:
					return w.Earth.SetProperty(prop, layer, value)
				default:
					return w.Earth.SetPropertyAll(prop, value)
				}
			})
		},
	}

	cmd.Flags().String("property", "", "Property name (e.g. 'Porosity, Total')")
	cmd.Flags().Float64("value", 0, "Property value in the canonical unit")
	cmd.Flags().Int("layer", 0, "Layer index (omit to set every layer)")
	cmd.Flags().Int("zone", 0, "Radial zone index within the layer")
	cmd.MarkFlagRequired("property")
	cmd.MarkFlagRequired("value")

	return cmd
}

func newModelSetClassCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-class <well>",
		Short: "Assign a rock classification to a layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layer, _ := cmd.Flags().GetInt("layer")
			class, _ := cmd.Flags().GetString("class")
			return withWell(cmd, args[0], func(sess *session.Session, w *model.Well) error {
				return w.Earth.SetRockClass(layer, class)
			})
		},
	}

	cmd.Flags().Int("layer", 0, "Layer index")
	cmd.Flags().String("class", "", "Rock classification name (e.g. sandstone)")
	cmd.MarkFlagRequired("class")

	return cmd
}

func newModelSetCompCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-comp <well> <component=fraction>...",
		Short: "Set a layer's matrix, shale or fluid composition",
		Long: `Set the volume-fraction composition of one slot of a layer.

Components are given as name=fraction pairs and must sum to 1.

Example:
  wels model set-comp well-1 --layer 0 --slot matrix quartz=0.8 illite=0.2`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			layer, _ := cmd.Flags().GetInt("layer")
			slot, _ := cmd.Flags().GetString("slot")

			comps, err := parseComponents(args[1:])
			if err != nil {
				return err
			}
			return withWell(cmd, args[0], func(sess *session.Session, w *model.Well) error {
				return w.Earth.SetComposition(model.Slot(slot), layer, comps)
			})
		},
	}

	cmd.Flags().Int("layer", 0, "Layer index")
	cmd.Flags().String("slot", "matrix", "Composition slot: matrix, shale or fluid")

	return cmd
}

// parseComponents parses name=fraction arguments into a deterministic
// component slice.
func parseComponents(args []string) ([]model.Component, error) {
	byName := make(map[string]float64, len(args))
	for _, arg := range args {
		name, frac, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid component %q (want name=fraction)", arg)
		}
		v, err := strconv.ParseFloat(frac, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fraction in %q: %w", arg, err)
		}
		byName[name] = v
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]model.Component, 0, len(names))
	for _, name := range names {
		out = append(out, model.Component{Name: name, Fraction: byName[name]})
	}
	return out, nil
}

func newModelAddInvasionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-invasion <well>",
		Short: "Add a mud-filtrate invasion front to a layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layer, _ := cmd.Flags().GetInt("layer")
			radius, _ := cmd.Flags().GetFloat64("radius")
			return withWell(cmd, args[0], func(sess *session.Session, w *model.Well) error {
				return w.Earth.AddInvasionZone(layer, radius)
			})
		},
	}

	cmd.Flags().Int("layer", 0, "Layer index")
	cmd.Flags().Float64("radius", 0.3, "Invasion front radius (m)")

	return cmd
}
