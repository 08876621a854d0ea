package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gogpu/hwc"
	"github.com/gogpu/hwc/internal/scenario"
)

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	frames int // number of frames to plan, 0 for all
}

func (c *CLI) planCommand() *cobra.Command {
	opts := planOpts{}

	cmd := &cobra.Command{
		Use:   "plan <scenario.toml>",
		Short: "Print the overlay plan of every frame of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 0, "number of frames to plan (0 = all)")

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, path string, opts planOpts) error {
	s, err := scenario.Load(path)
	if err != nil {
		return err
	}
	prog := newProgress(c.Logger)

	n, err := c.play(ctx, s, opts.frames, func(i int, comp *hwc.Compositor) error {
		c.printTitle("Frame %d", i)
		for idx := range hwc.MaxDisplays {
			d, err := comp.Display(idx)
			if err != nil {
				continue
			}
			c.printDisplay(d)
		}
		st := comp.State()
		p, e := st.Held()
		c.printInfo("held overlays: primary %d, external %d", p, e)
		return nil
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Planned %d frames of %s", n, path))
	return nil
}

// play builds the scenario's compositor and plans up to limit frames,
// calling fn after each one is committed. It returns the number of
// frames planned.
func (c *CLI) play(ctx context.Context, s *scenario.Scenario, limit int, fn func(int, *hwc.Compositor) error) (int, error) {
	comp, err := s.Build(c.commitLogger())
	if err != nil {
		return 0, err
	}

	frames := s.Frames
	if limit > 0 && limit < len(frames) {
		frames = frames[:limit]
	}
	for i := range frames {
		f := &frames[i]
		if err := f.Apply(comp); err != nil {
			return i, fmt.Errorf("frame %d: %w", i, err)
		}
		frame, err := f.Frame()
		if err != nil {
			return i, fmt.Errorf("frame %d: %w", i, err)
		}
		if err := comp.Prepare(frame); err != nil {
			return i, fmt.Errorf("frame %d: %w", i, err)
		}
		if err := comp.Set(ctx); err != nil {
			return i, err
		}
		if err := fn(i, comp); err != nil {
			return i, err
		}
	}
	return len(frames), nil
}

// commitLogger returns a plane target that logs each commit.
func (c *CLI) commitLogger() hwc.PlaneTarget {
	return hwc.PlaneTargetFunc(func(_ context.Context, display int, comp *hwc.Composition) error {
		c.Logger.Debug("commit", "display", display, "planes", len(comp.Committed()),
			"renderer", comp.UseRenderer, "swap_rb", comp.SwapRB)
		return nil
	})
}

func (c *CLI) printDisplay(d hwc.Display) {
	comp := d.Composition
	who := styleOverlay.Render("overlays only")
	if comp.UseRenderer {
		who = styleRenderer.Render("renderer + overlays")
	}
	fmt.Fprintf(c.out, "  display %d %s %s %dx%d  %s  used %d / available %d / wanted %d\n",
		d.Index, d.Type, d.Mode, d.Config.Width, d.Config.Height, who,
		comp.Used, comp.Available, comp.Wanted)
	if d.Blanked {
		c.printWarning("display %d is blanked", d.Index)
	}

	planes := comp.Planes()
	if len(planes) == 0 {
		return
	}
	rows := make([][]string, 0, len(planes))
	for _, p := range planes {
		layer := strconv.Itoa(p.Layer)
		if p.Layer == hwc.RendererLayer {
			layer = "fb"
		}
		rows = append(rows, []string{
			strconv.Itoa(p.Plane),
			strconv.Itoa(p.Z),
			layer,
			p.Format.String(),
			p.Orientation.String(),
			formatRect(p.Crop),
			formatRect(p.Window),
		})
	}
	printTable(c.out, []string{"Plane", "Z", "Layer", "Format", "Orient", "Crop", "Window"}, rows)
}

func formatRect(r hwc.Rect) string {
	return fmt.Sprintf("%g,%g %gx%g", r.X, r.Y, r.W, r.H)
}
