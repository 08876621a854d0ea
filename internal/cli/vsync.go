package cli

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/hwc"
	"github.com/gogpu/hwc/internal/scenario"
)

const defaultVsyncHz = 60

// vsyncOpts holds the command-line flags for the vsync command.
type vsyncOpts struct {
	hz       float64 // 0 takes the rate from the scenario
	display  int
	duration time.Duration
}

func (c *CLI) vsyncCommand() *cobra.Command {
	opts := vsyncOpts{}

	cmd := &cobra.Command{
		Use:   "vsync [scenario.toml]",
		Short: "Run the software vsync generator on a scenario display (a synthetic panel without one)",
		Long: `Run the software vsync generator and count delivered events.

With a scenario the displays are built from it and the rate defaults to the
scenario's vsync_hz, then to the display's refresh_hz. Without one a
synthetic primary panel is used at 60 Hz.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runVsync(cmd.Context(), path, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.hz, "hz", 0, "refresh rate (default from the scenario, else 60)")
	cmd.Flags().IntVar(&opts.display, "display", hwc.PrimaryIndex, "display index to tick")
	cmd.Flags().DurationVarP(&opts.duration, "duration", "d", time.Second, "how long to run")

	return cmd
}

func (c *CLI) runVsync(ctx context.Context, path string, opts vsyncOpts) error {
	if opts.hz < 0 {
		return fmt.Errorf("refresh rate %g must be positive", opts.hz)
	}
	comp, hz, err := c.vsyncCompositor(path, opts)
	if err != nil {
		return err
	}
	if hz <= 0 {
		return fmt.Errorf("refresh rate %g must be positive", hz)
	}

	var count atomic.Int64
	var last atomic.Int64
	comp.RegisterVsync(hwc.VsyncFunc(func(display int, ts time.Time) {
		count.Add(1)
		last.Store(ts.UnixNano())
		c.Logger.Debug("vsync", "display", display, "ts", ts.Format("15:04:05.000"))
	}))

	ctx, cancel := context.WithTimeout(ctx, opts.duration)
	defer cancel()
	period := time.Duration(float64(time.Second) / hz)
	err = comp.RunVsync(ctx, opts.display, period)
	if !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	c.printSuccess("Delivered %d vsync events for display %d at %g Hz in %s",
		count.Load(), opts.display, hz, opts.duration)
	if n := last.Load(); n != 0 {
		c.printInfo("last event at %s", time.Unix(0, n).Format("15:04:05.000"))
	}
	return nil
}

// vsyncCompositor returns the compositor to tick and the rate to tick it
// at. An explicit --hz wins over anything the scenario says.
func (c *CLI) vsyncCompositor(path string, opts vsyncOpts) (*hwc.Compositor, float64, error) {
	if path == "" {
		if opts.display != hwc.PrimaryIndex {
			return nil, 0, fmt.Errorf("display %d: %w", opts.display, hwc.ErrNoDevice)
		}
		hz := opts.hz
		if hz == 0 {
			hz = defaultVsyncHz
		}
		comp, err := hwc.New(nil, hwc.DisplayConfig{Width: 1, Height: 1, RefreshHz: hz})
		return comp, hz, err
	}

	s, err := scenario.Load(path)
	if err != nil {
		return nil, 0, err
	}
	comp, err := s.Build(nil)
	if err != nil {
		return nil, 0, err
	}
	d, err := comp.Display(opts.display)
	if err != nil {
		return nil, 0, err
	}

	hz := opts.hz
	if hz == 0 {
		hz = s.VsyncHz
	}
	if hz == 0 {
		hz = d.Config.RefreshHz
	}
	if hz == 0 {
		hz = defaultVsyncHz
	}
	return comp, hz, nil
}
