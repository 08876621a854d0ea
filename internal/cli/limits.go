package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/hwc"
)

// limitsOpts holds the command-line flags for the limits command.
type limitsOpts struct {
	display string // display type: panel or hdmi
	src     string // source size WxH to check
	dst     string // destination size WxH to check
	pclk    uint32 // pixel clock in kHz
	tiled   bool   // use 2D decimation limits
}

func (c *CLI) limitsCommand() *cobra.Command {
	opts := limitsOpts{}

	cmd := &cobra.Command{
		Use:   "limits",
		Short: "Show platform limits and check whether a scaling request fits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLimits(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.display, "type", "t", "panel", "display type: panel or hdmi")
	cmd.Flags().StringVar(&opts.src, "src", "", "source size to check, e.g. 1920x1080")
	cmd.Flags().StringVar(&opts.dst, "dst", "", "destination size to check, e.g. 640x360")
	cmd.Flags().Uint32Var(&opts.pclk, "pclk", 0, "pixel clock in kHz (0 = manually updated panel)")
	cmd.Flags().BoolVar(&opts.tiled, "2d", false, "use 2D (tiled) decimation limits")

	return cmd
}

func (c *CLI) runLimits(opts limitsOpts) error {
	var t hwc.DisplayType
	switch strings.ToLower(opts.display) {
	case "panel":
		t = hwc.TypePanel
	case "hdmi":
		t = hwc.TypeHDMI
	default:
		return fmt.Errorf("unknown display type %q", opts.display)
	}
	l := hwc.DefaultLimits(t)

	c.printTitle("%s limits", t)
	c.printKeyValue("overlays", strconv.Itoa(l.MaxOverlays))
	c.printKeyValue("max downscale", strconv.FormatUint(uint64(l.MaxDownscale), 10))
	c.printKeyValue("decimation 1D (x, y)", fmt.Sprintf("%d, %d", l.MaxXDecim1D, l.MaxYDecim1D))
	c.printKeyValue("decimation 2D (x, y)", fmt.Sprintf("%d, %d", l.MaxXDecim2D, l.MaxYDecim2D))
	c.printKeyValue("functional clock", fmt.Sprintf("%d kHz", l.FClock))
	c.printKeyValue("integer scale ratio limit", strconv.FormatUint(uint64(l.IntegerScaleRatioLimit), 10))
	c.printKeyValue("min size", fmt.Sprintf("%dx%d", l.MinWidth, l.MinHeight))
	c.printKeyValue("max size", fmt.Sprintf("%dx%d", l.MaxWidth, l.MaxHeight))
	c.printKeyValue("memory slot", fmt.Sprintf("%d bytes", l.MemorySlot))

	if opts.src == "" && opts.dst == "" {
		return nil
	}
	sw, sh, err := parseSize(opts.src)
	if err != nil {
		return fmt.Errorf("--src: %w", err)
	}
	dw, dh, err := parseSize(opts.dst)
	if err != nil {
		return fmt.Errorf("--dst: %w", err)
	}

	if hwc.CanScale(sw, sh, dw, dh, opts.tiled, l, opts.pclk) {
		c.printSuccess("%dx%d %s %dx%d can be scaled", sw, sh, iconArrow, dw, dh)
	} else {
		c.printError("%dx%d %s %dx%d exceeds the scaler", sw, sh, iconArrow, dw, dh)
	}
	return nil
}

func parseSize(s string) (w, h uint32, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q is not WxH", s)
	}
	wv, err := strconv.ParseUint(ws, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	hv, err := strconv.ParseUint(hs, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	return uint32(wv), uint32(hv), nil
}
