package scenario

import (
	"fmt"

	"github.com/gogpu/hwc"
)

// Options returns the compositor options the scenario configures.
func (s *Scenario) Options() []hwc.Option {
	opts := []hwc.Option{
		hwc.WithPolicy(hwc.Policy{
			ForceRenderer: s.Policy.ForceRenderer,
			NV12Only:      s.Policy.NV12Only,
			RGBOrder:      s.Policy.RGBOrder,
		}),
	}
	if f, err := s.framebufferFormat(); err == nil {
		opts = append(opts, hwc.WithFramebufferFormat(f.TextureFormat()))
	}
	if len(s.Surface) == 2 {
		opts = append(opts, hwc.WithSurface(s.Surface[0], s.Surface[1]))
	}
	if m := s.Mirror; m != nil {
		p, _ := quarterTurn(m.Portrait)
		l, _ := quarterTurn(m.Landscape)
		opts = append(opts, hwc.WithMirrorPolicy(hwc.MirrorPolicy{
			Portrait:  hwc.Orientation{Rotation: p, HFlip: m.PortraitFlip},
			Landscape: hwc.Orientation{Rotation: l, HFlip: m.LandscapeFlip},
		}))
	}
	for _, e := range s.Limits {
		t, _ := displayType(e.Type)
		opts = append(opts, hwc.WithLimits(t, e.apply(hwc.DefaultLimits(t))))
	}
	return opts
}

func (e LimitsEntry) apply(l hwc.PlatformLimits) hwc.PlatformLimits {
	set := func(dst *uint32, v uint32) {
		if v != 0 {
			*dst = v
		}
	}
	set(&l.MaxXDecim1D, e.MaxXDecim1D)
	set(&l.MaxYDecim1D, e.MaxYDecim1D)
	set(&l.MaxXDecim2D, e.MaxXDecim2D)
	set(&l.MaxYDecim2D, e.MaxYDecim2D)
	set(&l.MaxDownscale, e.MaxDownscale)
	set(&l.FClock, e.FClock)
	set(&l.IntegerScaleRatioLimit, e.IntegerScaleRatioLimit)
	set(&l.MinWidth, e.MinWidth)
	set(&l.MinHeight, e.MinHeight)
	set(&l.MaxWidth, e.MaxWidth)
	set(&l.MaxHeight, e.MaxHeight)
	if e.MaxOverlays != 0 {
		l.MaxOverlays = e.MaxOverlays
	}
	if e.MemorySlot != 0 {
		l.MemorySlot = e.MemorySlot
	}
	return l
}

// Build creates a compositor with the scenario's displays connected.
func (s *Scenario) Build(target hwc.PlaneTarget) (*hwc.Compositor, error) {
	var primary *DisplaySpec
	for i := range s.Displays {
		if s.Displays[i].Index == hwc.PrimaryIndex {
			primary = &s.Displays[i]
		}
	}
	if primary == nil {
		return nil, fmt.Errorf("%w: no primary display", ErrInvalid)
	}

	c, err := hwc.New(target, primary.config(), s.Options()...)
	if err != nil {
		return nil, err
	}
	for i := range s.Displays {
		d := &s.Displays[i]
		if d.Index != hwc.PrimaryIndex {
			if err := connect(c, d); err != nil {
				return nil, err
			}
		}
		if d.Blank {
			if err := c.SetBlank(d.Index, true); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func connect(c *hwc.Compositor, d *DisplaySpec) error {
	t, _ := displayType(d.Type)
	if err := c.AddDisplay(d.Index, t, d.config()); err != nil {
		return err
	}
	if d.Mode != "" {
		m, _ := mode(d.Mode)
		if err := c.SetMode(d.Index, m); err != nil {
			return err
		}
	}
	if d.MirrorRegion != nil {
		r, _ := rect(d.MirrorRegion)
		if err := c.SetMirrorRegion(d.Index, r); err != nil {
			return err
		}
	}
	return nil
}

func (d *DisplaySpec) config() hwc.DisplayConfig {
	return hwc.DisplayConfig{
		Width:      d.Width,
		Height:     d.Height,
		RefreshHz:  d.RefreshHz,
		PixelClock: d.PixelClock,
		WidthMM:    d.WidthMM,
		HeightMM:   d.HeightMM,
	}
}

// Apply performs the frame's events on c.
func (f *FrameSpec) Apply(c *hwc.Compositor) error {
	for _, e := range f.Events {
		var err error
		switch e.Op {
		case "blank":
			err = c.SetBlank(e.Display, true)
		case "unblank":
			err = c.SetBlank(e.Display, false)
		case "mode":
			m, _ := mode(e.Mode)
			err = c.SetMode(e.Display, m)
		case "surface":
			err = c.SetSurface(e.Size[0], e.Size[1])
		case "mirror":
			r, _ := rect(e.Region)
			err = c.SetMirrorRegion(e.Display, r)
		case "connect":
			err = connect(c, e.Connect)
		case "disconnect":
			err = c.RemoveDisplay(e.Display)
		}
		if err != nil {
			return fmt.Errorf("event %q: %w", e.Op, err)
		}
	}
	return nil
}

// Frame converts the frame's layer lists to planner input.
func (f *FrameSpec) Frame() (hwc.Frame, error) {
	frame := make(hwc.Frame, 0, len(f.Displays))
	for _, df := range f.Displays {
		layers := make([]hwc.Layer, 0, len(df.Layers))
		for i := range df.Layers {
			l, err := df.Layers[i].Layer()
			if err != nil {
				return nil, fmt.Errorf("display %d: layer %d: %w", df.Index, i, err)
			}
			layers = append(layers, l)
		}
		frame = append(frame, hwc.DisplayFrame{Display: df.Index, Layers: layers})
	}
	return frame, nil
}
