// Package scenario loads compositor scenarios from TOML files.
//
// A scenario describes the connected displays, optional platform limit
// overrides and policy, and a sequence of frames. Each frame lists the
// layers of every display and may carry display events (blanking, mode
// changes, hotplug) that are applied before the frame is planned.
//
//	[policy]
//	rgb_order = true
//
//	[[display]]
//	index = 0
//	type = "panel"
//	width = 1024
//	height = 768
//
//	[[frame]]
//	  [[frame.display]]
//	  index = 0
//	    [[frame.display.layer]]
//	    handle = 1
//	    format = "NV12"
//	    size = [1280, 720]
//	    window = [0, 0, 1024, 576]
package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/hwc"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("scenario: invalid")

// Scenario is a decoded scenario file.
type Scenario struct {
	Name        string        `toml:"name"`
	Framebuffer string        `toml:"framebuffer_format"`
	Surface     []int         `toml:"surface"`
	Policy      Policy        `toml:"policy"`
	Mirror      *Mirror       `toml:"mirror"`
	Limits      []LimitsEntry `toml:"limits"`
	Displays    []DisplaySpec `toml:"display"`
	Frames      []FrameSpec   `toml:"frame"`
	VsyncHz     float64       `toml:"vsync_hz"`
}

// Policy mirrors hwc.Policy.
type Policy struct {
	ForceRenderer bool `toml:"force_renderer"`
	NV12Only      bool `toml:"nv12_only"`
	RGBOrder      bool `toml:"rgb_order"`
}

// Mirror sets the mirror orientation for portrait and landscape regions.
type Mirror struct {
	Portrait      int  `toml:"portrait"`
	PortraitFlip  bool `toml:"portrait_flip"`
	Landscape     int  `toml:"landscape"`
	LandscapeFlip bool `toml:"landscape_flip"`
}

// LimitsEntry overrides platform limits for one display type. Zero fields
// keep the default.
type LimitsEntry struct {
	Type                   string `toml:"type"`
	MaxOverlays            int    `toml:"max_overlays"`
	MaxDownscale           uint32 `toml:"max_downscale"`
	MaxXDecim1D            uint32 `toml:"max_x_decim_1d"`
	MaxYDecim1D            uint32 `toml:"max_y_decim_1d"`
	MaxXDecim2D            uint32 `toml:"max_x_decim_2d"`
	MaxYDecim2D            uint32 `toml:"max_y_decim_2d"`
	FClock                 uint32 `toml:"fclk"`
	IntegerScaleRatioLimit uint32 `toml:"integer_scale_ratio_limit"`
	MinWidth               uint32 `toml:"min_width"`
	MinHeight              uint32 `toml:"min_height"`
	MaxWidth               uint32 `toml:"max_width"`
	MaxHeight              uint32 `toml:"max_height"`
	MemorySlot             int64  `toml:"memory_slot"`
}

// DisplaySpec is a display connected when the scenario starts.
type DisplaySpec struct {
	Index        int       `toml:"index"`
	Type         string    `toml:"type"`
	Width        int       `toml:"width"`
	Height       int       `toml:"height"`
	RefreshHz    float64   `toml:"refresh_hz"`
	PixelClock   uint32    `toml:"pixel_clock"`
	WidthMM      int       `toml:"width_mm"`
	HeightMM     int       `toml:"height_mm"`
	Mode         string    `toml:"mode"`
	Blank        bool      `toml:"blank"`
	MirrorRegion []float64 `toml:"mirror_region"`
}

// FrameSpec is one planned frame.
type FrameSpec struct {
	Events   []Event        `toml:"event"`
	Displays []DisplayFrame `toml:"display"`
}

// Event changes display state before a frame is planned.
type Event struct {
	// Op is one of blank, unblank, mode, surface, mirror, connect and
	// disconnect.
	Op      string       `toml:"op"`
	Display int          `toml:"display"`
	Mode    string       `toml:"mode"`
	Size    []int        `toml:"size"`
	Region  []float64    `toml:"region"`
	Connect *DisplaySpec `toml:"connect"`
}

// DisplayFrame is one display's layer list in a frame.
type DisplayFrame struct {
	Index  int         `toml:"index"`
	Layers []LayerSpec `toml:"layer"`
}

// LayerSpec describes a layer. Crop defaults to the whole buffer and
// window defaults to the crop placed at the origin.
type LayerSpec struct {
	Handle            uint64    `toml:"handle"`
	Format            string    `toml:"format"`
	Size              []int     `toml:"size"`
	Stride            int       `toml:"stride"`
	Crop              []float64 `toml:"crop"`
	Window            []float64 `toml:"window"`
	Rotation          int       `toml:"rotation"`
	HFlip             bool      `toml:"hflip"`
	Blended           bool      `toml:"blended"`
	Protected         bool      `toml:"protected"`
	Skip              bool      `toml:"skip"`
	FramebufferTarget bool      `toml:"framebuffer_target"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads and validates a scenario. Unknown keys are rejected.
func Decode(r io.Reader) (*Scenario, error) {
	var s Scenario
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if _, err := s.framebufferFormat(); err != nil {
		return err
	}
	if s.Surface != nil && len(s.Surface) != 2 {
		return fmt.Errorf("%w: surface needs [width, height]", ErrInvalid)
	}
	if s.Mirror != nil {
		for _, deg := range []int{s.Mirror.Portrait, s.Mirror.Landscape} {
			if _, err := quarterTurn(deg); err != nil {
				return fmt.Errorf("mirror: %w", err)
			}
		}
	}
	for i, l := range s.Limits {
		if _, err := displayType(l.Type); err != nil {
			return fmt.Errorf("limits %d: %w", i, err)
		}
	}

	primary := false
	for i := range s.Displays {
		d := &s.Displays[i]
		if err := d.validate(); err != nil {
			return fmt.Errorf("display %d: %w", d.Index, err)
		}
		primary = primary || d.Index == hwc.PrimaryIndex
	}
	if !primary {
		return fmt.Errorf("%w: no primary display (index %d)", ErrInvalid, hwc.PrimaryIndex)
	}

	for fi, f := range s.Frames {
		for _, ev := range f.Events {
			if err := ev.validate(); err != nil {
				return fmt.Errorf("frame %d: event %q: %w", fi, ev.Op, err)
			}
		}
		for _, df := range f.Displays {
			for li := range df.Layers {
				if _, err := df.Layers[li].Layer(); err != nil {
					return fmt.Errorf("frame %d: display %d: layer %d: %w", fi, df.Index, li, err)
				}
			}
		}
	}
	return nil
}

func (d *DisplaySpec) validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, d.Width, d.Height)
	}
	if _, err := displayType(d.Type); err != nil {
		return err
	}
	if d.Mode != "" {
		if _, err := mode(d.Mode); err != nil {
			return err
		}
	}
	if d.MirrorRegion != nil {
		if _, err := rect(d.MirrorRegion); err != nil {
			return err
		}
	}
	return nil
}

func (e *Event) validate() error {
	switch e.Op {
	case "blank", "unblank", "disconnect":
		return nil
	case "mode":
		_, err := mode(e.Mode)
		return err
	case "surface":
		if len(e.Size) != 2 {
			return fmt.Errorf("%w: size needs [width, height]", ErrInvalid)
		}
		return nil
	case "mirror":
		_, err := rect(e.Region)
		return err
	case "connect":
		if e.Connect == nil {
			return fmt.Errorf("%w: connect needs a display", ErrInvalid)
		}
		return e.Connect.validate()
	default:
		return fmt.Errorf("%w: unknown op", ErrInvalid)
	}
}

func (s *Scenario) framebufferFormat() (hwc.PixelFormat, error) {
	if s.Framebuffer == "" {
		return hwc.FormatRGBA8888, nil
	}
	return pixelFormat(s.Framebuffer)
}

// Layer converts the layer description to an hwc.Layer.
func (l *LayerSpec) Layer() (hwc.Layer, error) {
	f, err := pixelFormat(l.Format)
	if err != nil {
		return hwc.Layer{}, err
	}
	if len(l.Size) != 2 || l.Size[0] <= 0 || l.Size[1] <= 0 {
		return hwc.Layer{}, fmt.Errorf("%w: size needs a positive [width, height]", ErrInvalid)
	}
	rot, err := quarterTurn(l.Rotation)
	if err != nil {
		return hwc.Layer{}, err
	}

	w, h := l.Size[0], l.Size[1]
	if l.Stride != 0 && l.Stride < w {
		return hwc.Layer{}, fmt.Errorf("%w: stride %d below width %d", ErrInvalid, l.Stride, w)
	}
	crop := hwc.NewRect(0, 0, float64(w), float64(h))
	if l.Crop != nil {
		if crop, err = rect(l.Crop); err != nil {
			return hwc.Layer{}, fmt.Errorf("crop: %w", err)
		}
	}
	cw, ch := crop.Size(rot)
	window := hwc.NewRect(0, 0, cw, ch)
	if l.Window != nil {
		if window, err = rect(l.Window); err != nil {
			return hwc.Layer{}, fmt.Errorf("window: %w", err)
		}
	}

	return hwc.Layer{
		Buffer: hwc.Buffer{
			Handle: hwc.BufferHandle(l.Handle),
			Width:  w,
			Height: h,
			Stride: l.Stride,
			Format: f,
		},
		Crop:              crop,
		Window:            window,
		Blended:           l.Blended,
		Orientation:       hwc.Orientation{Rotation: rot, HFlip: l.HFlip},
		Protected:         l.Protected,
		Skip:              l.Skip,
		FramebufferTarget: l.FramebufferTarget,
	}, nil
}

func pixelFormat(name string) (hwc.PixelFormat, error) {
	f, ok := hwc.ParsePixelFormat(strings.ToUpper(name))
	if !ok {
		return hwc.FormatUnknown, fmt.Errorf("%w: pixel format %q", ErrInvalid, name)
	}
	return f, nil
}

func displayType(name string) (hwc.DisplayType, error) {
	switch strings.ToLower(name) {
	case "panel", "lcd":
		return hwc.TypePanel, nil
	case "hdmi", "tv":
		return hwc.TypeHDMI, nil
	case "", "unknown":
		return hwc.TypeUnknown, nil
	default:
		return hwc.TypeUnknown, fmt.Errorf("%w: display type %q", ErrInvalid, name)
	}
}

func mode(name string) (hwc.Mode, error) {
	switch strings.ToLower(name) {
	case "legacy", "mirror":
		return hwc.ModeLegacy, nil
	case "presentation":
		return hwc.ModePresentation, nil
	default:
		return hwc.ModeInvalid, fmt.Errorf("%w: mode %q", ErrInvalid, name)
	}
}

func quarterTurn(deg int) (hwc.QuarterTurn, error) {
	if deg%90 != 0 {
		return 0, fmt.Errorf("%w: rotation %d is not a multiple of 90", ErrInvalid, deg)
	}
	return hwc.QuarterTurn(((deg/90)%4 + 4) % 4), nil
}

func rect(v []float64) (hwc.Rect, error) {
	if len(v) != 4 {
		return hwc.Rect{}, fmt.Errorf("%w: rectangle needs [x, y, w, h]", ErrInvalid)
	}
	return hwc.NewRect(v[0], v[1], v[2], v[3]), nil
}
