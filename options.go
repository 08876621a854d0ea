package hwc

import "github.com/gogpu/gputypes"

// Option configures a Compositor during creation.
//
// Example:
//
//	c, err := hwc.New(target, panelConfig,
//	    hwc.WithPolicy(hwc.Policy{RGBOrder: true}),
//	    hwc.WithMirrorPolicy(hwc.DefaultMirrorPolicy()),
//	)
type Option func(*options)

type options struct {
	limits            map[DisplayType]PlatformLimits
	policy            Policy
	mirror            MirrorPolicy
	vsync             VsyncSink
	framebufferFormat PixelFormat
	surface           Rect
}

func defaultOptions() options {
	return options{
		limits: map[DisplayType]PlatformLimits{
			TypePanel:   DefaultLimits(TypePanel),
			TypeHDMI:    DefaultLimits(TypeHDMI),
			TypeUnknown: DefaultLimits(TypeUnknown),
		},
		mirror:            DefaultMirrorPolicy(),
		framebufferFormat: FormatRGBA8888,
	}
}

// WithLimits replaces the platform limits used for displays of type t.
func WithLimits(t DisplayType, l PlatformLimits) Option {
	return func(o *options) {
		o.limits[t] = l
	}
}

// WithPolicy sets the composition policy switches.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithMirrorPolicy sets how mirrored regions are reoriented.
func WithMirrorPolicy(p MirrorPolicy) Option {
	return func(o *options) {
		o.mirror = p
	}
}

// WithVsyncSink registers a vsync sink at construction.
func WithVsyncSink(s VsyncSink) Option {
	return func(o *options) {
		o.vsync = s
	}
}

// WithFramebufferFormat sets the texture format the renderer composes
// into. Unknown formats keep the default RGBA ordering.
func WithFramebufferFormat(tf gputypes.TextureFormat) Option {
	return func(o *options) {
		if f := FormatFromTexture(tf); f != FormatUnknown {
			o.framebufferFormat = f
		}
	}
}

// WithSurface sets the size of the primary's composed surface when it
// differs from the panel resolution.
func WithSurface(width, height int) Option {
	return func(o *options) {
		o.surface = Rect{W: float64(width), H: float64(height)}
	}
}
