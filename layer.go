package hwc

import "math"

// BufferHandle is an opaque reference to a graphics buffer. Zero means none.
type BufferHandle uint64

// Buffer describes the source buffer of a layer.
type Buffer struct {
	Handle BufferHandle
	Width  int
	Height int
	// Stride is the line length in pixels. Zero means Width.
	Stride int
	Format PixelFormat
}

// CompositionType records who draws a layer this frame.
type CompositionType uint8

// Composition types written back onto layers by Prepare.
const (
	// CompositionRenderer means the general-purpose renderer draws the layer
	// into the framebuffer target.
	CompositionRenderer CompositionType = iota
	// CompositionOverlay means an overlay plane scans the layer out directly.
	CompositionOverlay
	// CompositionHidden means the layer is not visible on the display and
	// nothing draws it.
	CompositionHidden
)

// String returns a short name for the composition type.
func (c CompositionType) String() string {
	switch c {
	case CompositionRenderer:
		return "renderer"
	case CompositionOverlay:
		return "overlay"
	case CompositionHidden:
		return "hidden"
	default:
		return unknownStr
	}
}

const unknownStr = "unknown"

// Hint is a set of flags the renderer should honor for a layer.
type Hint uint8

const (
	// HintClearFramebuffer asks the renderer to clear the framebuffer
	// under an opaque layer that an overlay shows instead.
	HintClearFramebuffer Hint = 1 << iota
	// HintTripleBuffer asks for extra buffering while video overlays run.
	HintTripleBuffer
)

// Layer is one entry of a display's z-ordered layer list. Planning reads
// every field except Composition and Hints, which it writes.
type Layer struct {
	Buffer      Buffer
	Crop        Rect // source region within the buffer
	Window      Rect // destination on the composed surface
	Blended     bool
	Orientation Orientation
	Protected   bool

	// Skip marks a layer the compositor must leave to the renderer.
	Skip bool

	// FramebufferTarget marks the renderer's own output buffer.
	FramebufferTarget bool

	Composition CompositionType
	Hints       Hint
}

// NeedsScaling reports whether the crop, after the layer rotation, differs
// in size from the destination window.
func (l *Layer) NeedsScaling() bool {
	w, h := l.Crop.Size(l.Orientation.Rotation)
	return math.Round(w) != math.Round(l.Window.W) || math.Round(h) != math.Round(l.Window.H)
}

// NeedsVideoPipe reports whether the layer must use a scaling-capable
// overlay rather than the base plane.
func (l *Layer) NeedsVideoPipe() bool {
	return l.NeedsScaling() || l.Buffer.Format.IsNV12()
}

// Memory returns the on-chip memory footprint of the layer buffer.
func (l *Layer) Memory() int64 {
	return memory1D(l.Buffer.Format, max(l.Buffer.Stride, l.Buffer.Width), l.Buffer.Height)
}

func dim(v float64) uint32 {
	if v <= 0 {
		return 0
	}
	return uint32(math.Round(v))
}
