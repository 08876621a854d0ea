package hwc

import "fmt"

// MaxOverlays is the inline plane capacity of a Composition. No supported
// platform drives more overlays than this.
const MaxOverlays = 8

// PlatformLimits is the capability set of the overlay hardware behind one
// display type. Clocks are in kHz, memory in bytes.
type PlatformLimits struct {
	MaxXDecim1D uint32
	MaxYDecim1D uint32
	MaxXDecim2D uint32
	MaxYDecim2D uint32

	// MaxDownscale is the largest downscale of the scaler after decimation.
	MaxDownscale uint32

	// FClock is the functional clock of the display controller.
	FClock uint32

	// IntegerScaleRatioLimit is the source width below which the effective
	// clock must be an integer multiple of the pixel clock.
	IntegerScaleRatioLimit uint32

	MinWidth  uint32
	MinHeight uint32
	MaxWidth  uint32
	MaxHeight uint32

	// MemorySlot is the size of the shared on-chip buffer slot.
	MemorySlot int64

	// MaxOverlays is the number of overlay planes, the first of which is
	// the non-scaling GFX plane.
	MaxOverlays int
}

// DefaultLimits returns the built-in limits for a display type.
func DefaultLimits(t DisplayType) PlatformLimits {
	l := PlatformLimits{
		MaxXDecim1D:            16,
		MaxYDecim1D:            16,
		MaxXDecim2D:            4,
		MaxYDecim2D:            4,
		MaxDownscale:           4,
		FClock:                 170666,
		IntegerScaleRatioLimit: 2048,
		MinWidth:               2,
		MinHeight:              2,
		MaxWidth:               2048,
		MaxHeight:              2048,
		MemorySlot:             16 << 20,
		MaxOverlays:            4,
	}
	if t == TypeHDMI {
		l.FClock = 186000
	}
	return l
}

// Validate reports whether the limits can drive planning.
func (l PlatformLimits) Validate() error {
	switch {
	case l.MaxXDecim1D == 0 || l.MaxYDecim1D == 0 || l.MaxXDecim2D == 0 || l.MaxYDecim2D == 0:
		return fmt.Errorf("%w: zero decimation", ErrInvalidLimits)
	case l.MaxDownscale == 0:
		return fmt.Errorf("%w: zero max downscale", ErrInvalidLimits)
	case l.MaxOverlays < 1 || l.MaxOverlays > MaxOverlays:
		return fmt.Errorf("%w: overlay count %d outside [1, %d]", ErrInvalidLimits, l.MaxOverlays, MaxOverlays)
	case l.MemorySlot <= 0:
		return fmt.Errorf("%w: memory slot %d", ErrInvalidLimits, l.MemorySlot)
	}
	return nil
}

// decimation returns the horizontal and vertical decimation bounds for
// the buffer layout.
func (l PlatformLimits) decimation(is2D bool) (x, y uint32) {
	if is2D {
		return l.MaxXDecim2D, l.MaxYDecim2D
	}
	return l.MaxXDecim1D, l.MaxYDecim1D
}
