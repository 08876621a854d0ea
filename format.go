package hwc

import "github.com/gogpu/gputypes"

// PixelFormat identifies the memory layout of a layer buffer.
type PixelFormat uint8

// Pixel format constants.
const (
	FormatUnknown PixelFormat = iota
	FormatRGB565
	FormatRGBA8888
	FormatRGBX8888
	FormatBGRA8888
	FormatBGRX8888
	// FormatNV12 is semi-planar YUV 4:2:0 in a 2D tiled buffer. It is the
	// only format the overlay hardware can rotate.
	FormatNV12
)

// hwAlign is the line alignment in pixels of 1D buffers.
const hwAlign = 32

// String returns the conventional name of the format.
func (f PixelFormat) String() string {
	switch f {
	case FormatRGB565:
		return "RGB565"
	case FormatRGBA8888:
		return "RGBA8888"
	case FormatRGBX8888:
		return "RGBX8888"
	case FormatBGRA8888:
		return "BGRA8888"
	case FormatBGRX8888:
		return "BGRX8888"
	case FormatNV12:
		return "NV12"
	default:
		return "Unknown"
	}
}

// ParsePixelFormat returns the format whose String matches name.
func ParsePixelFormat(name string) (PixelFormat, bool) {
	for f := FormatRGB565; f <= FormatNV12; f++ {
		if f.String() == name {
			return f, true
		}
	}
	return FormatUnknown, false
}

// Valid reports whether overlays can scan out the format at all.
func (f PixelFormat) Valid() bool {
	return f >= FormatRGB565 && f <= FormatNV12
}

// IsNV12 reports whether f is the rotatable YUV format.
func (f PixelFormat) IsNV12() bool { return f == FormatNV12 }

// IsRGB reports whether f is a 32-bit RGB-ordered format.
func (f PixelFormat) IsRGB() bool { return f == FormatRGBA8888 || f == FormatRGBX8888 }

// IsBGR reports whether f is a 32-bit BGR-ordered format.
func (f PixelFormat) IsBGR() bool { return f == FormatBGRA8888 || f == FormatBGRX8888 }

// HasAlpha reports whether the format carries a per-pixel alpha channel.
func (f PixelFormat) HasAlpha() bool { return f == FormatRGBA8888 || f == FormatBGRA8888 }

// BytesPerPixel returns the size of one pixel of a 1D buffer.
// NV12 lives in 2D tiled memory and reports 0.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatRGB565:
		return 2
	case FormatRGBA8888, FormatRGBX8888, FormatBGRA8888, FormatBGRX8888:
		return 4
	default:
		return 0
	}
}

// TextureFormat returns the renderer texture format with the same channel
// order, or TextureFormatUndefined when the renderer has no equivalent.
func (f PixelFormat) TextureFormat() gputypes.TextureFormat {
	switch f {
	case FormatRGBA8888, FormatRGBX8888:
		return gputypes.TextureFormatRGBA8Unorm
	case FormatBGRA8888, FormatBGRX8888:
		return gputypes.TextureFormatBGRA8Unorm
	default:
		return gputypes.TextureFormatUndefined
	}
}

// FormatFromTexture maps a renderer texture format to the overlay format
// used for the renderer's output buffer.
func FormatFromTexture(tf gputypes.TextureFormat) PixelFormat {
	switch tf {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb:
		return FormatRGBA8888
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		return FormatBGRA8888
	default:
		return FormatUnknown
	}
}

// memory1D returns the bytes a buffer of stride pixels per line occupies
// in the shared on-chip slot.
func memory1D(f PixelFormat, stride, height int) int64 {
	bpp := f.BytesPerPixel()
	if bpp == 0 {
		return 0
	}
	line := (stride + hwAlign - 1) / hwAlign * hwAlign * bpp
	return int64(line) * int64(height)
}
