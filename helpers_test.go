package hwc

import "math"

const epsilon = 1e-6

func approx(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

// opaqueLayer returns an unscaled layer showing a w x h buffer at (x, y).
func opaqueLayer(handle BufferHandle, f PixelFormat, x, y, w, h float64) Layer {
	return Layer{
		Buffer: Buffer{Handle: handle, Width: int(w), Height: int(h), Stride: int(w), Format: f},
		Crop:   NewRect(0, 0, w, h),
		Window: NewRect(x, y, w, h),
	}
}

// scaledLayer returns a layer whose cropW x cropH buffer is shown in window.
func scaledLayer(handle BufferHandle, f PixelFormat, cropW, cropH float64, window Rect) Layer {
	return Layer{
		Buffer: Buffer{Handle: handle, Width: int(cropW), Height: int(cropH), Stride: int(cropW), Format: f},
		Crop:   NewRect(0, 0, cropW, cropH),
		Window: window,
	}
}

func skipLayer(handle BufferHandle, x, y, w, h float64) Layer {
	l := opaqueLayer(handle, FormatRGBA8888, x, y, w, h)
	l.Skip = true
	return l
}
