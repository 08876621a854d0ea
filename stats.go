package hwc

// LayerStatistics summarizes a display's layer list for one frame.
type LayerStatistics struct {
	// Count is the number of layers the display shows, excluding the
	// framebuffer target.
	Count int

	// Composable counts layers an overlay could show.
	Composable int

	// The following count composable layers only.
	Scaled    int
	NV12      int
	Protected int
	RGB       int
	BGR       int
	Memory    int64

	HasFramebufferTarget bool
}

// CountLayers aggregates the statistics of layers as shown on a display of
// type t with the given limits and pixel clock.
func CountLayers(layers []Layer, t DisplayType, limits PlatformLimits, pixelClock uint32) LayerStatistics {
	var s LayerStatistics
	for i := range layers {
		l := &layers[i]
		if l.FramebufferTarget {
			s.HasFramebufferTarget = true
			continue
		}
		s.Count++
		if !validLayer(l, t, limits, pixelClock) {
			continue
		}
		s.Composable++
		if l.NeedsScaling() {
			s.Scaled++
		}
		switch f := l.Buffer.Format; {
		case f.IsNV12():
			s.NV12++
		case f.IsBGR():
			s.BGR++
		case f.IsRGB():
			s.RGB++
		}
		if l.Protected {
			s.Protected++
		}
		s.Memory += l.Memory()
	}
	return s
}

// validLayer reports whether the overlay hardware could show l at all,
// independent of this frame's budget and policy.
func validLayer(l *Layer, t DisplayType, limits PlatformLimits, pixelClock uint32) bool {
	if l.Skip || l.Buffer.Handle == 0 || !l.Buffer.Format.Valid() {
		return false
	}
	if l.Crop.IsEmpty() || l.Window.IsEmpty() {
		return false
	}
	if !l.Buffer.Format.IsNV12() {
		// 1D buffers cannot be rotated and must fit the memory slot.
		if !l.Orientation.IsIdentity() {
			return false
		}
		if l.Memory() > limits.MemorySlot {
			return false
		}
	}
	return canScaleLayer(l, t, limits, pixelClock)
}
