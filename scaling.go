package hwc

// safeDownscale bounds downscaling well below the theoretical hardware
// limit; larger ratios produced display artifacts.
const safeDownscale = 4

// CanScale reports whether an overlay scaler can resize a srcW x srcH
// region to dstW x dstH. is2D selects the decimation limits of tiled
// buffers. pixelClock is the display pixel clock in kHz, or zero for
// manually updated panels that have no clock-based limits.
func CanScale(srcW, srcH, dstW, dstH uint32, is2D bool, limits PlatformLimits, pixelClock uint32) bool {
	xdecim, ydecim := limits.decimation(is2D)
	xdecim, ydecim = max(xdecim, 1), max(ydecim, 1)
	maxDown := max(limits.MaxDownscale, 1)

	minSrcW := divRoundUp(srcW, xdecim)
	minSrcH := divRoundUp(srcH, ydecim)

	if dstH < srcH/safeDownscale {
		return false
	}
	if uint64(dstH)*uint64(maxDown) < uint64(minSrcH) {
		return false
	}

	if pixelClock == 0 {
		return dstW >= srcW/maxDown/xdecim
	}

	if uint64(dstW)*safeDownscale < uint64(srcW) {
		return false
	}

	fclk := uint64(limits.FClock)
	pclk := uint64(pixelClock)
	if fclk > pclk*uint64(maxDown) {
		fclk = pclk * uint64(maxDown)
	}
	if srcW < limits.IntegerScaleRatioLimit {
		fclk = fclk / pclk * pclk
	}
	return uint64(dstW)*fclk >= uint64(minSrcW)*pclk
}

// canScaleLayer applies CanScale to a layer on a display, accounting for
// the layer rotation, the panel minimum-width erratum and the minimum
// plane height.
func canScaleLayer(l *Layer, t DisplayType, limits PlatformLimits, pixelClock uint32) bool {
	srcW, srcH := l.Crop.Size(l.Orientation.Rotation)
	dstW, dstH := dim(l.Window.W), dim(l.Window.H)

	// 1-pixel-wide layers cannot be shown on video-mode panels.
	if t != TypeHDMI && dstW < limits.MinWidth {
		return false
	}
	if dstH < limits.MinHeight {
		return false
	}
	if limits.MaxWidth > 0 && dstW > limits.MaxWidth {
		return false
	}
	if limits.MaxHeight > 0 && dstH > limits.MaxHeight {
		return false
	}
	return CanScale(dim(srcW), dim(srcH), dstW, dstH, l.Buffer.Format.IsNV12(), limits, pixelClock)
}

func divRoundUp(n, d uint32) uint32 {
	return (n + d - 1) / d
}
