package hwc

// ClipPlane clips p's window to the display's visible region, trims the
// crop by the same proportion and maps the window through the display
// matrix. It returns false when nothing of the plane remains visible.
//
// Each axis is handled independently. The crop axis that a window axis
// trims follows the plane orientation: an odd rotation swaps axes, and a
// reversed axis trims the far end of the crop instead of the near one.
func ClipPlane(p PlaneDescriptor, t DisplayTransform) (PlaneDescriptor, bool) {
	revX, revY := p.Orientation.reversedAxes()
	swap := p.Orientation.Rotation.Odd()

	cropX := axis{pos: p.Crop.X, len: p.Crop.W}
	cropY := axis{pos: p.Crop.Y, len: p.Crop.H}
	forX, forY := &cropX, &cropY
	if swap {
		forX, forY = &cropY, &cropX
	}

	winX := axis{pos: p.Window.X, len: p.Window.W}
	winY := axis{pos: p.Window.Y, len: p.Window.H}
	if !clipAxis(&winX, forX, t.Region.X, t.Region.Right(), revX) ||
		!clipAxis(&winY, forY, t.Region.Y, t.Region.Bottom(), revY) {
		return p, false
	}

	p.Crop = Rect{X: cropX.pos, Y: cropY.pos, W: cropX.len, H: cropY.len}
	p.Window = t.Matrix.TransformRect(Rect{X: winX.pos, Y: winY.pos, W: winX.len, H: winY.len})
	p.Orientation = p.Orientation.Then(t.Orientation)
	return p, true
}

type axis struct {
	pos, len float64
}

// clipAxis trims win to [lo, hi) and shrinks crop proportionally.
func clipAxis(win, crop *axis, lo, hi float64, reversed bool) bool {
	if win.len <= 0 || crop.len <= 0 {
		return false
	}
	if win.pos >= hi || win.pos+win.len <= lo {
		return false
	}

	lead := max(lo-win.pos, 0)
	trail := max(win.pos+win.len-hi, 0)
	clipped := win.len - lead - trail
	if clipped <= 0 {
		return false
	}

	ratio := crop.len / win.len
	cropLead, cropTrail := lead*ratio, trail*ratio
	if reversed {
		cropLead, cropTrail = cropTrail, cropLead
	}
	crop.pos += cropLead
	crop.len -= cropLead + cropTrail
	if crop.len <= 0 {
		return false
	}

	win.pos += lead
	win.len = clipped
	return true
}

// reversedAxes reports, for the window x and y axes, whether increasing
// window position walks the corresponding crop axis backwards.
func (o Orientation) reversedAxes() (x, y bool) {
	switch o.Rotation.Normalize() {
	case Rotate90:
		x = true
	case Rotate180:
		x, y = true, true
	case Rotate270:
		y = true
	}
	if o.HFlip {
		x = !x
	}
	return x, y
}
