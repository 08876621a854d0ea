package hwc

import (
	"fmt"
	"math"
)

// aspectTolerance avoids scaling when the framebuffer is a standard size
// whose aspect ratio is only marginally different from the target.
const aspectTolerance = 0.02

// DisplayTransform maps a display's source region onto its native
// resolution.
type DisplayTransform struct {
	Orientation Orientation

	// Scaling reports whether the region is resized on its way to the
	// display.
	Scaling bool

	// Region is the visible source region in surface coordinates. Plane
	// windows are clipped against it.
	Region Rect

	// Matrix maps Region onto device coordinates.
	Matrix Matrix
}

// primaryTransform maps the composed surface onto the physical panel. A
// quarter turn is inferred when panel and surface disagree on portrait
// versus landscape.
func primaryTransform(d *Display) (DisplayTransform, error) {
	region := d.surface()
	panel := d.Config.Bounds()
	if region.IsEmpty() || panel.IsEmpty() {
		return DisplayTransform{}, ErrInvalidArgument
	}

	var o Orientation
	if region.IsPortrait() != panel.IsPortrait() {
		o.Rotation = Rotate90
	}
	w, h := region.Size(o.Rotation)
	c := region.Center()
	m := Identity().
		Translate(-c.X, -c.Y).
		Orient(o).
		Scale(w, panel.W, h, panel.H).
		Translate(panel.W/2, panel.H/2)

	return DisplayTransform{
		Orientation: o,
		Scaling:     w != panel.W || h != panel.H,
		Region:      region,
		Matrix:      m,
	}, nil
}

// externalTransform computes the transform of a non-primary display. In
// presentation mode the display shows its own full resolution; in legacy
// mode it shows the mirror region of the primary, reoriented by policy and
// scaled to fit with pixel-aspect correction.
func externalTransform(d, primary *Display, policy MirrorPolicy) (DisplayTransform, error) {
	target := d.Config.Bounds()
	if target.IsEmpty() {
		return DisplayTransform{}, ErrInvalidArgument
	}

	if d.Mode != ModeLegacy {
		return DisplayTransform{
			Region: target,
			Matrix: Identity(),
		}, nil
	}

	if primary == nil {
		return DisplayTransform{}, ErrNoDevice
	}
	surface := primary.surface()
	if surface.IsEmpty() {
		return DisplayTransform{}, ErrNoDevice
	}

	region := surface
	if h, ok := d.Kind.(HDMI); ok && !h.MirrorRegion.IsEmpty() {
		region = h.MirrorRegion
	}
	if region.IsEmpty() {
		return DisplayTransform{}, ErrInvalidArgument
	}

	o := policy.MirrorOrientation(region)

	xpy := primary.Config.pixelAspect()
	if o.Rotation.Odd() {
		xpy = 1 / xpy
	}
	xpy /= d.Config.pixelAspect()

	w, h := region.Size(o.Rotation)
	fitW, fitH := fitDimensions(w, h, xpy, target.W, target.H)

	c := region.Center()
	m := Identity().
		Translate(-c.X, -c.Y).
		Orient(o).
		Scale(w, fitW, h, fitH).
		Translate(target.W/2, target.H/2)

	return DisplayTransform{
		Orientation: o,
		Scaling:     fitW != w || fitH != h,
		Region:      region,
		Matrix:      m,
	}, nil
}

// fitDimensions returns the largest size with the aspect ratio of a
// srcW x srcH region of pixel aspect xpy that fits a dstW x dstH screen.
func fitDimensions(srcW, srcH, xpy, dstW, dstH float64) (w, h float64) {
	w, h = dstW, dstH
	if xpy <= 0 {
		xpy = 1
	}

	xFactor := srcW * xpy * dstH
	yFactor := srcH * dstW
	switch {
	case xFactor < yFactor*(1-aspectTolerance):
		w = math.Round(xFactor / srcH)
	case xFactor*(1-aspectTolerance) > yFactor:
		h = math.Round(yFactor / (srcW * xpy))
	}
	return w, h
}

// updateTransform recomputes d's transform if its update flag is set. The
// flag stays set when the recompute fails.
func updateTransform(d, primary *Display, policy MirrorPolicy) error {
	if !d.updateTransform {
		return nil
	}

	var (
		t   DisplayTransform
		err error
	)
	if d.Role == RolePrimary {
		t, err = primaryTransform(d)
	} else {
		t, err = externalTransform(d, primary, policy)
	}
	if err != nil {
		return &DisplayError{Index: d.Index, Err: fmt.Errorf("transform: %w", err)}
	}

	d.Transform = t
	d.updateTransform = false
	Logger().Info("hwc: display transform updated",
		"display", d.Index,
		"orientation", t.Orientation.String(),
		"scaling", t.Scaling,
		"region", t.Region)
	return nil
}
