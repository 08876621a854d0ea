// Package hwc plans per-frame use of hardware overlay planes.
//
// # Overview
//
// A display controller has a small, fixed pool of overlay planes that can
// scan buffers out directly. For every frame hwc decides which visible
// layers the overlays show and which fall back to the general-purpose
// renderer, splits the pool between the primary panel and an external
// output, and computes the geometry that maps layers and the whole
// framebuffer onto each display.
//
// # Quick Start
//
//	c, err := hwc.New(target, hwc.DisplayConfig{Width: 1280, Height: 800, PixelClock: 71000})
//	if err != nil {
//	    return err
//	}
//	if err := c.Prepare(hwc.Frame{{Display: 0, Layers: layers}}); err != nil {
//	    return err
//	}
//	err = c.Set(ctx)
//
// # Architecture
//
//   - Geometry: Matrix, Rect, Orientation (quarter turns plus flip)
//   - Display transforms: primary reorientation, mirrored scale-to-fit
//   - CanScale: scaler feasibility under decimation and clock limits
//   - Budget: overlay split across displays with cross-frame hand-over
//   - Assignment: z-ordered plane assignment with renderer fallback
//   - ClipPlane: window and crop clipping to the visible region
//
// # Coordinate System
//
// Origin (0,0) at top-left, x to the right, y down. A positive quarter
// turn is clockwise on screen.
//
// # Errors
//
// Infeasibility is never an error: layers the overlays cannot show go to
// the renderer. Only configuration mistakes, such as an unknown display
// index, return ErrNoDevice or ErrInvalidArgument wrapped in a
// *DisplayError.
package hwc
