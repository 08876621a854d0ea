package hwc

// Policy holds the compositor-wide composition switches.
type Policy struct {
	// ForceRenderer disables overlays for everything but protected layers.
	ForceRenderer bool

	// NV12Only keeps RGB and BGR layers off overlays whenever the renderer
	// is in use, and rules out overlay-only frames that contain them.
	NV12Only bool

	// RGBOrder requires all overlays of a frame to share one channel order.
	RGBOrder bool
}

// assignEnv is everything plane assignment needs to know about the display
// it plans for.
type assignEnv struct {
	policy     Policy
	dtype      DisplayType
	limits     PlatformLimits
	pixelClock uint32

	// region is the visible part of the surface.
	region Rect

	// surface is the geometry of the renderer's output buffer.
	surface           Rect
	framebufferFormat PixelFormat

	// tv is set when the output, or a clone of it, cannot show BGR.
	tv bool

	// rotates is set when a clone of this plan needs hardware rotation.
	rotates bool

	blanked bool
}

func (env *assignEnv) visible(l *Layer) bool {
	return !l.Window.Intersect(env.region).IsEmpty()
}

// canUseOverlaysExclusively reports whether overlays alone can show every
// layer, so the renderer is not needed this frame.
//
// Partial hardware composition below the blend plane is not supported, so
// every layer must be composable for this to hold.
func canUseOverlaysExclusively(s LayerStatistics, b budget, env *assignEnv) bool {
	return !env.policy.ForceRenderer &&
		s.Composable > 0 &&
		s.Composable <= b.Available &&
		s.Composable == s.Count &&
		s.Scaled <= b.Scaling &&
		s.NV12 <= b.Scaling &&
		s.Memory <= env.limits.MemorySlot &&
		(!env.rotates || s.NV12 == s.Composable) &&
		(s.BGR == 0 || (s.RGB == 0 && !env.tv) || !env.policy.RGBOrder) &&
		(!env.policy.NV12Only || s.RGB+s.BGR == 0)
}

// canRenderLayer reports whether l qualifies for an overlay on its own.
func canRenderLayer(l *Layer, env *assignEnv, swapRB, useRenderer bool) bool {
	if !validLayer(l, env.dtype, env.limits, env.pixelClock) {
		return false
	}
	f := l.Buffer.Format
	switch {
	case l.Blended && f.IsNV12():
		// NV12 has no alpha to blend with.
		return false
	case env.rotates && !f.IsNV12():
		return false
	case env.policy.NV12Only && useRenderer && !f.IsNV12():
		return false
	case env.policy.RGBOrder && ((swapRB && f.IsRGB()) || (!swapRB && f.IsBGR())):
		return false
	case env.tv && f.IsBGR():
		return false
	}
	return true
}

// assignPlanes plans one display's frame into comp. Layers get their
// Composition and Hints written back.
func assignPlanes(comp *Composition, layers []Layer, s LayerStatistics, b budget, env *assignEnv) {
	exclusive := canUseOverlaysExclusively(s, b, env)
	if !planLayers(comp, layers, s, b, env, exclusive) {
		// Statistics promised more than the layers deliver.
		Logger().Debug("hwc: overlay-only plan failed, using renderer")
		planLayers(comp, layers, s, b, env, false)
	}

	comp.Used = comp.numPlanes
	if env.blanked {
		comp.Used = 0
	}
	Logger().Debug("hwc: planes assigned",
		"layers", s.Count,
		"composable", s.Composable,
		"renderer", comp.UseRenderer,
		"planes", comp.numPlanes,
		"used", comp.Used)
}

// planLayers walks layers in z-order and assigns overlays. With exclusive
// set it gives up, returning false, as soon as a visible layer does not
// qualify.
func planLayers(comp *Composition, layers []Layer, s LayerStatistics, b budget, env *assignEnv, exclusive bool) bool {
	comp.reset(b, env.limits.MemorySlot)
	comp.UseRenderer = !exclusive
	if exclusive {
		comp.SwapRB = s.BGR > 0
	} else {
		comp.SwapRB = env.framebufferFormat.IsBGR()
	}

	limit := b.Available
	if comp.UseRenderer {
		// One overlay shows the renderer's output.
		limit--
	}

	var (
		z, fbZ    = 0, -1
		scaledGFX bool
		video     int
		mem       int64
		nv12      bool
		fb        BufferHandle
	)
	for i := range layers {
		l := &layers[i]
		if l.FramebufferTarget {
			fb = l.Buffer.Handle
			continue
		}
		l.Hints = 0
		if !env.visible(l) {
			l.Composition = CompositionHidden
			continue
		}

		needsVideo := l.NeedsVideoPipe()
		if comp.numPlanes < limit &&
			(!env.policy.ForceRenderer || l.Protected) &&
			canRenderLayer(l, env, comp.SwapRB, comp.UseRenderer) &&
			mem+l.Memory() <= env.limits.MemorySlot &&
			(!needsVideo || video < b.Scaling) &&
			// A transparent overlay cannot sit above the renderer output.
			!(l.Blended && fbZ >= 0) {

			mem += l.Memory()
			if needsVideo {
				video++
			}
			nv12 = nv12 || l.Buffer.Format.IsNV12()
			l.Composition = CompositionOverlay
			if comp.UseRenderer && !l.Blended {
				l.Hints |= HintClearFramebuffer
			}

			idx := comp.push(PlaneDescriptor{
				Plane:       b.Base + comp.numPlanes,
				Z:           z,
				Layer:       i,
				Window:      l.Window,
				Crop:        l.Crop,
				Orientation: l.Orientation,
				Format:      l.Buffer.Format,
				Blended:     l.Blended,
			}, l.Buffer.Handle)

			// The base plane cannot scale: trade it for the first later
			// plane that does not need to.
			if b.GFX {
				if idx == 0 {
					scaledGFX = needsVideo
				} else if scaledGFX && !needsVideo {
					comp.swapPlaneIDs(0, idx)
					scaledGFX = false
				}
			}
			z++
			continue
		}

		if exclusive {
			return false
		}
		l.Composition = CompositionRenderer
		if fbZ < 0 {
			fbZ = z
			z++
		} else {
			// Keep the renderer output contiguous by lowering the overlays
			// placed since it below it.
			for fbZ < z-1 {
				comp.lowerZ(fbZ + 1)
				fbZ++
			}
		}
	}

	if comp.UseRenderer && comp.numPlanes < b.Available {
		if fbZ < 0 {
			fbZ = z
		}
		idx := comp.push(PlaneDescriptor{
			Plane:   b.Base + comp.numPlanes,
			Z:       fbZ,
			Layer:   RendererLayer,
			Window:  env.surface,
			Crop:    env.surface,
			Format:  env.framebufferFormat,
			Blended: true,
		}, fb)
		if scaledGFX {
			// The renderer output is never scaled here.
			comp.swapPlaneIDs(0, idx)
			scaledGFX = false
		}
	}
	if scaledGFX && comp.numPlanes < b.Available {
		comp.planes[0].Plane = b.Base + comp.numPlanes
	}

	if nv12 && comp.UseRenderer {
		for i := range layers {
			if layers[i].Composition == CompositionRenderer && !layers[i].FramebufferTarget {
				layers[i].Hints |= HintTripleBuffer
			}
		}
	}
	return true
}

func (c *Composition) swapPlaneIDs(i, j int) {
	c.planes[i].Plane, c.planes[j].Plane = c.planes[j].Plane, c.planes[i].Plane
}
