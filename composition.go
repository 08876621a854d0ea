package hwc

// PlaneDescriptor is the programming of one overlay plane.
type PlaneDescriptor struct {
	// Plane is the hardware overlay index.
	Plane int

	// Z is the blending order; 0 is the bottom.
	Z int

	// Layer is the index of the source layer, or RendererLayer for the
	// renderer's own output.
	Layer int

	Window      Rect // destination, in surface then device coordinates
	Crop        Rect // source region within the buffer
	Orientation Orientation
	Format      PixelFormat
	Blended     bool
}

// RendererLayer is the Layer value of the plane carrying renderer output.
const RendererLayer = -1

// Composition is a display's plan for one frame. Its plane storage is
// inline and sized to MaxOverlays, so planning never allocates.
type Composition struct {
	// Base is the overlay index of the first plane the display may use.
	Base int

	Wanted    int
	Available int
	Scaling   int

	// Used is the number of planes committed. It is zero while the display
	// is blanked, whatever the plan.
	Used int

	MemorySlot int64

	// UseRenderer reports whether the general-purpose renderer composes
	// some layers into the framebuffer target this frame.
	UseRenderer bool

	// SwapRB asks the display controller to swap red and blue.
	SwapRB bool

	planes    [MaxOverlays]PlaneDescriptor
	buffers   [MaxOverlays]BufferHandle
	numPlanes int
}

// Planes returns the planned plane descriptors.
func (c *Composition) Planes() []PlaneDescriptor {
	return c.planes[:c.numPlanes]
}

// Buffers returns the buffer of each planned plane, in plane order.
func (c *Composition) Buffers() []BufferHandle {
	return c.buffers[:c.numPlanes]
}

// Committed returns the planes that are actually programmed.
func (c *Composition) Committed() []PlaneDescriptor {
	return c.planes[:c.Used]
}

func (c *Composition) reset(b budget, memSlot int64) {
	*c = Composition{
		Base:       b.Base,
		Wanted:     b.Wanted,
		Available:  b.Available,
		Scaling:    b.Scaling,
		MemorySlot: memSlot,
	}
}

func (c *Composition) push(p PlaneDescriptor, h BufferHandle) int {
	i := c.numPlanes
	c.planes[i] = p
	c.buffers[i] = h
	c.numPlanes++
	return i
}

// lowerZ moves the plane at z-order z down by one.
func (c *Composition) lowerZ(z int) {
	for i := range c.numPlanes {
		if c.planes[i].Z == z {
			c.planes[i].Z--
			return
		}
	}
}

// retain keeps the planes for which keep returns true, preserving order.
func (c *Composition) retain(keep func(*PlaneDescriptor) bool) {
	n := 0
	for i := range c.numPlanes {
		if !keep(&c.planes[i]) {
			continue
		}
		c.planes[n] = c.planes[i]
		c.buffers[n] = c.buffers[i]
		n++
	}
	for i := n; i < c.numPlanes; i++ {
		c.planes[i] = PlaneDescriptor{}
		c.buffers[i] = 0
	}
	c.numPlanes = n
}

// cloneFrom copies src's planes, renumbering them from c.Base.
func (c *Composition) cloneFrom(src *Composition) {
	c.numPlanes = 0
	for i, p := range src.Planes() {
		p.Plane = c.Base + i
		c.push(p, src.buffers[i])
	}
	c.UseRenderer = src.UseRenderer
	c.SwapRB = src.SwapRB
}
