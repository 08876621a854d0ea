package hwc

import (
	"context"
	"fmt"
	"sync"
)

// PlaneTarget programs a display's overlays from a finished plan.
type PlaneTarget interface {
	Commit(ctx context.Context, display int, comp *Composition) error
}

// PlaneTargetFunc adapts a function to PlaneTarget.
type PlaneTargetFunc func(ctx context.Context, display int, comp *Composition) error

// Commit calls f.
func (f PlaneTargetFunc) Commit(ctx context.Context, display int, comp *Composition) error {
	return f(ctx, display, comp)
}

// DisplayFrame is one display's input for a frame.
type DisplayFrame struct {
	Display int

	// Layers in z-order, bottom first. Prepare writes each layer's
	// Composition and Hints.
	Layers []Layer

	// Stats, when set, is used instead of aggregating Layers.
	Stats *LayerStatistics
}

// Frame is the input of one Prepare call. Displays without an entry are
// planned with no layers.
type Frame []DisplayFrame

// Compositor plans overlay use for the primary display and one external
// or secondary display.
//
// All planning and display-state changes are serialized by one mutex,
// because the overlay pool is shared between displays. Vsync delivery uses
// its own lock and never waits for planning.
type Compositor struct {
	mu       sync.Mutex
	target   PlaneTarget
	opts     options
	state    CompositorState
	displays [MaxDisplays]*Display

	vsyncMu sync.RWMutex
	vsync   VsyncSink
}

// New creates a Compositor driving a primary panel with the given
// configuration. target may be nil when plans are only inspected.
func New(target PlaneTarget, primary DisplayConfig, opts ...Option) (*Compositor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	for t, l := range o.limits {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("hwc: %s limits: %w", t, err)
		}
	}
	if primary.Width <= 0 || primary.Height <= 0 {
		return nil, &DisplayError{Index: PrimaryIndex, Err: ErrInvalidArgument}
	}

	d := newDisplay(PrimaryIndex, TypePanel, primary, o.limits[TypePanel])
	d.Kind = LCD{Surface: o.surface}
	if err := updateTransform(d, nil, o.mirror); err != nil {
		return nil, err
	}

	c := &Compositor{
		target: target,
		opts:   o,
		vsync:  o.vsync,
	}
	c.displays[PrimaryIndex] = d
	return c, nil
}

func (c *Compositor) lookup(idx int) (*Display, error) {
	if idx < 0 || idx >= MaxDisplays || c.displays[idx] == nil {
		return nil, &DisplayError{Index: idx, Err: ErrNoDevice}
	}
	return c.displays[idx], nil
}

// Display returns a snapshot of a connected display.
func (c *Compositor) Display(idx int) (Display, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.lookup(idx)
	if err != nil {
		return Display{}, err
	}
	return *d, nil
}

// Composition returns a copy of a display's latest plan.
func (c *Compositor) Composition(idx int) (Composition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.lookup(idx)
	if err != nil {
		return Composition{}, err
	}
	return d.Composition, nil
}

// State returns the cross-frame planner state.
func (c *Compositor) State() CompositorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// AddDisplay connects a non-primary display, replacing any display at the
// same index. HDMI outputs start in legacy (mirroring) mode.
func (c *Compositor) AddDisplay(idx int, t DisplayType, cfg DisplayConfig) error {
	if idx <= PrimaryIndex || idx >= MaxDisplays {
		return &DisplayError{Index: idx, Err: ErrNoDevice}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return &DisplayError{Index: idx, Err: ErrInvalidArgument}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	limits, ok := c.opts.limits[t]
	if !ok {
		limits = DefaultLimits(t)
	}
	c.displays[idx] = newDisplay(idx, t, cfg, limits)
	Logger().Info("hwc: display connected", "display", idx, "type", t.String(),
		"width", cfg.Width, "height", cfg.Height)
	return nil
}

// RemoveDisplay disconnects a non-primary display. Its overlays stay held
// until the next frame has been planned without it.
func (c *Compositor) RemoveDisplay(idx int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.lookup(idx); err != nil {
		return err
	}
	if idx == PrimaryIndex {
		return &DisplayError{Index: idx, Err: ErrInvalidArgument}
	}
	c.displays[idx] = nil
	Logger().Info("hwc: display disconnected", "display", idx)
	return nil
}

// SetBlank blanks or unblanks a display. A blanked display commits no
// overlays.
func (c *Compositor) SetBlank(idx int, blank bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.lookup(idx)
	if err != nil {
		return err
	}
	d.Blanked = blank
	return nil
}

// SetMode switches a non-primary display between mirroring and
// presentation.
func (c *Compositor) SetMode(idx int, m Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.lookup(idx)
	if err != nil {
		return err
	}
	if d.Role == RolePrimary {
		return &DisplayError{Index: idx, Err: ErrInvalidArgument}
	}
	if d.Mode != m {
		d.Mode = m
		d.updateTransform = true
	}
	return nil
}

// SetConfig applies a new display configuration after a mode change.
func (c *Compositor) SetConfig(idx int, cfg DisplayConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return &DisplayError{Index: idx, Err: ErrInvalidArgument}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.lookup(idx)
	if err != nil {
		return err
	}
	d.Config = cfg
	c.invalidate(d)
	return nil
}

// SetSurface changes the size of the primary's composed surface, e.g.
// after the user interface rotates.
func (c *Compositor) SetSurface(width, height int) error {
	if width <= 0 || height <= 0 {
		return &DisplayError{Index: PrimaryIndex, Err: ErrInvalidArgument}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.displays[PrimaryIndex]
	d.Kind = LCD{Surface: Rect{W: float64(width), H: float64(height)}}
	c.invalidate(d)
	return nil
}

// SetMirrorRegion sets the part of the primary surface an HDMI display
// shows in legacy mode. An empty region mirrors the whole surface.
func (c *Compositor) SetMirrorRegion(idx int, region Rect) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.lookup(idx)
	if err != nil {
		return err
	}
	if _, ok := d.Kind.(HDMI); !ok {
		return &DisplayError{Index: idx, Err: ErrInvalidArgument}
	}
	d.Kind = HDMI{MirrorRegion: region}
	d.updateTransform = true
	return nil
}

// RefreshTransform recomputes a display's transform now and reports any
// error instead of deferring to the next frame.
func (c *Compositor) RefreshTransform(idx int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.lookup(idx)
	if err != nil {
		return err
	}
	d.updateTransform = true
	return updateTransform(d, c.displays[PrimaryIndex], c.opts.mirror)
}

// invalidate marks d's transform, and any mirror of the primary, stale.
func (c *Compositor) invalidate(d *Display) {
	d.updateTransform = true
	if d.Role != RolePrimary {
		return
	}
	for _, other := range c.displays {
		if other != nil && other.mirroring() {
			other.updateTransform = true
		}
	}
}

// Prepare plans one frame for every connected display. Layers in frame
// get their Composition and Hints written back.
//
// Planning runs in two passes. The first allocates the overlay budget and
// assigns planes for each display from its layers, and a mirroring display
// clones the primary's plan. The second clips every plan to its display
// and maps it to device coordinates, so a clone is transformed once from
// the untransformed original.
//
// The only error is a frame entry for a display that is not connected;
// nothing is changed in that case.
func (c *Compositor) Prepare(frame Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var inputs [MaxDisplays]*DisplayFrame
	for i := range frame {
		df := &frame[i]
		if _, err := c.lookup(df.Display); err != nil {
			return err
		}
		inputs[df.Display] = df
	}

	primary := c.displays[PrimaryIndex]
	for _, d := range c.displays {
		if d == nil {
			continue
		}
		if err := updateTransform(d, primary, c.opts.mirror); err != nil {
			Logger().Warn("hwc: transform update failed", "display", d.Index, "err", err)
		}
	}

	var ext *Display
	for _, d := range c.displays[PrimaryIndex+1:] {
		if d != nil && d.Mode != ModeInvalid && !d.updateTransform {
			ext = d
		}
	}

	penv := c.envFor(primary)
	if ext != nil && ext.mirroring() {
		penv.rotates = !ext.Transform.Orientation.IsIdentity()
		penv.tv = ext.Type == TypeHDMI
	}
	players, pstats := statsFor(inputs[PrimaryIndex], primary)

	pb, eb := allocateBudget(&c.state, primary.Limits.MaxOverlays,
		primary.Transform.Scaling, ext != nil, pstats.Protected)

	// Pass 1: plans from layers.
	assignPlanes(&primary.Composition, players, pstats, pb, &penv)
	for _, d := range c.displays[PrimaryIndex+1:] {
		switch {
		case d == nil:
		case d != ext:
			d.Composition.reset(budget{}, d.Limits.MemorySlot)
			d.Composition.UseRenderer = true
		case d.mirroring():
			c.cloneMirror(d, primary, eb, penv.rotates)
		default:
			env := c.envFor(d)
			layers, stats := statsFor(inputs[d.Index], d)
			assignPlanes(&d.Composition, layers, stats, eb, &env)
		}
	}

	c.state.HeldOverlays[slotPrimary] = primary.Composition.Used
	c.state.HeldOverlays[slotExternal] = 0
	if ext != nil {
		c.state.HeldOverlays[slotExternal] = ext.Composition.Used
	}
	c.state.Frame++

	// Pass 2: geometry.
	for _, d := range c.displays {
		if d != nil {
			applyTransform(d)
		}
	}
	return nil
}

// cloneMirror copies the primary's plan onto a mirroring display. The
// clone is all or nothing; when it does not fit the display falls back to
// the renderer.
func (c *Compositor) cloneMirror(d, primary *Display, b budget, rotates bool) {
	comp := &d.Composition
	comp.reset(b, d.Limits.MemorySlot)
	src := &primary.Composition

	fits := src.numPlanes > 0 && src.numPlanes <= b.Available
	if fits && rotates {
		for _, p := range src.Planes() {
			if !p.Format.IsNV12() {
				fits = false
				break
			}
		}
	}
	if fits {
		comp.cloneFrom(src)
	} else {
		comp.UseRenderer = true
		Logger().Debug("hwc: mirror clone does not fit", "display", d.Index,
			"planes", src.numPlanes, "available", b.Available)
	}

	comp.Used = comp.numPlanes
	if d.Blanked {
		comp.Used = 0
	}
}

// applyTransform clips d's planes to its visible region and maps them to
// device coordinates. Planes that vanish are dropped.
func applyTransform(d *Display) {
	comp := &d.Composition
	comp.retain(func(p *PlaneDescriptor) bool {
		clipped, ok := ClipPlane(*p, d.Transform)
		if !ok {
			Logger().Warn("hwc: plane dropped by clipping", "display", d.Index,
				"plane", p.Plane, "layer", p.Layer)
			return false
		}
		*p = clipped
		return true
	})
	comp.Used = min(comp.Used, comp.numPlanes)
	if d.Blanked {
		comp.Used = 0
	}
}

func (c *Compositor) envFor(d *Display) assignEnv {
	return assignEnv{
		policy:            c.opts.policy,
		dtype:             d.Type,
		limits:            d.Limits,
		pixelClock:        d.Config.PixelClock,
		region:            d.Transform.Region,
		surface:           d.surface(),
		framebufferFormat: c.opts.framebufferFormat,
		tv:                d.Type == TypeHDMI,
		blanked:           d.Blanked,
	}
}

func statsFor(df *DisplayFrame, d *Display) ([]Layer, LayerStatistics) {
	if df == nil {
		return nil, LayerStatistics{}
	}
	if df.Stats != nil {
		return df.Layers, *df.Stats
	}
	return df.Layers, CountLayers(df.Layers, d.Type, d.Limits, d.Config.PixelClock)
}

// Set commits the latest plan of every connected display to the plane
// target.
func (c *Compositor) Set(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.target == nil {
		return nil
	}
	for _, d := range c.displays {
		if d == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		comp := d.Composition
		if err := c.target.Commit(ctx, d.Index, &comp); err != nil {
			Logger().Warn("hwc: commit failed", "display", d.Index, "err", err)
			return fmt.Errorf("hwc: commit display %d: %w", d.Index, err)
		}
	}
	return nil
}
