package hwc

// MaxDisplays is the number of displays the planner drives: the primary
// panel and one external or secondary output.
const MaxDisplays = 2

// PrimaryIndex is the index of the primary display.
const PrimaryIndex = 0

// DisplayType is the kind of output hardware.
type DisplayType uint8

// Display type constants.
const (
	TypeUnknown DisplayType = iota
	TypePanel
	TypeHDMI
)

// String returns a short name for the display type.
func (t DisplayType) String() string {
	switch t {
	case TypePanel:
		return "panel"
	case TypeHDMI:
		return "hdmi"
	default:
		return unknownStr
	}
}

// Role is what a display is used for.
type Role uint8

// Display roles.
const (
	RolePrimary Role = iota
	RoleExternal
	RoleSecondary
)

// String returns a short name for the role.
func (r Role) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleExternal:
		return "external"
	case RoleSecondary:
		return "secondary"
	default:
		return unknownStr
	}
}

// Mode is the operating mode of a non-primary display.
type Mode uint8

// Display modes.
const (
	ModeInvalid Mode = iota
	// ModeLegacy mirrors a region of the primary display.
	ModeLegacy
	// ModePresentation shows independent content.
	ModePresentation
)

// String returns a short name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeLegacy:
		return "legacy"
	case ModePresentation:
		return "presentation"
	default:
		return "invalid"
	}
}

// DisplayConfig is the active configuration of a display.
type DisplayConfig struct {
	Width     int
	Height    int
	RefreshHz float64

	// PixelClock in kHz. Zero for manually updated panels.
	PixelClock uint32

	// Physical size, zero when unknown.
	WidthMM  int
	HeightMM int
}

// Bounds returns the display resolution as a rectangle at the origin.
func (c DisplayConfig) Bounds() Rect {
	return Rect{W: float64(c.Width), H: float64(c.Height)}
}

// pixelAspect returns the width of one pixel relative to its height, or 1
// when the physical size is unknown.
func (c DisplayConfig) pixelAspect() float64 {
	if c.WidthMM <= 0 || c.HeightMM <= 0 || c.Width <= 0 || c.Height <= 0 {
		return 1
	}
	return (float64(c.WidthMM) / float64(c.Width)) / (float64(c.HeightMM) / float64(c.Height))
}

// DisplayKind carries the role-specific data of a display. It is one of
// LCD, HDMI or UnknownKind.
type DisplayKind interface {
	displayKind()
}

// LCD holds data only the primary panel has.
type LCD struct {
	// Surface is the size of the composed framebuffer. When empty the
	// surface matches the panel resolution.
	Surface Rect
}

// HDMI holds data only external outputs have.
type HDMI struct {
	// MirrorRegion is the part of the primary surface shown in legacy
	// mode. An empty or inverted region mirrors the whole surface.
	MirrorRegion Rect
}

// UnknownKind is a display with no role-specific data.
type UnknownKind struct{}

func (LCD) displayKind()         {}
func (HDMI) displayKind()        {}
func (UnknownKind) displayKind() {}

// Display is the planner's view of one output. Each Display owns its
// Composition storage for the whole time it is connected.
type Display struct {
	Index   int
	Type    DisplayType
	Role    Role
	Mode    Mode
	Config  DisplayConfig
	Blanked bool
	Kind    DisplayKind
	Limits  PlatformLimits

	Transform   DisplayTransform
	Composition Composition

	// updateTransform is set on mode, configuration and mirror changes and
	// cleared only after a successful recompute.
	updateTransform bool
}

// surface returns the composed surface rectangle of a primary display.
func (d *Display) surface() Rect {
	if lcd, ok := d.Kind.(LCD); ok && !lcd.Surface.IsEmpty() {
		return lcd.Surface
	}
	return d.Config.Bounds()
}

// mirroring reports whether d shows a transformed copy of the primary.
func (d *Display) mirroring() bool {
	return d.Role != RolePrimary && d.Mode == ModeLegacy
}

// budgetSlot returns the CompositorState slot holding d's overlay count.
func (d *Display) budgetSlot() int {
	if d.Role == RolePrimary {
		return slotPrimary
	}
	return slotExternal
}

func newDisplay(idx int, t DisplayType, cfg DisplayConfig, limits PlatformLimits) *Display {
	d := &Display{
		Index:           idx,
		Type:            t,
		Config:          cfg,
		Limits:          limits,
		updateTransform: true,
	}
	switch {
	case idx == PrimaryIndex:
		d.Role = RolePrimary
		d.Mode = ModePresentation
		d.Kind = LCD{}
	case t == TypeHDMI:
		d.Role = RoleExternal
		d.Mode = ModeLegacy
		d.Kind = HDMI{}
	case t == TypePanel:
		d.Role = RoleSecondary
		d.Mode = ModePresentation
		d.Kind = UnknownKind{}
	default:
		d.Role = RoleSecondary
		d.Mode = ModeInvalid
		d.Kind = UnknownKind{}
	}
	return d
}
