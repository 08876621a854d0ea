package hwc

// State slots for the two displays that share the overlay pool.
const (
	slotPrimary = iota
	slotExternal
	numSlots
)

// CompositorState is the only planner state carried from one frame to the
// next.
type CompositorState struct {
	// HeldOverlays is the number of overlays each display committed in the
	// previous frame, indexed by slot (primary, then external). Overlays
	// cannot move between displays atomically: a plane released by one
	// display this frame is still scanning out until the commit lands, so
	// the other display may not claim it yet.
	//
	// It is written exactly once at the end of plane assignment and read
	// exactly once by the next frame's budget allocation.
	HeldOverlays [numSlots]int

	// Frame counts planned frames.
	Frame uint64
}

// Held returns the overlays the primary and external displays held after
// the last planned frame.
func (s CompositorState) Held() (primary, external int) {
	return s.HeldOverlays[slotPrimary], s.HeldOverlays[slotExternal]
}

// budget is one display's share of the overlay pool for a frame.
type budget struct {
	// Base is the overlay index of the display's first plane.
	Base int

	Wanted    int
	Available int

	// Scaling is how many of the available overlays can scale.
	Scaling int

	// GFX reports whether Base is the non-scaling plane.
	GFX bool
}

// allocateBudget splits the overlay pool between the primary and, when
// active, the external display.
//
// If the primary surface is scaled the non-scaling overlay cannot show it
// and is dropped from the pool. Otherwise it stays reserved for the base
// plane. The primary is guaranteed one fallback plane plus one per
// protected layer, since the renderer cannot read protected buffers.
func allocateBudget(st *CompositorState, maxOverlays int, primaryScaling, externalActive bool, protected int) (primary, external budget) {
	pool := maxOverlays
	base := 0
	gfx := true
	if primaryScaling {
		pool--
		base = 1
		gfx = false
	}
	pool = max(pool, 0)

	freePrimary := clamp(pool-st.HeldOverlays[slotExternal], 0, pool)
	freeExternal := clamp(pool-st.HeldOverlays[slotPrimary], 0, pool)

	wanted := pool
	if externalActive {
		guaranteed := min(1+protected, pool)
		wanted = max(pool/2, guaranteed)
	}
	primary = budget{
		Base:      base,
		Wanted:    wanted,
		Available: min(wanted, freePrimary),
		GFX:       gfx,
	}
	primary.Scaling = primary.Available
	if gfx && primary.Available > 0 {
		primary.Scaling--
	}

	if externalActive {
		// The external display gives back what the primary wants, even when
		// the primary cannot take it yet, so the overlays drain to the
		// primary over the next frame.
		wantedExternal := pool - primary.Wanted
		avail := min(wantedExternal, freeExternal)
		external = budget{
			Base:      base + primary.Available,
			Wanted:    wantedExternal,
			Available: avail,
			Scaling:   avail,
		}
	}

	Logger().Debug("hwc: overlay budget",
		"pool", pool,
		"held_primary", st.HeldOverlays[slotPrimary],
		"held_external", st.HeldOverlays[slotExternal],
		"primary", primary.Available,
		"external", external.Available)
	return primary, external
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
