package hwc

import "strconv"

// QuarterTurn is a rotation by a multiple of 90 degrees. Positive turns are
// clockwise in device coordinates (origin top-left, y down).
type QuarterTurn uint8

// Quarter turn constants.
const (
	Rotate0 QuarterTurn = iota
	Rotate90
	Rotate180
	Rotate270
)

// Normalize reduces q to the range [0, 3].
func (q QuarterTurn) Normalize() QuarterTurn { return q & 3 }

// Odd reports whether q swaps the x and y axes.
func (q QuarterTurn) Odd() bool { return q&1 == 1 }

// Add returns the sum of two rotations.
func (q QuarterTurn) Add(o QuarterTurn) QuarterTurn { return (q + o) & 3 }

// Inverse returns the rotation that undoes q.
func (q QuarterTurn) Inverse() QuarterTurn { return (4 - q&3) & 3 }

// Degrees returns the rotation in degrees.
func (q QuarterTurn) Degrees() int { return int(q&3) * 90 }

// String returns the rotation in degrees, e.g. "270".
func (q QuarterTurn) String() string { return strconv.Itoa(q.Degrees()) }

// Orientation is a quarter-turn rotation followed by an optional horizontal
// flip. It replaces packed rotation+flip bitmasks.
type Orientation struct {
	Rotation QuarterTurn
	HFlip    bool
}

// IsIdentity reports whether o leaves geometry unchanged.
func (o Orientation) IsIdentity() bool {
	return o.Rotation.Normalize() == Rotate0 && !o.HFlip
}

// Then returns the orientation equivalent to applying o and then next.
//
// A flip reverses the direction of any rotation that follows it, so
// R(a) F R(b) == R(a-b) F.
func (o Orientation) Then(next Orientation) Orientation {
	r := next.Rotation.Normalize()
	if o.HFlip {
		r = r.Inverse()
	}
	return Orientation{
		Rotation: o.Rotation.Add(r),
		HFlip:    o.HFlip != next.HFlip,
	}
}

// String returns a compact form such as "90" or "270+flip".
func (o Orientation) String() string {
	if o.HFlip {
		return o.Rotation.String() + "+flip"
	}
	return o.Rotation.String()
}

// MirrorPolicy chooses how a mirrored region is reoriented on an external
// display. Portrait applies to regions taller than wide.
type MirrorPolicy struct {
	Portrait  Orientation
	Landscape Orientation
}

// DefaultMirrorPolicy rotates portrait content to landscape for mirroring
// and leaves landscape content untouched.
func DefaultMirrorPolicy() MirrorPolicy {
	return MirrorPolicy{
		Portrait:  Orientation{Rotation: Rotate270},
		Landscape: Orientation{},
	}
}

// MirrorOrientation returns the orientation the policy applies to region.
func (p MirrorPolicy) MirrorOrientation(region Rect) Orientation {
	if region.H > region.W {
		return p.Portrait
	}
	return p.Landscape
}
