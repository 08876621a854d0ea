package hwc

import (
	"testing"

	"golang.org/x/image/math/f64"
)

func TestRotateQuarterTurns(t *testing.T) {
	tests := []struct {
		name string
		q    QuarterTurn
		in   Point
		want Point
	}{
		{"0", Rotate0, Pt(3, 1), Pt(3, 1)},
		{"90", Rotate90, Pt(1, 0), Pt(0, 1)},
		{"90 y axis", Rotate90, Pt(0, 1), Pt(-1, 0)},
		{"180", Rotate180, Pt(1, 2), Pt(-1, -2)},
		{"270", Rotate270, Pt(1, 0), Pt(0, -1)},
		{"wraps", QuarterTurn(5), Pt(1, 0), Pt(0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Identity().Rotate(tt.q).TransformPoint(tt.in)
			if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) {
				t.Errorf("Rotate(%d) maps %v to %v, want %v", tt.q, tt.in, got, tt.want)
			}
		})
	}
}

func TestRotateComposesAfterTranslate(t *testing.T) {
	// Translate first, then rotate the translated point.
	m := Identity().Translate(10, 0).Rotate(Rotate90)
	got := m.TransformPoint(Pt(0, 0))
	if !approx(got.X, 0) || !approx(got.Y, 10) {
		t.Errorf("got %v, want (0, 10)", got)
	}
}

func TestScale(t *testing.T) {
	m := Identity().Scale(100, 200, 50, 25)
	got := m.TransformPoint(Pt(10, 10))
	if !approx(got.X, 20) || !approx(got.Y, 5) {
		t.Errorf("got %v, want (20, 5)", got)
	}

	if m := Identity().Scale(0, 10, 10, 10); !m.IsIdentity() {
		t.Errorf("zero source extent changed the matrix: %+v", m)
	}
}

func TestFlipX(t *testing.T) {
	got := Identity().FlipX().TransformPoint(Pt(4, 5))
	if !approx(got.X, -4) || !approx(got.Y, 5) {
		t.Errorf("got %v, want (-4, 5)", got)
	}
}

func TestTransformRectBoundingBox(t *testing.T) {
	got := Identity().Rotate(Rotate90).TransformRect(NewRect(0, 0, 20, 10))
	want := NewRect(-10, 0, 10, 20)
	if !got.ApproxEqual(want, epsilon) {
		t.Errorf("TransformRect = %+v, want %+v", got, want)
	}
}

func TestTransformRectInverseRoundTrip(t *testing.T) {
	r := NewRect(10, 20, 30, 40)
	matrices := []struct {
		name string
		m    Matrix
	}{
		{"identity", Identity()},
		{"translate", Identity().Translate(-5, 7)},
		{"rotate 90", Identity().Rotate(Rotate90)},
		{"rotate 270 scaled", Identity().Rotate(Rotate270).Scale(3, 5, 2, 7)},
		{"display style", Identity().Translate(-512, -384).Rotate(Rotate90).Scale(768, 1080, 1024, 1440).Translate(960, 540)},
		{"flip", Identity().Rotate(Rotate180).FlipX().Translate(3, 3)},
	}
	for _, tt := range matrices {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.Invert().TransformRect(tt.m.TransformRect(r))
			if !got.ApproxEqual(r, 1e-6) {
				t.Errorf("round trip = %+v, want %+v", got, r)
			}
		})
	}
}

func TestMultiplyMatchesBuilder(t *testing.T) {
	built := Identity().Translate(4, 5).Scale(1, 2, 1, 3)
	scale := Identity().Scale(1, 2, 1, 3)
	composed := scale.Multiply(Identity().Translate(4, 5))
	if !built.ApproxEqual(composed, epsilon) {
		t.Errorf("builder %+v != multiply %+v", built, composed)
	}
}

func TestInvertSingular(t *testing.T) {
	if got := (Matrix{}).Invert(); !got.IsIdentity() {
		t.Errorf("singular Invert() = %+v, want identity", got)
	}
}

func TestAff3(t *testing.T) {
	m := Matrix{A: 1, B: 2, C: 3, D: 4, E: 5, F: 6}
	if got, want := m.Aff3(), (f64.Aff3{1, 2, 3, 4, 5, 6}); got != want {
		t.Errorf("Aff3() = %v, want %v", got, want)
	}
}
