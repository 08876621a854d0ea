package hwc

import "testing"

func TestCanScale(t *testing.T) {
	panel := DefaultLimits(TypePanel)

	noDecim := panel
	noDecim.MaxXDecim1D = 1
	noDecim.MaxYDecim1D = 1

	tight := panel
	tight.MaxYDecim1D = 1
	tight.MaxDownscale = 2

	tests := []struct {
		name                   string
		srcW, srcH, dstW, dstH uint32
		limits                 PlatformLimits
		pclk                   uint32
		want                   bool
	}{
		{"identity", 100, 100, 100, 100, panel, 0, true},
		{"upscale", 100, 100, 400, 400, panel, 65000, true},
		{"vertical beyond safety margin", 100, 100, 100, 20, panel, 0, false},
		{"vertical at safety margin", 100, 100, 100, 25, panel, 0, true},
		{"horizontal beyond safety margin", 100, 100, 20, 100, panel, 65000, false},
		{"manual panel skips horizontal margin", 100, 100, 20, 100, panel, 0, true},
		{"bandwidth with decimation", 1000, 100, 300, 100, panel, 65000, true},
		{"bandwidth without decimation", 1000, 100, 300, 100, noDecim, 65000, false},
		{"bandwidth without decimation wide", 1000, 100, 600, 100, noDecim, 65000, true},
		{"vertical downscale limit", 100, 100, 100, 40, tight, 0, false},
		{"vertical downscale at limit", 100, 100, 100, 50, tight, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanScale(tt.srcW, tt.srcH, tt.dstW, tt.dstH, false, tt.limits, tt.pclk)
			if got != tt.want {
				t.Errorf("CanScale(%dx%d -> %dx%d, pclk %d) = %v, want %v",
					tt.srcW, tt.srcH, tt.dstW, tt.dstH, tt.pclk, got, tt.want)
			}
		})
	}
}

func TestCanScaleMonotonicInHeight(t *testing.T) {
	limits := DefaultLimits(TypeHDMI)
	for _, pclk := range []uint32{0, 74250, 148500} {
		seen := false
		for dstH := uint32(1); dstH <= 1200; dstH++ {
			ok := CanScale(1280, 1080, 1280, dstH, false, limits, pclk)
			if seen && !ok {
				t.Fatalf("pclk %d: scaling to height %d fails after a smaller height passed", pclk, dstH)
			}
			seen = seen || ok
		}
		if !seen {
			t.Errorf("pclk %d: no height passed", pclk)
		}
	}
}

func TestCanScaleLayer(t *testing.T) {
	limits := DefaultLimits(TypePanel)

	rotated := scaledLayer(1, FormatNV12, 200, 100, NewRect(0, 0, 100, 200))
	rotated.Orientation = Orientation{Rotation: Rotate90}

	thin := opaqueLayer(1, FormatRGBA8888, 0, 0, 1, 100)
	wide := opaqueLayer(1, FormatRGBA8888, 0, 0, 4096, 10)
	flat := opaqueLayer(1, FormatRGBA8888, 0, 0, 100, 1)

	tests := []struct {
		name  string
		layer Layer
		dtype DisplayType
		want  bool
	}{
		{"rotated crop matches window", rotated, TypePanel, true},
		{"one pixel wide on panel", thin, TypePanel, false},
		{"one pixel wide on hdmi", thin, TypeHDMI, true},
		{"wider than scaler", wide, TypePanel, false},
		{"one pixel tall on panel", flat, TypePanel, false},
		{"one pixel tall on hdmi", flat, TypeHDMI, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canScaleLayer(&tt.layer, tt.dtype, limits, 0); got != tt.want {
				t.Errorf("canScaleLayer() = %v, want %v", got, tt.want)
			}
		})
	}

	if rotated.NeedsScaling() {
		t.Error("rotated layer whose crop matches its window reports scaling")
	}
}
