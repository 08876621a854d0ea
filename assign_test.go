package hwc

import "testing"

func testEnv() *assignEnv {
	screen := NewRect(0, 0, 1024, 768)
	return &assignEnv{
		dtype:             TypePanel,
		limits:            DefaultLimits(TypePanel),
		region:            screen,
		surface:           screen,
		framebufferFormat: FormatRGBA8888,
	}
}

func fullBudget() budget {
	return budget{Wanted: 4, Available: 4, Scaling: 3, GFX: true}
}

func plan(t *testing.T, layers []Layer, b budget, env *assignEnv) *Composition {
	t.Helper()
	var comp Composition
	s := CountLayers(layers, env.dtype, env.limits, env.pixelClock)
	assignPlanes(&comp, layers, s, b, env)
	return &comp
}

func TestCanUseOverlaysExclusively(t *testing.T) {
	base := LayerStatistics{Count: 3, Composable: 3, Scaled: 1, NV12: 1, RGB: 2}
	tests := []struct {
		name   string
		stats  func(*LayerStatistics)
		budget budget
		env    func(*assignEnv)
		want   bool
	}{
		{name: "fits", budget: budget{Available: 3, Scaling: 2}, want: true},
		{name: "too few overlays", budget: budget{Available: 2, Scaling: 2}},
		{name: "too few scalers", budget: budget{Available: 3, Scaling: 0}},
		{
			name:   "uncomposable layer",
			stats:  func(s *LayerStatistics) { s.Count = 4 },
			budget: budget{Available: 4, Scaling: 3},
		},
		{
			name:   "no layers",
			stats:  func(s *LayerStatistics) { *s = LayerStatistics{} },
			budget: budget{Available: 4, Scaling: 3},
		},
		{
			name:   "forced renderer",
			budget: budget{Available: 3, Scaling: 2},
			env:    func(e *assignEnv) { e.policy.ForceRenderer = true },
		},
		{
			name:   "nv12 only with rgb layers",
			budget: budget{Available: 3, Scaling: 2},
			env:    func(e *assignEnv) { e.policy.NV12Only = true },
		},
		{
			name:   "mixed channel order",
			stats:  func(s *LayerStatistics) { s.BGR = 1; s.RGB = 1 },
			budget: budget{Available: 3, Scaling: 2},
			env:    func(e *assignEnv) { e.policy.RGBOrder = true },
		},
		{
			name:   "bgr only without tv",
			stats:  func(s *LayerStatistics) { s.BGR = 2; s.RGB = 0 },
			budget: budget{Available: 3, Scaling: 2},
			env:    func(e *assignEnv) { e.policy.RGBOrder = true },
			want:   true,
		},
		{
			name:   "bgr only on tv",
			stats:  func(s *LayerStatistics) { s.BGR = 2; s.RGB = 0 },
			budget: budget{Available: 3, Scaling: 2},
			env:    func(e *assignEnv) { e.policy.RGBOrder = true; e.tv = true },
		},
		{
			name:   "rotating clone needs nv12",
			budget: budget{Available: 3, Scaling: 2},
			env:    func(e *assignEnv) { e.rotates = true },
		},
		{
			name:   "memory slot exceeded",
			stats:  func(s *LayerStatistics) { s.Memory = 32 << 20 },
			budget: budget{Available: 3, Scaling: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			if tt.stats != nil {
				tt.stats(&s)
			}
			env := testEnv()
			if tt.env != nil {
				tt.env(env)
			}
			if got := canUseOverlaysExclusively(s, tt.budget, env); got != tt.want {
				t.Errorf("canUseOverlaysExclusively() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssignExclusive(t *testing.T) {
	layers := []Layer{
		opaqueLayer(1, FormatRGBA8888, 0, 0, 1024, 768),
		opaqueLayer(2, FormatRGBX8888, 100, 100, 200, 200),
	}
	comp := plan(t, layers, fullBudget(), testEnv())

	if comp.UseRenderer {
		t.Error("UseRenderer = true, want overlays only")
	}
	if comp.Used != 2 {
		t.Errorf("Used = %d, want 2", comp.Used)
	}
	for i, p := range comp.Planes() {
		if p.Plane != i || p.Z != i || p.Layer != i {
			t.Errorf("plane %d = %+v, want id, z and layer %d", i, p, i)
		}
		if got := comp.Buffers()[i]; got != layers[i].Buffer.Handle {
			t.Errorf("buffer %d = %d, want %d", i, got, layers[i].Buffer.Handle)
		}
	}
	for i, l := range layers {
		if l.Composition != CompositionOverlay {
			t.Errorf("layer %d composition = %v, want overlay", i, l.Composition)
		}
		if l.Hints != 0 {
			t.Errorf("layer %d hints = %b, want none", i, l.Hints)
		}
	}
}

func TestAssignSwapsScaledLayerOffGFX(t *testing.T) {
	layers := []Layer{
		scaledLayer(1, FormatRGBA8888, 320, 240, NewRect(0, 0, 640, 480)),
		opaqueLayer(2, FormatRGBA8888, 700, 500, 100, 100),
	}
	comp := plan(t, layers, fullBudget(), testEnv())

	planes := comp.Planes()
	if len(planes) != 2 {
		t.Fatalf("planned %d planes, want 2", len(planes))
	}
	if planes[0].Layer != 0 || planes[0].Plane != 1 {
		t.Errorf("scaled layer on plane %d, want 1", planes[0].Plane)
	}
	if planes[1].Layer != 1 || planes[1].Plane != 0 {
		t.Errorf("unscaled layer on plane %d, want 0", planes[1].Plane)
	}
	if planes[0].Z != 0 || planes[1].Z != 1 {
		t.Errorf("z-order changed: %d, %d", planes[0].Z, planes[1].Z)
	}
}

func TestAssignLoneScaledLayerLeavesGFX(t *testing.T) {
	layers := []Layer{scaledLayer(1, FormatRGBA8888, 320, 240, NewRect(0, 0, 640, 480))}
	comp := plan(t, layers, fullBudget(), testEnv())

	planes := comp.Planes()
	if len(planes) != 1 || planes[0].Plane == 0 {
		t.Fatalf("planes = %+v, want one plane off the GFX plane", planes)
	}
}

func TestAssignRendererTakesGFX(t *testing.T) {
	video := opaqueLayer(1, FormatNV12, 0, 0, 640, 480)
	layers := []Layer{video, skipLayer(2, 0, 500, 100, 100)}
	comp := plan(t, layers, fullBudget(), testEnv())

	if !comp.UseRenderer {
		t.Fatal("UseRenderer = false, want true")
	}
	planes := comp.Planes()
	if len(planes) != 2 {
		t.Fatalf("planned %d planes, want 2", len(planes))
	}
	if planes[0].Plane != 1 {
		t.Errorf("video plane id = %d, want 1", planes[0].Plane)
	}
	if planes[1].Layer != RendererLayer || planes[1].Plane != 0 {
		t.Errorf("renderer plane = %+v, want layer %d on plane 0", planes[1], RendererLayer)
	}
	if layers[0].Hints&HintClearFramebuffer == 0 {
		t.Error("opaque overlay under the renderer lacks HintClearFramebuffer")
	}
	if layers[1].Hints&HintTripleBuffer == 0 {
		t.Error("renderer layer lacks HintTripleBuffer while video is on an overlay")
	}
}

func TestAssignRendererFallback(t *testing.T) {
	tests := []struct {
		name   string
		layers []Layer
		// want is the composition of each layer.
		want []CompositionType
		// z is the z-order of each planned plane, renderer included.
		z []int
	}{
		{
			name: "skip between overlays",
			layers: []Layer{
				opaqueLayer(1, FormatRGBA8888, 0, 0, 100, 100),
				skipLayer(2, 0, 0, 100, 100),
				opaqueLayer(3, FormatRGBA8888, 200, 200, 100, 100),
			},
			want: []CompositionType{CompositionOverlay, CompositionRenderer, CompositionOverlay},
			z:    []int{0, 2, 1},
		},
		{
			name: "blended layer above renderer",
			layers: []Layer{
				skipLayer(1, 0, 0, 100, 100),
				func() Layer {
					l := opaqueLayer(2, FormatRGBA8888, 0, 0, 100, 100)
					l.Blended = true
					return l
				}(),
			},
			want: []CompositionType{CompositionRenderer, CompositionRenderer},
			z:    []int{0},
		},
		{
			name: "overlay lowered below later renderer layer",
			layers: []Layer{
				opaqueLayer(1, FormatRGBA8888, 0, 0, 100, 100),
				skipLayer(2, 0, 0, 100, 100),
				opaqueLayer(3, FormatRGBA8888, 200, 200, 100, 100),
				skipLayer(4, 400, 400, 100, 100),
			},
			want: []CompositionType{CompositionOverlay, CompositionRenderer, CompositionOverlay, CompositionRenderer},
			z:    []int{0, 1, 2},
		},
		{
			name: "hidden layer",
			layers: []Layer{
				skipLayer(1, 0, 0, 100, 100),
				opaqueLayer(2, FormatRGBA8888, 2000, 2000, 100, 100),
			},
			want: []CompositionType{CompositionRenderer, CompositionHidden},
			z:    []int{0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := plan(t, tt.layers, fullBudget(), testEnv())
			if !comp.UseRenderer {
				t.Fatal("UseRenderer = false, want true")
			}
			for i, l := range tt.layers {
				if l.Composition != tt.want[i] {
					t.Errorf("layer %d composition = %v, want %v", i, l.Composition, tt.want[i])
				}
			}
			planes := comp.Planes()
			if len(planes) != len(tt.z) {
				t.Fatalf("planned %d planes, want %d", len(planes), len(tt.z))
			}
			for i, p := range planes {
				if p.Z != tt.z[i] {
					t.Errorf("plane %d (layer %d) z = %d, want %d", i, p.Layer, p.Z, tt.z[i])
				}
			}
			if last := planes[len(planes)-1]; last.Layer != RendererLayer {
				t.Errorf("last plane is layer %d, want the renderer", last.Layer)
			}
		})
	}
}

func TestAssignRetriesWhenOverlayOnlyPlanFails(t *testing.T) {
	layers := []Layer{
		opaqueLayer(1, FormatRGBA8888, 0, 0, 100, 100),
		skipLayer(2, 0, 0, 100, 100),
	}
	// Statistics that claim every layer is composable.
	s := LayerStatistics{Count: 2, Composable: 2, RGB: 2}
	var comp Composition
	assignPlanes(&comp, layers, s, fullBudget(), testEnv())

	if !comp.UseRenderer {
		t.Fatal("UseRenderer = false, want the renderer fallback")
	}
	if layers[0].Composition != CompositionOverlay || layers[1].Composition != CompositionRenderer {
		t.Errorf("compositions = %v, %v", layers[0].Composition, layers[1].Composition)
	}
}

func TestAssignLimits(t *testing.T) {
	t.Run("zero budget", func(t *testing.T) {
		layers := []Layer{opaqueLayer(1, FormatRGBA8888, 0, 0, 100, 100)}
		comp := plan(t, layers, budget{}, testEnv())
		if len(comp.Planes()) != 0 || !comp.UseRenderer {
			t.Errorf("planes = %d, renderer = %v", len(comp.Planes()), comp.UseRenderer)
		}
		if layers[0].Composition != CompositionRenderer {
			t.Errorf("composition = %v, want renderer", layers[0].Composition)
		}
	})

	t.Run("memory slot", func(t *testing.T) {
		env := testEnv()
		env.limits.MemorySlot = 4 << 20
		layers := []Layer{
			opaqueLayer(1, FormatRGBA8888, 0, 0, 1024, 768),
			opaqueLayer(2, FormatRGBA8888, 0, 0, 1024, 768),
		}
		comp := plan(t, layers, fullBudget(), env)
		if layers[0].Composition != CompositionOverlay || layers[1].Composition != CompositionRenderer {
			t.Errorf("compositions = %v, %v", layers[0].Composition, layers[1].Composition)
		}
		var mem int64
		for _, p := range comp.Planes() {
			if p.Layer >= 0 {
				mem += layers[p.Layer].Memory()
			}
		}
		if mem > env.limits.MemorySlot {
			t.Errorf("overlay memory %d exceeds slot %d", mem, env.limits.MemorySlot)
		}
	})

	t.Run("force renderer keeps protected", func(t *testing.T) {
		env := testEnv()
		env.policy.ForceRenderer = true
		secure := opaqueLayer(1, FormatRGBA8888, 0, 0, 100, 100)
		secure.Protected = true
		layers := []Layer{secure, opaqueLayer(2, FormatRGBA8888, 0, 0, 100, 100)}
		plan(t, layers, fullBudget(), env)
		if layers[0].Composition != CompositionOverlay || layers[1].Composition != CompositionRenderer {
			t.Errorf("compositions = %v, %v", layers[0].Composition, layers[1].Composition)
		}
	})

	t.Run("blanked", func(t *testing.T) {
		env := testEnv()
		env.blanked = true
		layers := []Layer{opaqueLayer(1, FormatRGBA8888, 0, 0, 100, 100)}
		comp := plan(t, layers, fullBudget(), env)
		if comp.Used != 0 {
			t.Errorf("Used = %d, want 0", comp.Used)
		}
		if len(comp.Planes()) != 1 {
			t.Errorf("planned %d planes, want 1", len(comp.Planes()))
		}
	})

	t.Run("video pipes", func(t *testing.T) {
		layers := []Layer{
			opaqueLayer(1, FormatNV12, 0, 0, 320, 240),
			opaqueLayer(2, FormatNV12, 320, 0, 320, 240),
			skipLayer(3, 0, 400, 100, 100),
		}
		b := budget{Wanted: 4, Available: 4, Scaling: 1, GFX: true}
		comp := plan(t, layers, b, testEnv())
		video := 0
		for _, p := range comp.Planes() {
			if p.Format.IsNV12() {
				video++
			}
		}
		if video > b.Scaling {
			t.Errorf("%d video planes, scaling budget %d", video, b.Scaling)
		}
	})
}

func TestAssignPlanInvariants(t *testing.T) {
	frames := [][]Layer{
		{opaqueLayer(1, FormatRGBA8888, 0, 0, 1024, 768)},
		{
			opaqueLayer(1, FormatNV12, 0, 0, 640, 480),
			scaledLayer(2, FormatRGBA8888, 100, 100, NewRect(0, 0, 300, 300)),
			opaqueLayer(3, FormatRGB565, 0, 0, 50, 50),
		},
		{
			skipLayer(1, 0, 0, 1024, 768),
			scaledLayer(2, FormatBGRA8888, 100, 100, NewRect(0, 0, 300, 300)),
			opaqueLayer(3, FormatRGBA8888, 0, 0, 50, 50),
			opaqueLayer(4, FormatNV12, 500, 0, 320, 240),
			skipLayer(5, 0, 0, 10, 10),
		},
	}
	budgets := []budget{
		fullBudget(),
		{Wanted: 2, Available: 2, Scaling: 1, GFX: true},
		{Base: 1, Wanted: 3, Available: 3, Scaling: 3},
		{Base: 2, Wanted: 2, Available: 1, Scaling: 1},
	}
	for fi, frame := range frames {
		for bi, b := range budgets {
			layers := append([]Layer(nil), frame...)
			comp := plan(t, layers, b, testEnv())

			if comp.Used > comp.Available || comp.Available > comp.Wanted {
				t.Errorf("frame %d budget %d: used %d, available %d, wanted %d",
					fi, bi, comp.Used, comp.Available, comp.Wanted)
			}
			seenID := map[int]bool{}
			seenZ := map[int]bool{}
			for _, p := range comp.Planes() {
				if p.Plane < b.Base || p.Plane >= b.Base+b.Available {
					t.Errorf("frame %d budget %d: plane id %d outside [%d, %d)",
						fi, bi, p.Plane, b.Base, b.Base+b.Available)
				}
				if seenID[p.Plane] || seenZ[p.Z] {
					t.Errorf("frame %d budget %d: duplicate plane id %d or z %d", fi, bi, p.Plane, p.Z)
				}
				seenID[p.Plane], seenZ[p.Z] = true, true
				if b.GFX && p.Plane == b.Base && p.Layer >= 0 && layers[p.Layer].NeedsVideoPipe() {
					t.Errorf("frame %d budget %d: layer %d needs scaling but sits on the GFX plane",
						fi, bi, p.Layer)
				}
			}
		}
	}
}
