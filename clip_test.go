package hwc

import "testing"

func TestClipPlane(t *testing.T) {
	region := NewRect(50, 0, 100, 100)
	identity := DisplayTransform{Region: region, Matrix: Identity()}

	tests := []struct {
		name       string
		plane      PlaneDescriptor
		transform  DisplayTransform
		wantWindow Rect
		wantCrop   Rect
		wantOK     bool
	}{
		{
			name: "both ends trimmed",
			plane: PlaneDescriptor{
				Window: NewRect(0, 0, 200, 100),
				Crop:   NewRect(0, 0, 100, 50),
			},
			transform:  identity,
			wantWindow: NewRect(50, 0, 100, 100),
			wantCrop:   NewRect(25, 0, 50, 50),
			wantOK:     true,
		},
		{
			name: "inside region",
			plane: PlaneDescriptor{
				Window: NewRect(60, 10, 20, 20),
				Crop:   NewRect(5, 5, 40, 40),
			},
			transform:  identity,
			wantWindow: NewRect(60, 10, 20, 20),
			wantCrop:   NewRect(5, 5, 40, 40),
			wantOK:     true,
		},
		{
			name: "outside region",
			plane: PlaneDescriptor{
				Window: NewRect(300, 0, 20, 20),
				Crop:   NewRect(0, 0, 20, 20),
			},
			transform: identity,
		},
		{
			name: "touching edge",
			plane: PlaneDescriptor{
				Window: NewRect(150, 0, 20, 20),
				Crop:   NewRect(0, 0, 20, 20),
			},
			transform: identity,
		},
		{
			name: "empty crop",
			plane: PlaneDescriptor{
				Window: NewRect(60, 0, 20, 20),
			},
			transform: identity,
		},
		{
			name: "flipped trims far crop end",
			plane: PlaneDescriptor{
				Window:      NewRect(0, 0, 200, 100),
				Crop:        NewRect(0, 0, 100, 100),
				Orientation: Orientation{HFlip: true},
			},
			transform:  DisplayTransform{Region: NewRect(50, 0, 150, 100), Matrix: Identity()},
			wantWindow: NewRect(50, 0, 150, 100),
			wantCrop:   NewRect(0, 0, 75, 100),
			wantOK:     true,
		},
		{
			name: "quarter turn trims crop height",
			plane: PlaneDescriptor{
				Window:      NewRect(0, 0, 200, 100),
				Crop:        NewRect(0, 0, 50, 100),
				Orientation: Orientation{Rotation: Rotate90},
			},
			transform:  DisplayTransform{Region: NewRect(50, 0, 150, 100), Matrix: Identity()},
			wantWindow: NewRect(50, 0, 150, 100),
			wantCrop:   NewRect(0, 0, 50, 75),
			wantOK:     true,
		},
		{
			name: "half turn trims far crop end",
			plane: PlaneDescriptor{
				Window:      NewRect(0, 0, 100, 200),
				Crop:        NewRect(0, 0, 100, 100),
				Orientation: Orientation{Rotation: Rotate180},
			},
			transform:  DisplayTransform{Region: NewRect(0, 100, 100, 100), Matrix: Identity()},
			wantWindow: NewRect(0, 100, 100, 100),
			wantCrop:   NewRect(0, 0, 100, 50),
			wantOK:     true,
		},
		{
			name: "mapped to device",
			plane: PlaneDescriptor{
				Window: NewRect(0, 0, 100, 50),
				Crop:   NewRect(0, 0, 100, 50),
			},
			transform: DisplayTransform{
				Region: NewRect(0, 0, 100, 100),
				Matrix: Identity().Scale(100, 200, 100, 200).Translate(10, 20),
			},
			wantWindow: NewRect(10, 20, 200, 100),
			wantCrop:   NewRect(0, 0, 100, 50),
			wantOK:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClipPlane(tt.plane, tt.transform)
			if ok != tt.wantOK {
				t.Fatalf("ClipPlane() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !got.Window.ApproxEqual(tt.wantWindow, epsilon) {
				t.Errorf("window = %+v, want %+v", got.Window, tt.wantWindow)
			}
			if !got.Crop.ApproxEqual(tt.wantCrop, epsilon) {
				t.Errorf("crop = %+v, want %+v", got.Crop, tt.wantCrop)
			}
		})
	}
}

func TestClipPlaneFoldsDisplayOrientation(t *testing.T) {
	p := PlaneDescriptor{
		Window:      NewRect(0, 0, 10, 10),
		Crop:        NewRect(0, 0, 10, 10),
		Orientation: Orientation{Rotation: Rotate90},
	}
	tr := DisplayTransform{
		Orientation: Orientation{Rotation: Rotate270},
		Region:      NewRect(0, 0, 10, 10),
		Matrix:      Identity().Rotate(Rotate270),
	}
	got, ok := ClipPlane(p, tr)
	if !ok {
		t.Fatal("plane dropped")
	}
	if !got.Orientation.IsIdentity() {
		t.Errorf("orientation = %v, want identity", got.Orientation)
	}
	if want := NewRect(0, -10, 10, 10); !got.Window.ApproxEqual(want, epsilon) {
		t.Errorf("window = %+v, want %+v", got.Window, want)
	}
}
