// Package preview renders display plans as images.
//
// Each committed plane is drawn as a labeled test card of its crop size,
// mapped through the plane orientation onto its device window, so the
// picture shows where every overlay lands and which way it is turned.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/hwc"
)

var (
	background = color.RGBA{R: 0x20, G: 0x20, B: 0x24, A: 0xff}
	rendererBG = color.RGBA{R: 0x40, G: 0x40, B: 0x48, A: 0xff}
	outline    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	labelInk   = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
)

// formatColor returns the card color of a pixel format.
func formatColor(f hwc.PixelFormat) color.RGBA {
	switch {
	case f.IsNV12():
		return color.RGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}
	case f.IsBGR():
		return color.RGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff}
	case f.IsRGB():
		return color.RGBA{R: 0xff, G: 0x98, B: 0x00, A: 0xff}
	default:
		return color.RGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff}
	}
}

// maxCard bounds the test card size so huge crops stay cheap to draw.
const maxCard = 512

// Render draws the committed planes of d at its native resolution.
func Render(d hwc.Display) *image.RGBA {
	w, h := d.Config.Width, d.Config.Height
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := background
	if d.Composition.UseRenderer {
		bg = rendererBG
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	comp := d.Composition
	for _, p := range comp.Committed() {
		drawPlane(dst, p)
	}

	label(dst, 4, h-4, outline, fmt.Sprintf("display %d %s %s  used %d/%d",
		d.Index, d.Type, d.Mode, comp.Used, comp.Available))
	return dst
}

func drawPlane(dst *image.RGBA, p hwc.PlaneDescriptor) {
	if p.Crop.IsEmpty() || p.Window.IsEmpty() {
		return
	}
	card := testCard(p)
	cw, ch := float64(card.Bounds().Dx()), float64(card.Bounds().Dy())

	// Card space to device space: center, orient, scale to the window.
	w, h := hwc.NewRect(0, 0, cw, ch).Size(p.Orientation.Rotation)
	c := p.Window.Center()
	m := hwc.Identity().
		Translate(-cw/2, -ch/2).
		Orient(p.Orientation).
		Scale(w, p.Window.W, h, p.Window.H).
		Translate(c.X, c.Y)

	draw.BiLinear.Transform(dst, m.Aff3(), card, card.Bounds(), draw.Over, nil)
	strokeRect(dst, p.Window.Image(), outline)
}

// testCard draws the plane's source as a card with an arrow marking its
// top-left corner, so orientation survives the mapping.
func testCard(p hwc.PlaneDescriptor) *image.RGBA {
	cw := clampDim(p.Crop.W)
	ch := clampDim(p.Crop.H)
	card := image.NewRGBA(image.Rect(0, 0, cw, ch))

	fill := formatColor(p.Format)
	if p.Layer == hwc.RendererLayer {
		fill = rendererBG
	}
	if p.Blended {
		fill.A = 0xc0
	}
	draw.Draw(card, card.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)

	corner := image.Rect(0, 0, max(cw/6, 2), max(ch/6, 2))
	draw.Draw(card, corner, image.NewUniform(labelInk), image.Point{}, draw.Src)

	name := fmt.Sprintf("L%d", p.Layer)
	if p.Layer == hwc.RendererLayer {
		name = "FB"
	}
	label(card, 4, ch/2, labelInk, fmt.Sprintf("%s p%d z%d %s", name, p.Plane, p.Z, p.Format))
	return card
}

func clampDim(v float64) int {
	return min(max(int(v), 1), maxCard)
}

func label(dst draw.Image, x, y int, c color.Color, text string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func strokeRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e, src, image.Point{}, draw.Src)
	}
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
