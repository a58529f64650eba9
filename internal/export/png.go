package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/piwi3910/CircleCut/internal/model"
)

// PNGOptions configures raster rendering.
type PNGOptions struct {
	Size       int     // Output width and height in pixels
	Padding    int     // Pixels between the circle and the image edge
	LineWidth  float64 // Outline width in output pixels
	ShowLabels bool    // Draw 1-based rectangle numbers
}

// DefaultPNGOptions returns the options used by the GUI and CLI exports.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Size:       1000,
		Padding:    40,
		LineWidth:  2,
		ShowLabels: true,
	}
}

// supersample is the render multiplier; the image is drawn large and
// scaled down for antialiasing.
const supersample = 4

const circleSegments = 256

type raster struct {
	img  *image.RGBA
	vp   viewport
	lw   float64 // line width in large-image pixels
	face font.Face
}

// RenderImage draws the packing result and returns the downsampled image.
func RenderImage(result model.PackingResult, settings model.PackSettings, opts PNGOptions) (*image.RGBA, error) {
	if err := checkResult(result); err != nil {
		return nil, err
	}
	if opts.Size <= 0 {
		return nil, fmt.Errorf("image size must be > 0, got %d", opts.Size)
	}

	large := opts.Size * supersample
	img := image.NewRGBA(image.Rect(0, 0, large, large))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	r := &raster{
		img: img,
		vp:  fitViewport(result.Circle.Radius, 0, 0, float64(large), float64(large), float64(opts.Padding*supersample)),
		lw:  math.Max(opts.LineWidth, 0.5) * supersample,
	}
	if opts.ShowLabels {
		face, err := labelFace(float64(12 * supersample))
		if err != nil {
			return nil, err
		}
		r.face = face
		defer face.Close()
	}

	r.ring(result.Circle.Radius, colorCircle)
	if sr := safeZoneRadius(result, settings); sr > 0 {
		r.ring(sr, colorSafeZone)
	}
	for i, rect := range result.Rectangles {
		r.rectangle(rect, colorRectFill, colorRectEdge)
		if r.face != nil {
			r.label(rect.Position, rectLabel(i))
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	draw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), draw.Over, nil)
	return out, nil
}

// WritePNG encodes the rendered result to w.
func WritePNG(w io.Writer, result model.PackingResult, settings model.PackSettings, opts PNGOptions) error {
	img, err := RenderImage(result, settings, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// ExportPNG writes the rendered result to path.
func ExportPNG(path string, result model.PackingResult, settings model.PackSettings, opts PNGOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create PNG: %w", err)
	}
	if err := WritePNG(f, result, settings, opts); err != nil {
		f.Close()
		return fmt.Errorf("encode PNG: %w", err)
	}
	return f.Close()
}

func labelFace(size float64) (font.Face, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	return opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func rgba(c rgb) color.RGBA {
	return color.RGBA{c.R, c.G, c.B, 255}
}

// ring draws a circle outline as an annulus. The inner path runs the
// opposite way so the rasterizer cancels its coverage.
func (r *raster) ring(radius float64, c rgb) {
	b := r.img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	outer := r.vp.length(radius) + r.lw/2
	inner := math.Max(r.vp.length(radius)-r.lw/2, 0)
	cx, cy := r.vp.cx, r.vp.cy

	for i := 0; i <= circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		x, y := float32(cx+outer*math.Cos(a)), float32(cy+outer*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	for i := 0; i <= circleSegments; i++ {
		a := -2 * math.Pi * float64(i) / circleSegments
		x, y := float32(cx+inner*math.Cos(a)), float32(cy+inner*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	z.Draw(r.img, b, image.NewUniform(rgba(c)), image.Point{})
}

// rectangle fills the rectangle with the edge colour and then paints the
// interior inset by one line width.
func (r *raster) rectangle(rect model.Rectangle, fill, edge rgb) {
	r.polygon(rect.Corners(), edge)
	inset := r.lw / r.vp.scale
	if rect.Width > 2*inset && rect.Height > 2*inset {
		inner := model.NewRectangle(rect.Position, rect.Width-2*inset, rect.Height-2*inset, rect.Rotation)
		r.polygon(inner.Corners(), fill)
	}
}

func (r *raster) polygon(pts [4]model.Position, c rgb) {
	b := r.img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	for i, p := range pts {
		x, y := r.vp.point(p)
		if i == 0 {
			z.MoveTo(float32(x), float32(y))
		} else {
			z.LineTo(float32(x), float32(y))
		}
	}
	z.ClosePath()
	z.Draw(r.img, b, image.NewUniform(rgba(c)), image.Point{})
}

func (r *raster) label(at model.Position, text string) {
	x, y := r.vp.point(at)
	width := font.MeasureString(r.face, text).Ceil()
	ascent := r.face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(rgba(colorLabel)),
		Face: r.face,
		Dot: fixed.Point26_6{
			X: fixed.I(int(x) - width/2),
			Y: fixed.I(int(y) + ascent/3),
		},
	}
	d.DrawString(text)
}
