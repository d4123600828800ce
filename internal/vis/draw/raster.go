package draw

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

var (
	regularFont = sync.OnceValues(func() (*opentype.Font, error) { return opentype.Parse(goregular.TTF) })
	boldFont    = sync.OnceValues(func() (*opentype.Font, error) { return opentype.Parse(gobold.TTF) })
)

type faceKey struct {
	size float64
	bold bool
}

// Raster is a Surface backed by an in-memory image, used for headless
// snapshots. It is anti-aliased and deterministic for identical input.
type Raster struct {
	img   *image.NRGBA
	z     *vector.Rasterizer
	faces map[faceKey]font.Face
}

// NewRaster creates a transparent w x h raster surface.
func NewRaster(w, h int) *Raster {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Raster{
		img:   image.NewNRGBA(image.Rect(0, 0, w, h)),
		z:     vector.NewRasterizer(w, h),
		faces: make(map[faceKey]font.Face),
	}
}

// Image returns the backing image.
func (r *Raster) Image() *image.NRGBA {
	return r.img
}

// EncodePNG writes the image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *Raster) FillRect(x, y, w, h float64, col color.NRGBA) {
	r.fillPolygon(col, [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}})
}

func (r *Raster) StrokeLine(x1, y1, x2, y2, width float64, col color.NRGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}

	// Perpendicular for line width
	px := -dy / length * width / 2
	py := dx / length * width / 2

	r.fillPolygon(col, [][2]float64{
		{x1 + px, y1 + py},
		{x2 + px, y2 + py},
		{x2 - px, y2 - py},
		{x1 - px, y1 - py},
	})
}

func (r *Raster) StrokeArc(cx, cy, radius, start, end, width float64, col color.NRGBA) {
	sweep := end - start
	if sweep <= 0 || radius <= 0 {
		return
	}
	segments := int(math.Ceil(sweep / (math.Pi / 32)))
	outer := radius + width/2
	inner := math.Max(radius-width/2, 0)

	// Outer edge forward, inner edge back
	pts := make([][2]float64, 0, 2*(segments+1))
	for i := 0; i <= segments; i++ {
		a := start + sweep*float64(i)/float64(segments)
		pts = append(pts, [2]float64{cx + outer*math.Cos(a), cy + outer*math.Sin(a)})
	}
	for i := segments; i >= 0; i-- {
		a := start + sweep*float64(i)/float64(segments)
		pts = append(pts, [2]float64{cx + inner*math.Cos(a), cy + inner*math.Sin(a)})
	}
	r.fillPolygon(col, pts)
}

func (r *Raster) FillCircle(cx, cy, radius float64, col color.NRGBA) {
	if radius <= 0 {
		return
	}
	segments := 48
	pts := make([][2]float64, 0, segments)
	for i := 0; i < segments; i++ {
		a := float64(i) * 2 * math.Pi / float64(segments)
		pts = append(pts, [2]float64{cx + radius*math.Cos(a), cy + radius*math.Sin(a)})
	}
	r.fillPolygon(col, pts)
}

func (r *Raster) DrawText(x, y float64, txt string, style TextStyle) {
	face, err := r.face(style.Size, style.Bold)
	if err != nil {
		return
	}

	width := font.MeasureString(face, txt)
	m := face.Metrics()
	// Center the em box vertically on y
	baseline := fixed.Int26_6(y*64) + (m.Ascent-m.Descent)/2

	d := font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(style.Color),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x*64) - width/2, Y: baseline},
	}
	d.DrawString(txt)
}

func (r *Raster) face(size float64, bold bool) (font.Face, error) {
	key := faceKey{size: size, bold: bold}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}

	load := regularFont
	if bold {
		load = boldFont
	}
	parsed, err := load()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	r.faces[key] = f
	return f, nil
}

func (r *Raster) fillPolygon(col color.NRGBA, pts [][2]float64) {
	b := r.img.Bounds()
	if len(pts) < 3 || b.Empty() {
		return
	}
	r.z.Reset(b.Dx(), b.Dy())
	r.z.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, p := range pts[1:] {
		r.z.LineTo(float32(p[0]), float32(p[1]))
	}
	r.z.ClosePath()
	r.z.Draw(r.img, b, image.NewUniform(col), image.Point{})
}
