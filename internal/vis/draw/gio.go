package draw

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

// GioSurface draws into the ops of a Gio layout context.
type GioSurface struct {
	gtx   layout.Context
	theme *material.Theme
}

// NewGioSurface wraps gtx. The theme supplies the text shaper for labels.
func NewGioSurface(gtx layout.Context, th *material.Theme) *GioSurface {
	return &GioSurface{gtx: gtx, theme: th}
}

func (g *GioSurface) FillRect(x, y, w, h float64, col color.NRGBA) {
	rect := image.Rect(int(math.Floor(x)), int(math.Floor(y)), int(math.Ceil(x+w)), int(math.Ceil(y+h)))
	paint.FillShape(g.gtx.Ops, col, clip.Rect(rect).Op())
}

func (g *GioSurface) StrokeLine(x1, y1, x2, y2, width float64, col color.NRGBA) {
	var path clip.Path
	path.Begin(g.gtx.Ops)
	path.MoveTo(f32.Pt(float32(x1), float32(y1)))
	path.LineTo(f32.Pt(float32(x2), float32(y2)))

	paint.FillShape(g.gtx.Ops, col, clip.Stroke{Path: path.End(), Width: float32(width)}.Op())
}

func (g *GioSurface) StrokeArc(cx, cy, r, start, end, width float64, col color.NRGBA) {
	sweep := end - start
	if sweep <= 0 || r <= 0 {
		return
	}

	// Approximate the arc with short segments
	segments := int(math.Ceil(sweep / (math.Pi / 32)))

	var path clip.Path
	path.Begin(g.gtx.Ops)
	path.MoveTo(arcPoint(cx, cy, r, start))
	for i := 1; i <= segments; i++ {
		angle := start + sweep*float64(i)/float64(segments)
		path.LineTo(arcPoint(cx, cy, r, angle))
	}

	paint.FillShape(g.gtx.Ops, col, clip.Stroke{Path: path.End(), Width: float32(width)}.Op())
}

func (g *GioSurface) FillCircle(cx, cy, r float64, col color.NRGBA) {
	var path clip.Path
	path.Begin(g.gtx.Ops)
	path.MoveTo(arcPoint(cx, cy, r, 0))

	segments := 32
	for i := 1; i <= segments; i++ {
		path.LineTo(arcPoint(cx, cy, r, float64(i)*2*math.Pi/float64(segments)))
	}
	path.Close()

	paint.FillShape(g.gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

func (g *GioSurface) DrawText(x, y float64, txt string, style TextStyle) {
	if g.theme == nil {
		return
	}
	lbl := material.Label(g.theme, unit.Sp(float32(style.Size)), txt)
	lbl.Color = style.Color
	lbl.Alignment = text.Middle
	lbl.MaxLines = 1
	if style.Bold {
		lbl.Font.Weight = font.Bold
	}

	gtx := g.gtx
	gtx.Constraints = layout.Constraints{Max: image.Pt(1<<14, 1<<14)}

	// Measure first, then replay centered on (x, y)
	macro := op.Record(gtx.Ops)
	dims := lbl.Layout(gtx)
	call := macro.Stop()

	off := image.Pt(int(math.Round(x))-dims.Size.X/2, int(math.Round(y))-dims.Size.Y/2)
	defer op.Offset(off).Push(gtx.Ops).Pop()
	call.Add(gtx.Ops)
}

func arcPoint(cx, cy, r, angle float64) f32.Point {
	return f32.Pt(float32(cx+r*math.Cos(angle)), float32(cy+r*math.Sin(angle)))
}
