// Package draw renders the map scene onto an abstract 2D surface.
package draw

import "image/color"

// Surface is the drawing capability the renderer needs from its host.
// Coordinates are surface pixels with the origin at the top-left corner.
type Surface interface {
	FillRect(x, y, w, h float64, col color.NRGBA)
	StrokeLine(x1, y1, x2, y2, width float64, col color.NRGBA)
	// StrokeArc strokes the circle arc from start to end (radians),
	// clockwise on screen, i.e. increasing angle with Y pointing down.
	StrokeArc(cx, cy, r, start, end, width float64, col color.NRGBA)
	FillCircle(cx, cy, r float64, col color.NRGBA)
	// DrawText draws txt centered horizontally and vertically on (x, y).
	DrawText(x, y float64, txt string, style TextStyle)
}

// TextStyle describes a text label.
type TextStyle struct {
	Size  float64 // Pixels
	Bold  bool
	Color color.NRGBA
}
