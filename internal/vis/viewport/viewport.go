// Package viewport holds the view transform of the map (surface size, zoom
// scale, pan offset), the drag gesture state and the selected marker.
//
// A Viewport is plain data; it changes only through the methods below.
package viewport

import "math"

const (
	MinScale = 0.5
	MaxScale = 5.0

	ZoomInFactor  = 1.2
	ZoomOutFactor = 0.8
)

// Viewport is the mutable view state owned by one map instance.
type Viewport struct {
	// Surface size in pixels
	Width  float64
	Height float64

	// View transform
	Scale   float64 // 1.0 = 1000 px per degree
	OffsetX float64 // Pan offset in screen pixels
	OffsetY float64

	// Drag state
	Dragging bool
	AnchorX  float64 // Last pointer position seen while dragging
	AnchorY  float64

	// SelectedID is the id of the selected marker, "" when none.
	SelectedID string
}

// New creates a viewport with the default view for a surface of the given size.
func New(width, height float64) Viewport {
	return Viewport{
		Width:  width,
		Height: height,
		Scale:  1.0,
	}
}

// Measured reports whether the surface has a usable size.
func (v *Viewport) Measured() bool {
	return v.Width > 0 && v.Height > 0
}

// Reset restores the default view. Size, drag and selection are kept.
func (v *Viewport) Reset() {
	v.Scale = 1.0
	v.OffsetX = 0
	v.OffsetY = 0
}

// Resize updates the surface size. It reports whether the size changed.
func (v *Viewport) Resize(width, height float64) bool {
	if v.Width == width && v.Height == height {
		return false
	}
	v.Width = width
	v.Height = height
	return true
}

// Pan moves the view by the given screen delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// ZoomIn multiplies the scale by ZoomInFactor, clamped at MaxScale.
// The offset is left alone, so zoom is anchored at the projection origin
// rather than at the surface center.
func (v *Viewport) ZoomIn() {
	v.setScale(v.Scale * ZoomInFactor)
}

// ZoomOut multiplies the scale by ZoomOutFactor, clamped at MinScale.
func (v *Viewport) ZoomOut() {
	v.setScale(v.Scale * ZoomOutFactor)
}

func (v *Viewport) setScale(s float64) {
	v.Scale = ClampScale(s)
}

// ClampScale limits s to [MinScale, MaxScale]. NaN maps to the default
// scale of 1.
func ClampScale(s float64) float64 {
	if math.IsNaN(s) {
		return 1
	}
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// BeginDrag starts a drag gesture anchored at (x, y).
func (v *Viewport) BeginDrag(x, y float64) {
	v.Dragging = true
	v.AnchorX = x
	v.AnchorY = y
}

// DragTo pans by the distance from the anchor to (x, y) and moves the
// anchor there, so consecutive moves apply incremental deltas. It reports
// whether the offset changed.
func (v *Viewport) DragTo(x, y float64) bool {
	if !v.Dragging {
		return false
	}
	dx := x - v.AnchorX
	dy := y - v.AnchorY
	v.AnchorX = x
	v.AnchorY = y
	if dx == 0 && dy == 0 {
		return false
	}
	v.Pan(dx, dy)
	return true
}

// EndDrag ends a drag gesture.
func (v *Viewport) EndDrag() {
	v.Dragging = false
}

// Select sets the selected marker id. It reports whether it changed.
func (v *Viewport) Select(id string) bool {
	if v.SelectedID == id {
		return false
	}
	v.SelectedID = id
	return true
}

// ClearSelection clears the selected marker id.
func (v *Viewport) ClearSelection() bool {
	return v.Select("")
}
