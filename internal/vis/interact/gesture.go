// Package interact turns pointer and touch input into viewport transitions:
// drag to pan, click or tap to select, buttons to zoom.
package interact

import (
	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/vis/project"
	"github.com/elektrokombinacija/propmap/internal/vis/viewport"
)

// Kind is the phase of a pointer gesture.
type Kind int

const (
	Down Kind = iota
	Move
	Up
	Leave
)

func (k Kind) String() string {
	return [...]string{"Down", "Move", "Up", "Leave"}[k]
}

// Source tells mouse and touch input apart. The controller treats both
// the same; it is kept for logging.
type Source int

const (
	Mouse Source = iota
	Touch
)

// PointerEvent is a mouse or touch event in surface coordinates.
type PointerEvent struct {
	Kind   Kind
	X, Y   float64
	Source Source
}

// Result reports what a transition changed.
type Result struct {
	Redraw           bool // Scale, offset or selection changed
	SelectionChanged bool
}

// Controller is the gesture state machine. The Idle/Dragging state itself
// lives in the viewport so that it is visible to the rest of the map.
type Controller struct {
	HitRadius float64

	markers []core.PropertyMarker
	locator project.Locator
}

// NewController creates a controller using hitRadius for selection.
func NewController(hitRadius float64) *Controller {
	return &Controller{HitRadius: hitRadius}
}

// SetMarkers replaces the data set used for hit-testing. loc must be
// built over the same markers; nil selects a linear scan.
func (c *Controller) SetMarkers(markers []core.PropertyMarker, loc project.Locator) {
	if loc == nil {
		loc = project.NewLinear(markers)
	}
	c.markers = markers
	c.locator = loc
}

// Handle applies one pointer event to vp.
//
//	Idle     --Down-->     Dragging (anchor = position)
//	Dragging --Move-->     Dragging (offset += position - anchor)
//	Dragging --Up/Leave--> Idle
//
// Every Up is also a click: the marker under the pointer becomes the
// selection, or the selection is cleared. This happens even at the end of
// a drag.
func (c *Controller) Handle(vp *viewport.Viewport, ev PointerEvent) Result {
	var res Result

	switch ev.Kind {
	case Down:
		vp.BeginDrag(ev.X, ev.Y)

	case Move:
		res.Redraw = vp.DragTo(ev.X, ev.Y)

	case Up:
		vp.EndDrag()
		res = c.Click(vp, ev.X, ev.Y)

	case Leave:
		vp.EndDrag()
	}
	return res
}

// Click selects the marker at (x, y), clearing the selection on a miss.
func (c *Controller) Click(vp *viewport.Viewport, x, y float64) Result {
	id := ""
	if c.locator != nil {
		if i, ok := c.locator.Locate(x, y, *vp, c.HitRadius); ok {
			id = c.markers[i].ID
		}
	}

	changed := vp.Select(id)
	return Result{Redraw: changed, SelectionChanged: changed}
}

// ZoomIn handles the "+" button.
func (c *Controller) ZoomIn(vp *viewport.Viewport) Result {
	before := vp.Scale
	vp.ZoomIn()
	return Result{Redraw: vp.Scale != before}
}

// ZoomOut handles the "-" button.
func (c *Controller) ZoomOut(vp *viewport.Viewport) Result {
	before := vp.Scale
	vp.ZoomOut()
	return Result{Redraw: vp.Scale != before}
}
