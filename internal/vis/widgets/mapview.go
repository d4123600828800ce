// Package widgets provides Gio UI widgets for the property map.
package widgets

import (
	"image"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/propmap/internal/vis/draw"
	"github.com/elektrokombinacija/propmap/internal/vis/interact"
	"github.com/elektrokombinacija/propmap/internal/vis/state"
)

// MapView is the pannable map area.
type MapView struct {
	state    *state.State
	renderer *draw.Renderer
	drawn    state.RenderKey

	// Pointer driving the current gesture
	active   pointer.ID
	tracking bool
}

// NewMapView creates a new map view widget.
func NewMapView(st *state.State, r *draw.Renderer) *MapView {
	return &MapView{
		state:    st,
		renderer: r,
	}
}

// Drawn returns the render key of the last frame the view painted.
func (m *MapView) Drawn() state.RenderKey {
	return m.drawn
}

// Layout handles pending pointer input and paints the map.
func (m *MapView) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	bounds := gtx.Constraints.Max
	defer clip.Rect(image.Rect(0, 0, bounds.X, bounds.Y)).Push(gtx.Ops).Pop()

	m.state.Resize(float64(bounds.X), float64(bounds.Y))

	// Input first so this frame shows its effect
	m.handlePointerEvents(gtx)

	vp := m.state.View()
	m.renderer.Render(draw.NewGioSurface(gtx, th), vp, m.state.Markers(), vp.SelectedID)
	m.drawn = m.state.Key()

	return layout.Dimensions{Size: bounds}
}

func (m *MapView) handlePointerEvents(gtx layout.Context) {
	// Register for pointer events
	area := clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, gtx.Constraints.Max.Y)).Push(gtx.Ops)
	event.Op(gtx.Ops, m)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: m,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Move | pointer.Leave | pointer.Cancel,
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		if !m.track(pe) {
			continue
		}
		if ie, ok := translatePointer(pe); ok {
			m.state.HandlePointer(ie)
		}
	}
}

// track reports whether pe belongs to the pointer that owns the gesture.
// While one pointer is down, events from any other pointer are dropped
// until it is released or cancelled.
func (m *MapView) track(pe pointer.Event) bool {
	switch pe.Kind {
	case pointer.Cancel:
		m.tracking = false
		return true
	case pointer.Press:
		if m.tracking && pe.PointerID != m.active {
			return false
		}
		m.active, m.tracking = pe.PointerID, true
		return true
	}
	if m.tracking && pe.PointerID != m.active {
		return false
	}
	if pe.Kind == pointer.Release || pe.Kind == pointer.Leave {
		m.tracking = false
	}
	return true
}

// translatePointer maps a Gio pointer event onto the map's gesture events.
// Mouse presses other than the primary button are dropped.
func translatePointer(ev pointer.Event) (interact.PointerEvent, bool) {
	out := interact.PointerEvent{
		X:      float64(ev.Position.X),
		Y:      float64(ev.Position.Y),
		Source: interact.Mouse,
	}
	if ev.Source == pointer.Touch {
		out.Source = interact.Touch
	}

	switch ev.Kind {
	case pointer.Press:
		if ev.Source == pointer.Mouse && !ev.Buttons.Contain(pointer.ButtonPrimary) {
			return out, false
		}
		out.Kind = interact.Down
	case pointer.Drag, pointer.Move:
		out.Kind = interact.Move
	case pointer.Release:
		out.Kind = interact.Up
	case pointer.Leave, pointer.Cancel:
		out.Kind = interact.Leave
	default:
		return out, false
	}
	return out, true
}
