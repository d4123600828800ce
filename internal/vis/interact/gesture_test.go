package interact

import (
	"testing"

	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/vis/project"
	"github.com/elektrokombinacija/propmap/internal/vis/viewport"
)

func scenarioMarkers() []core.PropertyMarker {
	return []core.PropertyMarker{{
		ID:       "p1",
		Location: core.GeoCoordinate{Lat: 40.7128, Lng: -74.006},
		Price:    245000,
	}}
}

func newController(markers []core.PropertyMarker) *Controller {
	c := NewController(project.DefaultHitRadius)
	c.SetMarkers(markers, nil)
	return c
}

func TestDragScenario(t *testing.T) {
	vp := viewport.New(800, 600)
	c := newController(nil)

	c.Handle(&vp, PointerEvent{Kind: Down, X: 100, Y: 100})
	if !vp.Dragging {
		t.Fatal("Down should start dragging")
	}

	r1 := c.Handle(&vp, PointerEvent{Kind: Move, X: 120, Y: 115})
	if vp.OffsetX != 20 || vp.OffsetY != 15 || !r1.Redraw {
		t.Errorf("after first move: offset=(%v, %v) redraw=%v", vp.OffsetX, vp.OffsetY, r1.Redraw)
	}

	c.Handle(&vp, PointerEvent{Kind: Move, X: 130, Y: 130})
	if vp.OffsetX != 30 || vp.OffsetY != 30 {
		t.Errorf("after second move: offset=(%v, %v), want (30, 30)", vp.OffsetX, vp.OffsetY)
	}
}

func TestMoveWhileIdleIgnored(t *testing.T) {
	vp := viewport.New(800, 600)
	c := newController(nil)

	r := c.Handle(&vp, PointerEvent{Kind: Move, X: 300, Y: 300})
	if r.Redraw || vp.OffsetX != 0 || vp.OffsetY != 0 {
		t.Errorf("idle move changed the view: %+v offset=(%v, %v)", r, vp.OffsetX, vp.OffsetY)
	}
}

func TestLeaveEndsDrag(t *testing.T) {
	vp := viewport.New(800, 600)
	c := newController(scenarioMarkers())
	vp.Select("p1")

	c.Handle(&vp, PointerEvent{Kind: Down, X: 10, Y: 10, Source: Touch})
	c.Handle(&vp, PointerEvent{Kind: Move, X: 20, Y: 10, Source: Touch})
	r := c.Handle(&vp, PointerEvent{Kind: Leave, X: 900, Y: 10})

	if vp.Dragging {
		t.Error("Leave should end the drag")
	}
	if r.SelectionChanged || vp.SelectedID != "p1" {
		t.Error("Leave must not hit-test")
	}

	c.Handle(&vp, PointerEvent{Kind: Move, X: 50, Y: 50})
	if vp.OffsetX != 10 || vp.OffsetY != 0 {
		t.Errorf("offset moved after leave: (%v, %v)", vp.OffsetX, vp.OffsetY)
	}
}

func TestClickScenario(t *testing.T) {
	vp := viewport.New(800, 600)
	c := newController(scenarioMarkers())

	c.Handle(&vp, PointerEvent{Kind: Down, X: 400, Y: 300})
	r := c.Handle(&vp, PointerEvent{Kind: Up, X: 400, Y: 300})
	if vp.SelectedID != "p1" || !r.SelectionChanged || !r.Redraw {
		t.Errorf("click on marker: selected=%q result=%+v", vp.SelectedID, r)
	}

	// Clicking the same marker again changes nothing
	r = c.Handle(&vp, PointerEvent{Kind: Up, X: 401, Y: 301})
	if r.SelectionChanged {
		t.Error("re-selecting the same marker should not report a change")
	}

	r = c.Handle(&vp, PointerEvent{Kind: Up, X: 450, Y: 300})
	if vp.SelectedID != "" || !r.SelectionChanged {
		t.Errorf("click on empty map: selected=%q result=%+v", vp.SelectedID, r)
	}
}

func TestClickAfterDragStillHitTests(t *testing.T) {
	vp := viewport.New(800, 600)
	c := newController(scenarioMarkers())

	// Drag the marker from (400,300) to (460,300) and release on it
	c.Handle(&vp, PointerEvent{Kind: Down, X: 300, Y: 300})
	c.Handle(&vp, PointerEvent{Kind: Move, X: 360, Y: 300})
	c.Handle(&vp, PointerEvent{Kind: Up, X: 460, Y: 300})

	if vp.Dragging {
		t.Error("Up should end the drag")
	}
	if vp.SelectedID != "p1" {
		t.Errorf("release over marker after a drag should select it, got %q", vp.SelectedID)
	}
}

func TestClickWithoutDataClears(t *testing.T) {
	vp := viewport.New(800, 600)
	vp.Select("ghost")
	c := NewController(16)

	r := c.Click(&vp, 400, 300)
	if vp.SelectedID != "" || !r.SelectionChanged {
		t.Errorf("click without data: selected=%q result=%+v", vp.SelectedID, r)
	}
}

func TestZoomButtons(t *testing.T) {
	vp := viewport.New(800, 600)
	c := newController(nil)

	changes := 0
	for i := 0; i < 20; i++ {
		if c.ZoomIn(&vp).Redraw {
			changes++
		}
	}
	if vp.Scale != viewport.MaxScale {
		t.Errorf("scale = %v, want %v", vp.Scale, viewport.MaxScale)
	}
	if changes >= 20 {
		t.Error("zoom at the limit should not request a redraw")
	}

	for i := 0; i < 40; i++ {
		c.ZoomOut(&vp)
	}
	if vp.Scale != viewport.MinScale {
		t.Errorf("scale = %v, want %v", vp.Scale, viewport.MinScale)
	}
}

func TestKindString(t *testing.T) {
	if Down.String() != "Down" || Leave.String() != "Leave" {
		t.Errorf("unexpected names %s %s", Down, Leave)
	}
}
