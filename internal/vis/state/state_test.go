package state

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/vis/interact"
	"github.com/elektrokombinacija/propmap/internal/vis/project"
)

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate() { c.n++ }

func newTestState(t *testing.T, index string) (*State, *countingInvalidator) {
	t.Helper()
	inv := &countingInvalidator{}
	s := New(Options{Index: index, Invalidator: inv, Log: zerolog.Nop()})
	s.Resize(800, 600)
	s.BeginFrame()
	s.EndFrame(s.Key())
	inv.n = 0
	return s, inv
}

func originMarker(id string) core.PropertyMarker {
	return core.PropertyMarker{ID: id, Location: core.ReferenceOrigin, Price: 245000}
}

func click(s *State, x, y float64) {
	s.HandlePointer(interact.PointerEvent{Kind: interact.Down, X: x, Y: y})
	s.HandlePointer(interact.PointerEvent{Kind: interact.Up, X: x, Y: y})
}

func TestSetMarkersResetsView(t *testing.T) {
	s, _ := newTestState(t, project.IndexLinear)
	s.SetMarkers([]core.PropertyMarker{originMarker("a"), originMarker("c"), originMarker("d")})
	for i := 0; i < 5; i++ {
		s.ZoomIn()
	}
	s.HandlePointer(interact.PointerEvent{Kind: interact.Down, X: 10, Y: 10})
	s.HandlePointer(interact.PointerEvent{Kind: interact.Move, X: 60, Y: 40})
	s.HandlePointer(interact.PointerEvent{Kind: interact.Leave})
	if vp := s.View(); vp.Scale < 2.4 || vp.OffsetX != 50 || vp.OffsetY != 30 {
		t.Fatalf("setup: scale %v offset (%v,%v)", vp.Scale, vp.OffsetX, vp.OffsetY)
	}

	s.SetMarkers([]core.PropertyMarker{originMarker("b")})

	vp := s.View()
	if vp.Scale != 1 || vp.OffsetX != 0 || vp.OffsetY != 0 {
		t.Fatalf("view after data change = scale %v offset (%v,%v), want 1 (0,0)", vp.Scale, vp.OffsetX, vp.OffsetY)
	}
	if vp.Width != 800 || vp.Height != 600 {
		t.Errorf("surface size changed to %vx%v", vp.Width, vp.Height)
	}
}

func TestSetMarkersEmptyStillResets(t *testing.T) {
	s, _ := newTestState(t, project.IndexLinear)
	s.ZoomIn()
	s.SetMarkers(nil)
	if got := s.View().Scale; got != 1 {
		t.Errorf("Scale = %v, want 1", got)
	}
}

func TestSelectionInvalidatedByDataChange(t *testing.T) {
	s, _ := newTestState(t, project.IndexLinear)
	var events []*core.PropertyMarker
	s.OnSelect = func(m *core.PropertyMarker) { events = append(events, m) }

	s.SetMarkers([]core.PropertyMarker{originMarker("a")})
	click(s, 400, 300)
	if len(events) != 1 || events[0] == nil || events[0].ID != "a" {
		t.Fatalf("select events = %v, want one event for a", events)
	}

	s.SetMarkers([]core.PropertyMarker{originMarker("b")})
	if _, ok := s.Selected(); ok {
		t.Fatal("selection survived removal of its marker")
	}
	if len(events) != 2 || events[1] != nil {
		t.Fatalf("expected a clearing event, got %v", events)
	}
}

func TestSelectionKeptWhenMarkerRemains(t *testing.T) {
	s, _ := newTestState(t, project.IndexLinear)
	calls := 0
	s.OnSelect = func(*core.PropertyMarker) { calls++ }

	s.SetMarkers([]core.PropertyMarker{originMarker("a")})
	click(s, 400, 300)
	s.SetMarkers([]core.PropertyMarker{originMarker("a"), originMarker("c")})

	m, ok := s.Selected()
	if !ok || m.ID != "a" {
		t.Fatalf("Selected() = %v, %v; want a", m.ID, ok)
	}
	if calls != 1 {
		t.Errorf("OnSelect called %d times, want 1", calls)
	}
}

func TestClickEmptyAreaClears(t *testing.T) {
	for _, index := range []string{project.IndexLinear, project.IndexQuadtree} {
		t.Run(index, func(t *testing.T) {
			s, _ := newTestState(t, index)
			var last *core.PropertyMarker
			s.OnSelect = func(m *core.PropertyMarker) { last = m }

			s.SetMarkers([]core.PropertyMarker{originMarker("a")})
			click(s, 410, 305)
			if last == nil || last.ID != "a" {
				t.Fatalf("click inside radius did not select, last = %v", last)
			}
			click(s, 100, 100)
			if last != nil {
				t.Fatalf("click on empty map left %v selected", last.ID)
			}
		})
	}
}

func TestSelectUnknownID(t *testing.T) {
	s, inv := newTestState(t, project.IndexLinear)
	s.SetMarkers([]core.PropertyMarker{originMarker("a")})
	inv.n = 0

	if s.Select("zzz") {
		t.Error("Select accepted an unknown id")
	}
	if inv.n != 0 {
		t.Errorf("unknown id requested %d redraws", inv.n)
	}
	if !s.Select("a") {
		t.Error("Select rejected a known id")
	}
	if got := s.Key().SelectedID; got != "a" {
		t.Errorf("SelectedID = %q", got)
	}
}

func TestRedrawCoalescing(t *testing.T) {
	s, inv := newTestState(t, project.IndexLinear)

	s.ZoomIn()
	s.ZoomIn()
	s.ZoomOut()
	if inv.n != 1 {
		t.Fatalf("three changes before a frame requested %d redraws, want 1", inv.n)
	}

	s.BeginFrame()
	s.ZoomIn()
	drawn := s.Key()
	s.EndFrame(drawn)
	if inv.n != 1 {
		t.Fatalf("change drawn by the current frame requested another redraw (%d)", inv.n)
	}

	s.BeginFrame()
	drawn = s.Key()
	s.ZoomIn()
	s.EndFrame(drawn)
	if inv.n != 2 {
		t.Fatalf("change after draw should request exactly one more frame, got %d", inv.n)
	}
}

func TestNoRedrawWithoutChange(t *testing.T) {
	s, inv := newTestState(t, project.IndexLinear)

	s.Resize(800, 600)
	s.HandlePointer(interact.PointerEvent{Kind: interact.Move, X: 5, Y: 5})
	s.ClearSelection()
	for i := 0; i < 20; i++ {
		s.ZoomOut()
	}
	n := inv.n
	s.BeginFrame()
	s.EndFrame(s.Key())
	s.ZoomOut() // already at the minimum
	if inv.n != n {
		t.Errorf("no-op changes requested redraws: %d -> %d", n, inv.n)
	}
}

func TestKeyChangesWithGeneration(t *testing.T) {
	s, _ := newTestState(t, project.IndexLinear)
	before := s.Key()
	s.SetMarkers(nil)
	if s.Key() == before {
		t.Error("replacing the data set did not change the render key")
	}
}

func TestRequestShowList(t *testing.T) {
	s, inv := newTestState(t, project.IndexLinear)
	calls := 0
	s.OnShowList = func() { calls++ }
	s.RequestShowList()
	s.RequestShowList()
	if calls != 2 {
		t.Errorf("OnShowList called %d times, want 2", calls)
	}
	if inv.n != 0 {
		t.Errorf("show list requested %d redraws", inv.n)
	}
}

func TestNilCallbacks(t *testing.T) {
	s := New(Options{})
	s.Resize(800, 600)
	s.SetMarkers([]core.PropertyMarker{originMarker("a")})
	click(s, 400, 300)
	s.RequestShowList()
	if _, ok := s.Selected(); !ok {
		t.Error("selection without callbacks failed")
	}
}

func TestResetViewKeepsSelection(t *testing.T) {
	s, inv := newTestState(t, project.IndexLinear)
	s.SetMarkers([]core.PropertyMarker{originMarker("a")})
	click(s, 400, 300)
	s.ZoomIn()
	s.BeginFrame()
	s.EndFrame(s.Key())
	n := inv.n

	s.ResetView()
	if vp := s.View(); vp.Scale != 1 || vp.SelectedID != "a" {
		t.Fatalf("after reset: scale %v selected %q", vp.Scale, vp.SelectedID)
	}
	if inv.n != n+1 {
		t.Errorf("reset requested %d redraws, want 1", inv.n-n)
	}

	s.BeginFrame()
	s.EndFrame(s.Key())
	s.ResetView()
	if inv.n != n+1 {
		t.Error("reset of an already default view requested a redraw")
	}
}
