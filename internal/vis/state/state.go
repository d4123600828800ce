// Package state owns the map's view state and data set and is the single
// place where they change.
package state

import (
	"slices"

	"github.com/rs/zerolog"

	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/metrics"
	"github.com/elektrokombinacija/propmap/internal/vis/interact"
	"github.com/elektrokombinacija/propmap/internal/vis/project"
	"github.com/elektrokombinacija/propmap/internal/vis/viewport"
)

// Invalidator schedules a redraw. Gio's *app.Window satisfies it.
type Invalidator interface {
	Invalidate()
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func()

func (f InvalidatorFunc) Invalidate() { f() }

// RenderKey captures every input of a redraw. Two equal keys produce the
// same picture.
type RenderKey struct {
	Width, Height    float64
	Scale            float64
	OffsetX, OffsetY float64
	Generation       uint64 // Bumped on every data set replacement
	SelectedID       string
}

// Options configures a State.
type Options struct {
	HitRadius   float64
	Index       string // project.IndexLinear or project.IndexQuadtree
	Invalidator Invalidator
	Log         zerolog.Logger
	Metrics     *metrics.Metrics
}

// State holds the viewport, the current marker data set and the outbound
// signals of the map.
type State struct {
	view       viewport.Viewport
	markers    []core.PropertyMarker
	generation uint64
	controller *interact.Controller
	index      string

	inv     Invalidator
	pending bool // Invalidate already requested for the next frame
	inFrame bool

	log     zerolog.Logger
	metrics *metrics.Metrics

	// OnSelect is called when the selection changes; m is nil when cleared.
	OnSelect func(m *core.PropertyMarker)
	// OnShowList is called when the user asks for the listing view.
	OnShowList func()
}

// New creates a state with an empty data set and an unmeasured surface.
func New(opts Options) *State {
	if opts.HitRadius <= 0 {
		opts.HitRadius = project.DefaultHitRadius
	}
	s := &State{
		view:       viewport.New(0, 0),
		controller: interact.NewController(opts.HitRadius),
		index:      opts.Index,
		inv:        opts.Invalidator,
		log:        opts.Log,
		metrics:    opts.Metrics,
	}
	s.controller.SetMarkers(nil, project.NewLocator(s.index, nil))
	s.metrics.SetZoomScale(s.view.Scale)
	return s
}

// View returns a copy of the current viewport.
func (s *State) View() viewport.Viewport {
	return s.view
}

// Markers returns the current data set. Callers must not modify it.
func (s *State) Markers() []core.PropertyMarker {
	return s.markers
}

// Selected returns the selected marker, if any.
func (s *State) Selected() (core.PropertyMarker, bool) {
	i := core.FindMarker(s.markers, s.view.SelectedID)
	if i < 0 {
		return core.PropertyMarker{}, false
	}
	return s.markers[i], true
}

// Key returns the render key of the current state.
func (s *State) Key() RenderKey {
	return RenderKey{
		Width:      s.view.Width,
		Height:     s.view.Height,
		Scale:      s.view.Scale,
		OffsetX:    s.view.OffsetX,
		OffsetY:    s.view.OffsetY,
		Generation: s.generation,
		SelectedID: s.view.SelectedID,
	}
}

// SetMarkers replaces the data set. The view is recentred to the default
// scale and offset (it does not fit the view to the data), and a selection
// whose marker is gone is cleared.
func (s *State) SetMarkers(markers []core.PropertyMarker) {
	s.markers = slices.Clone(markers)
	s.generation++
	s.controller.SetMarkers(s.markers, project.NewLocator(s.index, s.markers))

	s.view.Reset()
	s.metrics.SetZoomScale(s.view.Scale)

	if s.view.SelectedID != "" && core.FindMarker(s.markers, s.view.SelectedID) < 0 {
		s.log.Debug().Str("marker", s.view.SelectedID).Msg("selected marker left the data set")
		s.view.ClearSelection()
		s.notifySelection()
	}

	s.log.Info().Int("markers", len(s.markers)).Uint64("generation", s.generation).Msg("marker data set replaced")
	s.changed()
}

// Resize updates the surface size. Scale and offset are kept.
func (s *State) Resize(width, height float64) {
	if s.view.Resize(width, height) {
		s.changed()
	}
}

// ResetView returns to the default scale and offset without touching the
// data set or the selection.
func (s *State) ResetView() {
	before := s.Key()
	s.view.Reset()
	s.metrics.SetZoomScale(s.view.Scale)
	if s.Key() != before {
		s.changed()
	}
}

// HandlePointer feeds one pointer event to the gesture controller.
func (s *State) HandlePointer(ev interact.PointerEvent) {
	s.apply(s.controller.Handle(&s.view, ev))
}

// ZoomIn handles the "+" control.
func (s *State) ZoomIn() {
	s.apply(s.controller.ZoomIn(&s.view))
	s.metrics.SetZoomScale(s.view.Scale)
}

// ZoomOut handles the "-" control.
func (s *State) ZoomOut() {
	s.apply(s.controller.ZoomOut(&s.view))
	s.metrics.SetZoomScale(s.view.Scale)
}

// Select selects the marker with the given id. Unknown ids are ignored.
func (s *State) Select(id string) bool {
	if core.FindMarker(s.markers, id) < 0 {
		return false
	}
	if s.view.Select(id) {
		s.apply(interact.Result{Redraw: true, SelectionChanged: true})
	}
	return true
}

// ClearSelection clears the selection (the card's close button).
func (s *State) ClearSelection() {
	if s.view.ClearSelection() {
		s.apply(interact.Result{Redraw: true, SelectionChanged: true})
	}
}

// RequestShowList emits the show-list signal.
func (s *State) RequestShowList() {
	s.metrics.IncShowList()
	s.log.Debug().Int("markers", len(s.markers)).Msg("show list requested")
	if s.OnShowList != nil {
		s.OnShowList()
	}
}

// BeginFrame marks the start of a frame. Changes made while the frame is
// being built are picked up by that frame and do not schedule another.
func (s *State) BeginFrame() {
	s.inFrame = true
	s.pending = false
}

// EndFrame ends a frame that drew the state described by drawn. If the
// state moved on since, one more frame is requested.
func (s *State) EndFrame(drawn RenderKey) {
	s.inFrame = false
	if s.Key() != drawn {
		s.changed()
	}
}

func (s *State) apply(res interact.Result) {
	if res.SelectionChanged {
		s.notifySelection()
	}
	if res.Redraw {
		s.changed()
	}
}

func (s *State) notifySelection() {
	m, ok := s.Selected()
	s.metrics.IncSelection(ok)
	if s.OnSelect == nil {
		return
	}
	if ok {
		s.OnSelect(&m)
	} else {
		s.OnSelect(nil)
	}
}

// changed requests at most one redraw per frame.
func (s *State) changed() {
	if s.inFrame || s.pending {
		return
	}
	s.pending = true
	if s.inv != nil {
		s.inv.Invalidate()
	}
}
