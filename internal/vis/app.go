// Package vis implements the Gio front end of the property map.
package vis

import (
	"image/color"
	"sync"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/widget/material"
	"github.com/rs/zerolog"

	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/metrics"
	"github.com/elektrokombinacija/propmap/internal/vis/draw"
	"github.com/elektrokombinacija/propmap/internal/vis/state"
	"github.com/elektrokombinacija/propmap/internal/vis/widgets"
)

// Options configures the application.
type Options struct {
	HitRadius float64
	Index     string
	Currency  string
	Locale    string
	Log       zerolog.Logger
	Metrics   *metrics.Metrics
}

// App is the map application bound to one window.
type App struct {
	window   *app.Window
	state    *state.State
	theme    *material.Theme
	mapView  *widgets.MapView
	controls *widgets.Controls
	card     *widgets.Card
	log      zerolog.Logger

	mu      sync.Mutex
	next    []core.PropertyMarker
	hasNext bool
}

// NewApp creates the application for w.
func NewApp(w *app.Window, opts Options) *App {
	th := material.NewTheme()

	st := state.New(state.Options{
		HitRadius:   opts.HitRadius,
		Index:       opts.Index,
		Invalidator: w,
		Log:         opts.Log,
		Metrics:     opts.Metrics,
	})
	renderer := draw.NewRenderer(opts.Currency, opts.Log, opts.Metrics)

	return &App{
		window:   w,
		state:    st,
		theme:    th,
		mapView:  widgets.NewMapView(st, renderer),
		controls: widgets.NewControls(st),
		card:     widgets.NewCard(st, opts.Currency, opts.Locale),
		log:      opts.Log,
	}
}

// State exposes the map state so callers can attach selection and
// show-list handlers before Run.
func (a *App) State() *state.State {
	return a.state
}

// Publish hands a new marker data set to the UI goroutine. It is safe to
// call from any goroutine; only the latest data set not yet applied is kept.
func (a *App) Publish(markers []core.PropertyMarker) {
	a.mu.Lock()
	a.next = markers
	a.hasNext = true
	a.mu.Unlock()
	a.window.Invalidate()
}

// Run starts the application event loop.
func (a *App) Run() error {
	var ops op.Ops

	// Event filters for keyboard input
	tag := new(int)

	for {
		switch e := a.window.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			a.state.BeginFrame()

			a.applyPending()

			// Handle keyboard events
			for {
				ev, ok := gtx.Event(key.Filter{Focus: tag, Optional: key.ModShift})
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					a.handleKeyEvent(ke)
				}
			}

			// Request focus for keyboard input
			event.Op(gtx.Ops, tag)

			a.controls.Update(gtx)
			a.card.Update(gtx)

			a.layout(gtx)
			e.Frame(gtx.Ops)

			a.state.EndFrame(a.mapView.Drawn())
		}
	}
}

func (a *App) applyPending() {
	a.mu.Lock()
	markers, ok := a.next, a.hasNext
	a.next, a.hasNext = nil, false
	a.mu.Unlock()

	if ok {
		a.state.SetMarkers(markers)
	}
}

func (a *App) handleKeyEvent(e key.Event) {
	switch e.Name {
	case "+", "=":
		a.state.ZoomIn()
	case "-":
		a.state.ZoomOut()
	case "R":
		a.state.ResetView()
	case key.NameEscape:
		a.state.ClearSelection()
	case "L":
		a.state.RequestShowList()
	default:
		a.log.Debug().Str("key", string(e.Name)).Msg("unbound key")
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	paint.Fill(gtx.Ops, color.NRGBA{R: 242, G: 242, B: 242, A: 255})

	return layout.Stack{}.Layout(gtx,
		// Map fills the window
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			return a.mapView.Layout(gtx, a.theme)
		}),
		// Controls top right
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			return layout.NE.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return a.controls.Layout(gtx, a.theme)
			})
		}),
		// Card bottom
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			return layout.S.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return a.card.Layout(gtx, a.theme)
			})
		}),
	)
}
