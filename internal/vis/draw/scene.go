package draw

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/metrics"
	"github.com/elektrokombinacija/propmap/internal/vis/project"
	"github.com/elektrokombinacija/propmap/internal/vis/viewport"
)

// Scene colors
var (
	ColorBackground     = color.NRGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 255}
	ColorGrid           = color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 255}
	ColorRoad           = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 255}
	ColorMarker         = color.NRGBA{R: 0xea, G: 0x43, B: 0x35, A: 255}
	ColorMarkerSelected = color.NRGBA{R: 0x42, G: 0x85, B: 0xf4, A: 255}
	ColorMarkerLabel    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 255}
)

// Scene geometry in pixels
const (
	GridSpacing      = 50.0
	GridWidth        = 1.0
	PrimaryRoadWidth = 8.0
	SecondarySpacing = 150.0
	SecondaryWidth   = 5.0
	SecondaryClear   = 10.0 // Secondary roads this close to the center are skipped
	CurvedRoadWidth  = 4.0
	MarkerRadius     = 16.0
	LabelSize        = 10.0
)

// DefaultCurrency prefixes marker price labels.
const DefaultCurrency = "BDT"

// Renderer redraws the whole map scene. Output depends only on the
// viewport, the markers and the selected id.
type Renderer struct {
	Currency string
	Log      zerolog.Logger
	Metrics  *metrics.Metrics
}

// NewRenderer creates a renderer labelling prices with the given currency.
func NewRenderer(currency string, log zerolog.Logger, m *metrics.Metrics) *Renderer {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Renderer{Currency: currency, Log: log, Metrics: m}
}

// Render draws background, roads and markers. It does nothing while the
// surface is missing or has no size yet.
func (r *Renderer) Render(s Surface, vp viewport.Viewport, markers []core.PropertyMarker, selectedID string) {
	if s == nil || !vp.Measured() {
		return
	}
	start := time.Now()

	DrawBackground(s, vp)
	DrawGrid(s, vp)
	DrawPrimaryRoads(s, vp)
	DrawSecondaryRoads(s, vp)
	DrawCurvedRoads(s, vp)
	drawn, skipped := r.DrawMarkers(s, vp, markers, selectedID)

	r.Metrics.ObserveRender(time.Since(start), drawn, skipped)
}

// DrawBackground clears the surface to a flat fill.
func DrawBackground(s Surface, vp viewport.Viewport) {
	s.FillRect(0, 0, vp.Width, vp.Height, ColorBackground)
}

// DrawGrid draws grid lines every GridSpacing pixels, shifted by the pan
// offset wrapped into [0, GridSpacing) so the grid tiles seamlessly while
// panning in either direction.
func DrawGrid(s Surface, vp viewport.Viewport) {
	shiftY := wrap(vp.OffsetY, GridSpacing)
	for y := 0.0; y < vp.Height; y += GridSpacing {
		s.StrokeLine(0, y+shiftY, vp.Width, y+shiftY, GridWidth, ColorGrid)
	}

	shiftX := wrap(vp.OffsetX, GridSpacing)
	for x := 0.0; x < vp.Width; x += GridSpacing {
		s.StrokeLine(x+shiftX, 0, x+shiftX, vp.Height, GridWidth, ColorGrid)
	}
}

// DrawPrimaryRoads draws the two main roads crossing at the panned center.
func DrawPrimaryRoads(s Surface, vp viewport.Viewport) {
	cy := vp.Height/2 + vp.OffsetY
	s.StrokeLine(0, cy, vp.Width, cy, PrimaryRoadWidth, ColorRoad)

	cx := vp.Width/2 + vp.OffsetX
	s.StrokeLine(cx, 0, cx, vp.Height, PrimaryRoadWidth, ColorRoad)
}

// DrawSecondaryRoads draws roads every SecondarySpacing pixels. A line
// within SecondaryClear of the panned primary road is skipped.
func DrawSecondaryRoads(s Surface, vp viewport.Viewport) {
	shiftY := wrap(vp.OffsetY, SecondarySpacing)
	cy := vp.Height/2 + vp.OffsetY
	for y := shiftY; y < vp.Height; y += SecondarySpacing {
		if math.Abs(y-cy) <= SecondaryClear {
			continue
		}
		s.StrokeLine(0, y, vp.Width, y, SecondaryWidth, ColorRoad)
	}

	shiftX := wrap(vp.OffsetX, SecondarySpacing)
	cx := vp.Width/2 + vp.OffsetX
	for x := shiftX; x < vp.Width; x += SecondarySpacing {
		if math.Abs(x-cx) <= SecondaryClear {
			continue
		}
		s.StrokeLine(x, 0, x, vp.Height, SecondaryWidth, ColorRoad)
	}
}

// wrap returns v modulo period in [0, period).
func wrap(v, period float64) float64 {
	r := math.Mod(v, period)
	if r < 0 {
		r += period
	}
	return r
}

// DrawCurvedRoads draws two decorative arcs anchored at the quarter points.
func DrawCurvedRoads(s Surface, vp viewport.Viewport) {
	s.StrokeArc(vp.Width/4+vp.OffsetX, vp.Height/4+vp.OffsetY, 100,
		0, math.Pi*1.5, CurvedRoadWidth, ColorRoad)
	s.StrokeArc(vp.Width*3/4+vp.OffsetX, vp.Height*3/4+vp.OffsetY, 120,
		math.Pi, math.Pi*2.5, CurvedRoadWidth, ColorRoad)
}

// DrawMarkers draws every marker with a price label. Markers whose
// projection is not finite are skipped so one bad record cannot blank the
// map. It returns how many were drawn and skipped.
func (r *Renderer) DrawMarkers(s Surface, vp viewport.Viewport, markers []core.PropertyMarker, selectedID string) (drawn, skipped int) {
	label := TextStyle{Size: LabelSize, Bold: true, Color: ColorMarkerLabel}

	for _, m := range markers {
		x, y := project.Project(m.Location, vp)
		if !finite(x) || !finite(y) {
			r.Log.Debug().Str("marker", m.ID).Stringer("location", m.Location).Msg("skipping marker with unprojectable location")
			skipped++
			continue
		}

		col := ColorMarker
		if selectedID != "" && m.ID == selectedID {
			col = ColorMarkerSelected
		}
		s.FillCircle(x, y, MarkerRadius, col)
		s.DrawText(x, y, PriceLabel(r.Currency, m.Price), label)
		drawn++
	}
	return drawn, skipped
}

// PriceLabel abbreviates a price to whole thousands, rounding toward
// negative infinity: 245000 -> "BDT 245k", 245999 -> "BDT 245k".
func PriceLabel(currency string, price int64) string {
	k := price / 1000
	if price%1000 != 0 && price < 0 {
		k--
	}
	return fmt.Sprintf("%s %dk", currency, k)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
