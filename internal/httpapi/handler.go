// Package httpapi serves headless map snapshots and hit-tests over HTTP.
package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/feed"
	"github.com/elektrokombinacija/propmap/internal/metrics"
	"github.com/elektrokombinacija/propmap/internal/vis/draw"
	"github.com/elektrokombinacija/propmap/internal/vis/project"
	"github.com/elektrokombinacija/propmap/internal/vis/viewport"
)

// MaxImageSide bounds the width and height of a rendered snapshot.
const MaxImageSide = 4096

// maxBodyBytes bounds an uploaded data set.
const maxBodyBytes = 32 << 20

type Handler struct {
	log       zerolog.Logger
	metrics   *metrics.Metrics
	store     *Store
	renderer  *draw.Renderer
	hitRadius float64
}

func NewHandler(log zerolog.Logger, m *metrics.Metrics, store *Store, renderer *draw.Renderer, hitRadius float64) *Handler {
	if hitRadius <= 0 {
		hitRadius = project.DefaultHitRadius
	}
	return &Handler{log: log, metrics: m, store: store, renderer: renderer, hitRadius: hitRadius}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(h.accessLog)

	r.Get("/healthz", h.handleHealthz)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Get("/map.png", h.handleMapPNG)
	r.Get("/hit", h.handleHit)

	r.Route("/markers", func(r chi.Router) {
		r.Get("/", h.handleListMarkers)
		r.Put("/", h.handleReplaceMarkers)
	})

	return r
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.metrics.ObserveHTTPRequest(r.Method, route, status, time.Since(start))

		h.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("http_request")
	})
}

// markerJSON is the wire shape of a marker, matching the JSON feed format.
type markerJSON struct {
	ID        string  `json:"id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Price     int64   `json:"price"`
	Label     string  `json:"label"`
	Bedrooms  int     `json:"bedrooms"`
	Bathrooms int     `json:"bathrooms"`
	Sqft      int     `json:"sqft"`
	Address   string  `json:"address,omitempty"`
}

func (h *Handler) toJSON(m core.PropertyMarker) markerJSON {
	return markerJSON{
		ID:        m.ID,
		Lat:       m.Location.Lat,
		Lng:       m.Location.Lng,
		Price:     m.Price,
		Label:     draw.PriceLabel(h.renderer.Currency, m.Price),
		Bedrooms:  m.Bedrooms,
		Bathrooms: m.Bathrooms,
		Sqft:      m.AreaSqft,
		Address:   m.Address,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, msg string) {
	h.writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
		},
	})
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	markers, _ := h.store.Snapshot()
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true, "markers": len(markers)})
}

// params reads numeric query parameters, keeping the first error.
type params struct {
	r   *http.Request
	err error
}

func (p *params) float(name string, def float64) float64 {
	raw := p.r.URL.Query().Get(name)
	if raw == "" || p.err != nil {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.err = fmt.Errorf("%s: not a finite number: %q", name, raw)
		return def
	}
	return v
}

func (p *params) size(name string, def int) int {
	raw := p.r.URL.Query().Get(name)
	if raw == "" || p.err != nil {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 || v > MaxImageSide {
		p.err = fmt.Errorf("%s: must be an integer in [1, %d], got %q", name, MaxImageSide, raw)
		return def
	}
	return v
}

// view reads width, height and scale plus the offset parameters named ox
// and oy.
func (p *params) view(ox, oy string) viewport.Viewport {
	w := p.size("width", 800)
	hgt := p.size("height", 600)
	vp := viewport.New(float64(w), float64(hgt))
	vp.Scale = viewport.ClampScale(p.float("scale", 1))
	vp.OffsetX = p.float(ox, 0)
	vp.OffsetY = p.float(oy, 0)
	return vp
}

func (h *Handler) handleMapPNG(w http.ResponseWriter, r *http.Request) {
	p := &params{r: r}
	vp := p.view("x", "y")
	if p.err != nil {
		h.writeError(w, http.StatusBadRequest, "bad_request", p.err.Error())
		return
	}

	markers, _ := h.store.Snapshot()
	if id := r.URL.Query().Get("selected"); core.FindMarker(markers, id) >= 0 {
		vp.SelectedID = id
	}

	img := draw.NewRaster(int(vp.Width), int(vp.Height))
	h.renderer.Render(img, vp, markers, vp.SelectedID)

	var buf bytes.Buffer
	if err := img.EncodePNG(&buf); err != nil {
		h.log.Error().Err(err).Msg("encode png")
		h.writeError(w, http.StatusInternalServerError, "internal", "failed to encode image")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleHit(w http.ResponseWriter, r *http.Request) {
	p := &params{r: r}
	vp := p.view("ox", "oy")
	x := p.float("x", math.NaN())
	y := p.float("y", math.NaN())
	if p.err == nil && (math.IsNaN(x) || math.IsNaN(y)) {
		p.err = fmt.Errorf("x and y are required")
	}
	if p.err != nil {
		h.writeError(w, http.StatusBadRequest, "bad_request", p.err.Error())
		return
	}

	markers, loc := h.store.Snapshot()
	i, ok := loc.Locate(x, y, vp, h.hitRadius)
	h.metrics.IncSelection(ok)
	if !ok {
		h.writeError(w, http.StatusNotFound, "not_found", "no marker at point")
		return
	}
	h.writeJSON(w, http.StatusOK, h.toJSON(markers[i]))
}

func (h *Handler) handleListMarkers(w http.ResponseWriter, r *http.Request) {
	markers, _ := h.store.Snapshot()
	out := make([]markerJSON, len(markers))
	for i, m := range markers {
		out[i] = h.toJSON(m)
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleReplaceMarkers(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, http.StatusRequestEntityTooLarge, "too_large", err.Error())
		return
	}
	markers, err := feed.DecodeJSON(data, h.log)
	h.metrics.IncFeedUpdate("http", err)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	h.store.Set(markers)
	h.writeJSON(w, http.StatusOK, map[string]any{"markers": len(markers)})
}
