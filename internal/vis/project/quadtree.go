package project

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"

	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/vis/viewport"
)

// Slack added around query bounds so float rounding at the edge never
// drops a candidate. Candidates are re-checked in pixel space.
const boundSlack = 1e-9

type indexedPoint struct {
	p   orb.Point
	idx int
}

func (ip indexedPoint) Point() orb.Point { return ip.p }

// Quadtree is a Locator backed by an orb quadtree in geographic space.
// Because the projection scales both axes equally, a pixel radius is a
// fixed degree radius for a given scale.
type Quadtree struct {
	markers []core.PropertyMarker
	tree    *quadtree.Quadtree
}

// NewQuadtree indexes markers with finite coordinates.
func NewQuadtree(markers []core.PropertyMarker) *Quadtree {
	q := &Quadtree{markers: markers}

	var pts orb.MultiPoint
	for _, m := range markers {
		if m.Location.Finite() {
			pts = append(pts, orb.Point{m.Location.Lng, m.Location.Lat})
		}
	}
	if len(pts) == 0 {
		return q
	}

	q.tree = quadtree.New(pts.Bound().Pad(1))
	for i, m := range markers {
		if !m.Location.Finite() {
			continue
		}
		// Bound contains every point, Add cannot fail
		_ = q.tree.Add(indexedPoint{p: orb.Point{m.Location.Lng, m.Location.Lat}, idx: i})
	}
	return q
}

// Locate implements Locator.
func (q *Quadtree) Locate(x, y float64, vp viewport.Viewport, radius float64) (int, bool) {
	if q.tree == nil || radius < 0 {
		return -1, false
	}

	center := Unproject(x, y, vp)
	r := PixelsToDegrees(radius, vp) + boundSlack
	b := orb.Bound{
		Min: orb.Point{center.Lng - r, center.Lat - r},
		Max: orb.Point{center.Lng + r, center.Lat + r},
	}

	found := q.tree.InBound(nil, b)
	if len(found) == 0 {
		return -1, false
	}
	candidates := make([]int, 0, len(found))
	for _, f := range found {
		candidates = append(candidates, f.(indexedPoint).idx)
	}
	sort.Ints(candidates)

	return hitIndex(x, y, q.markers, candidates, vp, radius)
}
