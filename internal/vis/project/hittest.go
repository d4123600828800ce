package project

import (
	"math"

	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/vis/viewport"
)

// DefaultHitRadius matches the drawn marker radius.
const DefaultHitRadius = 16.0

// Locator finds the marker under a surface point. Implementations are built
// for one data set and return an index into it.
type Locator interface {
	Locate(x, y float64, vp viewport.Viewport, radius float64) (int, bool)
}

// HitTest returns the marker closest to (x, y) whose projected center lies
// within radius pixels. Exact ties go to the earliest marker in input order.
func HitTest(x, y float64, markers []core.PropertyMarker, vp viewport.Viewport, radius float64) (core.PropertyMarker, bool) {
	i, ok := hitIndex(x, y, markers, nil, vp, radius)
	if !ok {
		return core.PropertyMarker{}, false
	}
	return markers[i], true
}

// hitIndex scans candidates (all markers when nil) in ascending index order.
func hitIndex(x, y float64, markers []core.PropertyMarker, candidates []int, vp viewport.Viewport, radius float64) (int, bool) {
	best := -1
	bestDist := math.Inf(1)

	check := func(i int) {
		mx, my := Project(markers[i].Location, vp)
		d := math.Hypot(x-mx, y-my)
		// NaN never compares true, so unprojectable markers never hit
		if d <= radius && d < bestDist {
			best = i
			bestDist = d
		}
	}

	if candidates == nil {
		for i := range markers {
			check(i)
		}
	} else {
		for _, i := range candidates {
			check(i)
		}
	}
	return best, best >= 0
}

// Linear is a Locator that scans every marker.
type Linear struct {
	markers []core.PropertyMarker
}

// NewLinear creates a linear-scan locator over markers.
func NewLinear(markers []core.PropertyMarker) *Linear {
	return &Linear{markers: markers}
}

// Locate implements Locator.
func (l *Linear) Locate(x, y float64, vp viewport.Viewport, radius float64) (int, bool) {
	return hitIndex(x, y, l.markers, nil, vp, radius)
}

// Locator index kinds.
const (
	IndexLinear   = "linear"
	IndexQuadtree = "quadtree"
)

// NewLocator builds the locator named by index over markers. Unknown names
// fall back to a linear scan.
func NewLocator(index string, markers []core.PropertyMarker) Locator {
	if index == IndexQuadtree {
		return NewQuadtree(markers)
	}
	return NewLinear(markers)
}
