// Package project maps geographic coordinates onto the map surface and
// resolves surface points back to markers.
//
// The projection is a linear equirectangular approximation around
// core.ReferenceOrigin: one degree of latitude and one degree of longitude
// both span PixelsPerDegree pixels at scale 1. It ignores the cos(lat)
// shrinking of longitude and is only usable for data sets covering a small
// area (a city). It is not Web Mercator.
package project

import (
	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/vis/viewport"
)

// PixelsPerDegree converts a degree delta to a pixel delta at scale 1.
const PixelsPerDegree = 1000.0

// Project converts a geographic coordinate to surface pixel coordinates.
func Project(c core.GeoCoordinate, vp viewport.Viewport) (x, y float64) {
	k := PixelsPerDegree * vp.Scale
	x = vp.Width/2 + (c.Lng-core.ReferenceOrigin.Lng)*k + vp.OffsetX
	y = vp.Height/2 - (c.Lat-core.ReferenceOrigin.Lat)*k + vp.OffsetY
	return
}

// Unproject converts surface pixel coordinates back to a geographic coordinate.
func Unproject(x, y float64, vp viewport.Viewport) core.GeoCoordinate {
	k := PixelsPerDegree * vp.Scale
	return core.GeoCoordinate{
		Lat: core.ReferenceOrigin.Lat - (y-vp.Height/2-vp.OffsetY)/k,
		Lng: core.ReferenceOrigin.Lng + (x-vp.Width/2-vp.OffsetX)/k,
	}
}

// PixelsToDegrees converts a pixel distance to degrees at the viewport scale.
func PixelsToDegrees(px float64, vp viewport.Viewport) float64 {
	return px / (PixelsPerDegree * vp.Scale)
}
