// Package core defines domain models for the property map.
package core

import (
	"fmt"
	"math"
)

// GeoCoordinate is a WGS84 latitude/longitude pair in degrees.
type GeoCoordinate struct {
	Lat float64
	Lng float64
}

// ReferenceOrigin is the geographic zero point of the map projection
// (New York City). It maps to the untranslated center of the surface.
var ReferenceOrigin = GeoCoordinate{Lat: 40.7128, Lng: -74.006}

// Finite reports whether both components are finite numbers.
func (c GeoCoordinate) Finite() bool {
	return !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0) &&
		!math.IsNaN(c.Lng) && !math.IsInf(c.Lng, 0)
}

func (c GeoCoordinate) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", c.Lat, c.Lng)
}

// PropertyMarker is one listing placed on the map. The map only reads
// markers; they are owned by whichever feed supplied them.
type PropertyMarker struct {
	ID        string
	Location  GeoCoordinate
	Price     int64 // Minor-unit currency
	Bedrooms  int
	Bathrooms int
	AreaSqft  int
	Address   string
}

// FindMarker returns the index of the marker with the given id, or -1.
func FindMarker(markers []PropertyMarker, id string) int {
	if id == "" {
		return -1
	}
	for i := range markers {
		if markers[i].ID == id {
			return i
		}
	}
	return -1
}
