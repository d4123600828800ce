package feed

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/elektrokombinacija/propmap/internal/core"
)

// DecodeGeoJSON decodes a FeatureCollection of Point features. Marker fields
// come from the feature properties; the feature's own id is used when the
// properties carry none.
func DecodeGeoJSON(data []byte, log zerolog.Logger) ([]core.PropertyMarker, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode geojson feed: %w", err)
	}

	markers := make([]core.PropertyMarker, 0, len(fc.Features))
	for i, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			log.Warn().Int("feature", i).Msg("skipping non-point feature")
			continue
		}

		id := f.Properties.MustString("id", "")
		if id == "" {
			if s, ok := f.ID.(string); ok {
				id = s
			} else if n, ok := f.ID.(float64); ok {
				id = fmt.Sprintf("%d", int64(n))
			}
		}

		markers = append(markers, core.PropertyMarker{
			ID:        id,
			Location:  core.GeoCoordinate{Lat: pt.Lat(), Lng: pt.Lon()},
			Price:     int64(math.Round(f.Properties.MustFloat64("price", 0))),
			Bedrooms:  int(f.Properties.MustFloat64("bedrooms", 0)),
			Bathrooms: int(f.Properties.MustFloat64("bathrooms", 0)),
			AreaSqft:  int(f.Properties.MustFloat64("sqft", 0)),
			Address:   f.Properties.MustString("address", ""),
		})
	}
	return normalize(markers, log), nil
}
