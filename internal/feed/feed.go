// Package feed loads property marker data sets from files and live
// subscriptions. Every source delivers a whole data set; there are no
// incremental updates.
package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/elektrokombinacija/propmap/internal/core"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("feed: unsupported format")

// record is the JSON shape of one marker.
type record struct {
	ID        string   `json:"id"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Price     int64    `json:"price"`
	Bedrooms  int      `json:"bedrooms"`
	Bathrooms int      `json:"bathrooms"`
	Sqft      int      `json:"sqft"`
	Address   string   `json:"address"`
}

// Load reads a data set from path, choosing the decoder by extension:
// .json, .geojson or .xlsx.
func Load(path string, log zerolog.Logger) ([]core.PropertyMarker, error) {
	ext := strings.ToLower(filepath.Ext(path))
	log = log.With().Str("path", path).Logger()

	switch ext {
	case ".json", ".geojson":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read feed: %w", err)
		}
		if ext == ".geojson" {
			return DecodeGeoJSON(data, log)
		}
		return DecodeJSON(data, log)
	case ".xlsx":
		return LoadXLSX(path, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// DecodeJSON decodes a JSON array of marker objects. Records without a
// usable location are skipped with a warning.
func DecodeJSON(data []byte, log zerolog.Logger) ([]core.PropertyMarker, error) {
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode json feed: %w", err)
	}

	markers := make([]core.PropertyMarker, 0, len(recs))
	for i, r := range recs {
		if r.Lat == nil || r.Lng == nil {
			log.Warn().Int("record", i).Str("id", r.ID).Msg("skipping record without location")
			continue
		}
		markers = append(markers, core.PropertyMarker{
			ID:        r.ID,
			Location:  core.GeoCoordinate{Lat: *r.Lat, Lng: *r.Lng},
			Price:     r.Price,
			Bedrooms:  r.Bedrooms,
			Bathrooms: r.Bathrooms,
			AreaSqft:  r.Sqft,
			Address:   r.Address,
		})
	}
	return normalize(markers, log), nil
}

// normalize drops records with out-of-range coordinates, gives anonymous
// records a random ID and keeps the first of any duplicated IDs.
func normalize(markers []core.PropertyMarker, log zerolog.Logger) []core.PropertyMarker {
	seen := make(map[string]struct{}, len(markers))
	out := markers[:0]
	for _, m := range markers {
		if !validLocation(m.Location) {
			log.Warn().Str("id", m.ID).Stringer("location", m.Location).Msg("skipping record with invalid location")
			continue
		}
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if _, dup := seen[m.ID]; dup {
			log.Warn().Str("id", m.ID).Msg("skipping duplicate id")
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}

func validLocation(c core.GeoCoordinate) bool {
	return c.Finite() && c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}
