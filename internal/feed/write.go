package feed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/xuri/excelize/v2"

	"github.com/elektrokombinacija/propmap/internal/core"
)

var xlsxHeader = []interface{}{"id", "lat", "lng", "price", "bedrooms", "bathrooms", "sqft", "address"}

// Save writes markers to path in the format named by its extension, the
// same formats Load reads.
func Save(path string, markers []core.PropertyMarker) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return writeFile(path, encodeJSON(markers))
	case ".geojson":
		return writeFile(path, encodeGeoJSON(markers))
	case ".xlsx":
		return saveXLSX(path, markers)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func writeFile(path string, encode func() ([]byte, error)) error {
	data, err := encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func encodeJSON(markers []core.PropertyMarker) func() ([]byte, error) {
	return func() ([]byte, error) {
		recs := make([]record, len(markers))
		for i, m := range markers {
			lat, lng := m.Location.Lat, m.Location.Lng
			recs[i] = record{
				ID:        m.ID,
				Lat:       &lat,
				Lng:       &lng,
				Price:     m.Price,
				Bedrooms:  m.Bedrooms,
				Bathrooms: m.Bathrooms,
				Sqft:      m.AreaSqft,
				Address:   m.Address,
			}
		}
		return json.MarshalIndent(recs, "", "  ")
	}
}

func encodeGeoJSON(markers []core.PropertyMarker) func() ([]byte, error) {
	return func() ([]byte, error) {
		fc := geojson.NewFeatureCollection()
		for _, m := range markers {
			f := geojson.NewFeature(orb.Point{m.Location.Lng, m.Location.Lat})
			f.Properties["id"] = m.ID
			f.Properties["price"] = m.Price
			f.Properties["bedrooms"] = m.Bedrooms
			f.Properties["bathrooms"] = m.Bathrooms
			f.Properties["sqft"] = m.AreaSqft
			f.Properties["address"] = m.Address
			fc.Append(f)
		}
		return fc.MarshalJSON()
	}
}

func saveXLSX(path string, markers []core.PropertyMarker) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("xlsx stream writer: %w", err)
	}
	if err := sw.SetRow("A1", xlsxHeader); err != nil {
		return err
	}
	for i, m := range markers {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			m.ID, m.Location.Lat, m.Location.Lng, m.Price,
			m.Bedrooms, m.Bathrooms, m.AreaSqft, m.Address,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
