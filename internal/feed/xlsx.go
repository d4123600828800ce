package feed

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/elektrokombinacija/propmap/internal/core"
)

// LoadXLSX reads the first sheet of a workbook. The first row is a header
// naming the columns id, lat, lng, price, bedrooms, bathrooms, sqft and
// address in any order; lat and lng are required.
func LoadXLSX(path string, log zerolog.Logger) ([]core.PropertyMarker, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx feed: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx feed %s: no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return decodeRows(rows, log)
}

func decodeRows(rows [][]string, log zerolog.Logger) ([]core.PropertyMarker, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	cols := make(map[string]int)
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["lat"]; !ok {
		return nil, fmt.Errorf("xlsx feed: missing lat column")
	}
	if _, ok := cols["lng"]; !ok {
		return nil, fmt.Errorf("xlsx feed: missing lng column")
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var markers []core.PropertyMarker
	for i, row := range rows[1:] {
		line := i + 2 // 1-based, after the header

		lat, err1 := parseCoord(cell(row, "lat"))
		lng, err2 := parseCoord(cell(row, "lng"))
		if err1 != nil || err2 != nil {
			log.Warn().Int("row", line).Msg("skipping row with invalid coordinates")
			continue
		}

		markers = append(markers, core.PropertyMarker{
			ID:        cell(row, "id"),
			Location:  core.GeoCoordinate{Lat: lat, Lng: lng},
			Price:     int64(parseCount(cell(row, "price"))),
			Bedrooms:  int(parseCount(cell(row, "bedrooms"))),
			Bathrooms: int(parseCount(cell(row, "bathrooms"))),
			AreaSqft:  int(parseCount(cell(row, "sqft"))),
			Address:   cell(row, "address"),
		})
	}
	return normalize(markers, log), nil
}

// parseCoord accepts both "23.81" and "23,81".
func parseCoord(val string) (float64, error) {
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return 0, fmt.Errorf("empty")
	}
	return strconv.ParseFloat(val, 64)
}

// parseCount reads a whole number, ignoring thousands separators. Unreadable
// cells count as zero.
func parseCount(val string) float64 {
	val = strings.NewReplacer(",", "", " ", "", "_", "").Replace(val)
	if val == "" {
		return 0
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return math.Round(f)
}
