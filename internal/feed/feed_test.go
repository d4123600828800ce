package feed

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/metrics"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeTestFile(t, "markers.json", `[
		{"id": "p1", "lat": 40.7128, "lng": -74.006, "price": 245000, "bedrooms": 3, "bathrooms": 2, "sqft": 1200, "address": "12 Main St"},
		{"lat": 40.72, "lng": -74.0, "price": 99999},
		{"id": "nolocation", "price": 1},
		{"id": "far", "lat": 123, "lng": 0},
		{"id": "p1", "lat": 1, "lng": 1}
	]`)

	got, err := Load(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d markers, want 2: %+v", len(got), got)
	}
	want := core.PropertyMarker{
		ID:        "p1",
		Location:  core.GeoCoordinate{Lat: 40.7128, Lng: -74.006},
		Price:     245000,
		Bedrooms:  3,
		Bathrooms: 2,
		AreaSqft:  1200,
		Address:   "12 Main St",
	}
	if got[0] != want {
		t.Errorf("first marker = %+v, want %+v", got[0], want)
	}
	if got[1].ID == "" || got[1].ID == "p1" {
		t.Errorf("anonymous record got id %q", got[1].ID)
	}
}

func TestLoadJSONMalformed(t *testing.T) {
	path := writeTestFile(t, "bad.json", `{"not": "an array"}`)
	if _, err := Load(path, zerolog.Nop()); err == nil {
		t.Fatal("expected an error for a non-array document")
	}
}

func TestLoadUnsupported(t *testing.T) {
	path := writeTestFile(t, "markers.csv", "id,lat,lng\n")
	_, err := Load(path, zerolog.Nop())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.json"), zerolog.Nop()); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadGeoJSON(t *testing.T) {
	path := writeTestFile(t, "markers.GeoJSON", `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-74.006, 40.7128]},
			 "properties": {"id": "a", "price": 245000, "bedrooms": 3, "bathrooms": 2, "sqft": 1200, "address": "12 Main St"}},
			{"type": "Feature", "id": "b", "geometry": {"type": "Point", "coordinates": [-74.0, 40.72]},
			 "properties": {"price": 500000}},
			{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]},
			 "properties": {"id": "road"}}
		]
	}`)

	got, err := Load(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d markers, want 2", len(got))
	}
	if got[0].ID != "a" || got[0].Location != core.ReferenceOrigin || got[0].Price != 245000 || got[0].AreaSqft != 1200 {
		t.Errorf("first marker = %+v", got[0])
	}
	if got[1].ID != "b" || got[1].Price != 500000 {
		t.Errorf("second marker = %+v", got[1])
	}
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"ID", "Lat", "Lng", "Price", "Bedrooms", "Bathrooms", "Sqft", "Address"},
		{"x1", "40,7128", "-74,006", "245,000", 3, 2, 1200, "12 Main St"},
		{"x2", "not a number", "-74", 1, 1, 1, 1, ""},
		{"", 40.72, -74.0, 99999, 1, 1, 500, "Anon"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	got, err := Load(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d markers, want 2: %+v", len(got), got)
	}
	first := got[0]
	if first.ID != "x1" || first.Location != core.ReferenceOrigin || first.Price != 245000 || first.Bedrooms != 3 || first.Address != "12 Main St" {
		t.Errorf("first marker = %+v", first)
	}
	if got[1].ID == "" || got[1].AreaSqft != 500 {
		t.Errorf("second marker = %+v", got[1])
	}
}

func TestDecodeRowsRequiresCoordinates(t *testing.T) {
	_, err := decodeRows([][]string{{"id", "lat", "price"}}, zerolog.Nop())
	if err == nil {
		t.Fatal("expected an error for a header without lng")
	}
	got, err := decodeRows(nil, zerolog.Nop())
	if err != nil || len(got) != 0 {
		t.Fatalf("empty sheet = %v, %v", got, err)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"245000", 245000},
		{"245,000", 245000},
		{"1 200", 1200},
		{"2.6", 3},
		{"", 0},
		{"many", 0},
	}
	for _, tt := range tests {
		if got := parseCount(tt.in); got != tt.want {
			t.Errorf("parseCount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSubscriberHandleMsg(t *testing.T) {
	var got [][]core.PropertyMarker
	s := &Subscriber{
		log:     zerolog.Nop(),
		metrics: metrics.New(),
		handler: func(ms []core.PropertyMarker) { got = append(got, ms) },
	}

	s.handleMsg(&nats.Msg{Subject: "markers", Data: []byte(`[{"id":"a","lat":40.7128,"lng":-74.006}]`)})
	s.handleMsg(&nats.Msg{Subject: "markers", Data: []byte(`not json`)})
	s.handleMsg(&nats.Msg{Subject: "markers", Data: []byte(`[]`)})

	if len(got) != 2 {
		t.Fatalf("handler called %d times, want 2", len(got))
	}
	if len(got[0]) != 1 || got[0][0].ID != "a" {
		t.Errorf("first update = %+v", got[0])
	}
	if len(got[1]) != 0 {
		t.Errorf("empty update = %+v", got[1])
	}
}
