// Command gen_markers writes deterministic synthetic property data sets in
// any of the feed formats (.json, .geojson, .xlsx).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/feed"
)

func main() {
	seed := pflag.Int64("seed", 42, "random seed for deterministic generation")
	count := pflag.Int("count", 50, "number of markers")
	spread := pflag.Float64("spread", 0.02, "max distance from the center in degrees")
	lat := pflag.Float64("lat", core.ReferenceOrigin.Lat, "center latitude")
	lng := pflag.Float64("lng", core.ReferenceOrigin.Lng, "center longitude")
	format := pflag.String("format", "json", "output format: json, geojson or xlsx")
	outputDir := pflag.String("output", "testdata", "output directory")
	scaling := pflag.Bool("scaling", false, "generate the scaling suite (10, 100, 1000, 10000 markers)")
	pflag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	sizes := []int{*count}
	if *scaling {
		sizes = []int{10, 100, 1000, 10000}
	}

	for _, n := range sizes {
		markers := feed.Generate(feed.GenerateParams{
			Seed:   *seed,
			Count:  n,
			Center: core.GeoCoordinate{Lat: *lat, Lng: *lng},
			Spread: *spread,
		})

		path := filepath.Join(*outputDir, fmt.Sprintf("markers_%d_%d.%s", n, *seed, *format))
		if err := feed.Save(path, markers); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Generated: %s (%d markers)\n", path, n)
	}
}
