package feed

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/elektrokombinacija/propmap/internal/core"
)

// GenerateParams controls synthetic data set generation.
type GenerateParams struct {
	Seed   int64
	Count  int
	Center core.GeoCoordinate
	Spread float64 // Max distance from Center in degrees, per axis
}

var streets = []string{
	"Gulshan Ave", "Road 11", "Kemal Ataturk Ave", "Madani Ave", "Lake Dr",
	"Park Rd", "Bir Uttam Rd", "Satmasjid Rd", "Mirpur Rd", "Elephant Rd",
}

// Generate builds a deterministic data set: the same params always yield
// the same markers.
func Generate(p GenerateParams) []core.PropertyMarker {
	rng := rand.New(rand.NewSource(p.Seed))
	if p.Spread <= 0 {
		p.Spread = 0.05
	}

	markers := make([]core.PropertyMarker, 0, max(p.Count, 0))
	for i := 0; i < p.Count; i++ {
		beds := 1 + rng.Intn(5)
		m := core.PropertyMarker{
			ID: fmt.Sprintf("p%04d", i+1),
			Location: core.GeoCoordinate{
				Lat: round6(p.Center.Lat + (rng.Float64()*2-1)*p.Spread),
				Lng: round6(p.Center.Lng + (rng.Float64()*2-1)*p.Spread),
			},
			// 50k to 2M in whole thousands
			Price:     int64(50+rng.Intn(1951)) * 1000,
			Bedrooms:  beds,
			Bathrooms: 1 + rng.Intn(beds),
			AreaSqft:  400 + 50*rng.Intn(53),
			Address:   fmt.Sprintf("%d %s", 1+rng.Intn(200), streets[rng.Intn(len(streets))]),
		}
		markers = append(markers, m)
	}
	return markers
}

func round6(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}
