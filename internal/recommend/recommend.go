// Package recommend ranks alternative parking zones near a selected zone.
//
// Two strategies exist on purpose: the map view has precise coordinates
// worth ranking on, while the detail pane prefers "same administrative
// area" relevance over geometric proximity.
package recommend

import (
	"math"
	"sort"

	"github.com/smartpark/parking-terminal/internal/models"
)

const (
	earthRadiusKm = 6371.0

	// Radius for map-level alternatives. Strictly less-than: a candidate
	// at exactly 1.0 km is out.
	nearbyRadiusKm = 1.0

	maxAlternatives = 2
)

// Alternative is a candidate zone annotated with its distance from the
// selected zone and the availability it was ranked on.
type Alternative struct {
	Zone         models.Zone
	DistanceKm   float64
	Availability float64
}

// Haversine computes the great-circle distance in kilometers between two
// points given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Nearby returns up to two zones within 1 km of the selected zone, ranked by
// effective availability (the time-shifted value when one exists) descending.
// effective is the aggregator's resolution function so the ranking never
// disagrees with the numbers on screen.
func Nearby(selected models.Zone, zones []models.Zone, effective func(models.Zone) float64) []Alternative {
	var candidates []Alternative
	for _, z := range zones {
		if z.ZoneID == selected.ZoneID {
			continue
		}
		d := Haversine(selected.Latitude, selected.Longitude, z.Latitude, z.Longitude)
		if d >= nearbyRadiusKm {
			continue
		}
		candidates = append(candidates, Alternative{
			Zone:         z,
			DistanceKm:   d,
			Availability: effective(z),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Availability > candidates[j].Availability
	})

	if len(candidates) > maxAlternatives {
		candidates = candidates[:maxAlternatives]
	}
	return candidates
}

// SameDistrict returns up to two zones in the selected zone's district
// (exact, case-sensitive match), ranked by live availability descending.
// An empty result is a valid, displayable state.
func SameDistrict(selected models.Zone, zones []models.Zone) []models.Zone {
	var candidates []models.Zone
	for _, z := range zones {
		if z.ZoneID == selected.ZoneID || z.District != selected.District {
			continue
		}
		candidates = append(candidates, z)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CurrentAvailability > candidates[j].CurrentAvailability
	})

	if len(candidates) > maxAlternatives {
		candidates = candidates[:maxAlternatives]
	}
	return candidates
}
