package storage

import (
	"fmt"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"
)

// shapefileFields are the DBF attribute names we look for when seeding the
// zone cache from a city open-data shapefile. Matching is case-insensitive.
var shapefileFields = map[string]string{
	"zone_id":  "ZONE_ID",
	"name":     "NAME",
	"district": "DISTRICT",
	"capacity": "CAPACITY",
}

// ImportShapefile seeds the zone cache from a city open-data shapefile of
// parking zone polygons. Zone positions are the polygon bounding-box centers.
// Existing cache rows are kept; rows with a matching zone_id are replaced.
func (s *Store) ImportShapefile(path string) (int, error) {
	shape, err := shp.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening shapefile: %w", err)
	}
	defer shape.Close()

	// Map the DBF columns we care about
	cols := map[string]int{}
	for i, f := range shape.Fields() {
		name := strings.ToUpper(strings.TrimRight(f.String(), "\x00"))
		for key, want := range shapefileFields {
			if name == want {
				cols[key] = i
			}
		}
	}
	idCol, ok := cols["zone_id"]
	if !ok {
		return 0, fmt.Errorf("shapefile has no ZONE_ID attribute")
	}

	count := 0
	for shape.Next() {
		n, p := shape.Shape()

		polygon, ok := p.(*shp.Polygon)
		if !ok {
			continue
		}
		bbox := polygon.BBox()
		centerLon := (bbox.MinX + bbox.MaxX) / 2
		centerLat := (bbox.MinY + bbox.MaxY) / 2

		zoneID := strings.TrimSpace(shape.ReadAttribute(n, idCol))
		if zoneID == "" {
			continue
		}
		name := zoneID
		if c, ok := cols["name"]; ok {
			name = strings.TrimSpace(shape.ReadAttribute(n, c))
		}
		district := ""
		if c, ok := cols["district"]; ok {
			district = strings.TrimSpace(shape.ReadAttribute(n, c))
		}
		capacity := 0
		if c, ok := cols["capacity"]; ok {
			capacity, _ = strconv.Atoi(strings.TrimSpace(shape.ReadAttribute(n, c)))
		}

		_, err := s.db.Exec(`
			INSERT INTO zone_cache (
				zone_id, zone_name, zone_type, district, latitude, longitude, total_capacity
			) VALUES (?, ?, 'street', ?, ?, ?, ?)
			ON CONFLICT(zone_id) DO UPDATE SET
				zone_name = excluded.zone_name,
				district = excluded.district,
				latitude = excluded.latitude,
				longitude = excluded.longitude,
				total_capacity = excluded.total_capacity`,
			zoneID, name, district, centerLat, centerLon, capacity)
		if err != nil {
			return count, fmt.Errorf("importing zone %s: %w", zoneID, err)
		}
		count++
	}

	return count, nil
}
