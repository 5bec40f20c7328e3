// Package geography holds coordinate helpers for the Korean service area:
// the national bounding box, crawl rect parsing, and region path
// extraction from geocoding results.
package geography

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"googlemaps.github.io/maps"
)

// South Korea bounding box. Geocodes outside it drifted abroad.
const (
	KoreaMinLat = 33.0
	KoreaMaxLat = 38.7
	KoreaMinLng = 124.5
	KoreaMaxLng = 131.9
)

const earthRadiusKm = 6371.0

// InKorea reports whether a point lies inside the Korea bounding box and
// away from the null-island default.
func InKorea(lat, lng float64) bool {
	if lat == 0 && lng == 0 {
		return false
	}
	return lat >= KoreaMinLat && lat <= KoreaMaxLat && lng >= KoreaMinLng && lng <= KoreaMaxLng
}

// Distance returns the haversine distance between two points in km.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// Rect is a search bounding box in "lat1,lng1,lat2,lng2" form.
type Rect struct {
	MinLat, MinLng float64
	MaxLat, MaxLng float64
}

// ParseRect parses a comma-separated rect string. Corner order does not
// matter; the rect is normalized so Min fields are the lower bound.
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("rect must have 4 components, got %d", len(parts))
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Rect{}, fmt.Errorf("invalid rect component %q: %w", p, err)
		}
		vals[i] = v
	}
	r := Rect{
		MinLat: math.Min(vals[0], vals[2]),
		MaxLat: math.Max(vals[0], vals[2]),
		MinLng: math.Min(vals[1], vals[3]),
		MaxLng: math.Max(vals[1], vals[3]),
	}
	if !InKorea(r.MinLat, r.MinLng) || !InKorea(r.MaxLat, r.MaxLng) {
		return Rect{}, fmt.Errorf("rect %s is outside Korea", s)
	}
	return r, nil
}

// Contains reports whether a point lies inside the rect.
func (r Rect) Contains(lat, lng float64) bool {
	return lat >= r.MinLat && lat <= r.MaxLat && lng >= r.MinLng && lng <= r.MaxLng
}

// Center returns the midpoint of the rect.
func (r Rect) Center() (lat, lng float64) {
	return (r.MinLat + r.MaxLat) / 2, (r.MinLng + r.MaxLng) / 2
}

// NormalizeName lowercases a region name and replaces spaces with
// underscores for use in path segments.
func NormalizeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(normalized, " ", "_")
}

// RegionPath builds a broad-to-specific region path from Google geocoding
// address components, e.g. "서울특별시|강남구|역삼동". Only components
// present in the response are included.
func RegionPath(components []maps.AddressComponent) string {
	wantedTypes := map[string]int{
		"administrative_area_level_1": 0, // 시/도
		"sublocality_level_1":         1, // 구
		"sublocality_level_2":         2, // 동
	}

	found := make(map[int]string)
	for _, component := range components {
		for _, compType := range component.Types {
			if priority, exists := wantedTypes[compType]; exists {
				if _, alreadyFound := found[priority]; !alreadyFound {
					found[priority] = component.LongName
				}
			}
		}
	}

	var pathComponents []string
	for i := 0; i < len(wantedTypes); i++ {
		if component, exists := found[i]; exists {
			pathComponents = append(pathComponents, NormalizeName(component))
		}
	}
	return strings.Join(pathComponents, "|")
}

// District returns the 구-level component of a geocoding response, empty
// when the response has none.
func District(components []maps.AddressComponent) string {
	for _, component := range components {
		for _, compType := range component.Types {
			if compType == "sublocality_level_1" {
				return component.LongName
			}
		}
	}
	return ""
}
