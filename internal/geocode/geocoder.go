// Package geocode resolves Korean store addresses to coordinates and
// validates that results actually land in the service area.
package geocode

import (
	"context"
	"regexp"
	"strings"

	"googlemaps.github.io/maps"

	errs "seoul-store-crawler/pkg/errors"
	"seoul-store-crawler/pkg/geography"
	"seoul-store-crawler/pkg/logging"
	"seoul-store-crawler/pkg/utils"
)

// Result is a validated geocoding outcome.
type Result struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
	RegionPath       string // 시/도|구|동 from the response components
	Confidence       float64
}

// Geocoder wraps the maps client with address cleanup and result
// validation.
type Geocoder struct {
	client *maps.Client
	log    *logging.ComponentLogger
}

func NewGeocoder(apiKey string, log *logging.Logger) (*Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, errs.NewGeocode("geocode.NewGeocoder", "client init failed", err)
	}
	return &Geocoder{client: client, log: log.WithComponent("geocode")}, nil
}

// Geocode resolves an address. A response outside the Korea bounding box
// or on a known-bogus point is rejected with a GeocodeError.
func (g *Geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	cleaned := CleanAddress(address)
	if cleaned == "" {
		return nil, errs.NewGeocode("geocode.Geocode", "empty address", nil)
	}

	resp, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: cleaned, Region: "kr"})
	if err != nil {
		return nil, errs.NewGeocode("geocode.Geocode", cleaned, err)
	}
	if len(resp) == 0 {
		return nil, errs.NewGeocode("geocode.Geocode", "no result for "+cleaned, nil)
	}

	loc := resp[0].Geometry.Location
	if !ValidCoordinates(loc.Lat, loc.Lng) {
		return nil, errs.NewGeocode("geocode.Geocode", "result outside service area", nil)
	}

	res := &Result{
		Lat:              loc.Lat,
		Lng:              loc.Lng,
		FormattedAddress: resp[0].FormattedAddress,
		RegionPath:       geography.RegionPath(resp[0].AddressComponents),
		Confidence:       confidence(cleaned, resp[0].FormattedAddress),
	}
	g.log.Debug("geocoded address",
		logging.String("address", cleaned),
		logging.Float64("lat", res.Lat),
		logging.Float64("lng", res.Lng),
		logging.Float64("confidence", res.Confidence))
	return res, nil
}

var (
	parenNoteRe   = regexp.MustCompile(`\([^)]*\)`)
	floorSuffixRe = regexp.MustCompile(`\s+\d+층.*$`)
	multiSpaceRe  = regexp.MustCompile(`\s+`)
)

// CleanAddress strips parenthesized notes and floor/unit suffixes that
// confuse the geocoder, then collapses whitespace.
func CleanAddress(address string) string {
	cleaned := parenNoteRe.ReplaceAllString(address, " ")
	cleaned = floorSuffixRe.ReplaceAllString(cleaned, "")
	cleaned = multiSpaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// ValidCoordinates reports whether a point lies inside the Korea bounding
// box and away from known-bogus defaults (null island, exact zeros).
func ValidCoordinates(lat, lng float64) bool {
	return geography.InKorea(lat, lng)
}

// confidence scores how much of the requested address survived in the
// formatted result; exact containment of the district token weighs most.
func confidence(requested, formatted string) float64 {
	if requested == "" || formatted == "" {
		return 0
	}
	score := utils.CalculateStringSimilarity(requested, formatted)
	for _, tok := range strings.Fields(requested) {
		if strings.HasSuffix(tok, "구") && strings.Contains(formatted, tok) {
			if score < 0.8 {
				score = 0.8
			}
			break
		}
	}
	return score
}
