// Package validation checks crawled store fields before persistence.
// Crawled HTML is hostile input; these checks keep junk rows out of the
// stores table.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"seoul-store-crawler/internal/geocode"
	"seoul-store-crawler/internal/models"
	"seoul-store-crawler/pkg/utils"
)

// ValidateName validates a store name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	// Rune counts, not bytes; most names here are Hangul.
	if utf8.RuneCountInString(name) < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	if utf8.RuneCountInString(name) > 200 {
		return fmt.Errorf("name must be less than 200 characters")
	}
	return nil
}

// ValidateAddress validates a store address. Empty is allowed since listing
// cards often omit it; the detail fetch fills it in later.
func ValidateAddress(addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	if utf8.RuneCountInString(addr) < 5 {
		return fmt.Errorf("address must be at least 5 characters")
	}
	if utf8.RuneCountInString(addr) > 500 {
		return fmt.Errorf("address must be less than 500 characters")
	}
	return nil
}

// ValidatePhone validates a Korean phone number when present.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}
	if !utils.ValidPhoneNumber(phone) {
		return fmt.Errorf("phone %q is not a plausible Korean number", phone)
	}
	return nil
}

// ValidateCoordinates rejects positions outside Korea.
func ValidateCoordinates(lat, lng float64) error {
	if !geocode.ValidCoordinates(lat, lng) {
		return fmt.Errorf("coordinates (%f, %f) are outside Korea", lat, lng)
	}
	return nil
}

// ValidatePlaceID validates the DiningCode place identifier.
func ValidatePlaceID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("place id cannot be empty")
	}
	if len(id) > 50 {
		return fmt.Errorf("place id must be less than 50 characters")
	}
	return nil
}

// ValidateHoursText caps the raw hours block size. DiningCode pages top out
// around a few hundred characters; anything bigger is an extraction bug.
func ValidateHoursText(text string) error {
	if len(text) > 2000 {
		return fmt.Errorf("hours text too long (%d bytes, max 2000)", len(text))
	}
	return nil
}

// ValidateStore runs all field checks on a crawled store and returns the
// first failure.
func ValidateStore(store *models.Store) error {
	if err := ValidatePlaceID(store.DiningcodePlaceID); err != nil {
		return err
	}
	if err := ValidateName(store.Name); err != nil {
		return err
	}
	if err := ValidateAddress(store.Address); err != nil {
		return err
	}
	// Listing cards carry a short neighborhood label ("역삼동"), so only
	// the length cap applies to the basic address.
	if utf8.RuneCountInString(store.BasicAddress) > 500 {
		return fmt.Errorf("basic address must be less than 500 characters")
	}
	if store.Phone != nil {
		if err := ValidatePhone(*store.Phone); err != nil {
			return err
		}
	}
	if store.HoursText != nil {
		if err := ValidateHoursText(*store.HoursText); err != nil {
			return err
		}
	}
	if store.Lat != nil && store.Lng != nil {
		if err := ValidateCoordinates(*store.Lat, *store.Lng); err != nil {
			return err
		}
	}
	return nil
}
