package kernel

import (
	"errors"
	"fmt"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// Valid coordinate ranges in decimal degrees.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// ErrLocationIsNotConstructed is returned for a zero-value Location.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError("location must be created via NewLocation")

// Location is an immutable WGS84 point in decimal degrees.
//
// Optional locations (a requester without a registered address, a provider that
// never set coordinates) are modelled as *Location == nil by the callers; the
// zero value of Location itself is invalid.
type Location struct { //nolint:recvcheck //setters use pointer receivers
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewLocation validates latitude in [-90, 90] and longitude in [-180, 180].
//
// Parameters:
//   - lat: Latitude in decimal degrees
//   - lon: Longitude in decimal degrees
//
// Returns:
//   - Location: The point if both coordinates are in range
//   - error: ValueIsOutOfRange for each coordinate that is not
//
// Example:
//
//	loc, err := kernel.NewLocation(12.9716, 77.5946)
//	if err != nil {
//	    // Handle validation error
//	}
func NewLocation(lat, lon float64) (Location, error) {
	loc := Location{guard: guard.NewConstructorGuard()}

	if err := errors.Join(loc.setLat(lat), loc.setLon(lon)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// NewOptionalLocation builds a location from nullable columns. Both values must
// be present for a location to exist.
func NewOptionalLocation(lat, lon *float64) (*Location, error) {
	if lat == nil || lon == nil {
		return nil, nil //nolint:nilnil // absence is a valid state
	}

	loc, err := NewLocation(*lat, *lon)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// Validate reports ErrLocationIsNotConstructed for a zero-value Location.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Lat returns the latitude in decimal degrees.
func (l Location) Lat() float64 {
	return l.lat
}

// Lon returns the longitude in decimal degrees.
func (l Location) Lon() float64 {
	return l.lon
}

// String formats the point with six decimals.
func (l Location) String() string {
	return fmt.Sprintf("Location(%.6f,%.6f)", l.lat, l.lon)
}

// IsEqual compares coordinates; both locations must be constructed.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l.lat == other.lat && l.lon == other.lon, nil
}

func (l *Location) setLat(lat float64) error {
	if lat < MinLatitude || lat > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("lat", lat, MinLatitude, MaxLatitude)
	}

	l.lat = lat
	return nil
}

func (l *Location) setLon(lon float64) error {
	if lon < MinLongitude || lon > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("lon", lon, MinLongitude, MaxLongitude)
	}

	l.lon = lon
	return nil
}
