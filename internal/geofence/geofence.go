package geofence

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	earthRadiusMeters = 6371000

	// DefaultRadiusMeters is the punch radius around a shift's coordinates
	DefaultRadiusMeters = 500.0

	// LocateTimeout bounds a single device position request
	LocateTimeout = 15 * time.Second
)

var (
	ErrGeofenceDenied           = errors.New("outside the allowed radius of the job site")
	ErrLocationPermissionDenied = errors.New("location permission is required")
	ErrShiftLocationUnset       = errors.New("shift has no location coordinates; cannot verify proximity")
)

// Point is a WGS84 coordinate pair
type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// IsUnset reports the 0,0 placeholder used for shifts without coordinates
func (p Point) IsUnset() bool {
	return p.Lat == 0 && p.Lon == 0
}

// DistanceMeters returns the haversine great-circle distance between two coordinates
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	latRad1 := lat1 * math.Pi / 180
	latRad2 := lat2 * math.Pi / 180
	diffLat := (lat2 - lat1) * math.Pi / 180
	diffLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(diffLat/2)*math.Sin(diffLat/2) +
		math.Cos(latRad1)*math.Cos(latRad2)*
			math.Sin(diffLon/2)*math.Sin(diffLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Distance is DistanceMeters for two points
func Distance(a, b Point) float64 {
	return DistanceMeters(a.Lat, a.Lon, b.Lat, b.Lon)
}

// IsWithinRadius is inclusive: a distance equal to the radius is inside
func IsWithinRadius(distance, radiusMeters float64) bool {
	return distance <= radiusMeters
}

// DistanceError reports a position outside the geofence
type DistanceError struct {
	Distance float64
	Radius   float64
}

func (e *DistanceError) Error() string {
	return fmt.Sprintf("you must be within %.0f meters of the job site; you are ~%.0fm away", e.Radius, e.Distance)
}

func (e *DistanceError) Is(target error) bool {
	return target == ErrGeofenceDenied
}

// Locator acquires the device's current position
type Locator interface {
	CurrentPosition(ctx context.Context) (Point, error)
}

// LocatorFunc adapts a function to Locator
type LocatorFunc func(ctx context.Context) (Point, error)

func (f LocatorFunc) CurrentPosition(ctx context.Context) (Point, error) {
	return f(ctx)
}

// Locate asks the locator for a position within LocateTimeout. Every failure
// is reported as ErrLocationPermissionDenied and ends the attempt.
func Locate(ctx context.Context, loc Locator) (Point, error) {
	if loc == nil {
		return Point{}, ErrLocationPermissionDenied
	}

	ctx, cancel := context.WithTimeout(ctx, LocateTimeout)
	defer cancel()

	p, err := loc.CurrentPosition(ctx)
	if err != nil {
		if errors.Is(err, ErrLocationPermissionDenied) {
			return Point{}, err
		}
		return Point{}, fmt.Errorf("%w: %v", ErrLocationPermissionDenied, err)
	}
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return Point{}, fmt.Errorf("%w: invalid coordinates", ErrLocationPermissionDenied)
	}
	return p, nil
}
