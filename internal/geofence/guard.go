package geofence

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// MissingCoordsPolicy decides what happens when a shift has no coordinates
type MissingCoordsPolicy int

const (
	// PolicySkipWithWarning lets the punch through and reports a warning
	PolicySkipWithWarning MissingCoordsPolicy = iota
	// PolicyBlock refuses the punch with ErrShiftLocationUnset
	PolicyBlock
)

// ParsePolicy reads "skip" or "block"
func ParsePolicy(s string) (MissingCoordsPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip", "skip-with-warning":
		return PolicySkipWithWarning, nil
	case "block":
		return PolicyBlock, nil
	}
	return PolicySkipWithWarning, fmt.Errorf("unknown missing-coordinates policy %q", s)
}

func (p MissingCoordsPolicy) String() string {
	if p == PolicyBlock {
		return "block"
	}
	return "skip"
}

// Verdict is the outcome of a successful check
type Verdict struct {
	Distance *float64
	Skipped  bool
	Warning  string
}

// Guard gates punch actions on proximity to the shift site
type Guard struct {
	Radius  float64
	Missing MissingCoordsPolicy
}

// NewGuard returns a guard with the default radius when radius <= 0
func NewGuard(radius float64, missing MissingCoordsPolicy) *Guard {
	if radius <= 0 {
		radius = DefaultRadiusMeters
	}
	return &Guard{Radius: radius, Missing: missing}
}

// Check acquires the device position and compares it with the site
func (g *Guard) Check(ctx context.Context, site Point, loc Locator) (Verdict, error) {
	if site.IsUnset() {
		if g.Missing == PolicyBlock {
			return Verdict{}, ErrShiftLocationUnset
		}
		log.Printf("⚠️  Geofence skipped: shift has no coordinates")
		return Verdict{Skipped: true, Warning: "Location not set for this shift; proximity was not verified"}, nil
	}

	pos, err := Locate(ctx, loc)
	if err != nil {
		return Verdict{}, err
	}

	d := Distance(pos, site)
	if !IsWithinRadius(d, g.Radius) {
		return Verdict{Distance: &d}, &DistanceError{Distance: d, Radius: g.Radius}
	}
	return Verdict{Distance: &d}, nil
}
