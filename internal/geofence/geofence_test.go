package geofence

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestDistanceToSelfIsZero(t *testing.T) {
	points := []Point{{0, 0}, {31.9539, 35.9106}, {-33.8688, 151.2093}, {89.9, -179.9}}
	for _, p := range points {
		if d := DistanceMeters(p.Lat, p.Lon, p.Lat, p.Lon); d != 0 {
			t.Fatalf("distance from %v to itself = %v, want 0", p, d)
		}
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := Point{31.9539, 35.9106}
	b := Point{32.0, 36.0}
	ab := Distance(a, b)
	ba := Distance(b, a)
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", ab, ba)
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// one degree of latitude is ~111.2 km on a 6,371 km sphere
	d := DistanceMeters(0, 0, 1, 0)
	if math.Abs(d-111194.9) > 1 {
		t.Fatalf("one degree of latitude = %v m, want ~111194.9", d)
	}
}

func TestIsWithinRadiusInclusive(t *testing.T) {
	if !IsWithinRadius(500, 500) {
		t.Fatalf("expected 500m to be inside a 500m radius")
	}
	if IsWithinRadius(500.01, 500) {
		t.Fatalf("expected 500.01m to be outside a 500m radius")
	}
}

func fixed(p Point) Locator {
	return LocatorFunc(func(ctx context.Context) (Point, error) { return p, nil })
}

func TestGuardAllowsNearbyPosition(t *testing.T) {
	g := NewGuard(0, PolicySkipWithWarning)
	site := Point{31.9539, 35.9106}
	// ~200m north
	near := Point{31.9539 + 200.0/111194.9, 35.9106}

	v, err := g.Check(context.Background(), site, fixed(near))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if v.Distance == nil || math.Abs(*v.Distance-200) > 1 {
		t.Fatalf("expected ~200m distance, got %v", v.Distance)
	}
}

func TestGuardRejectsFarPosition(t *testing.T) {
	g := NewGuard(500, PolicySkipWithWarning)
	site := Point{31.9539, 35.9106}
	far := Point{31.9639, 35.9106}

	_, err := g.Check(context.Background(), site, fixed(far))
	if !errors.Is(err, ErrGeofenceDenied) {
		t.Fatalf("expected ErrGeofenceDenied, got %v", err)
	}
	var de *DistanceError
	if !errors.As(err, &de) || de.Distance <= 500 {
		t.Fatalf("expected DistanceError beyond radius, got %v", err)
	}
}

func TestGuardLocationFailureIsPermissionDenied(t *testing.T) {
	g := NewGuard(500, PolicySkipWithWarning)
	loc := LocatorFunc(func(ctx context.Context) (Point, error) {
		return Point{}, errors.New("timeout expired")
	})

	_, err := g.Check(context.Background(), Point{1, 1}, loc)
	if !errors.Is(err, ErrLocationPermissionDenied) {
		t.Fatalf("expected ErrLocationPermissionDenied, got %v", err)
	}

	if _, err := g.Check(context.Background(), Point{1, 1}, nil); !errors.Is(err, ErrLocationPermissionDenied) {
		t.Fatalf("expected ErrLocationPermissionDenied for nil locator, got %v", err)
	}
}

func TestGuardMissingCoordinatesPolicy(t *testing.T) {
	called := false
	loc := LocatorFunc(func(ctx context.Context) (Point, error) {
		called = true
		return Point{}, nil
	})

	v, err := NewGuard(500, PolicySkipWithWarning).Check(context.Background(), Point{}, loc)
	if err != nil || !v.Skipped || v.Warning == "" {
		t.Fatalf("expected skip with warning, got %+v, %v", v, err)
	}
	if called {
		t.Fatalf("locator should not be consulted when the site is unset")
	}

	if _, err := NewGuard(500, PolicyBlock).Check(context.Background(), Point{}, loc); !errors.Is(err, ErrShiftLocationUnset) {
		t.Fatalf("expected ErrShiftLocationUnset, got %v", err)
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy("block"); err != nil || p != PolicyBlock {
		t.Fatalf("ParsePolicy(block) = %v, %v", p, err)
	}
	if p, err := ParsePolicy(""); err != nil || p != PolicySkipWithWarning {
		t.Fatalf("ParsePolicy(\"\") = %v, %v", p, err)
	}
	if _, err := ParsePolicy("maybe"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
