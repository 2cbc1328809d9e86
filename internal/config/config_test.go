package config

import (
	"testing"

	"github.com/JunoAX/beework-go/internal/geofence"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"JWT_SECRET": "s3cret"}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.StoreDriver != DriverMemory || cfg.JWTIssuer != "beework" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.GeofenceRadius != geofence.DefaultRadiusMeters || cfg.MissingCoords != geofence.PolicySkipWithWarning {
		t.Fatalf("unexpected geofence defaults: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"JWT_SECRET":              "s3cret",
		"STORE_DRIVER":            "Postgres",
		"DATABASE_URL":            "postgres://localhost/beework",
		"GEOFENCE_RADIUS_METERS":  "250",
		"GEOFENCE_MISSING_COORDS": "block",
		"CORS_ORIGINS":            "http://localhost:5173, https://app.beework.jo",
		"PAYROLL_TIMEZONE":        "UTC",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreDriver != DriverPostgres || cfg.GeofenceRadius != 250 || cfg.MissingCoords != geofence.PolicyBlock {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://app.beework.jo" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
	if cfg.PayrollLocation.String() != "UTC" {
		t.Fatalf("unexpected payroll location: %v", cfg.PayrollLocation)
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	cases := []map[string]string{
		{},
		{"JWT_SECRET": "x", "STORE_DRIVER": "redis"},
		{"JWT_SECRET": "x", "STORE_DRIVER": "firestore"},
		{"JWT_SECRET": "x", "STORE_DRIVER": "postgres"},
		{"JWT_SECRET": "x", "GEOFENCE_RADIUS_METERS": "-5"},
		{"JWT_SECRET": "x", "GEOFENCE_MISSING_COORDS": "maybe"},
		{"JWT_SECRET": "x", "PAYROLL_TIMEZONE": "Mars/Olympus"},
	}
	for _, vars := range cases {
		if _, err := FromEnv(env(vars)); err == nil {
			t.Fatalf("expected error for %v", vars)
		}
	}
}
