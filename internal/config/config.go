package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/JunoAX/beework-go/internal/geofence"
	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverMemory    = "memory"
	DriverFirestore = "firestore"
	DriverPostgres  = "postgres"
)

// Config is read once at startup from the environment and an optional .env
type Config struct {
	Port      string
	JWTSecret string
	JWTIssuer string

	StoreDriver       string
	DatabaseURL       string
	FirebaseProjectID string
	CredentialsFile   string

	GeofenceRadius  float64
	MissingCoords   geofence.MissingCoordsPolicy
	CORSOrigins     []string
	PayrollLocation *time.Location
}

// Load reads .env when present, then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Could not read .env: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a config from a lookup function
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:              or(getenv("PORT"), "8080"),
		JWTSecret:         getenv("JWT_SECRET"),
		JWTIssuer:         or(getenv("JWT_ISSUER"), "beework"),
		StoreDriver:       strings.ToLower(or(getenv("STORE_DRIVER"), DriverMemory)),
		DatabaseURL:       getenv("DATABASE_URL"),
		FirebaseProjectID: getenv("FIREBASE_PROJECT_ID"),
		CredentialsFile:   getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		GeofenceRadius:    geofence.DefaultRadiusMeters,
		PayrollLocation:   time.Local,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	switch cfg.StoreDriver {
	case DriverMemory:
	case DriverFirestore:
		if cfg.FirebaseProjectID == "" {
			return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore driver")
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if v := getenv("GEOFENCE_RADIUS_METERS"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil || radius <= 0 {
			return nil, fmt.Errorf("invalid GEOFENCE_RADIUS_METERS %q", v)
		}
		cfg.GeofenceRadius = radius
	}

	policy, err := geofence.ParsePolicy(getenv("GEOFENCE_MISSING_COORDS"))
	if err != nil {
		return nil, err
	}
	cfg.MissingCoords = policy

	for _, origin := range strings.Split(getenv("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if tz := getenv("PAYROLL_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid PAYROLL_TIMEZONE: %w", err)
		}
		cfg.PayrollLocation = loc
	}

	return cfg, nil
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
