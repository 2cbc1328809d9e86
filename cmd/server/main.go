package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JunoAX/beework-go/internal/auth"
	"github.com/JunoAX/beework-go/internal/availability"
	"github.com/JunoAX/beework-go/internal/config"
	"github.com/JunoAX/beework-go/internal/geofence"
	"github.com/JunoAX/beework-go/internal/handlers"
	"github.com/JunoAX/beework-go/internal/payroll"
	"github.com/JunoAX/beework-go/internal/punch"
	"github.com/JunoAX/beework-go/internal/session"
	"github.com/JunoAX/beework-go/internal/store"
	"github.com/JunoAX/beework-go/internal/store/firestore"
	"github.com/JunoAX/beework-go/internal/store/memory"
	"github.com/JunoAX/beework-go/internal/store/postgres"
)

var Version = "dev"

const sessionSweepInterval = time.Minute

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverFirestore:
		return firestore.New(ctx, cfg.FirebaseProjectID, cfg.CredentialsFile)
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.DatabaseURL)
	}
	log.Println("⚠️  Using in-memory store; data is lost on restart")
	return memory.New(), nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer st.Close()
	log.Printf("✅ Connected to %s store", cfg.StoreDriver)

	sessions := session.NewRegistry(st, auth.TokenTTL)
	reapCtx, stopReaper := context.WithCancel(context.Background())
	go sessions.Reap(reapCtx, sessionSweepInterval)
	guard := geofence.NewGuard(cfg.GeofenceRadius, cfg.MissingCoords)
	log.Printf("📍 Geofence radius %.0fm, missing coordinates: %s", guard.Radius, guard.Missing)

	r := handlers.NewRouter(handlers.Deps{
		Version:      Version,
		Store:        st,
		JWT:          auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer),
		Sessions:     sessions,
		Punch:        punch.NewService(st, guard),
		Payroll:      payroll.NewService(st, cfg.PayrollLocation),
		Availability: availability.NewService(st),
		CORSOrigins:  cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Server shutting down...")

	// live views end first so open event streams can return
	stopReaper()
	sessions.CloseAll()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited")
}
