package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/JunoAX/beework-go/internal/auth"
	"github.com/JunoAX/beework-go/internal/availability"
	"github.com/JunoAX/beework-go/internal/middleware"
	"github.com/JunoAX/beework-go/internal/payroll"
	"github.com/JunoAX/beework-go/internal/punch"
	"github.com/JunoAX/beework-go/internal/session"
	"github.com/JunoAX/beework-go/internal/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps are the services the API is built from
type Deps struct {
	Version      string
	Store        store.Store
	JWT          *auth.JWTService
	Sessions     *session.Registry
	Punch        *punch.Service
	Payroll      *payroll.Service
	Availability *availability.Service
	CORSOrigins  []string
}

type healthChecker interface {
	Health(ctx context.Context) error
}

// NewRouter wires every route onto a gin engine
func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()

	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) {
		if hc, ok := d.Store.(healthChecker); ok {
			if err := hc.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"version":  d.Version,
			"sessions": d.Sessions.Len(),
		})
	})

	r.GET("/api/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version": d.Version,
			"service": "beework-go",
		})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.StoreMiddleware(d.Store), middleware.RequireStore())

	api.POST("/auth/login", Login(d.JWT, d.Sessions))
	api.POST("/auth/signup", SignUp(d.JWT, d.Sessions))

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(d.JWT, d.Sessions))
	{
		authed.POST("/auth/logout", Logout(d.Sessions))
		authed.POST("/auth/password", ChangePassword)

		authed.GET("/shifts", ListShifts)
		authed.GET("/shifts/upcoming", UpcomingShifts)
		authed.GET("/shifts/stream", StreamShifts)
		authed.GET("/shifts/:id", GetShift(d.Punch))
		authed.POST("/shifts/:id/punch-in", PunchIn(d.Punch))
		authed.POST("/shifts/:id/punch-out", PunchOut(d.Punch))

		authed.GET("/payouts", ListPayouts(d.Payroll))
		authed.GET("/payouts/export", ExportPayouts(d.Payroll))

		authed.GET("/availability", GetAvailability(d.Availability))
		authed.PUT("/availability", UpdateAvailability(d.Availability))

		authed.GET("/profile", GetProfile)
		authed.PATCH("/profile", UpdateProfile)

		admin := authed.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		admin.POST("/shifts", AssignShift)
	}

	return r
}
