package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/fieldbooking/config"
	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Bookings  *BookingHandler
	Fields    *FieldHandler
	Payments  *PaymentHandler
	Expenses  *ExpenseHandler
	TimeSlots *TimeSlotHandler
	Reports   *ReportHandler
}

// NewRouter mounts public routes under /api/public and staff routes under
// /api. Staff routes need an ADMIN or OWNER token; time-slot mutations and
// reports are OWNER only.
func NewRouter(cfg *config.Config, auth *Authenticator, logger *slog.Logger, h Handlers) *gin.Engine {
	configureGinMode(cfg.Env)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))
	router.Use(cors.New(corsConfig(cfg.HTTP.AllowedOrigins)))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := router.Group("/api/public")
	h.Fields.RegisterPublic(public)
	h.TimeSlots.RegisterPublic(public)
	h.Bookings.RegisterPublic(public)

	staff := router.Group("/api", auth.Middleware(), RequireRoles(domain.RoleAdmin, domain.RoleOwner))
	h.Bookings.Register(staff.Group("/bookings"))
	h.Fields.Register(staff.Group("/fields"))
	h.Payments.Register(staff.Group("/transactions"))
	h.Expenses.Register(staff.Group("/expenses"))

	slots := staff.Group("/time-slots")
	h.TimeSlots.Register(slots)
	h.TimeSlots.RegisterOwner(slots.Group("", RequireRoles(domain.RoleOwner)))

	h.Reports.Register(staff.Group("/reports", RequireRoles(domain.RoleOwner)))

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func configureGinMode(env string) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "local", "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
}
