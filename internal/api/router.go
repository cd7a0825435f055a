package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apartmentHttp "github.com/nekogravitycat/rental-backend/internal/apartment/http"
	"github.com/nekogravitycat/rental-backend/internal/auth"
	contactHttp "github.com/nekogravitycat/rental-backend/internal/contact/http"
	"github.com/nekogravitycat/rental-backend/internal/logging"
	metricsHttp "github.com/nekogravitycat/rental-backend/internal/metrics/http"
	"github.com/nekogravitycat/rental-backend/internal/pkg/request"
	reservationHttp "github.com/nekogravitycat/rental-backend/internal/reservation/http"
	userHttp "github.com/nekogravitycat/rental-backend/internal/user/http"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config lists the handlers and settings the router is assembled from.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *logrus.Logger
	DB           Pinger
	JWTManager   *auth.JWTManager

	UserHandler        *userHttp.UserHandler
	ApartmentHandler   *apartmentHttp.Handler
	ContactHandler     *contactHttp.Handler
	ReservationHandler *reservationHttp.Handler
	MetricsHandler     *metricsHttp.Handler
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) (*gin.Engine, error) {
	if err := request.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()

	// Global Middleware:
	// - RequestLogger: structured access log with a request id.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logging.RequestLogger(cfg.Logger), gin.Recovery())
	corsCfg, err := corsConfig(cfg)
	if err != nil {
		return nil, err
	}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", healthHandler(cfg.DB))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	apiGroup := r.Group("/api")
	{
		userHttp.RegisterRoutes(apiGroup, cfg.UserHandler, authMiddleware)
		apartmentHttp.RegisterRoutes(apiGroup, cfg.ApartmentHandler, authMiddleware)
		contactHttp.RegisterRoutes(apiGroup, cfg.ContactHandler, authMiddleware)
		reservationHttp.RegisterRoutes(apiGroup, cfg.ReservationHandler, authMiddleware)
		metricsHttp.RegisterRoutes(apiGroup, cfg.MetricsHandler, authMiddleware)
	}

	return r, nil
}

func corsConfig(cfg Config) (cors.Config, error) {
	config := cors.DefaultConfig()
	if cfg.IsProduction {
		config.AllowOrigins = splitOrigins(cfg.ProdOrigins)
		if len(config.AllowOrigins) == 0 {
			return config, errors.New("PROD_ORIGINS must list at least one origin in production")
		}
	} else {
		config.AllowOrigins = []string{
			"http://localhost:3000", // Web client
			"http://localhost:5173", // Vite dev server
		}
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", logging.RequestIDHeader}
	config.ExposeHeaders = []string{logging.RequestIDHeader}
	return config, nil
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func healthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logging.FromContext(c.Request.Context()).WithError(err).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
