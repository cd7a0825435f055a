package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/rental-backend/internal/apartment"
	apartmentHttp "github.com/nekogravitycat/rental-backend/internal/apartment/http"
	"github.com/nekogravitycat/rental-backend/internal/api"
	"github.com/nekogravitycat/rental-backend/internal/auth"
	"github.com/nekogravitycat/rental-backend/internal/contact"
	contactHttp "github.com/nekogravitycat/rental-backend/internal/contact/http"
	"github.com/nekogravitycat/rental-backend/internal/metrics"
	metricsHttp "github.com/nekogravitycat/rental-backend/internal/metrics/http"
	"github.com/nekogravitycat/rental-backend/internal/pkg/cache"
	"github.com/nekogravitycat/rental-backend/internal/reservation"
	reservationHttp "github.com/nekogravitycat/rental-backend/internal/reservation/http"
	"github.com/nekogravitycat/rental-backend/internal/user"
	userHttp "github.com/nekogravitycat/rental-backend/internal/user/http"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction    bool
	ProdOrigins     string
	DBPool          *pgxpool.Pool
	JWTSecret       string
	JWTTTL          time.Duration
	BcryptCost      int
	Logger          *logrus.Logger
	Cache           cache.Cache
	MetricsCacheTTL time.Duration
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Apartment Module
	aptRepo := apartment.NewPgxRepository(cfg.DBPool)
	aptService := apartment.NewService(aptRepo)

	// Contact Module
	contactRepo := contact.NewPgxRepository(cfg.DBPool)
	contactService := contact.NewService(contactRepo)

	// Reservation Module
	resRepo := reservation.NewPgxRepository(cfg.DBPool)
	resService := reservation.NewService(resRepo, aptService)

	// Metrics Module
	metricsService := metrics.NewService(resRepo, cfg.Cache, cfg.MetricsCacheTTL)

	// Router
	router, err := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		Logger:             cfg.Logger,
		DB:                 cfg.DBPool,
		JWTManager:         jwtManager,
		UserHandler:        userHttp.NewHandler(userService, jwtManager),
		ApartmentHandler:   apartmentHttp.NewHandler(aptService),
		ContactHandler:     contactHttp.NewHandler(contactService),
		ReservationHandler: reservationHttp.NewHandler(resService),
		MetricsHandler:     metricsHttp.NewHandler(metricsService),
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
