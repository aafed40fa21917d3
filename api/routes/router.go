// api/routes/router.go
package routes

import (
	"context"
	"net/http"
	"time"

	_ "homestay/docs"
	"homestay/internal/analytics"
	"homestay/internal/bookings"
	"homestay/internal/hotels"
	"homestay/internal/payments"
	"homestay/internal/reviews"
	"homestay/internal/shared/config"
	"homestay/internal/shared/database"
	"homestay/internal/shared/middleware"
	"homestay/internal/users"
	"homestay/pkg/cache"
	"homestay/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// HealthChecker is any component that can report its own health on /health
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	cache    cache.Service
	notifier bookings.Notifier
	checks   map[string]HealthChecker

	bookingService bookings.Service // Exposed for the background jobs
}

// NewRouter creates a new router instance. notifier may be nil.
func NewRouter(cfg *config.Config, db *database.DB, notifier bookings.Notifier) *Router {
	r := &Router{
		config:   cfg,
		db:       db,
		notifier: notifier,
		checks:   map[string]HealthChecker{"database": db},
	}
	if db.Redis != nil {
		r.cache = cache.NewService(db.Redis)
	}
	return r
}

// AddHealthCheck registers an extra component reported by /health
func (r *Router) AddHealthCheck(name string, check HealthChecker) {
	r.checks[name] = check
}

// BookingService returns the booking service built by SetupRoutes
func (r *Router) BookingService() bookings.Service {
	return r.bookingService
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	if r.config.SwaggerEnabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := middleware.JWTAuthWithConfig(r.config)
	pg := r.db.GetPostgreSQL()
	hotelRepo := hotels.NewRepository(pg)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupBookingRoutes(api, auth, hotelRepo, users.NewRepository(pg))
		r.setupReviewRoutes(api, auth, hotelRepo)
		r.setupAnalyticsRoutes(api, auth, hotelRepo)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		components := gin.H{}
		healthy := true
		for name, check := range r.checks {
			if err := check.HealthCheck(ctx); err != nil {
				components[name] = err.Error()
				healthy = false
				continue
			}
			components[name] = "ok"
		}

		status, code := "healthy", http.StatusOK
		if !healthy {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":     status,
			"components": components,
			"timestamp":  time.Now(),
			"service":    "homestay-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "operational",
			"api_version":   r.config.APIVersion,
			"redis_cache":   r.cache != nil,
			"kafka_enabled": r.config.Kafka.Enabled,
			"timestamp":     time.Now(),
		})
	})
}

// setupBookingRoutes configures availability, reservation and lifecycle routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc, hotelRepo hotels.Repository, userRepo users.Repository) {
	log := logger.GetDefault()

	opts := []bookings.ServiceOption{
		bookings.WithCompletionBatchSize(r.config.Booking.CompletionBatchSize),
	}
	if r.db.Redis != nil {
		locker := bookings.NewRedisHotelLocker(r.db.Redis,
			r.config.Redis.HotelLockTTL,
			r.config.Booking.LockRetries,
			r.config.Booking.LockRetryDelay,
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := locker.PreloadScripts(ctx); err != nil {
			// Scripts are loaded on first use
			log.Error("Failed to preload hotel lock scripts", "error", err)
		} else {
			log.Info("Redis hotel lock scripts preloaded")
		}
		cancel()
		opts = append(opts, bookings.WithLocker(locker))
	}
	if r.cache != nil {
		opts = append(opts, bookings.WithRangeCache(r.cache, r.config.Redis.AvailabilityTTL))
	}
	if r.notifier != nil {
		opts = append(opts, bookings.WithNotifier(r.notifier))
	}

	r.bookingService = bookings.NewService(
		bookings.NewRepository(r.db.GetPostgreSQL()),
		hotelRepo,
		userRepo,
		payments.NewDummyProcessor(),
		opts...,
	)
	bookings.SetupBookingRoutes(rg, bookings.NewController(r.bookingService), auth)
}

// setupReviewRoutes configures stay reviews
func (r *Router) setupReviewRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc, hotelRepo hotels.Repository) {
	reviewService := reviews.NewService(reviews.NewRepository(r.db.GetPostgreSQL()), hotelRepo)
	reviews.SetupReviewRoutes(rg, reviews.NewController(reviewService), auth)
}

// setupAnalyticsRoutes configures owner dashboards and forecasts
func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc, hotelRepo hotels.Repository) {
	opts := []analytics.Option{analytics.WithDashboardTTL(r.config.Redis.AnalyticsTTL)}
	if r.cache != nil {
		opts = append(opts, analytics.WithCache(r.cache))
	}
	analyticsService := analytics.NewService(analytics.NewRepository(r.db.GetPostgreSQL()), hotelRepo, opts...)
	analytics.SetupAnalyticsRoutes(rg, analytics.NewController(analyticsService), auth)
}
