package analytics

import (
	"context"
	"time"

	"homestay/internal/hotels"
	"homestay/internal/shared/apperr"
	"homestay/internal/shared/constants"
	"homestay/pkg/cache"
	"homestay/pkg/logger"

	"github.com/google/uuid"
)

// Service defines the analytics service interface
type Service interface {
	GetDashboard(ctx context.Context, ownerID uuid.UUID) (*Dashboard, error)
	GetForecast(ctx context.Context, ownerID uuid.UUID) (*Forecast, error)

	// InvalidateOwner drops the cached dashboard and forecast of an owner
	InvalidateOwner(ctx context.Context, ownerID uuid.UUID) error
}

type Option func(*service)

func WithCache(c cache.Service) Option {
	return func(s *service) {
		s.cacheService = c
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// WithDashboardTTL overrides how long dashboards stay cached
func WithDashboardTTL(ttl time.Duration) Option {
	return func(s *service) {
		if ttl > 0 {
			s.dashboardTTL = ttl
		}
	}
}

type service struct {
	repo         Repository
	hotels       hotels.Repository
	cacheService cache.Service
	now          func() time.Time
	dashboardTTL time.Duration
	log          *logger.Logger
}

// NewService creates a new analytics service instance
func NewService(repo Repository, hotelRepo hotels.Repository, opts ...Option) Service {
	s := &service{
		repo:         repo,
		hotels:       hotelRepo,
		now:          time.Now,
		dashboardTTL: constants.TTL_ANALYTICS_DASHBOARD,
		log:          logger.GetDefault().WithComponent("analytics"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) GetDashboard(ctx context.Context, ownerID uuid.UUID) (*Dashboard, error) {
	cacheKey := constants.BuildAnalyticsDashboardKey(ownerID.String())

	// Try to get from cache first
	if s.cacheService != nil {
		var cached Dashboard
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	owned, err := s.hotels.GetHotelsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	ids := hotelIDs(owned)

	totals, err := s.repo.GetTotals(ctx, ids)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	recent, err := s.repo.GetBookingsCreatedSince(ctx, ids, DashboardWindowStart(now))
	if err != nil {
		return nil, err
	}

	dashboard := BuildDashboard(now, owned, *totals, recent)
	dashboard.OwnerID = ownerID.String()

	s.store(ctx, cacheKey, &dashboard, s.dashboardTTL)
	return &dashboard, nil
}

func (s *service) GetForecast(ctx context.Context, ownerID uuid.UUID) (*Forecast, error) {
	now := s.now().UTC()
	cacheKey := constants.BuildAnalyticsForecastKey(ownerID.String(), now)

	if s.cacheService != nil {
		var cached Forecast
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	ids, err := s.hotels.GetHotelIDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.GetBookingsCreatedSince(ctx, ids, now.AddDate(0, 0, -ForecastLookbackDays))
	if err != nil {
		return nil, err
	}

	forecast := BuildForecast(now, history)
	forecast.OwnerID = ownerID.String()

	s.store(ctx, cacheKey, &forecast, constants.TTL_ANALYTICS_FORECAST)
	return &forecast, nil
}

func (s *service) InvalidateOwner(ctx context.Context, ownerID uuid.UUID) error {
	if s.cacheService == nil {
		return nil
	}
	if err := s.cacheService.DeletePattern(ctx, constants.BuildAnalyticsOwnerPattern(ownerID.String())); err != nil {
		return apperr.Dependency(err, "failed to refresh analytics")
	}
	return nil
}

func (s *service) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Set(ctx, key, value, ttl); err != nil {
		// Log error but don't fail the request
		s.log.WarnContext(ctx, "Failed to cache analytics", "key", key, "error", err)
	}
}

func hotelIDs(list []hotels.Hotel) []uuid.UUID {
	ids := make([]uuid.UUID, len(list))
	for i, h := range list {
		ids[i] = h.ID
	}
	return ids
}
