package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-backend/internal/logging"
	"github.com/nekogravitycat/rental-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/rental-backend/internal/pkg/cache"
	"github.com/nekogravitycat/rental-backend/internal/reservation"
)

const (
	DefaultDays  = 30
	MaxDays      = 365
	DefaultLimit = 5
	MaxLimit     = 100
)

var (
	ErrInvalidDays  = apperror.New(http.StatusBadRequest, fmt.Sprintf("days must be between 1 and %d", MaxDays))
	ErrInvalidLimit = apperror.New(http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", MaxLimit))
)

// Source is the reporting side of the reservation store.
type Source interface {
	ChannelSummary(ctx context.Context, since time.Time) ([]reservation.ChannelSummary, error)
	TopCities(ctx context.Context, limit int) ([]reservation.CityCount, error)
}

type Service interface {
	// ChannelSummary aggregates reservations created in the last days, counting today.
	ChannelSummary(ctx context.Context, days int) ([]reservation.ChannelSummary, error)
	TopCities(ctx context.Context, limit int) ([]reservation.CityCount, error)
}

type service struct {
	source Source
	cache  cache.Cache
	ttl    time.Duration
	now    func() time.Time
}

// NewService builds the reporting service. Results are cached for ttl; a zero
// ttl disables caching.
func NewService(source Source, c cache.Cache, ttl time.Duration) Service {
	if c == nil || ttl <= 0 {
		c = cache.Noop{}
	}
	return &service{
		source: source,
		cache:  c,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *service) ChannelSummary(ctx context.Context, days int) ([]reservation.ChannelSummary, error) {
	if days < 1 || days > MaxDays {
		return nil, ErrInvalidDays
	}

	y, m, d := s.now().UTC().Date()
	since := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
	key := fmt.Sprintf("channel-summary:%s:%d", since.Format("2006-01-02"), days)

	return cached(ctx, s, key, func() ([]reservation.ChannelSummary, error) {
		return s.source.ChannelSummary(ctx, since)
	})
}

func (s *service) TopCities(ctx context.Context, limit int) ([]reservation.CityCount, error) {
	if limit < 1 || limit > MaxLimit {
		return nil, ErrInvalidLimit
	}

	key := fmt.Sprintf("top-cities:%d", limit)
	return cached(ctx, s, key, func() ([]reservation.CityCount, error) {
		return s.source.TopCities(ctx, limit)
	})
}

// cached serves key from the cache, falling back to load. Cache failures are
// logged and never fail the request.
func cached[T any](ctx context.Context, s *service, key string, load func() ([]T, error)) ([]T, error) {
	log := logging.FromContext(ctx).WithField("cache_key", key)

	var hit []T
	ok, err := s.cache.Get(ctx, key, &hit)
	if err != nil {
		log.WithError(err).Warn("metrics cache read failed")
	}
	if ok && err == nil {
		return hit, nil
	}

	items, err := load()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
		log.WithError(err).Warn("metrics cache write failed")
	}
	return items, nil
}
