package services

import (
	"context"
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/platform/obs"
	"fleet-dashboard/internal/ports"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// NormalizeAddress trims and collapses whitespace; it is the cache key.
func NormalizeAddress(address string) string {
	return strings.Join(strings.Fields(address), " ")
}

// GeocodeService resolves addresses through an optional cache, then the
// geocoder. Concurrent lookups of the same address share one upstream call.
type GeocodeService struct {
	Geocoder ports.Geocoder
	Cache    ports.GeocodeCache
	Log      logrus.FieldLogger

	group singleflight.Group
}

func (s *GeocodeService) Geocode(ctx context.Context, address string) (_ domain.GeocodeResult, err error) {
	defer obs.Time(ctx, s.Log, "geocode.Geocode")(&err)

	key := NormalizeAddress(address)
	if key == "" {
		return domain.GeocodeResult{}, &domain.ValidationError{Fields: []domain.FieldError{{
			Field: "endereco", Message: "must not be empty",
		}}}
	}

	if s.Cache != nil {
		hits, err := s.Cache.GetMany(ctx, []string{key})
		if err != nil {
			s.Log.WithError(err).Warn("geocode cache read failed")
		} else if r, ok := hits[key]; ok {
			obs.GeocodeCache.WithLabelValues("hit").Inc()
			return r, nil
		}
		obs.GeocodeCache.WithLabelValues("miss").Inc()
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		r, err := s.Geocoder.Geocode(ctx, key)
		if err != nil {
			return domain.GeocodeResult{}, err
		}
		if s.Cache != nil {
			if err := s.Cache.PutMany(ctx, map[string]domain.GeocodeResult{key: r}); err != nil {
				s.Log.WithError(err).Warn("geocode cache write failed")
			}
		}
		return r, nil
	})
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("geocode: %w", err)
	}
	return v.(domain.GeocodeResult), nil
}
