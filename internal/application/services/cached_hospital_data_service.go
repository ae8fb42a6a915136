package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/providers"
	"github.com/zatekoja/healthcaredecisionsupport/internal/infrastructure/observability"
)

// CachedHospitalDataService wraps HospitalQueries with result caching for the
// analytics whose cost grows with the table: the all-pairs matrix, capacity
// trends, system statistics and the region distribution.
// Keys carry the table version, so a reloaded dataset never reads stale entries.
type CachedHospitalDataService struct {
	HospitalQueries
	cache      providers.CacheProvider
	metrics    *observability.Metrics
	version    string
	ttlSeconds int
}

// CacheKeyPrefix starts every key written by CachedHospitalDataService
const CacheKeyPrefix = "hospital:"

// NewCachedHospitalDataService creates a caching decorator. metrics may be nil.
func NewCachedHospitalDataService(next HospitalQueries, cache providers.CacheProvider, version string, ttlSeconds int, metrics *observability.Metrics) *CachedHospitalDataService {
	return &CachedHospitalDataService{
		HospitalQueries: next,
		cache:           cache,
		metrics:         metrics,
		version:         version,
		ttlSeconds:      ttlSeconds,
	}
}

func (s *CachedHospitalDataService) key(parts ...string) string {
	key := CacheKeyPrefix + s.version
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// AllPairsDistances returns the cached distance matrix
func (s *CachedHospitalDataService) AllPairsDistances(ctx context.Context) (*entities.DistanceMatrix, error) {
	return cachedResult(ctx, s, "all_pairs", s.key("pairs"), func() (*entities.DistanceMatrix, error) {
		return s.HospitalQueries.AllPairsDistances(ctx)
	})
}

// CapacityTrend returns the cached capacity trend of a facility
func (s *CachedHospitalDataService) CapacityTrend(ctx context.Context, name string) (*entities.CapacityTrend, error) {
	return cachedResult(ctx, s, "capacity_trend", s.key("trend", normalizeName(name)), func() (*entities.CapacityTrend, error) {
		return s.HospitalQueries.CapacityTrend(ctx, name)
	})
}

// SystemStatistics returns the cached statistics for a date
func (s *CachedHospitalDataService) SystemStatistics(ctx context.Context, date string) (*entities.SystemStatistics, error) {
	return cachedResult(ctx, s, "system_statistics", s.key("stats", strings.TrimSpace(date)), func() (*entities.SystemStatistics, error) {
		return s.HospitalQueries.SystemStatistics(ctx, date)
	})
}

// RegionDistribution returns the cached region distribution
func (s *CachedHospitalDataService) RegionDistribution(ctx context.Context) ([]entities.RegionCount, error) {
	out, err := cachedResult(ctx, s, "region_distribution", s.key("regions"), func() (*[]entities.RegionCount, error) {
		regions, err := s.HospitalQueries.RegionDistribution(ctx)
		if err != nil {
			return nil, err
		}
		return &regions, nil
	})
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// cachedResult reads key from the cache, falling back to load on a miss or an
// undecodable entry. Cache failures never fail the query; errors from load are not cached.
func cachedResult[T any](ctx context.Context, s *CachedHospitalDataService, operation, key string, load func() (*T, error)) (*T, error) {
	if data, err := s.cache.Get(ctx, key); err == nil {
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			observability.RecordCacheHit(ctx, s.metrics, operation)
			return &value, nil
		}
		log.Warn().Err(err).Str("key", key).Msg("failed to decode cached result")
	}
	observability.RecordCacheMiss(ctx, s.metrics, operation)

	value, err := load()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg(fmt.Sprintf("failed to encode %s result", operation))
		return value, nil
	}
	if err := s.cache.Set(ctx, key, data, s.ttlSeconds); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to cache result")
	}
	return value, nil
}
