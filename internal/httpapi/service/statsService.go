package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"vidshare/internal/httpapi/dto"
	"vidshare/internal/httpapi/repository"

	"github.com/redis/go-redis/v9"
)

const statsCacheKey = "admin:stats"

type StatsService interface {
	// Stats returns the staff dashboard aggregates. Results are cached in
	// Redis under a TTL; a cold or unavailable cache falls through to the
	// database.
	Stats(ctx context.Context) (*dto.AdminStats, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
	cache     *redis.Client // may be nil, stats are then always fresh
	cacheTTL  time.Duration
	logger    *slog.Logger
}

func NewStatsService(statsRepo repository.StatsRepository, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) StatsService {
	return &statsService{
		statsRepo: statsRepo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func (s *statsService) Stats(ctx context.Context) (*dto.AdminStats, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, statsCacheKey).Result()
		if err == nil {
			var stats dto.AdminStats
			if err := json.Unmarshal([]byte(raw), &stats); err == nil {
				return &stats, nil
			}
			// Corrupt cache entry, recompute below.
		}
	}

	stats, err := s.statsRepo.Collect(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, raw, s.cacheTTL).Err(); err != nil {
				// Cache failures must never fail the request.
				s.logger.Warn("failed to cache admin stats", "error", err)
			}
		}
	}

	return stats, nil
}
