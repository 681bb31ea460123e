package repository

import (
	"context"
	"fmt"

	"vidshare/internal/httpapi/dto"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository runs the platform-wide aggregates for the staff dashboard.
// It goes through pgx directly; these are read-only reporting queries with no
// model mapping to speak of.
type StatsRepository interface {
	Collect(ctx context.Context) (*dto.AdminStats, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Collect(ctx context.Context) (*dto.AdminStats, error) {
	stats := &dto.AdminStats{}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE user_type = 'creator'),
		       COUNT(*) FILTER (WHERE user_type = 'consumer')
		FROM users`).
		Scan(&stats.Users.Total, &stats.Users.Creators, &stats.Users.Consumers)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COALESCE(SUM(views), 0)
		FROM videos`).
		Scan(&stats.Videos.Total, &stats.Videos.Active, &stats.Videos.TotalViews)
	if err != nil {
		return nil, fmt.Errorf("video stats: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM ratings),
		       (SELECT COUNT(*) FROM comments),
		       COALESCE((SELECT AVG(rating) FROM ratings), 0)`).
		Scan(&stats.Engagement.TotalRatings, &stats.Engagement.TotalComments, &stats.Engagement.AvgRating)
	if err != nil {
		return nil, fmt.Errorf("engagement stats: %w", err)
	}

	return stats, nil
}
