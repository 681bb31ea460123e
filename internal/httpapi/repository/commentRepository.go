package repository

import (
	"context"
	"fmt"

	"vidshare/internal/httpapi/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	// RecentByVideo returns the newest active comments, capped at limit.
	RecentByVideo(ctx context.Context, videoID int64, limit int) ([]models.Comment, error)
	CountByVideo(ctx context.Context, videoID int64) (int64, error)
	// CountByVideos batches the per-card comment counters for a listing page.
	CountByVideos(ctx context.Context, videoIDs []int64) (map[int64]int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) RecentByVideo(ctx context.Context, videoID int64, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("video_id = ? AND is_active = ?", videoID, true).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("recent comments: %w", err)
	}
	return comments, nil
}

func (r *commentRepository) CountByVideo(ctx context.Context, videoID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("video_id = ? AND is_active = ?", videoID, true).
		Count(&count).Error
	return count, err
}

func (r *commentRepository) CountByVideos(ctx context.Context, videoIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(videoIDs))
	if len(videoIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		VideoID int64
		Count   int64
	}
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("video_id, COUNT(*) as count").
		Where("video_id IN ? AND is_active = ?", videoIDs, true).
		Group("video_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	for _, row := range rows {
		counts[row.VideoID] = row.Count
	}
	return counts, nil
}
