package repository

import (
	"context"
	"errors"
	"fmt"

	"vidshare/internal/httpapi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	// Submit upserts the (video, user) rating and recomputes the video's
	// denormalized average in one transaction. It returns the committed
	// average and the total number of ratings.
	Submit(ctx context.Context, videoID int64, userID string, value int) (float64, int64, error)
	GetByUserAndVideo(ctx context.Context, userID string, videoID int64) (*models.Rating, error)
}

type ratingRepository struct {
	db        *gorm.DB
	videoRepo *VideoRepo
}

func NewRatingRepository(db *gorm.DB, videoRepo *VideoRepo) RatingRepository {
	return &ratingRepository{db: db, videoRepo: videoRepo}
}

// Submit performs the upsert-then-recompute sequence atomically. The video
// row is locked first, so two concurrent submissions on the same video
// serialize their recomputes and the stored average is always the true mean
// over the committed set. Distinct (video, user) pairs collapse into a
// single row via the unique-index conflict target.
func (r *ratingRepository) Submit(ctx context.Context, videoID int64, userID string, value int) (float64, int64, error) {
	var avg float64
	var total int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		video, err := r.videoRepo.LockForUpdate(tx, videoID)
		if err != nil {
			return err
		}

		rating := models.Rating{
			VideoID: videoID,
			UserID:  userID,
			Rating:  value,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "video_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).Create(&rating).Error; err != nil {
			return fmt.Errorf("upsert rating: %w", err)
		}

		// Recompute over everything committed plus our own write.
		var agg struct {
			Average float64
			Count   int64
		}
		if err := tx.Model(&models.Rating{}).
			Select("COALESCE(AVG(rating), 0) as average, COUNT(*) as count").
			Where("video_id = ?", videoID).
			Scan(&agg).Error; err != nil {
			return fmt.Errorf("recompute average: %w", err)
		}

		if err := tx.Model(video).
			UpdateColumn("average_rating", agg.Average).Error; err != nil {
			return fmt.Errorf("store average: %w", err)
		}

		avg = agg.Average
		total = agg.Count
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return avg, total, nil
}

// GetByUserAndVideo retrieves a user's rating for a specific video. A nil
// rating with nil error means the user has not rated it.
func (r *ratingRepository) GetByUserAndVideo(ctx context.Context, userID string, videoID int64) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}
