package service

import (
	"context"
	"errors"

	"vidshare/internal/httpapi/dto"
	"vidshare/internal/httpapi/repository"

	"gorm.io/gorm"
)

type RatingService interface {
	// SubmitRating upserts the caller's rating and returns it together with
	// the recomputed average and the number of ratings on the video.
	SubmitRating(ctx context.Context, userID string, videoID int64, value int) (*dto.RatingResult, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
}

func NewRatingService(ratingRepo repository.RatingRepository) RatingService {
	return &ratingService{ratingRepo: ratingRepo}
}

func (s *ratingService) SubmitRating(ctx context.Context, userID string, videoID int64, value int) (*dto.RatingResult, error) {
	if value < 1 || value > 5 {
		return nil, ErrInvalidRating
	}

	avg, total, err := s.ratingRepo.Submit(ctx, videoID, userID, value)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	return &dto.RatingResult{
		UserRating:    value,
		AverageRating: avg,
		TotalRatings:  total,
	}, nil
}
