package service

import (
	"context"
	"errors"
	"strings"

	"vidshare/internal/httpapi/dto"
	"vidshare/internal/httpapi/models"
	"vidshare/internal/httpapi/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	// AddComment posts a comment on an active video. Comments have no
	// update operation; they are only created or soft-deleted.
	AddComment(ctx context.Context, userID string, videoID int64, content string) (*dto.CommentResponse, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	videoRepo   VideoStore
}

func NewCommentService(commentRepo repository.CommentRepository, videoRepo VideoStore) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
	}
}

func (s *commentService) AddComment(ctx context.Context, userID string, videoID int64, content string) (*dto.CommentResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		fieldErrs := FieldErrors{}
		fieldErrs.Add("content", "Comment content is required")
		return nil, fieldErrs
	}

	// Check the video exists and is active
	if _, err := s.videoRepo.GetActive(ctx, videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		VideoID:  videoID,
		UserID:   userID,
		Content:  content,
		IsActive: true,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Reload with user data
	comment, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	return dto.FromModelToCommentResponse(comment), nil
}
