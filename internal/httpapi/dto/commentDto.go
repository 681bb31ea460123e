package dto

import (
	"time"

	"vidshare/internal/httpapi/models"
)

// CreateCommentDTO for posting a comment on a video
type CreateCommentDTO struct {
	Content string `json:"content" binding:"required"`
}

// CommentResponse for returning comment information
type CommentResponse struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	User      string `json:"user"`
	CreatedAt string `json:"created_at"`
}

// FromModelToCommentResponse converts a Comment model (with User preloaded)
// to a CommentResponse DTO
func FromModelToCommentResponse(comment *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		User:      comment.User.Username,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
	}
}
