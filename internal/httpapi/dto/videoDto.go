package dto

import (
	"mime/multipart"
	"time"

	"vidshare/internal/httpapi/models"
)

// VideoSummary is the card shape used by the listing endpoints. It carries
// only what the grid needs, never the whole entity.
type VideoSummary struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Creator       string  `json:"creator"`
	Genre         string  `json:"genre"`
	AgeRating     string  `json:"age_rating"`
	Views         int64   `json:"views"`
	Likes         int64   `json:"likes"`
	Dislikes      int64   `json:"dislikes"`
	AverageRating float64 `json:"average_rating"`
	CommentsCount int64   `json:"comments_count"`
	CreatedAt     string  `json:"created_at"`
	VideoURL      string  `json:"video_url"`
}

// FromModelToSummary converts a Video (with Creator preloaded) to the card shape.
func FromModelToSummary(v *models.Video, commentsCount int64, mediaPrefix string) VideoSummary {
	return VideoSummary{
		ID:            v.ID,
		Title:         v.Title,
		Description:   v.Description,
		Creator:       v.Creator.Username,
		Genre:         v.Genre,
		AgeRating:     v.AgeRating,
		Views:         v.Views,
		Likes:         v.Likes,
		Dislikes:      v.Dislikes,
		AverageRating: v.AverageRating,
		CommentsCount: commentsCount,
		CreatedAt:     v.CreatedAt.Format(time.RFC3339),
		VideoURL:      v.VideoURL(mediaPrefix),
	}
}

// Pagination mirrors the paginator metadata returned with every listing.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// NewPagination computes paginator metadata for a clamped page.
func NewPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// VideoListResult is what the listing engine hands back to callers.
type VideoListResult struct {
	Videos     []VideoSummary `json:"videos"`
	Pagination Pagination     `json:"pagination"`
}

// CreatorInfo is the nested creator payload on the detail shape.
type CreatorInfo struct {
	Username string `json:"username"`
	UserType string `json:"user_type"`
}

// VideoDetail is the full detail payload, including the most recent comments
// and the requesting user's own rating when authenticated.
type VideoDetail struct {
	ID            int64             `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Creator       CreatorInfo       `json:"creator"`
	Genre         string            `json:"genre"`
	AgeRating     string            `json:"age_rating"`
	Views         int64             `json:"views"`
	Likes         int64             `json:"likes"`
	Dislikes      int64             `json:"dislikes"`
	AverageRating float64           `json:"average_rating"`
	UserRating    *int              `json:"user_rating"`
	CommentsCount int64             `json:"comments_count"`
	CreatedAt     string            `json:"created_at"`
	VideoURL      string            `json:"video_url"`
	Comments      []CommentResponse `json:"comments"`
}

// UploadVideoDTO carries the multipart form fields of an upload request.
// The file itself travels alongside as a *multipart.FileHeader.
type UploadVideoDTO struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Publisher   string `form:"publisher"`
	Producer    string `form:"producer"`
	Genre       string `form:"genre"`
	AgeRating   string `form:"age_rating"`
	ExternalURL string `form:"external_url"`
}

// ContentSource is the tagged union of the two legal video sources. Exactly
// one variant is populated; the upload service rejects anything else before
// a Video row exists.
type ContentSource struct {
	File        *multipart.FileHeader
	ExternalURL string
}

// HasFile reports whether the source is an uploaded file.
func (s ContentSource) HasFile() bool {
	return s.File != nil
}
