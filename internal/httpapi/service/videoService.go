package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"vidshare/internal/config"
	"vidshare/internal/httpapi/dto"
	"vidshare/internal/httpapi/models"
	"vidshare/internal/httpapi/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// allowedVideoExtensions for uploaded files. External URLs are not held to
// this list; the platform never inspects remote content.
var allowedVideoExtensions = map[string]bool{
	".mp4": true,
	".avi": true,
	".mov": true,
	".wmv": true,
}

// VideoStore is the slice of the video repository the services consume.
// *repository.VideoRepo satisfies it; tests substitute a mock.
type VideoStore interface {
	CountActive(ctx context.Context, f repository.VideoFilter) (int64, error)
	ListActive(ctx context.Context, f repository.VideoFilter, offset, limit int) ([]models.Video, error)
	GetActive(ctx context.Context, id int64) (*models.Video, error)
	Create(ctx context.Context, v *models.Video) error
	IncrementViews(ctx context.Context, id int64) error
}

type ListParams struct {
	Query    string
	Genre    string
	Page     int
	PageSize int
}

type VideoService interface {
	// ListVideos returns one page of active videos, newest first. Unknown
	// genre values degrade to "no genre filter"; pages past the end clamp
	// to the last valid page.
	ListVideos(ctx context.Context, params ListParams) (*dto.VideoListResult, error)
	// GetDetail returns the full payload for one video and bumps its view
	// counter. userID may be empty for anonymous callers.
	GetDetail(ctx context.Context, videoID int64, userID string) (*dto.VideoDetail, error)
	// CreateVideo validates and persists an upload. The caller is
	// responsible for storing the file bytes after a successful return.
	CreateVideo(ctx context.Context, creator *models.User, in dto.UploadVideoDTO, source dto.ContentSource) (*models.Video, error)
	// MyVideos lists a creator's own active videos.
	MyVideos(ctx context.Context, creator *models.User, page, pageSize int) (*dto.VideoListResult, error)
}

type videoService struct {
	videoRepo   VideoStore
	commentRepo repository.CommentRepository
	ratingRepo  repository.RatingRepository
	cfg         *config.Config
}

func NewVideoService(
	videoRepo VideoStore,
	commentRepo repository.CommentRepository,
	ratingRepo repository.RatingRepository,
	cfg *config.Config,
) VideoService {
	return &videoService{
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		ratingRepo:  ratingRepo,
		cfg:         cfg,
	}
}

func (s *videoService) ListVideos(ctx context.Context, params ListParams) (*dto.VideoListResult, error) {
	filter := repository.VideoFilter{Query: strings.TrimSpace(params.Query)}
	// Permissive parsing: an unrecognized genre is the same as no filter.
	if models.ValidGenre(params.Genre) {
		filter.Genre = params.Genre
	}
	return s.listPage(ctx, filter, params.Page, params.PageSize)
}

func (s *videoService) MyVideos(ctx context.Context, creator *models.User, page, pageSize int) (*dto.VideoListResult, error) {
	if !creator.CanUpload() {
		return nil, ErrNotCreator
	}
	return s.listPage(ctx, repository.VideoFilter{CreatorID: creator.ID}, page, pageSize)
}

// listPage applies the shared count-clamp-fetch sequence behind every listing.
func (s *videoService) listPage(ctx context.Context, filter repository.VideoFilter, page, pageSize int) (*dto.VideoListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.cfg.APIPageSize
	}

	total, err := s.videoRepo.CountActive(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Clamp rather than error when the caller walks past the end.
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	videos, err := s.videoRepo.ListActive(ctx, filter, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	commentCounts, err := s.commentRepo.CountByVideos(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.VideoSummary, 0, len(videos))
	for i := range videos {
		v := &videos[i]
		summaries = append(summaries, dto.FromModelToSummary(v, commentCounts[v.ID], s.cfg.MediaURLPrefix))
	}

	return &dto.VideoListResult{
		Videos:     summaries,
		Pagination: dto.NewPagination(page, pageSize, total),
	}, nil
}

func (s *videoService) GetDetail(ctx context.Context, videoID int64, userID string) (*dto.VideoDetail, error) {
	video, err := s.videoRepo.GetActive(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	// Every successful detail fetch counts as a view, repeat viewers included.
	if err := s.videoRepo.IncrementViews(ctx, videoID); err != nil {
		return nil, err
	}
	video.Views++

	comments, err := s.commentRepo.RecentByVideo(ctx, videoID, 10)
	if err != nil {
		return nil, err
	}
	commentResponses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		commentResponses = append(commentResponses, *dto.FromModelToCommentResponse(&comments[i]))
	}

	commentsCount, err := s.commentRepo.CountByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	var userRating *int
	if userID != "" {
		rating, err := s.ratingRepo.GetByUserAndVideo(ctx, userID, videoID)
		if err != nil {
			return nil, err
		}
		if rating != nil {
			userRating = &rating.Rating
		}
	}

	return &dto.VideoDetail{
		ID:          video.ID,
		Title:       video.Title,
		Description: video.Description,
		Creator: dto.CreatorInfo{
			Username: video.Creator.Username,
			UserType: video.Creator.UserType,
		},
		Genre:         video.Genre,
		AgeRating:     video.AgeRating,
		Views:         video.Views,
		Likes:         video.Likes,
		Dislikes:      video.Dislikes,
		AverageRating: video.AverageRating,
		UserRating:    userRating,
		CommentsCount: commentsCount,
		CreatedAt:     video.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		VideoURL:      video.VideoURL(s.cfg.MediaURLPrefix),
		Comments:      commentResponses,
	}, nil
}

func (s *videoService) CreateVideo(ctx context.Context, creator *models.User, in dto.UploadVideoDTO, source dto.ContentSource) (*models.Video, error) {
	if !creator.CanUpload() {
		return nil, ErrNotCreator
	}

	fieldErrs := FieldErrors{}

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		fieldErrs.Add("title", "Title is required")
	case utf8.RuneCountInString(title) < 3:
		fieldErrs.Add("title", "Title must be at least 3 characters long")
	case utf8.RuneCountInString(title) > 200:
		fieldErrs.Add("title", "Title cannot exceed 200 characters")
	}

	if in.Genre == "" {
		fieldErrs.Add("genre", "Genre is required")
	} else if !models.ValidGenre(in.Genre) {
		fieldErrs.Add("genre", "Invalid genre")
	}

	if in.AgeRating == "" {
		fieldErrs.Add("age_rating", "Age rating is required")
	} else if !models.ValidAgeRating(in.AgeRating) {
		fieldErrs.Add("age_rating", "Invalid age rating")
	}

	hasFile := source.HasFile()
	hasURL := source.ExternalURL != ""
	if hasFile == hasURL {
		// Covers both "neither" and "both": one source, no more, no less.
		fieldErrs.Add("source", "provide exactly one source")
	}

	if hasFile {
		if source.File.Size > s.cfg.MaxUploadBytes {
			fieldErrs.Add("video_file", fmt.Sprintf("File size must be less than %dMB", s.cfg.MaxUploadBytes/(1024*1024)))
		}
		ext := strings.ToLower(filepath.Ext(source.File.Filename))
		if !allowedVideoExtensions[ext] {
			fieldErrs.Add("video_file", "Please upload a valid video file (MP4, AVI, MOV, WMV)")
		}
	}

	if hasURL && !strings.HasPrefix(source.ExternalURL, "http://") && !strings.HasPrefix(source.ExternalURL, "https://") {
		fieldErrs.Add("external_url", "Please provide a valid URL starting with http:// or https://")
	}

	if fieldErrs.Any() {
		return nil, fieldErrs
	}

	video := &models.Video{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		CreatorID:   creator.ID,
		Publisher:   strings.TrimSpace(in.Publisher),
		Producer:    strings.TrimSpace(in.Producer),
		Genre:       in.Genre,
		AgeRating:   in.AgeRating,
		IsActive:    true,
	}
	if hasFile {
		rel := filepath.Join(creator.Username, storedFileName(source.File.Filename))
		video.VideoFile = &rel
		size := source.File.Size
		video.FileSize = &size
	} else {
		url := source.ExternalURL
		video.ExternalURL = &url
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, err
	}
	video.Creator = *creator
	return video, nil
}

// storedFileName keeps the caller's base name and extension but inserts a
// random token, so a creator re-uploading the same filename never
// overwrites the file an earlier video row still references.
func storedFileName(original string) string {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(filepath.Base(original), ext)
	return fmt.Sprintf("%s_%s%s", base, uuid.NewString()[:8], ext)
}
