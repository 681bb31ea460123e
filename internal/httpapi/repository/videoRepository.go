package repository

import (
	"context"
	"fmt"

	"vidshare/internal/httpapi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VideoFilter narrows a listing. Zero values mean "no constraint"; Genre is
// assumed pre-validated (unknown genres are dropped before reaching here).
type VideoFilter struct {
	Query     string
	Genre     string
	CreatorID string
}

type VideoRepo struct {
	db *gorm.DB
}

func NewVideoRepo(db *gorm.DB) *VideoRepo {
	return &VideoRepo{db: db}
}

// activeVideos is the repository-level default predicate: soft-deleted rows
// never leave this package through the listing or detail paths.
func (r *VideoRepo) activeVideos(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Video{}).Where("videos.is_active = ?", true)
}

func (r *VideoRepo) applyFilter(q *gorm.DB, f VideoFilter) *gorm.DB {
	if f.Query != "" {
		p := "%" + f.Query + "%"
		q = q.Joins("JOIN users ON users.id = videos.creator_id").
			Where("videos.title ILIKE ? OR videos.description ILIKE ? OR users.username ILIKE ?", p, p, p)
	}
	if f.Genre != "" {
		q = q.Where("videos.genre = ?", f.Genre)
	}
	if f.CreatorID != "" {
		q = q.Where("videos.creator_id = ?", f.CreatorID)
	}
	return q
}

// CountActive counts the videos a filtered listing would return.
func (r *VideoRepo) CountActive(ctx context.Context, f VideoFilter) (int64, error) {
	var total int64
	if err := r.applyFilter(r.activeVideos(ctx), f).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return total, nil
}

// ListActive fetches one page, newest first. Ties on created_at fall back to
// id so a page is deterministic across calls.
func (r *VideoRepo) ListActive(ctx context.Context, f VideoFilter, offset, limit int) ([]models.Video, error) {
	var list []models.Video
	if err := r.applyFilter(r.activeVideos(ctx), f).
		Preload("Creator").
		Order("videos.created_at DESC, videos.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return list, nil
}

// GetActive fetches a single active video with its creator. Soft-deleted
// videos come back as gorm.ErrRecordNotFound, same as missing ones.
func (r *VideoRepo) GetActive(ctx context.Context, id int64) (*models.Video, error) {
	var v models.Video
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("id = ? AND is_active = ?", id, true).
		First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VideoRepo) Create(ctx context.Context, v *models.Video) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("create video: %w", err)
	}
	// GORM will populate v.ID and v.CreatedAt
	return nil
}

// IncrementViews bumps the view counter in the database rather than in Go so
// concurrent fetches never clobber each other's writes. Lost updates under
// extreme contention are acceptable for this counter.
func (r *VideoRepo) IncrementViews(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// LockForUpdate loads a video row under SELECT ... FOR UPDATE inside tx.
// The rating recompute uses it to serialize average writes per video.
func (r *VideoRepo) LockForUpdate(tx *gorm.DB, id int64) (*models.Video, error) {
	var v models.Video
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_active = ?", id, true).
		First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}
