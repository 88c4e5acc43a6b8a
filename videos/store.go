package videos

import (
	"context"
	"errors"

	"github.com/GhazanSubz/fypstudio-api/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("video not found")

// Store is the outbound port for video row persistence. Everything
// that touches video rows (generation proxy, library handlers, the
// orphan-sweep worker) goes through it so the callers stay testable
// without a live database.
type Store interface {
	Insert(ctx context.Context, video *models.Video) error
	Get(ctx context.Context, userID, id uint) (*models.Video, error)
	Delete(ctx context.Context, userID, id uint) error
	Recent(ctx context.Context, userID uint, limit int) ([]models.Video, error)
	Exports(ctx context.Context, userID uint) ([]models.Video, error)
	MarkDownloaded(ctx context.Context, userID, id uint, filename, url string) error
	Filenames(ctx context.Context) ([]string, error)
}

// GormStore is the Postgres-backed Store.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Insert(ctx context.Context, video *models.Video) error {
	return s.DB.WithContext(ctx).Create(video).Error
}

func (s *GormStore) Get(ctx context.Context, userID, id uint) (*models.Video, error) {
	var video models.Video
	err := s.DB.WithContext(ctx).First(&video, "id = ? AND user_id = ?", id, userID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (s *GormStore) Delete(ctx context.Context, userID, id uint) error {
	result := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Video{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Already gone, possibly deleted from another tab
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Recent(ctx context.Context, userID uint, limit int) ([]models.Video, error) {
	var videos []models.Video
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&videos).Error
	return videos, err
}

func (s *GormStore) Exports(ctx context.Context, userID uint) ([]models.Video, error) {
	var videos []models.Video
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND downloaded = ?", userID, true).
		Order("created_at DESC").
		Find(&videos).Error
	return videos, err
}

// MarkDownloaded flags the video for the exports view. The rename
// moved the artifact, so filename and url are rewritten together;
// a row must never point at a key that no longer exists.
func (s *GormStore) MarkDownloaded(ctx context.Context, userID, id uint, filename, url string) error {
	result := s.DB.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"downloaded": true, "filename": filename, "url": url})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Filenames returns every stored object key the database knows about,
// across all users. Used by the orphan sweep.
func (s *GormStore) Filenames(ctx context.Context) ([]string, error) {
	var filenames []string
	err := s.DB.WithContext(ctx).
		Model(&models.Video{}).
		Pluck("filename", &filenames).Error
	return filenames, err
}
