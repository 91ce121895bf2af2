package repositories

import (
	"fmt"

	"github.com/blogify-app/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for blog-like edge operations
type LikeRepository interface {
	CreateLike(like *models.Like) error
	DeleteLike(blogID string, userID uint) error
	DeleteLikesByBlogID(blogID string) error
	HasUserLikedBlog(blogID string, userID uint) (bool, error)
	GetLikerIDs(blogID string) ([]uint, error)
	GetLikedBlogIDs(userID uint) ([]string, error)
	GetLikesCountByBlogID(blogID string) (int64, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

func (r *PostgresLikeRepository) CreateLike(like *models.Like) error {
	return r.db.Create(like).Error
}

func (r *PostgresLikeRepository) DeleteLike(blogID string, userID uint) error {
	res := r.db.Where("blog_id = ? AND user_id = ?", blogID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("like for blog %s: %w", blogID, ErrNotFound)
	}
	return nil
}

// DeleteLikesByBlogID removes every like edge of a blog, part of the blog
// deletion cascade.
func (r *PostgresLikeRepository) DeleteLikesByBlogID(blogID string) error {
	return r.db.Where("blog_id = ?", blogID).Delete(&models.Like{}).Error
}

func (r *PostgresLikeRepository) HasUserLikedBlog(blogID string, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).
		Where("blog_id = ? AND user_id = ?", blogID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresLikeRepository) GetLikerIDs(blogID string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Like{}).Where("blog_id = ?", blogID).Pluck("user_id", &ids).Error
	return ids, err
}

func (r *PostgresLikeRepository) GetLikedBlogIDs(userID uint) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Like{}).Where("user_id = ?", userID).Pluck("blog_id", &ids).Error
	return ids, err
}

func (r *PostgresLikeRepository) GetLikesCountByBlogID(blogID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("blog_id = ?", blogID).Count(&count).Error
	return count, err
}
