package repositories

import (
	"errors"

	"github.com/blogify-app/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByID(id uint) (*models.Notification, error)
	GetByRecipientID(recipientID uint) ([]models.Notification, error)
	FindOpen(senderID, recipientID uint, kind models.NotificationType, blogID *string) (*models.Notification, error)
	UpdateStatus(id uint, status models.NotificationStatus) error
	Delete(id uint) error
	DeleteMatching(senderID, recipientID uint, kind models.NotificationType, blogID *string) error
	DeleteByBlogID(blogID string) error
	DeleteByCommentID(commentID string) error
	GetUnreadCount(recipientID uint) (int64, error)
	CountByTuple(senderID, recipientID uint, kind models.NotificationType, blogID *string) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetByID(id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// FindOpen is the dedup lookup: the single PENDING record for the (sender,
// recipient, type, blog) tuple, or nil when none exists.
func (r *postgresNotificationRepository) FindOpen(senderID, recipientID uint, kind models.NotificationType, blogID *string) (*models.Notification, error) {
	var n models.Notification
	q := r.db.Where("sender_id = ? AND recipient_id = ? AND type = ? AND status = ?",
		senderID, recipientID, kind, models.NotificationPending)
	if blogID != nil {
		q = q.Where("blog_id = ?", *blogID)
	} else {
		q = q.Where("blog_id IS NULL")
	}
	if err := q.First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *postgresNotificationRepository) UpdateStatus(id uint, status models.NotificationStatus) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", id).Update("status", status).Error
}

func (r *postgresNotificationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Notification{}, id).Error
}

// DeleteMatching removes every notification for the (sender, recipient, type,
// blog) tuple regardless of status. Deleting zero rows is not an error.
func (r *postgresNotificationRepository) DeleteMatching(senderID, recipientID uint, kind models.NotificationType, blogID *string) error {
	q := r.db.Where("sender_id = ? AND recipient_id = ? AND type = ?", senderID, recipientID, kind)
	if blogID != nil {
		q = q.Where("blog_id = ?", *blogID)
	} else {
		q = q.Where("blog_id IS NULL")
	}
	return q.Delete(&models.Notification{}).Error
}

func (r *postgresNotificationRepository) DeleteByBlogID(blogID string) error {
	return r.db.Where("blog_id = ?", blogID).Delete(&models.Notification{}).Error
}

func (r *postgresNotificationRepository) DeleteByCommentID(commentID string) error {
	return r.db.Where("comment_id = ?", commentID).Delete(&models.Notification{}).Error
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND status = ?", recipientID, models.NotificationPending).
		Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) CountByTuple(senderID, recipientID uint, kind models.NotificationType, blogID *string) (int64, error) {
	var count int64
	q := r.db.Model(&models.Notification{}).
		Where("sender_id = ? AND recipient_id = ? AND type = ?", senderID, recipientID, kind)
	if blogID != nil {
		q = q.Where("blog_id = ?", *blogID)
	}
	err := q.Count(&count).Error
	return count, err
}
