package services

import (
	"fmt"

	"github.com/blogify-app/backend/internal/models"
	"github.com/blogify-app/backend/internal/repositories"
)

// NotificationEngine owns notification records: creation under the dedup
// rules, recipient-driven status transitions, explicit deletion and the
// cascades that run when referenced content disappears.
type NotificationEngine struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
}

// NewNotificationEngine creates a new NotificationEngine
func NewNotificationEngine(notifications repositories.NotificationRepository, users repositories.UserRepository) *NotificationEngine {
	return &NotificationEngine{
		notifications: notifications,
		users:         users,
	}
}

// CreateParams describes a notification to create.
type CreateParams struct {
	Kind        models.NotificationType
	SenderID    uint
	RecipientID uint
	BlogID      *string
	CommentID   *string
	Message     string
}

// Create records a notification. For LIKE and FOLLOW_REQUEST an open record
// for the same (sender, recipient, kind, blog) tuple suppresses creation and
// is returned instead; COMMENT and POST always create a new record.
func (e *NotificationEngine) Create(p CreateParams) (*models.Notification, error) {
	if p.Kind == models.NotificationLike || p.Kind == models.NotificationFollowRequest {
		existing, err := e.notifications.FindOpen(p.SenderID, p.RecipientID, p.Kind, p.BlogID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	notification := &models.Notification{
		Type:        p.Kind,
		SenderID:    p.SenderID,
		RecipientID: p.RecipientID,
		BlogID:      p.BlogID,
		CommentID:   p.CommentID,
		Status:      models.NotificationPending,
		Message:     p.Message,
	}
	if err := e.notifications.CreateNotification(notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// AddLike records a LIKE notification for (sender, recipient, blog) unless an
// open one already exists. Returns true when a record was created.
func (e *NotificationEngine) AddLike(senderID, recipientID uint, blogID, message string) (bool, error) {
	existing, err := e.notifications.FindOpen(senderID, recipientID, models.NotificationLike, &blogID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	_, err = e.Create(CreateParams{
		Kind:        models.NotificationLike,
		SenderID:    senderID,
		RecipientID: recipientID,
		BlogID:      &blogID,
		Message:     message,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// RemoveLike deletes the LIKE notification for (sender, recipient, blog)
// whatever its status, so an unlike also clears a record the recipient has
// already read. Removing when no record exists is a no-op.
func (e *NotificationEngine) RemoveLike(senderID, recipientID uint, blogID string) error {
	return e.notifications.DeleteMatching(senderID, recipientID, models.NotificationLike, &blogID)
}

// MarkRead transitions a LIKE/COMMENT/POST notification to READ. Follow
// requests are resolved through accept/reject, not read.
func (e *NotificationEngine) MarkRead(recipientID, notificationID uint) error {
	notification, err := e.authorize(recipientID, notificationID)
	if err != nil {
		return err
	}
	if notification.Type == models.NotificationFollowRequest {
		return fmt.Errorf("notification %d: %w", notificationID, ErrInvalidState)
	}
	if !notification.Open() {
		return nil
	}
	return e.notifications.UpdateStatus(notification.ID, models.NotificationRead)
}

// Delete removes a notification on behalf of its recipient.
func (e *NotificationEngine) Delete(recipientID, notificationID uint) error {
	notification, err := e.authorize(recipientID, notificationID)
	if err != nil {
		return err
	}
	return e.notifications.Delete(notification.ID)
}

func (e *NotificationEngine) authorize(recipientID, notificationID uint) (*models.Notification, error) {
	notification, err := e.notifications.GetByID(notificationID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("notification %d: %w", notificationID, ErrNotFound)
		}
		return nil, err
	}
	if notification.RecipientID != recipientID {
		return nil, fmt.Errorf("notification %d: %w", notificationID, ErrForbidden)
	}
	return notification, nil
}

// EnrichedNotification is a notification with its sender's profile attached.
type EnrichedNotification struct {
	models.Notification
	Sender models.UserCompact `json:"sender"`
}

// List returns the recipient's notifications newest first, with sender
// profiles resolved.
func (e *NotificationEngine) List(recipientID uint) ([]EnrichedNotification, error) {
	notifications, err := e.notifications.GetByRecipientID(recipientID)
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedNotification, len(notifications))
	cache := make(map[uint]models.UserCompact)
	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if sender, ok := cache[n.SenderID]; ok {
			enriched[i].Sender = sender
			continue
		}
		user, err := e.users.GetUserByID(n.SenderID)
		if err != nil {
			continue
		}
		compact := user.ToCompact()
		cache[n.SenderID] = compact
		enriched[i].Sender = compact
	}
	return enriched, nil
}

// UnreadCount returns the number of open notifications for the recipient.
func (e *NotificationEngine) UnreadCount(recipientID uint) (int64, error) {
	return e.notifications.GetUnreadCount(recipientID)
}

// OnBlogDeleted removes every notification referencing the blog. Runs as part
// of the blog deletion workflow so no orphans survive.
func (e *NotificationEngine) OnBlogDeleted(blogID string) error {
	return e.notifications.DeleteByBlogID(blogID)
}

// OnCommentDeleted removes every notification referencing the comment.
func (e *NotificationEngine) OnCommentDeleted(commentID string) error {
	return e.notifications.DeleteByCommentID(commentID)
}
