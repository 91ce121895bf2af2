package models

import "time"

type NotificationType string

const (
	NotificationFollowRequest NotificationType = "FOLLOW_REQUEST"
	NotificationLike          NotificationType = "LIKE"
	NotificationComment       NotificationType = "COMMENT"
	NotificationPost          NotificationType = "POST"
)

type NotificationStatus string

const (
	NotificationPending  NotificationStatus = "PENDING"
	NotificationAccepted NotificationStatus = "ACCEPTED"
	NotificationRejected NotificationStatus = "REJECTED"
	NotificationRead     NotificationStatus = "READ"
)

// Notification represents an in-app notification (PostgreSQL).
//
// For LIKE and FOLLOW_REQUEST at most one open (PENDING) record may exist per
// (sender, recipient, type, blog) tuple; COMMENT and POST records are never
// deduplicated. BlogID and CommentID reference Mongo documents by hex id and
// are nullable rather than dynamically absent.
type Notification struct {
	ID          uint               `json:"id" gorm:"primaryKey"`
	Type        NotificationType   `json:"type" gorm:"size:20;index"`
	SenderID    uint               `json:"sender_id" gorm:"index"`
	RecipientID uint               `json:"recipient_id" gorm:"index"`
	BlogID      *string            `json:"blog_id,omitempty" gorm:"size:24;index"`
	CommentID   *string            `json:"comment_id,omitempty" gorm:"size:24;index"`
	Status      NotificationStatus `json:"status" gorm:"size:10;default:'PENDING';index"`
	Message     string             `json:"message"`
	CreatedAt   time.Time          `json:"created_at" gorm:"index"`
}

// Open reports whether the notification still counts for dedup purposes,
// i.e. it has not reached a terminal status.
func (n *Notification) Open() bool {
	return n.Status == NotificationPending
}
