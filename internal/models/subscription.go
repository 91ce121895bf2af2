package models

import "time"

// PushSubscription is a Web Push registration for one of a user's browsers.
// A user may hold many subscriptions (one per device/browser); re-registering
// the same endpoint upserts the credentials. Endpoints are never validated
// for liveness, dead ones simply fail at delivery time.
type PushSubscription struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_endpoint"`
	Endpoint  string    `json:"endpoint" gorm:"size:512;uniqueIndex:idx_user_endpoint"`
	P256dh    string    `json:"-"`
	Auth      string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubscriptionKeys carries the client-generated encryption keys.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh" validate:"required"`
	Auth   string `json:"auth" validate:"required"`
}

// SaveSubscriptionRequest defines the request body for registering a push
// subscription, matching the browser PushSubscription.toJSON() shape.
type SaveSubscriptionRequest struct {
	Endpoint string           `json:"endpoint" validate:"required,url"`
	Keys     SubscriptionKeys `json:"keys" validate:"required"`
}
