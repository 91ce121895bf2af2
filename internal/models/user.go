package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account stored in PostgreSQL. Follower/following relationships
// and liked blogs live in their own edge tables (Follow, Like) so a single
// row write covers both sides of the relationship.
type User struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	FullName        string    `json:"fullname"`
	Email           string    `json:"email" gorm:"uniqueIndex"`
	Password        string    `json:"-"` // bcrypt hash, never serialized
	ProfileImageURL string    `json:"profile_image_url"`
	Bio             string    `json:"bio"`
	FirebaseUID     string    `json:"firebase_uid,omitempty" gorm:"index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserCompact is the profile slice attached to notifications, likes and
// comments when rendering another user.
type UserCompact struct {
	ID              uint   `json:"id"`
	FullName        string `json:"fullname"`
	ProfileImageURL string `json:"profile_image_url"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:              u.ID,
		FullName:        u.FullName,
		ProfileImageURL: u.ProfileImageURL,
	}
}

// SignupRequest defines the request body for local registration
type SignupRequest struct {
	FullName string `json:"fullname" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SigninRequest defines the request body for local authentication
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile updates
type UpdateProfileRequest struct {
	FullName        string `json:"fullname,omitempty" validate:"omitempty,min=2,max=50"`
	Bio             string `json:"bio,omitempty" validate:"omitempty,max=500"`
	ProfileImageURL string `json:"profile_image_url,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"fullname"`
	jwt.RegisteredClaims
}
