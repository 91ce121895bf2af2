package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog is a published post stored in MongoDB. The like edges themselves live
// in PostgreSQL (models.Like); LikesCount and CommentsCount are denormalized
// counters kept current with $inc updates.
type Blog struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Body          string             `json:"body" bson:"body"`
	CoverImageURL string             `json:"cover_image_url,omitempty" bson:"cover_image_url,omitempty"`
	CreatedBy     uint               `json:"created_by" bson:"created_by"`
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateBlogRequest defines the request body for publishing a blog
type CreateBlogRequest struct {
	Title         string `json:"title" validate:"required,min=1,max=200"`
	Body          string `json:"body" validate:"required,min=1"`
	CoverImageURL string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
}
