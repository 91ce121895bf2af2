package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is stored in MongoDB under its parent blog. Comment likes are kept
// as a user-id set inside the document and mutated with $addToSet/$pull, so
// membership checks and toggles stay race-safe within the one document.
type Comment struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	BlogID    string             `json:"blog_id" bson:"blog_id"`
	Content   string             `json:"content" bson:"content"`
	CreatedBy uint               `json:"created_by" bson:"created_by"`
	Likes     []uint             `json:"likes" bson:"likes"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// CreateCommentRequest defines the request body for adding a comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
