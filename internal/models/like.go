package models

import "time"

// Like is a blog-like edge: UserID liked the blog with BlogID (Mongo hex id).
// Both the blog's like set and the user's liked-blogs set are views over this
// table, so a single row insert/delete keeps them consistent.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_blog"`
	BlogID    string    `json:"blog_id" gorm:"size:24;index;uniqueIndex:idx_user_blog"`
	CreatedAt time.Time `json:"created_at"`
}
