package models

import "time"

// Follow is a directed follow edge: FollowerID follows FollowingID.
// The unique pair index makes the edge write atomic and idempotent; the
// followers and following lists of a user are queries over this table.
// An edge is only written when the target accepts the follow request.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}
