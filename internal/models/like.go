package models

import (
	"time"

	"github.com/google/uuid"
)

// Like marks that a user liked a content item. Existence of the row implies
// "liked"; the paired likes_count counter lives on the content row.
type Like struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	ContentID uuid.UUID `gorm:"type:uuid;primaryKey" json:"contentId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Follower marks that one user follows another. Existence of the row implies
// "follows"; the paired counters live on both user rows.
type Follower struct {
	FollowerID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"followerId"`
	FollowingID uuid.UUID `gorm:"type:uuid;primaryKey" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName specifies the table name for GORM.
func (Follower) TableName() string {
	return "followers"
}
