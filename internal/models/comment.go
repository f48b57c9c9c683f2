package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a comment on a content item. Replies reference their
// parent via ReplyingToID and are limited to a single level of nesting.
type Comment struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Text         string     `gorm:"type:text;not null" json:"text"`
	AuthorID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"authorId"`
	Author       *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ContentID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"contentId"`
	ReplyingToID *uuid.UUID `gorm:"type:uuid;index" json:"replyingTo,omitempty"`

	LikedBy []User `gorm:"many2many:comment_likes" json:"-"`

	// LikesCount and Liked are not persisted; computed at query time.
	LikesCount int  `gorm:"->;-:migration" json:"likesCount"`
	Liked      bool `gorm:"->;-:migration" json:"isLiked"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
