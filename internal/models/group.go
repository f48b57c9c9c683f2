package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Group represents a community of users sharing content.
type Group struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID     uuid.UUID `gorm:"type:uuid;not null;index" json:"authorId"`
	Author       *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Bio          string    `gorm:"type:text" json:"bio"`
	ProfileImage string    `json:"profileImage,omitempty"`
	CoverImage   string    `json:"coverImage,omitempty"`

	Members  []GroupUser `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	Contents []Content   `gorm:"foreignKey:GroupID" json:"contents,omitempty"`

	// MembersCount and ContentsCount are not persisted; computed at query time.
	MembersCount  int `gorm:"->;-:migration" json:"membersCount,omitempty"`
	ContentsCount int `gorm:"->;-:migration" json:"contentsCount,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (g *Group) BeforeCreate(_ *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
