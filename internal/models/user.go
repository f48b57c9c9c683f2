// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a member of the DevHub platform.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserName string    `gorm:"size:60;not null" json:"userName"`
	Name     string    `gorm:"size:120" json:"name,omitempty"`
	Email    string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	// Password is empty for provider-created accounts. Never serialized.
	Password  string `gorm:"size:100" json:"-"`
	Bio       string `gorm:"type:text" json:"bio,omitempty"`
	AvatarImg string `json:"avatarImg,omitempty"`

	LinkedinName  string `json:"linkedinName,omitempty"`
	LinkedinLink  string `json:"linkedinLink,omitempty"`
	TwitterName   string `json:"twitterName,omitempty"`
	TwitterLink   string `json:"twitterLink,omitempty"`
	InstagramName string `json:"instagramName,omitempty"`
	InstagramLink string `json:"instagramLink,omitempty"`

	CurrentKnowledge      string   `json:"currentKnowledge,omitempty"`
	CodingAmbitions       []string `gorm:"serializer:json" json:"codingAmbitions"`
	PreferredSkills       []string `gorm:"serializer:json" json:"preferredSkills"`
	IsOnboardingCompleted bool     `json:"isOnboardingCompleted"`

	FollowersCount int `gorm:"not null;default:0" json:"followersCount"`
	FollowingCount int `gorm:"not null;default:0" json:"followingCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// AuthorRef is the subset of user fields embedded in content and group
// responses.
type AuthorRef struct {
	ID        uuid.UUID `json:"id"`
	UserName  string    `json:"userName"`
	AvatarImg string    `json:"avatarImg,omitempty"`
}

// Ref returns the embeddable author projection of the user.
func (u *User) Ref() AuthorRef {
	return AuthorRef{ID: u.ID, UserName: u.UserName, AvatarImg: u.AvatarImg}
}
