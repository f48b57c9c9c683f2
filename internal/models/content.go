package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentType discriminates the three kinds of content sharing one table.
type ContentType string

const (
	// ContentTypePost is a regular text post.
	ContentTypePost ContentType = "POST"
	// ContentTypeMeetup is an event with a location and date.
	ContentTypeMeetup ContentType = "MEETUP"
	// ContentTypePodcast is an audio episode.
	ContentTypePodcast ContentType = "PODCAST"
)

// ParseContentType maps a case-insensitive string onto a ContentType.
func ParseContentType(s string) (ContentType, bool) {
	switch ContentType(strings.ToUpper(strings.TrimSpace(s))) {
	case ContentTypePost:
		return ContentTypePost, true
	case ContentTypeMeetup:
		return ContentTypeMeetup, true
	case ContentTypePodcast:
		return ContentTypePodcast, true
	}
	return "", false
}

// Content represents a post, meetup or podcast. The type is immutable after
// creation; type-specific fields are empty for the other kinds.
type Content struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Type        ContentType `gorm:"type:varchar(10);not null;index" json:"type"`
	Title       string      `gorm:"size:300;not null" json:"title"`
	Description string      `gorm:"type:text;not null" json:"description"`
	CoverImage  string      `json:"coverImage,omitempty"`
	AuthorID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"authorId"`
	Author      *User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	GroupID     *uuid.UUID  `gorm:"type:uuid;index" json:"groupId,omitempty"`
	Group       *Group      `gorm:"foreignKey:GroupID" json:"group,omitempty"`

	// Denormalized counters, kept consistent with the relation tables via
	// paired writes in one transaction.
	ViewsCount    int `gorm:"not null;default:0" json:"viewsCount"`
	LikesCount    int `gorm:"not null;default:0" json:"likesCount"`
	CommentsCount int `gorm:"not null;default:0" json:"commentsCount"`

	MeetupLocation      string     `json:"meetupLocation,omitempty"`
	MeetupLocationImage string     `json:"meetupLocationImage,omitempty"`
	MeetupDate          *time.Time `json:"meetupDate,omitempty"`

	PodcastFile  string `json:"podcastFile,omitempty"`
	PodcastTitle string `json:"podcastTitle,omitempty"`

	Tags []Tag `gorm:"many2many:content_tags" json:"tags"`

	// Liked indicates whether the requesting viewer liked this content (computed).
	Liked bool `gorm:"->;-:migration" json:"isLiked"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (c *Content) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
