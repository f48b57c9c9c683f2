package service

import (
	"time"

	"devhub/internal/models"

	"github.com/google/uuid"
)

// DefaultFeedPageSize is the page size used when the caller does not specify
// one.
const DefaultFeedPageSize = 4

// FeedPage is one page of a content feed. TotalPages and HasNextPage are
// computed from a count that shares its predicate with the fetch, so they
// always agree with the items returned.
type FeedPage struct {
	Items       []any `json:"items"`
	Page        int   `json:"page"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
}

// PostItem is the feed projection for POST content.
type PostItem struct {
	ID            uuid.UUID        `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	CoverImage    string           `json:"coverImage,omitempty"`
	Tags          []models.Tag     `json:"tags"`
	ViewsCount    int              `json:"viewsCount"`
	LikesCount    int              `json:"likesCount"`
	CommentsCount int              `json:"commentsCount"`
	IsLiked       bool             `json:"isLiked"`
	Author        models.AuthorRef `json:"author"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// MeetupItem is the feed projection for MEETUP content.
type MeetupItem struct {
	ID             uuid.UUID    `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	CoverImage     string       `json:"coverImage,omitempty"`
	Tags           []models.Tag `json:"tags"`
	MeetupLocation string       `json:"meetupLocation"`
	MeetupDate     *time.Time   `json:"meetupDate"`
}

// PodcastItem is the feed projection for PODCAST content.
type PodcastItem struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	CoverImage  string           `json:"coverImage,omitempty"`
	Tags        []models.Tag     `json:"tags"`
	Author      models.AuthorRef `json:"author"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// projectFeedItem maps a content row onto its per-type feed shape. Content of
// an unknown type falls through as-is.
func projectFeedItem(c *models.Content) any {
	tags := c.Tags
	if tags == nil {
		tags = []models.Tag{}
	}

	var author models.AuthorRef
	if c.Author != nil {
		author = c.Author.Ref()
	}

	switch c.Type {
	case models.ContentTypePost:
		return PostItem{
			ID:            c.ID,
			Title:         c.Title,
			Description:   c.Description,
			CoverImage:    c.CoverImage,
			Tags:          tags,
			ViewsCount:    c.ViewsCount,
			LikesCount:    c.LikesCount,
			CommentsCount: c.CommentsCount,
			IsLiked:       c.Liked,
			Author:        author,
			CreatedAt:     c.CreatedAt,
		}
	case models.ContentTypeMeetup:
		return MeetupItem{
			ID:             c.ID,
			Title:          c.Title,
			Description:    c.Description,
			CoverImage:     c.CoverImage,
			Tags:           tags,
			MeetupLocation: c.MeetupLocation,
			MeetupDate:     c.MeetupDate,
		}
	case models.ContentTypePodcast:
		return PodcastItem{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			CoverImage:  c.CoverImage,
			Tags:        tags,
			Author:      author,
			CreatedAt:   c.CreatedAt,
		}
	default:
		return c
	}
}

// buildFeedPage assembles pagination metadata for a 1-based page over total
// rows with the given page size.
func buildFeedPage(contents []*models.Content, total int64, page, size int) *FeedPage {
	totalPages := int((total + int64(size) - 1) / int64(size))

	items := make([]any, 0, len(contents))
	for _, c := range contents {
		items = append(items, projectFeedItem(c))
	}

	return &FeedPage{
		Items:       items,
		Page:        page,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
	}
}
