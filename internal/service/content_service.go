package service

import (
	"context"
	"errors"
	"time"

	"devhub/internal/cache"
	"devhub/internal/models"
	"devhub/internal/observability"
	"devhub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentService handles content creation, feeds and engagement.
type ContentService struct {
	db          *gorm.DB
	contentRepo repository.ContentRepository
	tagService  *TagService
	groupRepo   repository.GroupRepository
}

// NewContentService creates a new content service. db may be nil in tests;
// tag reconciliation then runs against the injected repositories without a
// wrapping transaction.
func NewContentService(
	db *gorm.DB,
	contentRepo repository.ContentRepository,
	tagService *TagService,
	groupRepo repository.GroupRepository,
) *ContentService {
	return &ContentService{
		db:          db,
		contentRepo: contentRepo,
		tagService:  tagService,
		groupRepo:   groupRepo,
	}
}

type CreateContentInput struct {
	AuthorID    uuid.UUID
	Type        models.ContentType
	Title       string
	Description string
	CoverImage  string
	GroupID     *uuid.UUID
	Tags        []string

	MeetupLocation      string
	MeetupLocationImage string
	MeetupDate          *time.Time

	PodcastFile  string
	PodcastTitle string
}

type UpdateContentInput struct {
	ContentID uuid.UUID
	AuthorID  uuid.UUID
	Type      models.ContentType

	Title       string
	Description string
	CoverImage  string
	// Tags nil leaves the tag set untouched; an empty slice detaches all.
	Tags *[]string

	MeetupLocation      string
	MeetupLocationImage string
	MeetupDate          *time.Time

	PodcastFile  string
	PodcastTitle string
}

// FeedInput describes a feed request at the service boundary.
type FeedInput struct {
	Type     *models.ContentType
	GroupID  *uuid.UUID
	AuthorID *uuid.UUID
	ViewerID uuid.UUID
	Sort     string
	Page     int
	Size     int
}

// ContentStats is the sidebar payload of recent content per type.
type ContentStats struct {
	RecentPosts    []*models.Content `json:"recentPosts"`
	RecentMeetups  []*models.Content `json:"recentMeetups"`
	RecentPodcasts []*models.Content `json:"recentPodcasts"`
}

// inTx runs fn against transaction-scoped repositories so the tag reconcile
// and the content write commit or roll back together.
func (s *ContentService) inTx(ctx context.Context, fn func(contentRepo repository.ContentRepository, tags *TagService) error) error {
	if s.db == nil {
		return fn(s.contentRepo, s.tagService)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(
			repository.NewContentRepository(tx),
			NewTagService(repository.NewTagRepository(tx)),
		)
	})
}

func (s *ContentService) CreateContent(ctx context.Context, in CreateContentInput) (*models.Content, error) {
	if err := validateContentInput(in); err != nil {
		return nil, err
	}

	if in.GroupID != nil {
		if _, err := s.groupRepo.GetMember(ctx, *in.GroupID, in.AuthorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewForbiddenError("Only group members can post to a group")
			}
			return nil, err
		}
	}

	content := &models.Content{
		Type:                in.Type,
		Title:               in.Title,
		Description:         in.Description,
		CoverImage:          in.CoverImage,
		AuthorID:            in.AuthorID,
		GroupID:             in.GroupID,
		MeetupLocation:      in.MeetupLocation,
		MeetupLocationImage: in.MeetupLocationImage,
		MeetupDate:          in.MeetupDate,
		PodcastFile:         in.PodcastFile,
		PodcastTitle:        in.PodcastTitle,
	}

	err := s.inTx(ctx, func(contentRepo repository.ContentRepository, tags *TagService) error {
		if err := contentRepo.Create(ctx, content); err != nil {
			return err
		}
		diff, err := tags.Reconcile(ctx, in.Tags, nil)
		if err != nil {
			return err
		}
		return contentRepo.ReplaceTags(ctx, content, diff.Connect)
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateContentStats(ctx)
	return s.contentRepo.GetByID(ctx, content.ID, in.AuthorID)
}

func (s *ContentService) UpdateContent(ctx context.Context, in UpdateContentInput) (*models.Content, error) {
	content, err := s.contentRepo.GetByID(ctx, in.ContentID, in.AuthorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Content", in.ContentID)
		}
		return nil, err
	}

	if content.AuthorID != in.AuthorID {
		return nil, models.NewUnauthorizedError("You can only update your own content")
	}
	if content.Type != in.Type {
		return nil, models.NewValidationError("Content type cannot be changed")
	}

	if in.Title != "" {
		content.Title = in.Title
	}
	if in.Description != "" {
		content.Description = in.Description
	}
	if in.CoverImage != "" {
		content.CoverImage = in.CoverImage
	}
	if in.MeetupLocation != "" {
		content.MeetupLocation = in.MeetupLocation
	}
	if in.MeetupLocationImage != "" {
		content.MeetupLocationImage = in.MeetupLocationImage
	}
	if in.MeetupDate != nil {
		content.MeetupDate = in.MeetupDate
	}
	if in.PodcastFile != "" {
		content.PodcastFile = in.PodcastFile
	}
	if in.PodcastTitle != "" {
		content.PodcastTitle = in.PodcastTitle
	}

	err = s.inTx(ctx, func(contentRepo repository.ContentRepository, tags *TagService) error {
		if err := contentRepo.Update(ctx, content); err != nil {
			return err
		}
		if in.Tags == nil {
			return nil
		}
		diff, err := tags.Reconcile(ctx, *in.Tags, content.Tags)
		if err != nil {
			return err
		}
		return contentRepo.ReplaceTags(ctx, content, diff.Connect)
	})
	if err != nil {
		return nil, err
	}

	return s.contentRepo.GetByID(ctx, content.ID, in.AuthorID)
}

// GetContent returns the content detail and counts the view.
func (s *ContentService) GetContent(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) (*models.Content, error) {
	if err := s.contentRepo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	content, err := s.contentRepo.GetByID(ctx, id, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Content", id)
		}
		return nil, err
	}
	return content, nil
}

func (s *ContentService) DeleteContent(ctx context.Context, contentID, authorID uuid.UUID) error {
	content, err := s.contentRepo.GetByID(ctx, contentID, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Content", contentID)
		}
		return err
	}
	if content.AuthorID != authorID {
		return models.NewUnauthorizedError("You can only delete your own content")
	}
	if err := s.contentRepo.Delete(ctx, contentID); err != nil {
		return err
	}
	cache.InvalidateContentStats(ctx)
	return nil
}

// GetFeed returns one page of content. The row count and the page fetch share
// a single predicate so the pagination metadata always matches the items.
func (s *ContentService) GetFeed(ctx context.Context, in FeedInput) (*FeedPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.Size
	if size < 1 {
		size = DefaultFeedPageSize
	}

	q := repository.FeedQuery{
		Type:     in.Type,
		GroupID:  in.GroupID,
		AuthorID: in.AuthorID,
		ViewerID: in.ViewerID,
		Sort:     in.Sort,
	}

	total, err := s.contentRepo.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	contents, err := s.contentRepo.List(ctx, q, size, (page-1)*size)
	if err != nil {
		return nil, err
	}

	typeLabel := "all"
	if in.Type != nil {
		typeLabel = string(*in.Type)
	}
	observability.FeedRequests.WithLabelValues(typeLabel, in.Sort).Inc()

	return buildFeedPage(contents, total, page, size), nil
}

// GetContentStats returns the recent content per type for the sidebar.
func (s *ContentService) GetContentStats(ctx context.Context, limit int) (*ContentStats, error) {
	if limit < 1 {
		limit = DefaultFeedPageSize
	}

	var stats ContentStats
	err := cache.Aside(ctx, cache.ContentStatsKey, &stats, cache.SidebarStatsTTL, func() error {
		for _, t := range []struct {
			kind models.ContentType
			dest *[]*models.Content
		}{
			{models.ContentTypePost, &stats.RecentPosts},
			{models.ContentTypeMeetup, &stats.RecentMeetups},
			{models.ContentTypePodcast, &stats.RecentPodcasts},
		} {
			kind := t.kind
			items, err := s.contentRepo.List(ctx, repository.FeedQuery{
				Type: &kind,
				Sort: repository.SortRecent,
			}, limit, 0)
			if err != nil {
				return err
			}
			*t.dest = items
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// LikeContent records the like. Returns CONFLICT when already liked.
func (s *ContentService) LikeContent(ctx context.Context, userID, contentID uuid.UUID) (*models.Content, error) {
	if _, err := s.contentRepo.GetByID(ctx, contentID, uuid.Nil); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Content", contentID)
		}
		return nil, err
	}

	if err := s.contentRepo.Like(ctx, userID, contentID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Content already liked")
		}
		return nil, err
	}
	return s.contentRepo.GetByID(ctx, contentID, userID)
}

// UnlikeContent removes the like. Returns NOT_FOUND when no like exists.
func (s *ContentService) UnlikeContent(ctx context.Context, userID, contentID uuid.UUID) (*models.Content, error) {
	if err := s.contentRepo.Unlike(ctx, userID, contentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Like", contentID)
		}
		return nil, err
	}
	return s.contentRepo.GetByID(ctx, contentID, userID)
}

func validateContentInput(in CreateContentInput) error {
	const maxTitleLen = 300

	if in.AuthorID == uuid.Nil {
		return models.NewValidationError("authorId is required")
	}
	if in.Title == "" {
		return models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Description == "" {
		return models.NewValidationError("Description is required")
	}

	switch in.Type {
	case models.ContentTypePost:
		// no extra fields
	case models.ContentTypeMeetup:
		if in.MeetupLocation == "" {
			return models.NewValidationError("meetupLocation is required for meetups")
		}
		if in.MeetupDate == nil {
			return models.NewValidationError("meetupDate is required for meetups")
		}
	case models.ContentTypePodcast:
		if in.PodcastFile == "" {
			return models.NewValidationError("podcastFile is required for podcasts")
		}
	default:
		return models.NewValidationError("Invalid content type")
	}

	return nil
}
