package service

import (
	"context"
	"testing"
	"time"

	"devhub/internal/models"
	"devhub/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// contentRepoStub is a stub for repository.ContentRepository. Unset functions
// fall back to harmless defaults.
type contentRepoStub struct {
	createFn         func(context.Context, *models.Content) error
	getByIDFn        func(context.Context, uuid.UUID, uuid.UUID) (*models.Content, error)
	updateFn         func(context.Context, *models.Content) error
	deleteFn         func(context.Context, uuid.UUID) error
	countFn          func(context.Context, repository.FeedQuery) (int64, error)
	listFn           func(context.Context, repository.FeedQuery, int, int) ([]*models.Content, error)
	searchFn         func(context.Context, string, int, int) ([]*models.Content, error)
	replaceTagsFn    func(context.Context, *models.Content, []models.Tag) error
	incrementViewsFn func(context.Context, uuid.UUID) error
	likeFn           func(context.Context, uuid.UUID, uuid.UUID) error
	unlikeFn         func(context.Context, uuid.UUID, uuid.UUID) error
}

func (s *contentRepoStub) Create(ctx context.Context, content *models.Content) error {
	if s.createFn != nil {
		return s.createFn(ctx, content)
	}
	return nil
}

func (s *contentRepoStub) GetByID(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) (*models.Content, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id, viewerID)
	}
	return &models.Content{ID: id, Type: models.ContentTypePost}, nil
}

func (s *contentRepoStub) Update(ctx context.Context, content *models.Content) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, content)
	}
	return nil
}

func (s *contentRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *contentRepoStub) Count(ctx context.Context, q repository.FeedQuery) (int64, error) {
	if s.countFn != nil {
		return s.countFn(ctx, q)
	}
	return 0, nil
}

func (s *contentRepoStub) List(ctx context.Context, q repository.FeedQuery, limit, offset int) ([]*models.Content, error) {
	if s.listFn != nil {
		return s.listFn(ctx, q, limit, offset)
	}
	return nil, nil
}

func (s *contentRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]*models.Content, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, query, limit, offset)
	}
	return nil, nil
}

func (s *contentRepoStub) ReplaceTags(ctx context.Context, content *models.Content, tags []models.Tag) error {
	if s.replaceTagsFn != nil {
		return s.replaceTagsFn(ctx, content, tags)
	}
	return nil
}

func (s *contentRepoStub) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if s.incrementViewsFn != nil {
		return s.incrementViewsFn(ctx, id)
	}
	return nil
}

func (s *contentRepoStub) Like(ctx context.Context, userID, contentID uuid.UUID) error {
	if s.likeFn != nil {
		return s.likeFn(ctx, userID, contentID)
	}
	return nil
}

func (s *contentRepoStub) Unlike(ctx context.Context, userID, contentID uuid.UUID) error {
	if s.unlikeFn != nil {
		return s.unlikeFn(ctx, userID, contentID)
	}
	return nil
}

func newContentService(contentRepo repository.ContentRepository, groupRepo repository.GroupRepository) *ContentService {
	return NewContentService(nil, contentRepo, NewTagService(&tagRepoStub{}), groupRepo)
}

func TestContentService_CreateContent_Validation(t *testing.T) {
	t.Parallel()

	svc := newContentService(&contentRepoStub{}, &groupRepoStub{})
	ctx := context.Background()
	authorID := uuid.New()

	t.Run("missing author", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateContent(ctx, CreateContentInput{
			Type: models.ContentTypePost, Title: "t", Description: "d",
		})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateContent(ctx, CreateContentInput{
			AuthorID: authorID, Type: models.ContentTypePost, Description: "d",
		})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("meetup requires location and date", func(t *testing.T) {
		t.Parallel()
		date := time.Now().Add(24 * time.Hour)

		_, err := svc.CreateContent(ctx, CreateContentInput{
			AuthorID: authorID, Type: models.ContentTypeMeetup,
			Title: "t", Description: "d", MeetupDate: &date,
		})
		assertAppErrorCode(t, err, models.CodeValidation)

		_, err = svc.CreateContent(ctx, CreateContentInput{
			AuthorID: authorID, Type: models.ContentTypeMeetup,
			Title: "t", Description: "d", MeetupLocation: "Berlin",
		})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("podcast requires a file", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateContent(ctx, CreateContentInput{
			AuthorID: authorID, Type: models.ContentTypePodcast,
			Title: "t", Description: "d",
		})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateContent(ctx, CreateContentInput{
			AuthorID: authorID, Type: "STORY", Title: "t", Description: "d",
		})
		assertAppErrorCode(t, err, models.CodeValidation)
	})
}

func TestContentService_CreateContent_GroupMembership(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	groupID := uuid.New()

	t.Run("non-member is rejected", func(t *testing.T) {
		t.Parallel()
		groupRepo := &groupRepoStub{
			getMemberFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.GroupUser, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := newContentService(&contentRepoStub{}, groupRepo)

		_, err := svc.CreateContent(ctx, CreateContentInput{
			AuthorID: uuid.New(), Type: models.ContentTypePost,
			Title: "t", Description: "d", GroupID: &groupID,
		})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("member creates with reconciled tags", func(t *testing.T) {
		t.Parallel()
		var attached []models.Tag
		contentRepo := &contentRepoStub{
			replaceTagsFn: func(_ context.Context, _ *models.Content, tags []models.Tag) error {
				attached = tags
				return nil
			},
		}
		groupRepo := &groupRepoStub{
			getMemberFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.GroupUser, error) {
				return &models.GroupUser{Role: models.GroupRoleUser}, nil
			},
		}
		svc := newContentService(contentRepo, groupRepo)

		_, err := svc.CreateContent(ctx, CreateContentInput{
			AuthorID: uuid.New(), Type: models.ContentTypePost,
			Title: "t", Description: "d", GroupID: &groupID,
			Tags: []string{" Go ", "go", "Redis"},
		})
		require.NoError(t, err)
		require.Len(t, attached, 2)
		assert.Equal(t, "Go", attached[0].Title)
		assert.Equal(t, "Redis", attached[1].Title)
	})
}

func TestContentService_UpdateContent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	contentID := uuid.New()
	authorID := uuid.New()

	existing := func(context.Context, uuid.UUID, uuid.UUID) (*models.Content, error) {
		return &models.Content{ID: contentID, Type: models.ContentTypePost, AuthorID: authorID}, nil
	}

	t.Run("only the author may update", func(t *testing.T) {
		t.Parallel()
		svc := newContentService(&contentRepoStub{getByIDFn: existing}, &groupRepoStub{})

		_, err := svc.UpdateContent(ctx, UpdateContentInput{
			ContentID: contentID, AuthorID: uuid.New(), Type: models.ContentTypePost,
		})
		assertAppErrorCode(t, err, models.CodeUnauthorized)
	})

	t.Run("type is immutable", func(t *testing.T) {
		t.Parallel()
		svc := newContentService(&contentRepoStub{getByIDFn: existing}, &groupRepoStub{})

		_, err := svc.UpdateContent(ctx, UpdateContentInput{
			ContentID: contentID, AuthorID: authorID, Type: models.ContentTypeMeetup,
		})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("nil tags leave the tag set untouched", func(t *testing.T) {
		t.Parallel()
		replaceCalled := false
		repo := &contentRepoStub{
			getByIDFn: existing,
			replaceTagsFn: func(context.Context, *models.Content, []models.Tag) error {
				replaceCalled = true
				return nil
			},
		}
		svc := newContentService(repo, &groupRepoStub{})

		_, err := svc.UpdateContent(ctx, UpdateContentInput{
			ContentID: contentID, AuthorID: authorID, Type: models.ContentTypePost,
			Title: "new title",
		})
		require.NoError(t, err)
		assert.False(t, replaceCalled)
	})

	t.Run("empty tag slice detaches all", func(t *testing.T) {
		t.Parallel()
		var attached []models.Tag
		replaceCalled := false
		repo := &contentRepoStub{
			getByIDFn: existing,
			replaceTagsFn: func(_ context.Context, _ *models.Content, tags []models.Tag) error {
				replaceCalled = true
				attached = tags
				return nil
			},
		}
		svc := newContentService(repo, &groupRepoStub{})

		empty := []string{}
		_, err := svc.UpdateContent(ctx, UpdateContentInput{
			ContentID: contentID, AuthorID: authorID, Type: models.ContentTypePost,
			Tags: &empty,
		})
		require.NoError(t, err)
		assert.True(t, replaceCalled)
		assert.Empty(t, attached)
	})

	t.Run("missing content", func(t *testing.T) {
		t.Parallel()
		repo := &contentRepoStub{
			getByIDFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.Content, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := newContentService(repo, &groupRepoStub{})

		_, err := svc.UpdateContent(ctx, UpdateContentInput{
			ContentID: contentID, AuthorID: authorID, Type: models.ContentTypePost,
		})
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestContentService_GetContent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	contentID := uuid.New()

	t.Run("counts the view", func(t *testing.T) {
		t.Parallel()
		incremented := false
		repo := &contentRepoStub{
			incrementViewsFn: func(_ context.Context, id uuid.UUID) error {
				incremented = true
				assert.Equal(t, contentID, id)
				return nil
			},
		}
		svc := newContentService(repo, &groupRepoStub{})

		_, err := svc.GetContent(ctx, contentID, uuid.Nil)
		require.NoError(t, err)
		assert.True(t, incremented)
	})

	t.Run("missing content", func(t *testing.T) {
		t.Parallel()
		repo := &contentRepoStub{
			getByIDFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.Content, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := newContentService(repo, &groupRepoStub{})

		_, err := svc.GetContent(ctx, contentID, uuid.Nil)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestContentService_GetFeed_Pagination(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("count and list share the query", func(t *testing.T) {
		t.Parallel()
		var countQuery, listQuery repository.FeedQuery
		var gotLimit, gotOffset int
		repo := &contentRepoStub{
			countFn: func(_ context.Context, q repository.FeedQuery) (int64, error) {
				countQuery = q
				return 10, nil
			},
			listFn: func(_ context.Context, q repository.FeedQuery, limit, offset int) ([]*models.Content, error) {
				listQuery = q
				gotLimit, gotOffset = limit, offset
				return []*models.Content{{Type: models.ContentTypePost}}, nil
			},
		}
		svc := newContentService(repo, &groupRepoStub{})

		typ := models.ContentTypePost
		page, err := svc.GetFeed(ctx, FeedInput{Type: &typ, Sort: repository.SortPopular, Page: 2})
		require.NoError(t, err)

		assert.Equal(t, countQuery, listQuery)
		assert.Equal(t, DefaultFeedPageSize, gotLimit)
		assert.Equal(t, DefaultFeedPageSize, gotOffset)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 3, page.TotalPages)
		assert.True(t, page.HasNextPage)
	})

	t.Run("last page has no next", func(t *testing.T) {
		t.Parallel()
		repo := &contentRepoStub{
			countFn: func(context.Context, repository.FeedQuery) (int64, error) { return 8, nil },
		}
		svc := newContentService(repo, &groupRepoStub{})

		page, err := svc.GetFeed(ctx, FeedInput{Page: 2, Size: 4})
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalPages)
		assert.False(t, page.HasNextPage)
	})

	t.Run("page below one is coerced", func(t *testing.T) {
		t.Parallel()
		var gotOffset int
		repo := &contentRepoStub{
			listFn: func(_ context.Context, _ repository.FeedQuery, _, offset int) ([]*models.Content, error) {
				gotOffset = offset
				return nil, nil
			},
		}
		svc := newContentService(repo, &groupRepoStub{})

		page, err := svc.GetFeed(ctx, FeedInput{Page: -3})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Zero(t, gotOffset)
	})
}

func TestContentService_LikeUnlike(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	contentID := uuid.New()

	t.Run("double like maps to conflict", func(t *testing.T) {
		t.Parallel()
		repo := &contentRepoStub{
			likeFn: func(context.Context, uuid.UUID, uuid.UUID) error {
				return gorm.ErrDuplicatedKey
			},
		}
		svc := newContentService(repo, &groupRepoStub{})

		_, err := svc.LikeContent(ctx, userID, contentID)
		assertAppErrorCode(t, err, models.CodeConflict)
	})

	t.Run("like on missing content maps to not found", func(t *testing.T) {
		t.Parallel()
		repo := &contentRepoStub{
			getByIDFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.Content, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := newContentService(repo, &groupRepoStub{})

		_, err := svc.LikeContent(ctx, userID, contentID)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("unlike without a like maps to not found", func(t *testing.T) {
		t.Parallel()
		repo := &contentRepoStub{
			unlikeFn: func(context.Context, uuid.UUID, uuid.UUID) error {
				return gorm.ErrRecordNotFound
			},
		}
		svc := newContentService(repo, &groupRepoStub{})

		_, err := svc.UnlikeContent(ctx, userID, contentID)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestContentService_DeleteContent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	contentID := uuid.New()
	authorID := uuid.New()

	t.Run("only the author may delete", func(t *testing.T) {
		t.Parallel()
		repo := &contentRepoStub{
			getByIDFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.Content, error) {
				return &models.Content{ID: contentID, AuthorID: authorID}, nil
			},
		}
		svc := newContentService(repo, &groupRepoStub{})

		err := svc.DeleteContent(ctx, contentID, uuid.New())
		assertAppErrorCode(t, err, models.CodeUnauthorized)
	})

	t.Run("author deletes", func(t *testing.T) {
		t.Parallel()
		deleted := false
		repo := &contentRepoStub{
			getByIDFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.Content, error) {
				return &models.Content{ID: contentID, AuthorID: authorID}, nil
			},
			deleteFn: func(context.Context, uuid.UUID) error {
				deleted = true
				return nil
			},
		}
		svc := newContentService(repo, &groupRepoStub{})

		require.NoError(t, svc.DeleteContent(ctx, contentID, authorID))
		assert.True(t, deleted)
	})
}
