package service

import (
	"context"
	"testing"

	"devhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchService_Search(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("query is required", func(t *testing.T) {
		t.Parallel()
		svc := NewSearchService(&contentRepoStub{}, &groupRepoStub{})
		_, err := svc.Search(ctx, "", 10)
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("combines groups and contents", func(t *testing.T) {
		t.Parallel()
		group := &models.Group{ID: uuid.New(), Name: "Gophers"}
		content := &models.Content{ID: uuid.New(), Title: "Go generics", Type: models.ContentTypePost}

		groupRepo := &groupRepoStub{
			searchFn: func(_ context.Context, query string, limit, offset int) ([]*models.Group, error) {
				assert.Equal(t, "go", query)
				assert.Equal(t, 5, limit)
				assert.Equal(t, 0, offset)
				return []*models.Group{group}, nil
			},
		}
		contentRepo := &contentRepoStub{
			searchFn: func(_ context.Context, query string, limit, offset int) ([]*models.Content, error) {
				assert.Equal(t, "go", query)
				assert.Equal(t, 5, limit)
				return []*models.Content{content}, nil
			},
		}
		svc := NewSearchService(contentRepo, groupRepo)

		result, err := svc.Search(ctx, "go", 5)
		require.NoError(t, err)
		require.Len(t, result.Groups, 1)
		assert.Equal(t, group.ID, result.Groups[0].ID)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, content.ID, result.Contents[0].ID)
	})

	t.Run("limit defaults to 10", func(t *testing.T) {
		t.Parallel()
		var seen int
		groupRepo := &groupRepoStub{
			searchFn: func(_ context.Context, _ string, limit, _ int) ([]*models.Group, error) {
				seen = limit
				return nil, nil
			},
		}
		svc := NewSearchService(&contentRepoStub{}, groupRepo)

		_, err := svc.Search(ctx, "go", 0)
		require.NoError(t, err)
		assert.Equal(t, 10, seen)
	})
}
