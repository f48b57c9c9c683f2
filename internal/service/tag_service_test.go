package service

import (
	"context"
	"testing"

	"devhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tagRepoStub is a stub for repository.TagRepository. Unset functions fall
// back to harmless defaults.
type tagRepoStub struct {
	findByTitlesFn   func(context.Context, []string) ([]models.Tag, error)
	ensureByTitlesFn func(context.Context, []string) ([]models.Tag, error)
	searchFn         func(context.Context, string, int, int) ([]models.Tag, error)
	listByAuthorFn   func(context.Context, uuid.UUID) ([]models.Tag, error)
}

func (s *tagRepoStub) FindByTitles(ctx context.Context, titles []string) ([]models.Tag, error) {
	if s.findByTitlesFn != nil {
		return s.findByTitlesFn(ctx, titles)
	}
	return nil, nil
}

func (s *tagRepoStub) EnsureByTitles(ctx context.Context, titles []string) ([]models.Tag, error) {
	if s.ensureByTitlesFn != nil {
		return s.ensureByTitlesFn(ctx, titles)
	}
	tags := make([]models.Tag, 0, len(titles))
	for _, title := range titles {
		tags = append(tags, models.Tag{ID: uuid.New(), Title: title})
	}
	return tags, nil
}

func (s *tagRepoStub) Search(ctx context.Context, title string, limit, offset int) ([]models.Tag, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, title, limit, offset)
	}
	return nil, nil
}

func (s *tagRepoStub) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Tag, error) {
	if s.listByAuthorFn != nil {
		return s.listByAuthorFn(ctx, authorID)
	}
	return nil, nil
}

// assertAppErrorCode asserts err carries the given application error code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestNormalizeTitles(t *testing.T) {
	t.Parallel()

	got := normalizeTitles([]string{" Go ", "go", "", "Rust", "GO", "  "})
	assert.Equal(t, []string{"Go", "Rust"}, got)
}

func TestTagService_Reconcile(t *testing.T) {
	t.Parallel()

	t.Run("passes normalized titles to the repository", func(t *testing.T) {
		t.Parallel()
		var received []string
		repo := &tagRepoStub{
			ensureByTitlesFn: func(_ context.Context, titles []string) ([]models.Tag, error) {
				received = titles
				return nil, nil
			},
		}
		svc := NewTagService(repo)

		_, err := svc.Reconcile(context.Background(), []string{" Go", "go ", "Redis"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"Go", "Redis"}, received)
	})

	t.Run("disconnect is the difference against current tags", func(t *testing.T) {
		t.Parallel()
		keep := models.Tag{ID: uuid.New(), Title: "Go"}
		drop := models.Tag{ID: uuid.New(), Title: "PHP"}
		repo := &tagRepoStub{
			ensureByTitlesFn: func(_ context.Context, _ []string) ([]models.Tag, error) {
				return []models.Tag{keep}, nil
			},
		}
		svc := NewTagService(repo)

		diff, err := svc.Reconcile(context.Background(), []string{"Go"}, []models.Tag{keep, drop})
		require.NoError(t, err)
		assert.Equal(t, []models.Tag{keep}, diff.Connect)
		require.Len(t, diff.Disconnect, 1)
		assert.Equal(t, drop.ID, diff.Disconnect[0].ID)
	})

	t.Run("empty titles disconnect everything", func(t *testing.T) {
		t.Parallel()
		current := []models.Tag{{ID: uuid.New(), Title: "Go"}}
		svc := NewTagService(&tagRepoStub{})

		diff, err := svc.Reconcile(context.Background(), nil, current)
		require.NoError(t, err)
		assert.Empty(t, diff.Connect)
		assert.Len(t, diff.Disconnect, 1)
	})
}
