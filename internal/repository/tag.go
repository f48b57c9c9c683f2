// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"strings"

	"devhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	FindByTitles(ctx context.Context, titles []string) ([]models.Tag, error)
	EnsureByTitles(ctx context.Context, titles []string) ([]models.Tag, error)
	Search(ctx context.Context, title string, limit, offset int) ([]models.Tag, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Tag, error)
}

// tagRepository implements TagRepository
type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// FindByTitles returns tags whose titles match the given titles
// case-insensitively.
func (r *tagRepository) FindByTitles(ctx context.Context, titles []string) ([]models.Tag, error) {
	if len(titles) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(titles))
	for _, t := range titles {
		lowered = append(lowered, strings.ToLower(t))
	}
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Where("LOWER(title) IN ?", lowered).
		Find(&tags).Error
	return tags, err
}

// EnsureByTitles returns a tag row for every title, creating the ones that do
// not exist yet. Existing rows are matched case-insensitively and reused with
// their stored casing. Concurrent creates racing on the unique title index are
// absorbed: the insert skips conflicting rows and the winning row is picked up
// by the re-fetch.
func (r *tagRepository) EnsureByTitles(ctx context.Context, titles []string) ([]models.Tag, error) {
	if len(titles) == 0 {
		return nil, nil
	}

	existing, err := r.FindByTitles(ctx, titles)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		known[strings.ToLower(t.Title)] = struct{}{}
	}

	var missing []models.Tag
	for _, title := range titles {
		if _, ok := known[strings.ToLower(title)]; ok {
			continue
		}
		missing = append(missing, models.Tag{Title: title})
	}

	if len(missing) > 0 {
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&missing).Error; err != nil {
			return nil, err
		}
		// Re-fetch so rows created by a concurrent writer are included too.
		return r.FindByTitles(ctx, titles)
	}

	return existing, nil
}

func (r *tagRepository) Search(ctx context.Context, title string, limit, offset int) ([]models.Tag, error) {
	var tags []models.Tag
	q := r.db.WithContext(ctx).Order("title ASC").Limit(limit).Offset(offset)
	if title != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%")
	}
	err := q.Find(&tags).Error
	return tags, err
}

// ListByAuthor returns the distinct tags attached to any content the author wrote.
func (r *tagRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Distinct("tags.*").
		Joins("JOIN content_tags ON content_tags.tag_id = tags.id").
		Joins("JOIN contents ON contents.id = content_tags.content_id").
		Where("contents.author_id = ?", authorID).
		Find(&tags).Error
	return tags, err
}
