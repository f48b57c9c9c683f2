// Package service contains the application's business logic.
package service

import (
	"context"
	"strings"

	"devhub/internal/models"
	"devhub/internal/repository"

	"github.com/google/uuid"
)

// TagService reconciles tag titles against tag rows and serves tag queries.
type TagService struct {
	tagRepo repository.TagRepository
}

// NewTagService creates a new tag service
func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// TagDiff is the outcome of reconciling candidate titles against a content's
// current tags: the rows to associate and the rows to detach. Tag rows are
// never deleted, only detached.
type TagDiff struct {
	Connect    []models.Tag
	Disconnect []models.Tag
}

// Reconcile maps candidate titles onto tag rows. Titles are trimmed and
// deduplicated case-insensitively; existing rows are reused regardless of
// casing, missing ones are created. Disconnect is the set difference between
// the content's current tags and the reconciled set.
func (s *TagService) Reconcile(ctx context.Context, titles []string, current []models.Tag) (*TagDiff, error) {
	cleaned := normalizeTitles(titles)

	connect, err := s.tagRepo.EnsureByTitles(ctx, cleaned)
	if err != nil {
		return nil, err
	}

	keep := make(map[uuid.UUID]struct{}, len(connect))
	for _, t := range connect {
		keep[t.ID] = struct{}{}
	}

	var disconnect []models.Tag
	for _, t := range current {
		if _, ok := keep[t.ID]; !ok {
			disconnect = append(disconnect, t)
		}
	}

	return &TagDiff{Connect: connect, Disconnect: disconnect}, nil
}

// normalizeTitles trims whitespace, drops empties and deduplicates
// case-insensitively, keeping the first casing seen.
func normalizeTitles(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, raw := range titles {
		t := strings.TrimSpace(raw)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// SearchTags returns tags matching the title fragment, case-insensitively.
func (s *TagService) SearchTags(ctx context.Context, title string, limit, offset int) ([]models.Tag, error) {
	return s.tagRepo.Search(ctx, title, limit, offset)
}

// GetAuthorTags returns the distinct tags used across an author's content.
func (s *TagService) GetAuthorTags(ctx context.Context, authorID uuid.UUID) ([]models.Tag, error) {
	return s.tagRepo.ListByAuthor(ctx, authorID)
}
