package service

import (
	"context"

	"devhub/internal/models"
	"devhub/internal/repository"
)

// SearchService runs the global search across groups and content.
type SearchService struct {
	contentRepo repository.ContentRepository
	groupRepo   repository.GroupRepository
}

// NewSearchService creates a new search service
func NewSearchService(contentRepo repository.ContentRepository, groupRepo repository.GroupRepository) *SearchService {
	return &SearchService{contentRepo: contentRepo, groupRepo: groupRepo}
}

// SearchResult combines the matches from both domains.
type SearchResult struct {
	Groups   []*models.Group   `json:"groups"`
	Contents []*models.Content `json:"contents"`
}

// Search matches groups by name and content by title, case-insensitively.
func (s *SearchService) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if limit < 1 {
		limit = 10
	}

	groups, err := s.groupRepo.Search(ctx, query, limit, 0)
	if err != nil {
		return nil, err
	}
	contents, err := s.contentRepo.Search(ctx, query, limit, 0)
	if err != nil {
		return nil, err
	}

	return &SearchResult{Groups: groups, Contents: contents}, nil
}
