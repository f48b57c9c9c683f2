package service

import (
	"context"
	"errors"

	"devhub/internal/cache"
	"devhub/internal/models"
	"devhub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const sidebarGroupLimit = 5

// GroupService handles groups, memberships and roles.
type GroupService struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

// NewGroupService creates a new group service
func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo, userRepo: userRepo}
}

type CreateGroupInput struct {
	AuthorID     uuid.UUID
	Name         string
	Bio          string
	ProfileImage string
	CoverImage   string
	MemberIDs    []uuid.UUID
}

type UpdateGroupInput struct {
	GroupID      uuid.UUID
	ActorID      uuid.UUID
	Name         string
	Bio          string
	ProfileImage string
	CoverImage   string
}

// GroupDetailOptions selects the optional sections of a group detail
// response.
type GroupDetailOptions struct {
	IncludeStats     bool
	IncludeMembers   bool
	IncludeMeetups   bool
	IncludeTopRanked bool
}

// GroupStats is the count pair shown on a group page.
type GroupStats struct {
	MembersCount  int64 `json:"membersCount"`
	ContentsCount int64 `json:"contentsCount"`
}

// GroupDetail is a group plus the optional sections requested by the caller.
type GroupDetail struct {
	Group           *models.Group      `json:"group"`
	ViewerRole      models.GroupRole   `json:"viewerRole,omitempty"`
	Stats           *GroupStats        `json:"stats,omitempty"`
	Members         []models.GroupUser `json:"members,omitempty"`
	Meetups         []*models.Content  `json:"meetups,omitempty"`
	TopRankedGroups []*models.Group    `json:"topRankedGroups,omitempty"`
}

// GroupSidebarStats holds the group rankings for the sidebar.
type GroupSidebarStats struct {
	TopRanked []*models.Group `json:"topRanked"`
	TopActive []*models.Group `json:"topActive"`
}

// CreateGroup creates the group with the creator as ADMIN and the supplied
// extra members as USER, all in one transaction. The creator is filtered out
// of the extra member list.
func (s *GroupService) CreateGroup(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	if in.AuthorID == uuid.Nil {
		return nil, models.NewValidationError("authorId is required")
	}
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}

	if _, err := s.userRepo.GetByID(ctx, in.AuthorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", in.AuthorID)
		}
		return nil, err
	}

	group := &models.Group{
		AuthorID:     in.AuthorID,
		Name:         in.Name,
		Bio:          in.Bio,
		ProfileImage: in.ProfileImage,
		CoverImage:   in.CoverImage,
	}
	if err := s.groupRepo.Create(ctx, group, in.MemberIDs); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.SidebarStatsKey)
	return s.groupRepo.GetByID(ctx, group.ID)
}

// GetGroup returns the group with the sections selected by opts.
func (s *GroupService) GetGroup(ctx context.Context, id uuid.UUID, viewerID uuid.UUID, opts GroupDetailOptions, meetups func(ctx context.Context) ([]*models.Content, error)) (*GroupDetail, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Group", id)
		}
		return nil, err
	}

	detail := &GroupDetail{Group: group}

	if viewerID != uuid.Nil {
		if member, err := s.groupRepo.GetMember(ctx, id, viewerID); err == nil {
			detail.ViewerRole = member.Role
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if opts.IncludeStats {
		members, err := s.groupRepo.CountMembers(ctx, id)
		if err != nil {
			return nil, err
		}
		detail.Stats = &GroupStats{
			MembersCount:  members,
			ContentsCount: int64(group.ContentsCount),
		}
	}

	if opts.IncludeMembers {
		members, err := s.groupRepo.ListMembers(ctx, id, 50, 0)
		if err != nil {
			return nil, err
		}
		detail.Members = members
	}

	if opts.IncludeMeetups && meetups != nil {
		items, err := meetups(ctx)
		if err != nil {
			return nil, err
		}
		detail.Meetups = items
	}

	if opts.IncludeTopRanked {
		top, err := s.groupRepo.TopRanked(ctx, sidebarGroupLimit)
		if err != nil {
			return nil, err
		}
		detail.TopRankedGroups = top
	}

	return detail, nil
}

// GetGroups returns a page of groups with pagination metadata matching the
// feed shape.
func (s *GroupService) GetGroups(ctx context.Context, sort string, page, size int) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultFeedPageSize
	}

	total, err := s.groupRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := s.groupRepo.List(ctx, sort, size, (page-1)*size)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	items := make([]any, 0, len(groups))
	for _, g := range groups {
		items = append(items, g)
	}
	return &FeedPage{
		Items:       items,
		Page:        page,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
	}, nil
}

// UpdateGroup applies profile changes. Only group admins may update.
func (s *GroupService) UpdateGroup(ctx context.Context, in UpdateGroupInput) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, in.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Group", in.GroupID)
		}
		return nil, err
	}

	if err := s.requireAdmin(ctx, in.GroupID, in.ActorID); err != nil {
		return nil, err
	}

	if in.Name != "" {
		group.Name = in.Name
	}
	if in.Bio != "" {
		group.Bio = in.Bio
	}
	if in.ProfileImage != "" {
		group.ProfileImage = in.ProfileImage
	}
	if in.CoverImage != "" {
		group.CoverImage = in.CoverImage
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes the group. Only the group author may delete.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, actorID uuid.UUID) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Group", groupID)
		}
		return err
	}
	if group.AuthorID != actorID {
		return models.NewUnauthorizedError("Only the group owner can delete the group")
	}
	return s.groupRepo.Delete(ctx, groupID)
}

// Join adds the user as a USER member. Returns CONFLICT when already a
// member.
func (s *GroupService) Join(ctx context.Context, groupID, userID uuid.UUID) error {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Group", groupID)
		}
		return err
	}

	err := s.groupRepo.AddMember(ctx, &models.GroupUser{
		UserID:  userID,
		GroupID: groupID,
		Role:    models.GroupRoleUser,
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewConflictError("Already a member of this group")
	}
	return err
}

// Leave removes the user's membership. The last remaining admin cannot
// leave.
func (s *GroupService) Leave(ctx context.Context, groupID, userID uuid.UUID) error {
	member, err := s.groupRepo.GetMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Membership", userID)
		}
		return err
	}

	if member.Role == models.GroupRoleAdmin {
		if err := s.requireNotLastAdmin(ctx, groupID, "Cannot leave as the last admin of the group"); err != nil {
			return err
		}
	}

	return s.groupRepo.RemoveMember(ctx, groupID, userID)
}

// AssignAdmin promotes the target member to ADMIN. The actor must be an
// admin.
func (s *GroupService) AssignAdmin(ctx context.Context, groupID, actorID, targetID uuid.UUID) error {
	if err := s.requireAdmin(ctx, groupID, actorID); err != nil {
		return err
	}
	if err := s.requireMember(ctx, groupID, targetID); err != nil {
		return err
	}
	return s.groupRepo.UpdateMemberRole(ctx, groupID, targetID, models.GroupRoleAdmin)
}

// RemoveAdmin demotes the target admin to USER. The actor must be an admin
// and the target must not be the last admin.
func (s *GroupService) RemoveAdmin(ctx context.Context, groupID, actorID, targetID uuid.UUID) error {
	if err := s.requireAdmin(ctx, groupID, actorID); err != nil {
		return err
	}
	target, err := s.groupRepo.GetMember(ctx, groupID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Membership", targetID)
		}
		return err
	}
	if target.Role == models.GroupRoleAdmin {
		if err := s.requireNotLastAdmin(ctx, groupID, "Cannot demote the last admin of the group"); err != nil {
			return err
		}
	}
	return s.groupRepo.UpdateMemberRole(ctx, groupID, targetID, models.GroupRoleUser)
}

// RemoveMember kicks the target from the group. The actor must be an admin
// and the target must not be the last admin.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, actorID, targetID uuid.UUID) error {
	if err := s.requireAdmin(ctx, groupID, actorID); err != nil {
		return err
	}
	target, err := s.groupRepo.GetMember(ctx, groupID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Membership", targetID)
		}
		return err
	}
	if target.Role == models.GroupRoleAdmin {
		if err := s.requireNotLastAdmin(ctx, groupID, "Cannot remove the last admin of the group"); err != nil {
			return err
		}
	}
	return s.groupRepo.RemoveMember(ctx, groupID, targetID)
}

// GetMembers returns a page of members with their user profiles.
func (s *GroupService) GetMembers(ctx context.Context, groupID uuid.UUID, limit, offset int) ([]models.GroupUser, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Group", groupID)
		}
		return nil, err
	}
	return s.groupRepo.ListMembers(ctx, groupID, limit, offset)
}

// GetSidebarStats returns cached group rankings for the sidebar.
func (s *GroupService) GetSidebarStats(ctx context.Context) (*GroupSidebarStats, error) {
	var stats GroupSidebarStats
	err := cache.Aside(ctx, cache.SidebarStatsKey, &stats, cache.SidebarStatsTTL, func() error {
		ranked, err := s.groupRepo.TopRanked(ctx, sidebarGroupLimit)
		if err != nil {
			return err
		}
		active, err := s.groupRepo.TopActive(ctx, sidebarGroupLimit)
		if err != nil {
			return err
		}
		stats.TopRanked = ranked
		stats.TopActive = active
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *GroupService) requireAdmin(ctx context.Context, groupID, actorID uuid.UUID) error {
	member, err := s.groupRepo.GetMember(ctx, groupID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewForbiddenError("Only group admins can manage members")
		}
		return err
	}
	if member.Role != models.GroupRoleAdmin {
		return models.NewForbiddenError("Only group admins can manage members")
	}
	return nil
}

func (s *GroupService) requireMember(ctx context.Context, groupID, userID uuid.UUID) error {
	_, err := s.groupRepo.GetMember(ctx, groupID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Membership", userID)
	}
	return err
}

func (s *GroupService) requireNotLastAdmin(ctx context.Context, groupID uuid.UUID, msg string) error {
	admins, err := s.groupRepo.CountAdmins(ctx, groupID)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return models.NewConflictError(msg)
	}
	return nil
}
