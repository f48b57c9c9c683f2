package repository

import (
	"context"

	"devhub/internal/cache"
	"devhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupRepository defines the interface for group data operations
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group, extraMemberIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, sort string, limit, offset int) ([]*models.Group, error)
	CountAll(ctx context.Context) (int64, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Group, error)
	TopRanked(ctx context.Context, limit int) ([]*models.Group, error)
	TopActive(ctx context.Context, limit int) ([]*models.Group, error)

	GetMember(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupUser, error)
	AddMember(ctx context.Context, member *models.GroupUser) error
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error
	UpdateMemberRole(ctx context.Context, groupID, userID uuid.UUID, role models.GroupRole) error
	ListMembers(ctx context.Context, groupID uuid.UUID, limit, offset int) ([]models.GroupUser, error)
	CountMembers(ctx context.Context, groupID uuid.UUID) (int64, error)
	CountAdmins(ctx context.Context, groupID uuid.UUID) (int64, error)
}

// groupRepository implements GroupRepository
type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// Create persists the group together with its owner membership (role ADMIN)
// and any extra members (role USER) in a single transaction.
func (r *groupRepository) Create(ctx context.Context, group *models.Group, extraMemberIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(group).Error; err != nil {
			return err
		}

		members := []models.GroupUser{{
			UserID:  group.AuthorID,
			GroupID: group.ID,
			Role:    models.GroupRoleAdmin,
		}}
		for _, id := range extraMemberIDs {
			if id == group.AuthorID {
				continue
			}
			members = append(members, models.GroupUser{
				UserID:  id,
				GroupID: group.ID,
				Role:    models.GroupRoleUser,
			})
		}

		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&members).Error
	})
}

func (r *groupRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	var group models.Group
	err := r.applyGroupCounts(r.db.WithContext(ctx)).
		Preload("Author").
		First(&group, "groups.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) Update(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(group).Error; err != nil {
		return err
	}
	cache.InvalidateGroup(ctx, group.ID)
	return nil
}

// Delete removes the group, its memberships and detaches its contents in one
// transaction. Content survives in the author's own feed.
func (r *groupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.GroupUser{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Content{}).
			Where("group_id = ?", id).
			UpdateColumn("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, "id = ?", id).Error
	})
	if err == nil {
		cache.InvalidateGroup(ctx, id)
	}
	return err
}

// List returns a page of groups. Sort "popular" orders by member count, any
// other value by recency.
func (r *groupRepository) List(ctx context.Context, sort string, limit, offset int) ([]*models.Group, error) {
	var groups []*models.Group
	base := r.applyGroupCounts(r.db.WithContext(ctx))
	if sort == SortPopular {
		base = base.Order("members_count DESC, created_at DESC")
	} else {
		base = base.Order("created_at DESC")
	}
	err := base.
		Limit(limit).
		Offset(offset).
		Find(&groups).Error
	return groups, err
}

func (r *groupRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Group{}).Count(&count).Error
	return count, err
}

func (r *groupRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.Group, error) {
	var groups []*models.Group
	like := "%" + query + "%"
	err := r.applyGroupCounts(r.db.WithContext(ctx)).
		Where("LOWER(name) LIKE LOWER(?)", like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&groups).Error
	return groups, err
}

// TopRanked returns the groups with the most content.
func (r *groupRepository) TopRanked(ctx context.Context, limit int) ([]*models.Group, error) {
	var groups []*models.Group
	err := r.applyGroupCounts(r.db.WithContext(ctx)).
		Order("contents_count DESC, created_at DESC").
		Limit(limit).
		Find(&groups).Error
	return groups, err
}

// TopActive returns the groups with the most members.
func (r *groupRepository) TopActive(ctx context.Context, limit int) ([]*models.Group, error) {
	var groups []*models.Group
	err := r.applyGroupCounts(r.db.WithContext(ctx)).
		Order("members_count DESC, created_at DESC").
		Limit(limit).
		Find(&groups).Error
	return groups, err
}

// applyGroupCounts adds subqueries computing member and content counts in a
// single query.
func (r *groupRepository) applyGroupCounts(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Group{}).Select(
		"groups.*, " +
			"(SELECT COUNT(*) FROM group_users WHERE group_users.group_id = groups.id) as members_count, " +
			"(SELECT COUNT(*) FROM contents WHERE contents.group_id = groups.id) as contents_count",
	)
}

func (r *groupRepository) GetMember(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupUser, error) {
	var member models.GroupUser
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// AddMember inserts the membership row. Returns gorm.ErrDuplicatedKey when
// the user is already a member.
func (r *groupRepository) AddMember(ctx context.Context, member *models.GroupUser) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(member)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrDuplicatedKey
	}
	cache.InvalidateGroup(ctx, member.GroupID)
	return nil
}

// RemoveMember deletes the membership row. Returns gorm.ErrRecordNotFound
// when no membership exists.
func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupUser{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateGroup(ctx, groupID)
	return nil
}

func (r *groupRepository) UpdateMemberRole(ctx context.Context, groupID, userID uuid.UUID, role models.GroupRole) error {
	res := r.db.WithContext(ctx).
		Model(&models.GroupUser{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateGroup(ctx, groupID)
	return nil
}

func (r *groupRepository) ListMembers(ctx context.Context, groupID uuid.UUID, limit, offset int) ([]models.GroupUser, error) {
	var members []models.GroupUser
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&members).Error
	return members, err
}

func (r *groupRepository) CountMembers(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GroupUser{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

func (r *groupRepository) CountAdmins(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GroupUser{}).
		Where("group_id = ? AND role = ?", groupID, models.GroupRoleAdmin).
		Count(&count).Error
	return count, err
}
