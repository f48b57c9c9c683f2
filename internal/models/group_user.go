package models

import (
	"time"

	"github.com/google/uuid"
)

// GroupRole defines a member's role in a group.
type GroupRole string

const (
	// GroupRoleAdmin can manage members and other admins.
	GroupRoleAdmin GroupRole = "ADMIN"
	// GroupRoleUser is the default member role.
	GroupRoleUser GroupRole = "USER"
)

// GroupUser maps users to groups and tracks role.
type GroupUser struct {
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	User    *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GroupID uuid.UUID `gorm:"type:uuid;primaryKey" json:"groupId"`
	Group   *Group    `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Role    GroupRole `gorm:"type:varchar(10);not null;default:'USER'" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for GORM.
func (GroupUser) TableName() string {
	return "group_users"
}
