package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	UserKeyPrefix       = "user:%s"
	ContentKeyPrefix    = "content:%s"
	GroupKeyPrefix      = "group:%s"
	GroupStatsKeyPrefix = "groupstats:%s"
	SidebarStatsKey     = "sidebar:groups"
	ContentStatsKey     = "sidebar:content"
)

const (
	UserTTL         = 5 * time.Minute
	ContentTTL      = 2 * time.Minute
	GroupTTL        = 10 * time.Minute
	SidebarStatsTTL = 5 * time.Minute
)

func UserKey(userID uuid.UUID) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ContentKey(contentID uuid.UUID) string {
	return fmt.Sprintf(ContentKeyPrefix, contentID)
}

func GroupKey(groupID uuid.UUID) string {
	return fmt.Sprintf(GroupKeyPrefix, groupID)
}

func GroupStatsKey(groupID uuid.UUID) string {
	return fmt.Sprintf(GroupStatsKeyPrefix, groupID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uuid.UUID) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateContent(ctx context.Context, contentID uuid.UUID) {
	Invalidate(ctx, ContentKey(contentID))
}

func InvalidateGroup(ctx context.Context, groupID uuid.UUID) {
	Invalidate(ctx, GroupKey(groupID))
	Invalidate(ctx, GroupStatsKey(groupID))
	Invalidate(ctx, SidebarStatsKey)
}

func InvalidateContentStats(ctx context.Context) {
	Invalidate(ctx, ContentStatsKey)
}
