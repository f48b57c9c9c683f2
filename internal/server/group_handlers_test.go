package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"devhub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroupEndpoint(t *testing.T) {
	app, db := newTestApp(t)
	owner := seedUser(t, db, "owner@example.com")
	invitee := seedUser(t, db, "invitee@example.com")

	t.Run("creates a group with seeded members", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/groups", fiber.Map{
			"authorId":  owner.ID,
			"name":      "Backend Guild",
			"bio":       "all things servers",
			"memberIds": []string{invitee.ID.String()},
		}))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var group models.Group
		decodeBody(t, resp, &group)
		assert.Equal(t, "Backend Guild", group.Name)

		var memberships []models.GroupUser
		require.NoError(t, db.Where("group_id = ?", group.ID).Find(&memberships).Error)
		assert.Len(t, memberships, 2)
	})

	t.Run("name is required", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/groups", fiber.Map{
			"authorId": owner.ID,
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestJoinLeaveGroupEndpoints(t *testing.T) {
	app, db := newTestApp(t)
	owner := seedUser(t, db, "owner@example.com")
	member := seedUser(t, db, "member@example.com")
	group := seedGroup(t, db, owner)

	joinTarget := fmt.Sprintf("/api/groups/%s/join", group.ID)
	leaveTarget := fmt.Sprintf("/api/groups/%s/leave", group.ID)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, joinTarget, fiber.Map{"userId": member.ID}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, joinTarget, fiber.Map{"userId": member.ID}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// The owner is the only admin and cannot abandon the group.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, leaveTarget, fiber.Map{"userId": owner.ID}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, leaveTarget, fiber.Map{"userId": member.ID}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, leaveTarget, fiber.Map{"userId": member.ID}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGroupAdminEndpoints(t *testing.T) {
	app, db := newTestApp(t)
	owner := seedUser(t, db, "owner@example.com")
	member := seedUser(t, db, "member@example.com")
	group := seedGroup(t, db, owner)
	require.NoError(t, db.Create(&models.GroupUser{
		GroupID: group.ID, UserID: member.ID, Role: models.GroupRoleUser,
	}).Error)

	promoteTarget := fmt.Sprintf("/api/groups/%s/admins/%s", group.ID, member.ID)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, promoteTarget,
		fiber.Map{"actorId": member.ID}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, promoteTarget,
		fiber.Map{"actorId": owner.ID}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var membership models.GroupUser
	require.NoError(t, db.Where("group_id = ? AND user_id = ?", group.ID, member.ID).
		First(&membership).Error)
	assert.Equal(t, models.GroupRoleAdmin, membership.Role)

	// Demote the owner so the promoted member becomes the last admin.
	resp, err = app.Test(jsonRequest(t, http.MethodDelete,
		fmt.Sprintf("/api/groups/%s/admins/%s", group.ID, owner.ID),
		fiber.Map{"actorId": member.ID}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodDelete,
		fmt.Sprintf("/api/groups/%s/admins/%s", group.ID, member.ID),
		fiber.Map{"actorId": member.ID}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRemoveGroupMemberEndpoint(t *testing.T) {
	app, db := newTestApp(t)
	owner := seedUser(t, db, "owner@example.com")
	member := seedUser(t, db, "member@example.com")
	group := seedGroup(t, db, owner)
	require.NoError(t, db.Create(&models.GroupUser{
		GroupID: group.ID, UserID: member.ID, Role: models.GroupRoleUser,
	}).Error)

	target := fmt.Sprintf("/api/groups/%s/members/%s", group.ID, member.ID)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, target,
		fiber.Map{"actorId": member.ID}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodDelete, target,
		fiber.Map{"actorId": owner.ID}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.GroupUser{}).
		Where("group_id = ? AND user_id = ?", group.ID, member.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteGroupEndpoint(t *testing.T) {
	app, db := newTestApp(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	group := seedGroup(t, db, owner)
	content := seedContent(t, db, owner, models.ContentTypePost)
	require.NoError(t, db.Model(content).Update("group_id", group.ID).Error)

	target := fmt.Sprintf("/api/groups/%s", group.ID)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, target, fiber.Map{"authorId": other.ID}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodDelete, target, fiber.Map{"authorId": owner.ID}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Group content survives, detached from the group.
	var detached models.Content
	require.NoError(t, db.First(&detached, "id = ?", content.ID).Error)
	assert.Nil(t, detached.GroupID)
}

func TestGetGroupEndpoint(t *testing.T) {
	app, db := newTestApp(t)
	owner := seedUser(t, db, "owner@example.com")
	group := seedGroup(t, db, owner)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/groups/%s?members=true&viewerId=%s", group.ID, owner.ID), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail struct {
		Group      models.Group       `json:"group"`
		ViewerRole models.GroupRole   `json:"viewerRole"`
		Members    []models.GroupUser `json:"members"`
	}
	decodeBody(t, resp, &detail)
	assert.Equal(t, group.ID, detail.Group.ID)
	assert.Equal(t, models.GroupRoleAdmin, detail.ViewerRole)
	assert.Len(t, detail.Members, 1)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/groups/%s", uuid.New()), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
