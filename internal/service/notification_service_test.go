package service

import (
	"fmt"
	"testing"

	"barangay/internal/model"
	"barangay/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) createNotification(t *testing.T, userID *uint, title string) *model.Notification {
	t.Helper()

	notif := model.Notification{
		Title:   title,
		Message: "message for " + title,
		Type:    model.NotifTypeInfo,
		UserID:  userID,
	}
	require.NoError(t, e.db.Create(&notif).Error)
	return &notif
}

func TestListNotifications(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "09171230001", model.UserStatusApproved)
	other := env.createUser(t, "09171230002", model.UserStatusApproved)

	for i := 0; i < 3; i++ {
		env.createNotification(t, &user.ID, fmt.Sprintf("mine %d", i))
	}
	env.createNotification(t, &other.ID, "theirs")
	env.createNotification(t, nil, "broadcast")

	t.Run("filters by user", func(t *testing.T) {
		items, total, err := env.notifs.ListNotifications(testCtx, &user.ID, 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, items, 3)
		for _, n := range items {
			require.NotNil(t, n.UserID)
			assert.Equal(t, user.ID, *n.UserID)
		}
	})

	t.Run("nil user lists everything", func(t *testing.T) {
		items, total, err := env.notifs.ListNotifications(testCtx, nil, 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		assert.Len(t, items, 5)
	})

	t.Run("paginates", func(t *testing.T) {
		items, total, err := env.notifs.ListNotifications(testCtx, nil, 2, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		assert.Len(t, items, 2)
	})
}

func TestMarkRead(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "09171230003", model.UserStatusApproved)
	notif := env.createNotification(t, &user.ID, "unread")

	require.NoError(t, env.notifs.MarkRead(testCtx, notif.ID))

	var stored model.Notification
	require.NoError(t, env.db.First(&stored, "id = ?", notif.ID).Error)
	assert.True(t, stored.IsRead)

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, env.notifs.MarkRead(testCtx, notif.ID))
		require.NoError(t, env.db.First(&stored, "id = ?", notif.ID).Error)
		assert.True(t, stored.IsRead)
	})

	t.Run("unknown id yields not found", func(t *testing.T) {
		err := env.notifs.MarkRead(testCtx, 99999)
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})
}
