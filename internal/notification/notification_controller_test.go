package notification_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubhub-app/clubhub/internal/notification"
	"github.com/clubhub-app/clubhub/internal/testutil"
)

func TestListMine_OwnRowsOnly(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	mine := testutil.CreateUser(t, db, "+15558000001")
	other := testutil.CreateUser(t, db, "+15558000002")

	repo := notification.NewNotificationRepository(db)
	require.NoError(t, repo.Notify(db, []uint{mine.ID}, notification.Notification{
		Type:  notification.TypeMemberJoined,
		Title: "New Member",
	}))
	require.NoError(t, repo.Notify(db, []uint{other.ID}, notification.Notification{
		Type:  notification.TypeEventCreated,
		Title: "New Event",
	}))

	tok := testutil.AccessToken(t, db, cfg, mine.ID)
	w := testutil.Do(t, r, http.MethodGet, "/api/v1/me/notifications", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []notification.Notification
	testutil.Decode(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, notification.TypeMemberJoined, rows[0].Type)
	assert.False(t, rows[0].Read)
}

func TestMarkAllRead(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	u := testutil.CreateUser(t, db, "+15558000003")

	repo := notification.NewNotificationRepository(db)
	require.NoError(t, repo.Notify(db, []uint{u.ID, u.ID}, notification.Notification{
		Type:  notification.TypeApplicationReceived,
		Title: "New Application",
	}))

	tok := testutil.AccessToken(t, db, cfg, u.ID)
	w := testutil.Do(t, r, http.MethodPost, "/api/v1/me/notifications", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.Do(t, r, http.MethodGet, "/api/v1/me/notifications", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []notification.Notification
	testutil.Decode(t, w, &rows)
	require.NotEmpty(t, rows)
	for _, n := range rows {
		assert.True(t, n.Read)
	}
}
