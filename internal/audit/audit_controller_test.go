package audit_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/internal/audit"
	"github.com/clubhub-app/clubhub/internal/membership"
	"github.com/clubhub-app/clubhub/internal/testutil"
)

func seedLogs(t *testing.T, db *gorm.DB, clubID uint, n int) {
	t.Helper()
	repo := audit.NewAuditRepository(db)
	for i := 0; i < n; i++ {
		category := audit.CategoryMember
		if i%2 == 0 {
			category = audit.CategoryEvent
		}
		require.NoError(t, repo.Append(db, audit.Entry{
			ClubID:        clubID,
			Action:        fmt.Sprintf("ACTION_%d", i),
			EventCategory: category,
			Result:        audit.ResultSuccess,
			StatusCode:    http.StatusOK,
		}))
	}
}

func TestListAuditLogs_NewestFirst(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	admin := testutil.CreateUser(t, db, "+15557000001")
	c := testutil.CreateClub(t, db, "Audited Club", "APPLY_TO_JOIN")
	testutil.AddMember(t, db, c.ID, admin.ID, membership.RoleAdmin, membership.StatusActive)
	seedLogs(t, db, c.ID, 5)

	tok := testutil.AccessToken(t, db, cfg, admin.ID)
	w := testutil.Do(t, r, http.MethodGet, fmt.Sprintf("/api/v1/clubs/%d/audit-logs", c.ID), nil, tok)
	require.Equal(t, http.StatusOK, w.Code)

	var logs []audit.AuditLog
	testutil.Decode(t, w, &logs)
	require.Len(t, logs, 5)
	for i := 1; i < len(logs); i++ {
		assert.Greater(t, logs[i-1].ID, logs[i].ID)
	}
}

func TestListAuditLogs_Filters(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	admin := testutil.CreateUser(t, db, "+15557000002")
	c := testutil.CreateClub(t, db, "Filtered Club", "APPLY_TO_JOIN")
	testutil.AddMember(t, db, c.ID, admin.ID, membership.RoleAdmin, membership.StatusActive)
	seedLogs(t, db, c.ID, 6)

	tok := testutil.AccessToken(t, db, cfg, admin.ID)
	w := testutil.Do(t, r, http.MethodGet,
		fmt.Sprintf("/api/v1/clubs/%d/audit-logs?eventCategory=EVENT", c.ID), nil, tok)
	require.Equal(t, http.StatusOK, w.Code)

	var logs []audit.AuditLog
	testutil.Decode(t, w, &logs)
	require.Len(t, logs, 3)
	for _, l := range logs {
		assert.Equal(t, audit.CategoryEvent, l.EventCategory)
	}
}

func TestListAuditLogs_OffsetLimit(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	admin := testutil.CreateUser(t, db, "+15557000003")
	c := testutil.CreateClub(t, db, "Paged Club", "APPLY_TO_JOIN")
	testutil.AddMember(t, db, c.ID, admin.ID, membership.RoleAdmin, membership.StatusActive)
	seedLogs(t, db, c.ID, 10)

	tok := testutil.AccessToken(t, db, cfg, admin.ID)
	w := testutil.Do(t, r, http.MethodGet,
		fmt.Sprintf("/api/v1/clubs/%d/audit-logs?limit=4&offset=4", c.ID), nil, tok)
	require.Equal(t, http.StatusOK, w.Code)

	var logs []audit.AuditLog
	testutil.Decode(t, w, &logs)
	assert.Len(t, logs, 4)
}

func TestQueryPage_CursorWalk(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	admin := testutil.CreateUser(t, db, "+15557000004")
	c := testutil.CreateClub(t, db, "Cursor Club", "APPLY_TO_JOIN")
	testutil.AddMember(t, db, c.ID, admin.ID, membership.RoleAdmin, membership.StatusActive)
	seedLogs(t, db, c.ID, 7)

	tok := testutil.AccessToken(t, db, cfg, admin.ID)
	path := fmt.Sprintf("/api/v1/clubs/%d/audit-logs/query", c.ID)

	seen := make(map[uint]bool)
	pageToken := ""
	pages := 0
	for {
		w := testutil.Do(t, r, http.MethodPost, path, map[string]any{
			"pageSize":  3,
			"pageToken": pageToken,
		}, tok)
		require.Equal(t, http.StatusOK, w.Code)

		var page audit.PageResponse
		testutil.Decode(t, w, &page)
		for _, item := range page.Items {
			assert.False(t, seen[item.ID], "no item should repeat across pages")
			seen[item.ID] = true
		}

		pages++
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
		require.Less(t, pages, 10, "pagination must terminate")
	}

	assert.Len(t, seen, 7)
}

func TestQueryPage_MalformedToken(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	admin := testutil.CreateUser(t, db, "+15557000005")
	c := testutil.CreateClub(t, db, "Token Club", "APPLY_TO_JOIN")
	testutil.AddMember(t, db, c.ID, admin.ID, membership.RoleAdmin, membership.StatusActive)

	tok := testutil.AccessToken(t, db, cfg, admin.ID)
	w := testutil.Do(t, r, http.MethodPost, fmt.Sprintf("/api/v1/clubs/%d/audit-logs/query", c.ID), map[string]any{
		"pageToken": "not-a-number",
	}, tok)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditLogs_AdminOnly(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	member := testutil.CreateUser(t, db, "+15557000006")
	c := testutil.CreateClub(t, db, "Sealed Club", "APPLY_TO_JOIN")
	testutil.AddMember(t, db, c.ID, member.ID, membership.RoleMember, membership.StatusActive)

	tok := testutil.AccessToken(t, db, cfg, member.ID)
	w := testutil.Do(t, r, http.MethodGet, fmt.Sprintf("/api/v1/clubs/%d/audit-logs", c.ID), nil, tok)
	require.Equal(t, http.StatusForbidden, w.Code)
}
