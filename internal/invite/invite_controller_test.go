package invite_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/internal/audit"
	"github.com/clubhub-app/clubhub/internal/invite"
	"github.com/clubhub-app/clubhub/internal/membership"
	"github.com/clubhub-app/clubhub/internal/notification"
	"github.com/clubhub-app/clubhub/internal/testutil"
	"github.com/clubhub-app/clubhub/pkg/responses"
	"github.com/clubhub-app/clubhub/pkg/utils"
)

func seedInvite(t *testing.T, db *gorm.DB, clubID uint, targetPhone *string) *invite.Invite {
	t.Helper()
	inv := &invite.Invite{
		ClubID:      clubID,
		Token:       utils.GenerateRandomToken(16),
		TargetPhone: targetPhone,
		Status:      invite.StatusActive,
		ExpiresAt:   time.Now().Add(7 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(inv).Error)
	return inv
}

func TestCreateInvite_GeneralSingleton(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	admin := testutil.CreateUser(t, db, "+15553000001")
	c := testutil.CreateClub(t, db, "Link Club", "APPLY_TO_JOIN")
	testutil.AddMember(t, db, c.ID, admin.ID, membership.RoleAdmin, membership.StatusActive)
	tok := testutil.AccessToken(t, db, cfg, admin.ID)

	w := testutil.Do(t, r, http.MethodPost, fmt.Sprintf("/api/v1/clubs/%d/invites", c.ID), nil, tok)
	require.Equal(t, http.StatusCreated, w.Code)
	var first invite.Invite
	testutil.Decode(t, w, &first)

	w = testutil.Do(t, r, http.MethodPost, fmt.Sprintf("/api/v1/clubs/%d/invites", c.ID), nil, tok)
	require.Equal(t, http.StatusCreated, w.Code)
	var second invite.Invite
	testutil.Decode(t, w, &second)

	// Issuing a new general link revokes the previous one. Each lookup gets a
	// fresh dest; a populated struct would leak its primary key into the
	// next query's conditions.
	var firstReloaded invite.Invite
	require.NoError(t, db.First(&firstReloaded, first.ID).Error)
	assert.Equal(t, invite.StatusRevoked, firstReloaded.Status)

	var secondReloaded invite.Invite
	require.NoError(t, db.First(&secondReloaded, second.ID).Error)
	assert.Equal(t, invite.StatusActive, secondReloaded.Status)
}

func TestCreateInvite_TargetedDoesNotRevokeGeneral(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	admin := testutil.CreateUser(t, db, "+15553000002")
	c := testutil.CreateClub(t, db, "Mixed Club", "APPLY_TO_JOIN")
	testutil.AddMember(t, db, c.ID, admin.ID, membership.RoleAdmin, membership.StatusActive)
	general := seedInvite(t, db, c.ID, nil)
	tok := testutil.AccessToken(t, db, cfg, admin.ID)

	w := testutil.Do(t, r, http.MethodPost, fmt.Sprintf("/api/v1/clubs/%d/invites", c.ID), map[string]any{
		"targetPhone": "+15553000099",
	}, tok)
	require.Equal(t, http.StatusCreated, w.Code)

	var reloaded invite.Invite
	require.NoError(t, db.First(&reloaded, general.ID).Error)
	assert.Equal(t, invite.StatusActive, reloaded.Status)
}

func TestCreateInvite_NonAdminForbidden(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	member := testutil.CreateUser(t, db, "+15553000003")
	c := testutil.CreateClub(t, db, "Closed Club", "APPLY_TO_JOIN")
	testutil.AddMember(t, db, c.ID, member.ID, membership.RoleMember, membership.StatusActive)
	tok := testutil.AccessToken(t, db, cfg, member.ID)

	w := testutil.Do(t, r, http.MethodPost, fmt.Sprintf("/api/v1/clubs/%d/invites", c.ID), nil, tok)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRevokeInvite(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	admin := testutil.CreateUser(t, db, "+15553000004")
	c := testutil.CreateClub(t, db, "Revoke Club", "APPLY_TO_JOIN")
	testutil.AddMember(t, db, c.ID, admin.ID, membership.RoleAdmin, membership.StatusActive)
	inv := seedInvite(t, db, c.ID, nil)
	tok := testutil.AccessToken(t, db, cfg, admin.ID)

	w := testutil.Do(t, r, http.MethodPost, fmt.Sprintf("/api/v1/clubs/%d/invites/%d/revoke", c.ID, inv.ID), nil, tok)
	require.Equal(t, http.StatusOK, w.Code)

	// A terminal invite cannot be revoked again.
	w = testutil.Do(t, r, http.MethodPost, fmt.Sprintf("/api/v1/clubs/%d/invites/%d/revoke", c.ID, inv.ID), nil, tok)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestPreview_Public(t *testing.T) {
	r, db, _ := testutil.NewServer(t)
	c := testutil.CreateClub(t, db, "Preview Club", "APPLY_TO_JOIN")
	inv := seedInvite(t, db, c.ID, nil)

	w := testutil.Do(t, r, http.MethodGet, "/api/v1/invites/"+inv.Token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp invite.PreviewResponse
	testutil.Decode(t, w, &resp)
	assert.Equal(t, "Preview Club", resp.Club.Name)
	assert.Equal(t, inv.Token, resp.Invite.Token)
}

func TestPreview_UnknownToken(t *testing.T) {
	r, _, _ := testutil.NewServer(t)

	w := testutil.Do(t, r, http.MethodGet, "/api/v1/invites/nope", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var errResp responses.ErrorResponse
	testutil.Decode(t, w, &errResp)
	assert.Equal(t, "Invalid or expired invite link", errResp.Message)
}

func TestPreview_LazyExpiry(t *testing.T) {
	r, db, _ := testutil.NewServer(t)
	c := testutil.CreateClub(t, db, "Stale Club", "APPLY_TO_JOIN")
	inv := seedInvite(t, db, c.ID, nil)
	require.NoError(t, db.Model(inv).Update("expires_at", time.Now().Add(-time.Hour)).Error)

	w := testutil.Do(t, r, http.MethodGet, "/api/v1/invites/"+inv.Token, nil, "")
	require.Equal(t, http.StatusGone, w.Code)

	var errResp responses.ErrorResponse
	testutil.Decode(t, w, &errResp)
	assert.Equal(t, "Invite link has expired", errResp.Message)

	var reloaded invite.Invite
	require.NoError(t, db.First(&reloaded, inv.ID).Error)
	assert.Equal(t, invite.StatusExpired, reloaded.Status)
}

func TestAccept_GeneralInviteStaysActive(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	admin := testutil.CreateUser(t, db, "+15553000005")
	c := testutil.CreateClub(t, db, "Open Club", "APPLY_TO_JOIN")
	testutil.AddMember(t, db, c.ID, admin.ID, membership.RoleAdmin, membership.StatusActive)
	inv := seedInvite(t, db, c.ID, nil)

	joiner := testutil.CreateUser(t, db, "+15553000006")
	tok := testutil.AccessToken(t, db, cfg, joiner.ID)

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/invites/"+inv.Token+"/accept", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)

	var m membership.Membership
	require.NoError(t, db.Where("club_id = ? AND user_id = ?", c.ID, joiner.ID).First(&m).Error)
	assert.Equal(t, membership.RoleMember, m.Role)
	assert.Equal(t, membership.StatusActive, m.Status)

	// The general link keeps working for the next person.
	var reloaded invite.Invite
	require.NoError(t, db.First(&reloaded, inv.ID).Error)
	assert.Equal(t, invite.StatusActive, reloaded.Status)

	second := testutil.CreateUser(t, db, "+15553000007")
	tok2 := testutil.AccessToken(t, db, cfg, second.ID)
	w = testutil.Do(t, r, http.MethodPost, "/api/v1/invites/"+inv.Token+"/accept", nil, tok2)
	require.Equal(t, http.StatusOK, w.Code)

	// Admins hear about each join.
	var count int64
	require.NoError(t, db.Model(&notification.Notification{}).
		Where("user_id = ? AND type = ?", admin.ID, notification.TypeMemberJoined).
		Count(&count).Error)
	assert.Equal(t, int64(2), count)

	var entries []audit.AuditLog
	require.NoError(t, db.Where("club_id = ? AND action = ?", c.ID, "INVITE_ACCEPTED").Find(&entries).Error)
	assert.Len(t, entries, 2)
}

func TestAccept_TargetedConsumes(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	c := testutil.CreateClub(t, db, "Target Club", "APPLY_TO_JOIN")
	phone := "+15553000008"
	inv := seedInvite(t, db, c.ID, &phone)

	target := testutil.CreateUser(t, db, phone)
	tok := testutil.AccessToken(t, db, cfg, target.ID)

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/invites/"+inv.Token+"/accept", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded invite.Invite
	require.NoError(t, db.First(&reloaded, inv.ID).Error)
	assert.Equal(t, invite.StatusConsumed, reloaded.Status)

	// A consumed invite reads as gone for everyone.
	other := testutil.CreateUser(t, db, "+15553000009")
	tok2 := testutil.AccessToken(t, db, cfg, other.ID)
	w = testutil.Do(t, r, http.MethodPost, "/api/v1/invites/"+inv.Token+"/accept", nil, tok2)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccept_TargetedWrongUser(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	c := testutil.CreateClub(t, db, "Strict Club", "APPLY_TO_JOIN")
	phone := "+15553000010"
	inv := seedInvite(t, db, c.ID, &phone)

	imposter := testutil.CreateUser(t, db, "+15553000011")
	tok := testutil.AccessToken(t, db, cfg, imposter.ID)

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/invites/"+inv.Token+"/accept", nil, tok)
	require.Equal(t, http.StatusForbidden, w.Code)

	var errResp responses.ErrorResponse
	testutil.Decode(t, w, &errResp)
	assert.Equal(t, "This invite is for a different user", errResp.Message)

	// A failed match does not burn the invite.
	var reloaded invite.Invite
	require.NoError(t, db.First(&reloaded, inv.ID).Error)
	assert.Equal(t, invite.StatusActive, reloaded.Status)
}

func TestAccept_AlreadyMember(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	c := testutil.CreateClub(t, db, "Member Club", "APPLY_TO_JOIN")
	inv := seedInvite(t, db, c.ID, nil)

	u := testutil.CreateUser(t, db, "+15553000012")
	testutil.AddMember(t, db, c.ID, u.ID, membership.RoleMember, membership.StatusActive)
	tok := testutil.AccessToken(t, db, cfg, u.ID)

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/invites/"+inv.Token+"/accept", nil, tok)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAccept_ReactivatesRemovedMembership(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	c := testutil.CreateClub(t, db, "Returner Club", "APPLY_TO_JOIN")
	inv := seedInvite(t, db, c.ID, nil)

	u := testutil.CreateUser(t, db, "+15553000013")
	old := testutil.AddMember(t, db, c.ID, u.ID, membership.RoleAdmin, membership.StatusRemoved)
	tok := testutil.AccessToken(t, db, cfg, u.ID)

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/invites/"+inv.Token+"/accept", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)

	// Rejoining reuses the old row but demotes to plain membership.
	var m membership.Membership
	require.NoError(t, db.First(&m, old.ID).Error)
	assert.Equal(t, membership.StatusActive, m.Status)
	assert.Equal(t, membership.RoleMember, m.Role)
}

func TestAccept_ClubClosed(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	c := testutil.CreateClub(t, db, "Shut Club", "APPLY_TO_JOIN")
	require.NoError(t, db.Model(c).Update("is_accepting_new_members", false).Error)
	inv := seedInvite(t, db, c.ID, nil)

	u := testutil.CreateUser(t, db, "+15553000014")
	tok := testutil.AccessToken(t, db, cfg, u.ID)

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/invites/"+inv.Token+"/accept", nil, tok)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAccept_MemberLimitReached(t *testing.T) {
	r, db, cfg := testutil.NewServer(t)
	c := testutil.CreateClub(t, db, "Tiny Club", "APPLY_TO_JOIN")
	require.NoError(t, db.Model(c).Update("active_member_limit", 1).Error)

	occupant := testutil.CreateUser(t, db, "+15553000015")
	testutil.AddMember(t, db, c.ID, occupant.ID, membership.RoleAdmin, membership.StatusActive)
	inv := seedInvite(t, db, c.ID, nil)

	u := testutil.CreateUser(t, db, "+15553000016")
	tok := testutil.AccessToken(t, db, cfg, u.ID)

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/invites/"+inv.Token+"/accept", nil, tok)
	require.Equal(t, http.StatusForbidden, w.Code)

	var errResp responses.ErrorResponse
	testutil.Decode(t, w, &errResp)
	assert.Equal(t, "Club has reached its member limit", errResp.Message)
}

func TestAccept_Unauthenticated(t *testing.T) {
	r, db, _ := testutil.NewServer(t)
	c := testutil.CreateClub(t, db, "Auth Club", "APPLY_TO_JOIN")
	inv := seedInvite(t, db, c.ID, nil)

	w := testutil.Do(t, r, http.MethodPost, "/api/v1/invites/"+inv.Token+"/accept", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
