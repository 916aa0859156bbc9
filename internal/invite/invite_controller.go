package invite

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/config"
	"github.com/clubhub-app/clubhub/internal/audit"
	"github.com/clubhub-app/clubhub/internal/club"
	"github.com/clubhub-app/clubhub/internal/common"
	"github.com/clubhub-app/clubhub/internal/membership"
	"github.com/clubhub-app/clubhub/internal/notification"
	"github.com/clubhub-app/clubhub/internal/user"
	"github.com/clubhub-app/clubhub/pkg/responses"
	"github.com/clubhub-app/clubhub/pkg/utils"
)

type InviteController struct {
	repo           InviteRepository
	clubRepo       club.ClubRepository
	membershipRepo membership.MembershipRepository
	auditRepo      audit.AuditRepository
	notifyRepo     notification.NotificationRepository
	db             *gorm.DB
	appConfig      *config.Config
}

func NewInviteController(
	repo InviteRepository,
	clubRepo club.ClubRepository,
	membershipRepo membership.MembershipRepository,
	auditRepo audit.AuditRepository,
	notifyRepo notification.NotificationRepository,
	db *gorm.DB,
	appConfig *config.Config,
) *InviteController {
	return &InviteController{
		repo:           repo,
		clubRepo:       clubRepo,
		membershipRepo: membershipRepo,
		auditRepo:      auditRepo,
		notifyRepo:     notifyRepo,
		db:             db,
		appConfig:      appConfig,
	}
}

func (ctl *InviteController) requireAdmin(c *gin.Context) (clubID uint, userID uint, ok bool) {
	userID, authed := common.GetCurrentUserID(c)
	if !authed {
		responses.Unauthorized(c, "User not authenticated")
		return 0, 0, false
	}
	id, err := strconv.ParseUint(c.Param("club_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid club ID")
		return 0, 0, false
	}
	isAdmin, err := common.IsActiveAdmin(ctl.db, uint(id), userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to resolve membership")
		return 0, 0, false
	}
	if !isAdmin {
		responses.Forbidden(c, "Admin access required")
		return 0, 0, false
	}
	return uint(id), userID, true
}

// expireIfDue lazily transitions a stale ACTIVE invite to EXPIRED. Returns
// true when the invite is (now) expired.
func (ctl *InviteController) expireIfDue(i *Invite) bool {
	if i.Status != StatusActive {
		return false
	}
	if i.ExpiresAt.After(time.Now()) {
		return false
	}
	i.Status = StatusExpired
	if err := ctl.repo.Update(i); err != nil {
		// The caller still reports the invite as expired; the persisted
		// transition catches up on the next request.
		log.Error().Err(err).Uint("invite_id", i.ID).Msg("failed to persist invite expiry")
	}
	return true
}

// @Summary      List club invites (admin)
// @Tags         Invites
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Success      200 {array} Invite
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Admin access required"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/invites [get]
func (ctl *InviteController) List(c *gin.Context) {
	clubID, _, ok := ctl.requireAdmin(c)
	if !ok {
		return
	}
	invites, err := ctl.repo.ListByClub(clubID)
	if err != nil {
		responses.InternalServerError(c, "Failed to list invites")
		return
	}
	c.JSON(http.StatusOK, invites)
}

// @Summary      Create an invite (admin)
// @Description  Without a target, this is the club's general link; creating it revokes the previous ACTIVE general invite.
// @Tags         Invites
// @Accept       json
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Param        invite body CreateInviteRequest true "Optional target"
// @Success      201 {object} Invite
// @Failure      400 {object} responses.ErrorResponse "Invalid target phone"
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Admin access required"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/invites [post]
func (ctl *InviteController) Create(c *gin.Context) {
	clubID, userID, ok := ctl.requireAdmin(c)
	if !ok {
		return
	}

	var req CreateInviteRequest
	// An empty body means a general invite.
	_ = c.ShouldBindJSON(&req)

	if req.TargetPhone != "" && !utils.IsValidPhone(req.TargetPhone) {
		responses.BadRequest(c, "Invalid phone format. Must be E.164 (e.g., +1234567890)")
		return
	}

	inv := Invite{
		ClubID:    clubID,
		Token:     utils.GenerateRandomToken(16),
		Status:    StatusActive,
		ExpiresAt: time.Now().Add(time.Duration(ctl.appConfig.Invite.ExpiryDays) * 24 * time.Hour),
	}
	if req.TargetPhone != "" {
		inv.TargetPhone = &req.TargetPhone
	}
	if req.TargetEmail != "" {
		inv.TargetEmail = &req.TargetEmail
	}

	err := ctl.db.Transaction(func(tx *gorm.DB) error {
		if !inv.IsTargeted() {
			if err := ctl.repo.RevokeActiveGeneral(tx, clubID); err != nil {
				return err
			}
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		return ctl.auditRepo.Append(tx, audit.Entry{
			ClubID:        clubID,
			Action:        "INVITE_CREATED",
			EventCategory: audit.CategoryMember,
			TargetType:    "INVITE",
			TargetID:      inv.ID,
			ActorUserID:   userID,
			Result:        audit.ResultSuccess,
			StatusCode:    http.StatusCreated,
		})
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to create invite")
		return
	}

	c.JSON(http.StatusCreated, inv)
}

// @Summary      Revoke an invite (admin)
// @Description  Only an ACTIVE invite can be revoked; terminal invites are never resurrected.
// @Tags         Invites
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Param        invite_id path uint true "Invite ID"
// @Success      200 {object} responses.OkResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Admin access required"
// @Failure      404 {object} responses.ErrorResponse "Invite not found"
// @Failure      409 {object} responses.ErrorResponse "Invite is not active"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/invites/{invite_id}/revoke [post]
func (ctl *InviteController) Revoke(c *gin.Context) {
	clubID, userID, ok := ctl.requireAdmin(c)
	if !ok {
		return
	}
	inviteID, err := strconv.ParseUint(c.Param("invite_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid invite ID")
		return
	}

	inv, err := ctl.repo.GetByIDAndClub(uint(inviteID), clubID)
	if err != nil {
		responses.NotFound(c, "Invite")
		return
	}
	if inv.Status != StatusActive {
		responses.Conflict(c, "Invite is not active")
		return
	}

	err = ctl.db.Transaction(func(tx *gorm.DB) error {
		inv.Status = StatusRevoked
		if err := tx.Save(inv).Error; err != nil {
			return err
		}
		return ctl.auditRepo.Append(tx, audit.Entry{
			ClubID:        clubID,
			Action:        "INVITE_REVOKED",
			EventCategory: audit.CategoryMember,
			TargetType:    "INVITE",
			TargetID:      inv.ID,
			ActorUserID:   userID,
			Result:        audit.ResultSuccess,
			StatusCode:    http.StatusOK,
		})
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to revoke invite")
		return
	}
	responses.SendOk(c)
}

// @Summary      Preview an invite link (public)
// @Description  Returns the club summary for any ACTIVE invite. A stale invite flips to EXPIRED and reports 410, not 404.
// @Tags         Invites
// @Produce      json
// @Param        token path string true "Invite token"
// @Success      200 {object} PreviewResponse
// @Failure      404 {object} responses.ErrorResponse "Invalid or expired invite link"
// @Failure      410 {object} responses.ErrorResponse "Invite link has expired"
// @Router       /invites/{token} [get]
func (ctl *InviteController) Preview(c *gin.Context) {
	inv, err := ctl.repo.GetByToken(c.Param("token"))
	if err != nil {
		responses.SendError(c, http.StatusNotFound, "Invalid or expired invite link")
		return
	}
	if ctl.expireIfDue(inv) {
		responses.Gone(c, "Invite link has expired")
		return
	}
	if inv.Status != StatusActive {
		responses.SendError(c, http.StatusNotFound, "Invalid or expired invite link")
		return
	}

	clubRecord, err := ctl.clubRepo.GetByID(inv.ClubID)
	if err != nil {
		responses.SendError(c, http.StatusNotFound, "Invalid or expired invite link")
		return
	}

	c.JSON(http.StatusOK, PreviewResponse{
		Club: summarizeClub(clubRecord),
		Invite: InviteSummary{
			ID:          inv.ID,
			Token:       inv.Token,
			TargetPhone: inv.TargetPhone,
			TargetEmail: inv.TargetEmail,
			ExpiresAt:   inv.ExpiresAt,
		},
	})
}

// @Summary      Accept an invite
// @Description  Creates or reactivates the caller's membership. Targeted invites are consumed; the general invite stays ACTIVE for reuse.
// @Tags         Invites
// @Produce      json
// @Param        token path string true "Invite token"
// @Success      200 {object} responses.OkResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Different user, club closed, or member limit reached"
// @Failure      404 {object} responses.ErrorResponse "Invalid or expired invite link"
// @Failure      409 {object} responses.ErrorResponse "Already a member"
// @Failure      410 {object} responses.ErrorResponse "Invite link has expired"
// @Security     ApiKeyAuth
// @Router       /invites/{token}/accept [post]
func (ctl *InviteController) Accept(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}

	inv, err := ctl.repo.GetByToken(c.Param("token"))
	if err != nil {
		responses.SendError(c, http.StatusNotFound, "Invalid or expired invite link")
		return
	}
	if ctl.expireIfDue(inv) {
		responses.Gone(c, "Invite link has expired")
		return
	}
	if inv.Status != StatusActive {
		responses.SendError(c, http.StatusNotFound, "Invalid or expired invite link")
		return
	}

	clubRecord, err := ctl.clubRepo.GetByID(inv.ClubID)
	if err != nil {
		responses.SendError(c, http.StatusNotFound, "Invalid or expired invite link")
		return
	}

	var caller user.User
	if err := ctl.db.First(&caller, userID).Error; err != nil {
		responses.Unauthorized(c, "User not found")
		return
	}

	if inv.IsTargeted() {
		if inv.TargetPhone != nil && *inv.TargetPhone != caller.Phone {
			responses.Forbidden(c, "This invite is for a different user")
			return
		}
		if inv.TargetEmail != nil && (caller.Email == nil || *inv.TargetEmail != *caller.Email) {
			responses.Forbidden(c, "This invite is for a different user")
			return
		}
	}

	if existing, err := ctl.membershipRepo.GetByClubAndUser(inv.ClubID, userID); err == nil &&
		existing.Status == membership.StatusActive {
		responses.Conflict(c, "Already a member")
		return
	}

	if !clubRecord.IsAcceptingNewMembers {
		responses.Forbidden(c, "Club is not accepting new members")
		return
	}
	if clubRecord.ActiveMemberLimit != nil {
		count, err := common.ActiveMemberCount(ctl.db, clubRecord.ID)
		if err != nil {
			responses.InternalServerError(c, "Failed to count members")
			return
		}
		if count >= int64(*clubRecord.ActiveMemberLimit) {
			responses.Forbidden(c, "Club has reached its member limit")
			return
		}
	}

	err = ctl.db.Transaction(func(tx *gorm.DB) error {
		if _, err := ctl.membershipRepo.CreateOrReactivate(tx, inv.ClubID, userID); err != nil {
			return err
		}

		// Targeted invites are single-use; the general link keeps working
		// until revoked or expired.
		if inv.IsTargeted() {
			inv.Status = StatusConsumed
			if err := tx.Save(inv).Error; err != nil {
				return err
			}
		}

		if err := ctl.auditRepo.Append(tx, audit.Entry{
			ClubID:        inv.ClubID,
			Action:        "INVITE_ACCEPTED",
			EventCategory: audit.CategoryMember,
			TargetType:    "INVITE",
			TargetID:      inv.ID,
			ActorUserID:   userID,
			Result:        audit.ResultSuccess,
			StatusCode:    http.StatusOK,
		}); err != nil {
			return err
		}

		adminIDs, err := common.ActiveAdminUserIDs(tx, inv.ClubID, userID)
		if err != nil {
			return err
		}
		clubID := inv.ClubID
		return ctl.notifyRepo.Notify(tx, adminIDs, notification.Notification{
			Type:    notification.TypeMemberJoined,
			Title:   "New Member",
			Body:    fmt.Sprintf("%s joined %s", memberDisplayName(&caller), clubRecord.Name),
			ClubID:  &clubID,
			LinkURL: fmt.Sprintf("/clubs/%d?tab=members", clubID),
		})
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to accept invite")
		return
	}

	responses.SendOk(c)
}

func memberDisplayName(u *user.User) string {
	switch {
	case u.Nickname != "":
		return u.Nickname
	case u.FirstName != "" || u.LastName != "":
		if u.LastName == "" {
			return u.FirstName
		}
		if u.FirstName == "" {
			return u.LastName
		}
		return u.FirstName + " " + u.LastName
	default:
		return u.Phone
	}
}
