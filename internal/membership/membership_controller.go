package membership

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/internal/audit"
	"github.com/clubhub-app/clubhub/internal/common"
	"github.com/clubhub-app/clubhub/internal/user"
	"github.com/clubhub-app/clubhub/pkg/responses"
)

type MembershipController struct {
	repo      MembershipRepository
	auditRepo audit.AuditRepository
	db        *gorm.DB
}

func NewMembershipController(repo MembershipRepository, auditRepo audit.AuditRepository, db *gorm.DB) *MembershipController {
	return &MembershipController{repo: repo, auditRepo: auditRepo, db: db}
}

func clubIDParam(c *gin.Context) (uint, bool) {
	clubID, err := strconv.ParseUint(c.Param("club_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid club ID")
		return 0, false
	}
	return uint(clubID), true
}

// @Summary      List club members
// @Description  Admins see every membership; members see ACTIVE rows plus their own. Contact info obeys per-member visibility flags (admins always see it).
// @Tags         Members
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Success      200 {array} MemberView
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Member access required"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/members [get]
func (ctl *MembershipController) ListMembers(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	clubID, ok := clubIDParam(c)
	if !ok {
		return
	}

	mine, err := ctl.repo.GetByClubAndUser(clubID, userID)
	if err != nil || mine.Status == StatusRemoved {
		responses.Forbidden(c, "Member access required")
		return
	}
	isAdmin := mine.Role == RoleAdmin

	members, err := ctl.repo.ListByClub(clubID)
	if err != nil {
		responses.InternalServerError(c, "Failed to list members")
		return
	}

	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		if !isAdmin && m.Status != StatusActive && m.UserID != userID {
			continue
		}

		view := MemberView{Membership: m}
		if isAdmin {
			view.AdminNotes = m.AdminNotes
		}

		var u user.User
		if err := ctl.db.First(&u, m.UserID).Error; err == nil {
			contact := &MemberContact{
				ID:        u.ID,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Nickname:  u.Nickname,
			}
			if m.ShowPhoneToMembers || isAdmin {
				contact.Phone = u.Phone
			}
			if m.ShowEmailToMembers || isAdmin {
				contact.Email = u.Email
			}
			view.User = contact
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, views)
}

// @Summary      Get my membership
// @Tags         Members
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Success      200 {object} Membership
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse "Membership not found"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/members/me [get]
func (ctl *MembershipController) GetMine(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	clubID, ok := clubIDParam(c)
	if !ok {
		return
	}

	m, err := ctl.repo.GetByClubAndUser(clubID, userID)
	if err != nil || m.Status == StatusRemoved {
		responses.NotFound(c, "Membership")
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Leave a club
// @Description  Sets the caller's membership to REMOVED. The last ACTIVE admin cannot leave.
// @Tags         Members
// @Param        club_id path uint true "Club ID"
// @Success      204
// @Failure      400 {object} responses.ErrorResponse "Last active admin"
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse "Membership not found"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/members/me [delete]
func (ctl *MembershipController) Leave(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	clubID, ok := clubIDParam(c)
	if !ok {
		return
	}

	m, err := ctl.repo.GetByClubAndUser(clubID, userID)
	if err != nil || m.Status == StatusRemoved {
		responses.NotFound(c, "Membership")
		return
	}

	if m.Role == RoleAdmin {
		others, err := ctl.repo.CountOtherActiveAdmins(clubID, userID)
		if err != nil {
			responses.InternalServerError(c, "Failed to check club admins")
			return
		}
		if others == 0 {
			responses.BadRequest(c, "Cannot leave: you are the last active admin")
			return
		}
	}

	err = ctl.db.Transaction(func(tx *gorm.DB) error {
		m.Status = StatusRemoved
		if err := tx.Save(m).Error; err != nil {
			return err
		}
		return ctl.auditRepo.Append(tx, audit.Entry{
			ClubID:        clubID,
			Action:        "MEMBER_LEFT",
			EventCategory: audit.CategoryMember,
			TargetType:    "MEMBER",
			TargetID:      m.ID,
			ActorUserID:   userID,
			Result:        audit.ResultSuccess,
			StatusCode:    http.StatusNoContent,
		})
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to leave club")
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary      Update my visibility settings
// @Description  Toggles whether other members can see the caller's phone/email.
// @Tags         Members
// @Accept       json
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Param        settings body UpdateSettingsRequest true "Visibility flags"
// @Success      200 {object} Membership
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse "Membership not found"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/members/me/settings [patch]
func (ctl *MembershipController) UpdateSettings(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	clubID, ok := clubIDParam(c)
	if !ok {
		return
	}

	m, err := ctl.repo.GetByClubAndUser(clubID, userID)
	if err != nil || m.Status == StatusRemoved {
		responses.NotFound(c, "Membership")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	if req.ShowPhoneToMembers != nil {
		m.ShowPhoneToMembers = *req.ShowPhoneToMembers
	}
	if req.ShowEmailToMembers != nil {
		m.ShowEmailToMembers = *req.ShowEmailToMembers
	}

	if err := ctl.repo.Update(m); err != nil {
		responses.InternalServerError(c, "Failed to update settings")
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Update a member (admin)
// @Description  Changes another member's role, status, or admin notes. No last-admin guard on this path.
// @Tags         Members
// @Accept       json
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Param        user_id path uint true "Target user ID"
// @Param        update body AdminUpdateMemberRequest true "Fields to change"
// @Success      200 {object} MemberView
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Admin access required"
// @Failure      404 {object} responses.ErrorResponse "Member not found"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/members/by-user/{user_id} [patch]
func (ctl *MembershipController) AdminUpdateMember(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	clubID, ok := clubIDParam(c)
	if !ok {
		return
	}
	targetUserID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid user ID")
		return
	}

	if _, err := ctl.repo.GetActiveAdmin(clubID, userID); err != nil {
		responses.Forbidden(c, "Admin access required")
		return
	}

	m, err := ctl.repo.GetByClubAndUser(clubID, uint(targetUserID))
	if err != nil {
		responses.NotFound(c, "Member")
		return
	}

	var req AdminUpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	if req.Role != nil {
		m.Role = *req.Role
	}
	if req.Status != nil {
		m.Status = *req.Status
	}
	if req.AdminNotes != nil {
		m.AdminNotes = *req.AdminNotes
	}

	err = ctl.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(m).Error; err != nil {
			return err
		}
		return ctl.auditRepo.Append(tx, audit.Entry{
			ClubID:        clubID,
			Action:        "MEMBER_UPDATED",
			EventCategory: audit.CategoryMember,
			TargetType:    "USER",
			TargetID:      uint(targetUserID),
			ActorUserID:   userID,
			Result:        audit.ResultSuccess,
			StatusCode:    http.StatusOK,
		})
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to update member")
		return
	}

	c.JSON(http.StatusOK, MemberView{Membership: *m, AdminNotes: m.AdminNotes})
}
