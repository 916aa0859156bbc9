package club

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/internal/audit"
	"github.com/clubhub-app/clubhub/internal/common"
	"github.com/clubhub-app/clubhub/internal/membership"
	"github.com/clubhub-app/clubhub/pkg/responses"
)

type ClubController struct {
	repo      ClubRepository
	auditRepo audit.AuditRepository
	db        *gorm.DB
}

func NewClubController(repo ClubRepository, auditRepo audit.AuditRepository, db *gorm.DB) *ClubController {
	return &ClubController{repo: repo, auditRepo: auditRepo, db: db}
}

func (ctl *ClubController) myClubIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := ctl.db.Model(&membership.Membership{}).
		Where("user_id = ? AND status <> ?", userID, membership.StatusRemoved).
		Pluck("club_id", &ids).Error
	return ids, err
}

// @Summary      List my clubs
// @Description  Every club where the caller holds a non-REMOVED membership.
// @Tags         Clubs
// @Produce      json
// @Success      200 {array} Club
// @Failure      401 {object} responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /clubs [get]
func (ctl *ClubController) ListMine(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}

	ids, err := ctl.myClubIDs(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to resolve memberships")
		return
	}
	clubs, err := ctl.repo.ListByIDs(ids)
	if err != nil {
		responses.InternalServerError(c, "Failed to list clubs")
		return
	}
	c.JSON(http.StatusOK, clubs)
}

// @Summary      Create a club
// @Description  The creator becomes the club's ACTIVE ADMIN in the same transaction.
// @Tags         Clubs
// @Accept       json
// @Produce      json
// @Param        club body CreateClubRequest true "Club details"
// @Success      201 {object} Club
// @Failure      400 {object} responses.ErrorResponse "Missing name"
// @Failure      401 {object} responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /clubs [post]
func (ctl *ClubController) Create(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Club name is required")
		return
	}

	club := Club{
		Name:                  req.Name,
		Description:           req.Description,
		Type:                  req.Type,
		JoinMode:              req.JoinMode,
		IsAcceptingNewMembers: true,
		ActiveMemberLimit:     req.ActiveMemberLimit,
		LevelsAccepted:        req.LevelsAccepted,
		Location:              req.Location,
		Badge:                 req.Badge,
		Rules:                 req.Rules,
	}
	if club.Type == "" {
		club.Type = TypeCasual
	}
	if club.JoinMode == "" {
		club.JoinMode = JoinModeApplyToJoin
	}
	if club.LevelsAccepted == nil {
		club.LevelsAccepted = []string{}
	}
	if req.IsAcceptingNewMembers != nil {
		club.IsAcceptingNewMembers = *req.IsAcceptingNewMembers
	}

	err := ctl.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&club).Error; err != nil {
			return err
		}
		admin := membership.Membership{
			ClubID: club.ID,
			UserID: userID,
			Role:   membership.RoleAdmin,
			Status: membership.StatusActive,
		}
		return tx.Create(&admin).Error
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to create club")
		return
	}

	c.JSON(http.StatusCreated, club)
}

// @Summary      Get a club
// @Tags         Clubs
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Success      200 {object} Club
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse "Club not found"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id} [get]
func (ctl *ClubController) Get(c *gin.Context) {
	if _, ok := common.GetCurrentUserID(c); !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	clubID, err := strconv.ParseUint(c.Param("club_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid club ID")
		return
	}

	club, err := ctl.repo.GetByID(uint(clubID))
	if err != nil {
		responses.NotFound(c, "Club")
		return
	}
	c.JSON(http.StatusOK, club)
}

// @Summary      Update a club (admin)
// @Tags         Clubs
// @Accept       json
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Param        club body UpdateClubRequest true "Fields to update"
// @Success      200 {object} Club
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Admin access required"
// @Failure      404 {object} responses.ErrorResponse "Club not found"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id} [patch]
func (ctl *ClubController) Update(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	clubID, err := strconv.ParseUint(c.Param("club_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid club ID")
		return
	}

	club, err := ctl.repo.GetByID(uint(clubID))
	if err != nil {
		responses.NotFound(c, "Club")
		return
	}

	isAdmin, err := common.IsActiveAdmin(ctl.db, club.ID, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to resolve membership")
		return
	}
	if !isAdmin {
		responses.Forbidden(c, "Admin access required")
		return
	}

	var req UpdateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	if req.Name != nil {
		club.Name = *req.Name
	}
	if req.Description != nil {
		club.Description = *req.Description
	}
	if req.Type != nil {
		club.Type = *req.Type
	}
	if req.JoinMode != nil {
		club.JoinMode = *req.JoinMode
	}
	if req.IsAcceptingNewMembers != nil {
		club.IsAcceptingNewMembers = *req.IsAcceptingNewMembers
	}
	if req.ActiveMemberLimit != nil {
		club.ActiveMemberLimit = req.ActiveMemberLimit
	}
	if req.LevelsAccepted != nil {
		club.LevelsAccepted = *req.LevelsAccepted
	}
	if req.Location != nil {
		club.Location = *req.Location
	}
	if req.Badge != nil {
		club.Badge = *req.Badge
	}
	if req.Rules != nil {
		club.Rules = *req.Rules
	}

	err = ctl.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(club).Error; err != nil {
			return err
		}
		return ctl.auditRepo.Append(tx, audit.Entry{
			ClubID:        club.ID,
			Action:        "CLUB_UPDATED",
			EventCategory: audit.CategoryClub,
			TargetType:    "CLUB",
			TargetID:      club.ID,
			ActorUserID:   userID,
			Result:        audit.ResultSuccess,
			StatusCode:    http.StatusOK,
		})
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to update club")
		return
	}

	c.JSON(http.StatusOK, club)
}

// @Summary      Disband a club (admin)
// @Description  Deletes the club and cascades to its memberships, invites, applications, and events.
// @Tags         Clubs
// @Param        club_id path uint true "Club ID"
// @Success      204
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Admin access required"
// @Failure      404 {object} responses.ErrorResponse "Club not found"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/disband [post]
func (ctl *ClubController) Disband(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	clubID, err := strconv.ParseUint(c.Param("club_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid club ID")
		return
	}

	club, err := ctl.repo.GetByID(uint(clubID))
	if err != nil {
		responses.NotFound(c, "Club")
		return
	}

	isAdmin, err := common.IsActiveAdmin(ctl.db, club.ID, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to resolve membership")
		return
	}
	if !isAdmin {
		responses.Forbidden(c, "Admin access required")
		return
	}

	err = ctl.repo.DeleteCascade(club.ID, func(tx *gorm.DB) error {
		// Audit before the cascade removes the club.
		return ctl.auditRepo.Append(tx, audit.Entry{
			ClubID:        club.ID,
			Action:        "CLUB_DISBANDED",
			EventCategory: audit.CategoryClub,
			TargetType:    "CLUB",
			TargetID:      club.ID,
			ActorUserID:   userID,
			Result:        audit.ResultSuccess,
			StatusCode:    http.StatusNoContent,
		})
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to disband club")
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary      Search clubs
// @Description  The caller's clubs plus discoverable apply-to-join clubs, filtered by q.
// @Tags         Me
// @Produce      json
// @Param        q query string false "Name/description substring"
// @Success      200 {array} Club
// @Failure      401 {object} responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /me/clubs/search [get]
func (ctl *ClubController) Search(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}

	ids, err := ctl.myClubIDs(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to resolve memberships")
		return
	}

	clubs, err := ctl.repo.Search(c.Query("q"), ids)
	if err != nil {
		responses.InternalServerError(c, "Failed to search clubs")
		return
	}
	c.JSON(http.StatusOK, clubs)
}
