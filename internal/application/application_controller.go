package application

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/config"
	"github.com/clubhub-app/clubhub/internal/audit"
	"github.com/clubhub-app/clubhub/internal/club"
	"github.com/clubhub-app/clubhub/internal/common"
	"github.com/clubhub-app/clubhub/internal/membership"
	"github.com/clubhub-app/clubhub/internal/notification"
	"github.com/clubhub-app/clubhub/internal/user"
	"github.com/clubhub-app/clubhub/pkg/responses"
)

type ApplicationController struct {
	repo           ApplicationRepository
	clubRepo       club.ClubRepository
	membershipRepo membership.MembershipRepository
	auditRepo      audit.AuditRepository
	notifyRepo     notification.NotificationRepository
	db             *gorm.DB
	appConfig      *config.Config
}

func NewApplicationController(
	repo ApplicationRepository,
	clubRepo club.ClubRepository,
	membershipRepo membership.MembershipRepository,
	auditRepo audit.AuditRepository,
	notifyRepo notification.NotificationRepository,
	db *gorm.DB,
	appConfig *config.Config,
) *ApplicationController {
	return &ApplicationController{
		repo:           repo,
		clubRepo:       clubRepo,
		membershipRepo: membershipRepo,
		auditRepo:      auditRepo,
		notifyRepo:     notifyRepo,
		db:             db,
		appConfig:      appConfig,
	}
}

func clubIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("club_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid club ID")
		return 0, false
	}
	return uint(id), true
}

// @Summary      Apply to join a club
// @Tags         Applications
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Success      201 {object} Application
// @Failure      400 {object} responses.ErrorResponse "Club is invite-only, or already a member"
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse "Club not found"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/applications [post]
func (ctl *ApplicationController) Apply(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	clubID, ok := clubIDParam(c)
	if !ok {
		return
	}

	clubRecord, err := ctl.clubRepo.GetByID(clubID)
	if err != nil {
		responses.NotFound(c, "Club")
		return
	}
	if clubRecord.JoinMode != club.JoinModeApplyToJoin {
		responses.BadRequest(c, "Club is invite-only")
		return
	}

	if existing, err := ctl.membershipRepo.GetByClubAndUser(clubID, userID); err == nil &&
		existing.Status == membership.StatusActive {
		responses.BadRequest(c, "Already a member")
		return
	}

	var applicant user.User
	if err := ctl.db.First(&applicant, userID).Error; err != nil {
		responses.Unauthorized(c, "User not found")
		return
	}

	app := Application{ClubID: clubID, UserID: userID, Status: StatusPending}
	err = ctl.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&app).Error; err != nil {
			return err
		}
		adminIDs, err := common.ActiveAdminUserIDs(tx, clubID, userID)
		if err != nil {
			return err
		}
		return ctl.notifyRepo.Notify(tx, adminIDs, notification.Notification{
			Type:    notification.TypeApplicationReceived,
			Title:   "New Application",
			Body:    fmt.Sprintf("%s %s applied to join %s", applicant.FirstName, applicant.LastName, clubRecord.Name),
			ClubID:  &clubID,
			LinkURL: fmt.Sprintf("/clubs/%d?tab=applications", clubID),
		})
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to submit application")
		return
	}

	c.JSON(http.StatusCreated, app)
}

// @Summary      List club applications (admin)
// @Tags         Applications
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Success      200 {array} AdminView
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Admin access required"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/applications [get]
func (ctl *ApplicationController) List(c *gin.Context) {
	clubID, _, ok := ctl.requireAdmin(c)
	if !ok {
		return
	}

	apps, err := ctl.repo.ListByClub(clubID)
	if err != nil {
		responses.InternalServerError(c, "Failed to list applications")
		return
	}

	views := make([]AdminView, 0, len(apps))
	for _, a := range apps {
		view := AdminView{Application: a, DenialNotes: a.DenialNotes}
		var u user.User
		if err := ctl.db.First(&u, a.UserID).Error; err == nil {
			view.User = &ApplicantSummary{
				ID:        u.ID,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Phone:     u.Phone,
				Email:     u.Email,
			}
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, views)
}

// @Summary      Get my latest application for a club
// @Tags         Applications
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Success      200 {object} Application
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse "No application found"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/applications/me [get]
func (ctl *ApplicationController) GetMine(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	clubID, ok := clubIDParam(c)
	if !ok {
		return
	}

	app, err := ctl.repo.GetLatestByClubAndUser(clubID, userID)
	if err != nil {
		responses.SendError(c, http.StatusNotFound, "No application found")
		return
	}
	c.JSON(http.StatusOK, app)
}

// @Summary      Approve an application (admin)
// @Description  Approval is the join-completion point for apply-based clubs; it creates or reactivates the applicant's membership.
// @Tags         Applications
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Param        application_id path uint true "Application ID"
// @Success      200 {object} Application
// @Failure      400 {object} responses.ErrorResponse "Application is not pending"
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Admin access required"
// @Failure      404 {object} responses.ErrorResponse "Application not found"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/applications/{application_id}/approve [post]
func (ctl *ApplicationController) Approve(c *gin.Context) {
	clubID, adminUserID, ok := ctl.requireAdmin(c)
	if !ok {
		return
	}
	appID, ok := applicationIDParam(c)
	if !ok {
		return
	}

	app, err := ctl.repo.GetByIDAndClub(appID, clubID)
	if err != nil {
		responses.NotFound(c, "Application")
		return
	}
	if app.Status != StatusPending {
		responses.BadRequest(c, "Application is not pending")
		return
	}

	clubRecord, err := ctl.clubRepo.GetByID(clubID)
	if err != nil {
		responses.NotFound(c, "Club")
		return
	}

	err = ctl.db.Transaction(func(tx *gorm.DB) error {
		app.Status = StatusApproved
		if err := tx.Save(app).Error; err != nil {
			return err
		}
		if _, err := ctl.membershipRepo.CreateOrReactivate(tx, clubID, app.UserID); err != nil {
			return err
		}
		if err := ctl.auditRepo.Append(tx, audit.Entry{
			ClubID:        clubID,
			Action:        "APPLICATION_APPROVED",
			EventCategory: audit.CategoryMember,
			TargetType:    "APPLICATION",
			TargetID:      app.ID,
			ActorUserID:   adminUserID,
			Result:        audit.ResultSuccess,
			StatusCode:    http.StatusOK,
		}); err != nil {
			return err
		}
		return ctl.notifyRepo.Notify(tx, []uint{app.UserID}, notification.Notification{
			Type:    notification.TypeApplicationApproved,
			Title:   "Application Approved",
			Body:    fmt.Sprintf("Your application to %s was approved", clubRecord.Name),
			ClubID:  &clubID,
			LinkURL: fmt.Sprintf("/clubs/%d", clubID),
		})
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to approve application")
		return
	}

	c.JSON(http.StatusOK, app)
}

// @Summary      Reject an application (admin)
// @Description  The denial reason defaults to OTHER. Denial notes are kept for admins and never shown to the applicant.
// @Tags         Applications
// @Accept       json
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Param        application_id path uint true "Application ID"
// @Param        rejection body RejectRequest false "Denial reason and notes"
// @Success      200 {object} Application
// @Failure      400 {object} responses.ErrorResponse "Application is not pending"
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Admin access required"
// @Failure      404 {object} responses.ErrorResponse "Application not found"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/applications/{application_id}/reject [post]
func (ctl *ApplicationController) Reject(c *gin.Context) {
	clubID, adminUserID, ok := ctl.requireAdmin(c)
	if !ok {
		return
	}
	appID, ok := applicationIDParam(c)
	if !ok {
		return
	}

	app, err := ctl.repo.GetByIDAndClub(appID, clubID)
	if err != nil {
		responses.NotFound(c, "Application")
		return
	}
	if app.Status != StatusPending {
		responses.BadRequest(c, "Application is not pending")
		return
	}

	var req RejectRequest
	// An empty body is a plain rejection with the default reason.
	_ = c.ShouldBindJSON(&req)
	if req.DenialReason == "" {
		req.DenialReason = DenialReasonOther
	}

	clubRecord, err := ctl.clubRepo.GetByID(clubID)
	if err != nil {
		responses.NotFound(c, "Club")
		return
	}

	err = ctl.db.Transaction(func(tx *gorm.DB) error {
		app.Status = StatusRejected
		app.DenialReason = req.DenialReason
		app.DenialNotes = req.DenialNotes
		if err := tx.Save(app).Error; err != nil {
			return err
		}
		if err := ctl.auditRepo.Append(tx, audit.Entry{
			ClubID:        clubID,
			Action:        "APPLICATION_REJECTED",
			EventCategory: audit.CategoryMember,
			TargetType:    "APPLICATION",
			TargetID:      app.ID,
			ActorUserID:   adminUserID,
			Result:        audit.ResultSuccess,
			StatusCode:    http.StatusOK,
		}); err != nil {
			return err
		}
		return ctl.notifyRepo.Notify(tx, []uint{app.UserID}, notification.Notification{
			Type:   notification.TypeApplicationRejected,
			Title:  "Application Update",
			Body:   fmt.Sprintf("Your application to %s was not accepted", clubRecord.Name),
			ClubID: &clubID,
		})
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to reject application")
		return
	}

	c.JSON(http.StatusOK, app)
}

// @Summary      List my applications across clubs
// @Tags         Applications
// @Produce      json
// @Success      200 {array} Application
// @Failure      401 {object} responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /me/applications [get]
func (ctl *ApplicationController) ListMine(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	apps, err := ctl.repo.ListByUser(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to list applications")
		return
	}
	c.JSON(http.StatusOK, apps)
}

// @Summary      Cancel my pending application
// @Tags         Applications
// @Produce      json
// @Param        application_id path uint true "Application ID"
// @Success      200 {object} Application
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse "Application not found or not cancellable"
// @Security     ApiKeyAuth
// @Router       /me/applications/{application_id}/cancel [post]
func (ctl *ApplicationController) Cancel(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	appID, ok := applicationIDParam(c)
	if !ok {
		return
	}

	app, err := ctl.repo.GetPendingByIDAndUser(appID, userID)
	if err != nil {
		responses.SendError(c, http.StatusNotFound, "Application not found or not cancellable")
		return
	}

	err = ctl.db.Transaction(func(tx *gorm.DB) error {
		app.Status = StatusCancelled
		if err := tx.Save(app).Error; err != nil {
			return err
		}
		return ctl.auditRepo.Append(tx, audit.Entry{
			ClubID:        app.ClubID,
			Action:        "APPLICATION_CANCELLED",
			EventCategory: audit.CategoryMember,
			TargetType:    "APPLICATION",
			TargetID:      app.ID,
			ActorUserID:   userID,
			Result:        audit.ResultSuccess,
			StatusCode:    http.StatusOK,
		})
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to cancel application")
		return
	}

	c.JSON(http.StatusOK, app)
}

func (ctl *ApplicationController) requireAdmin(c *gin.Context) (clubID uint, userID uint, ok bool) {
	userID, authed := common.GetCurrentUserID(c)
	if !authed {
		responses.Unauthorized(c, "User not authenticated")
		return 0, 0, false
	}
	clubID, ok = clubIDParam(c)
	if !ok {
		return 0, 0, false
	}
	isAdmin, err := common.IsActiveAdmin(ctl.db, clubID, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to resolve membership")
		return 0, 0, false
	}
	if !isAdmin {
		responses.Forbidden(c, "Admin access required")
		return 0, 0, false
	}
	return clubID, userID, true
}

func applicationIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("application_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid application ID")
		return 0, false
	}
	return uint(id), true
}
