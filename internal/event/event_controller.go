package event

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/config"
	"github.com/clubhub-app/clubhub/internal/audit"
	"github.com/clubhub-app/clubhub/internal/club"
	"github.com/clubhub-app/clubhub/internal/common"
	"github.com/clubhub-app/clubhub/internal/notification"
	"github.com/clubhub-app/clubhub/pkg/responses"
)

type EventController struct {
	repo       EventRepository
	clubRepo   club.ClubRepository
	auditRepo  audit.AuditRepository
	notifyRepo notification.NotificationRepository
	db         *gorm.DB
	appConfig  *config.Config
}

func NewEventController(
	repo EventRepository,
	clubRepo club.ClubRepository,
	auditRepo audit.AuditRepository,
	notifyRepo notification.NotificationRepository,
	db *gorm.DB,
	appConfig *config.Config,
) *EventController {
	return &EventController{
		repo:       repo,
		clubRepo:   clubRepo,
		auditRepo:  auditRepo,
		notifyRepo: notifyRepo,
		db:         db,
		appConfig:  appConfig,
	}
}

func (ctl *EventController) requireMember(c *gin.Context) (clubID uint, userID uint, ok bool) {
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
	isMember, err := common.IsActiveMember(ctl.db, uint(id), userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to resolve membership")
		return 0, 0, false
	}
	if !isMember {
		responses.Forbidden(c, "Member access required")
		return 0, 0, false
	}
	return uint(id), userID, true
}

func (ctl *EventController) view(e Event, userID uint) (View, error) {
	count, err := ctl.repo.CountRegistered(e.ID)
	if err != nil {
		return View{}, err
	}
	_, err = ctl.repo.GetActiveRegistration(e.ID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return View{}, err
	}
	return View{Event: e, RegistrationCount: count, IsRegistered: err == nil}, nil
}

// @Summary      List club events
// @Description  Each event carries a live registration count and whether the caller is registered.
// @Tags         Events
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Success      200 {array} View
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Member access required"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/events [get]
func (ctl *EventController) List(c *gin.Context) {
	clubID, userID, ok := ctl.requireMember(c)
	if !ok {
		return
	}

	events, err := ctl.repo.ListByClub(clubID)
	if err != nil {
		responses.InternalServerError(c, "Failed to list events")
		return
	}

	views := make([]View, 0, len(events))
	for _, e := range events {
		v, err := ctl.view(e, userID)
		if err != nil {
			responses.InternalServerError(c, "Failed to load event registrations")
			return
		}
		views = append(views, v)
	}
	c.JSON(http.StatusOK, views)
}

// @Summary      Get one event
// @Tags         Events
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Param        event_id path uint true "Event ID"
// @Success      200 {object} View
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Member access required"
// @Failure      404 {object} responses.ErrorResponse "Event not found"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/events/{event_id} [get]
func (ctl *EventController) Get(c *gin.Context) {
	clubID, userID, ok := ctl.requireMember(c)
	if !ok {
		return
	}
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	e, err := ctl.repo.GetByIDAndClub(eventID, clubID)
	if err != nil {
		responses.NotFound(c, "Event")
		return
	}
	v, err := ctl.view(*e, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to load event registrations")
		return
	}
	c.JSON(http.StatusOK, v)
}

// @Summary      Create an event (admin)
// @Tags         Events
// @Accept       json
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Param        event body CreateEventRequest true "Event details"
// @Success      201 {object} Event
// @Failure      400 {object} responses.ErrorResponse "Event title is required, or start time is required"
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Admin access required"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/events [post]
func (ctl *EventController) Create(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	clubID64, err := strconv.ParseUint(c.Param("club_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid club ID")
		return
	}
	clubID := uint(clubID64)

	isAdmin, err := common.IsActiveAdmin(ctl.db, clubID, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to resolve membership")
		return
	}
	if !isAdmin {
		responses.Forbidden(c, "Admin access required")
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		responses.BadRequest(c, "Event title is required")
		return
	}
	if req.StartTime == nil {
		responses.BadRequest(c, "Start time is required")
		return
	}

	clubRecord, err := ctl.clubRepo.GetByID(clubID)
	if err != nil {
		responses.NotFound(c, "Club")
		return
	}

	e := Event{
		ClubID:          clubID,
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		StartTime:       *req.StartTime,
		EndTime:         req.EndTime,
		MaxParticipants: req.MaxParticipants,
		CreatedBy:       userID,
	}

	err = ctl.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&e).Error; err != nil {
			return err
		}
		memberIDs, err := common.ActiveMemberUserIDs(tx, clubID, userID)
		if err != nil {
			return err
		}
		if err := ctl.notifyRepo.Notify(tx, memberIDs, notification.Notification{
			Type:    notification.TypeEventCreated,
			Title:   "New Event",
			Body:    fmt.Sprintf("%s in %s", e.Title, clubRecord.Name),
			ClubID:  &clubID,
			LinkURL: fmt.Sprintf("/clubs/%d?tab=events", clubID),
		}); err != nil {
			return err
		}
		return ctl.auditRepo.Append(tx, audit.Entry{
			ClubID:        clubID,
			Action:        "EVENT_CREATED",
			EventCategory: audit.CategoryEvent,
			TargetType:    "EVENT",
			TargetID:      e.ID,
			ActorUserID:   userID,
			Result:        audit.ResultSuccess,
			StatusCode:    http.StatusCreated,
		})
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, e)
}

// @Summary      Register for an event
// @Tags         Events
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Param        event_id path uint true "Event ID"
// @Success      201 {object} Registration
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Member access required, or event is full"
// @Failure      404 {object} responses.ErrorResponse "Event not found"
// @Failure      409 {object} responses.ErrorResponse "Already registered"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/events/{event_id}/register [post]
func (ctl *EventController) Register(c *gin.Context) {
	clubID, userID, ok := ctl.requireMember(c)
	if !ok {
		return
	}
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	e, err := ctl.repo.GetByIDAndClub(eventID, clubID)
	if err != nil {
		responses.NotFound(c, "Event")
		return
	}

	if _, err := ctl.repo.GetActiveRegistration(e.ID, userID); err == nil {
		responses.Conflict(c, "Already registered")
		return
	}

	if e.MaxParticipants != nil {
		count, err := ctl.repo.CountRegistered(e.ID)
		if err != nil {
			responses.InternalServerError(c, "Failed to count registrations")
			return
		}
		if count >= int64(*e.MaxParticipants) {
			responses.Forbidden(c, "Event is full")
			return
		}
	}

	reg := Registration{EventID: e.ID, UserID: userID, Status: RegistrationRegistered}
	if err := ctl.repo.CreateRegistration(&reg); err != nil {
		responses.InternalServerError(c, "Failed to register")
		return
	}

	c.JSON(http.StatusCreated, reg)
}

// @Summary      Cancel my event registration
// @Tags         Events
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Param        event_id path uint true "Event ID"
// @Success      200 {object} responses.OkResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse "Not registered"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/events/{event_id}/register [delete]
func (ctl *EventController) Unregister(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	reg, err := ctl.repo.GetActiveRegistration(eventID, userID)
	if err != nil {
		responses.SendError(c, http.StatusNotFound, "Not registered")
		return
	}

	reg.Status = RegistrationCancelled
	if err := ctl.repo.UpdateRegistration(reg); err != nil {
		responses.InternalServerError(c, "Failed to cancel registration")
		return
	}
	responses.SendOk(c)
}

func eventIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("event_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid event ID")
		return 0, false
	}
	return uint(id), true
}
