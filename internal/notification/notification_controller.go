package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clubhub-app/clubhub/internal/common"
	"github.com/clubhub-app/clubhub/pkg/responses"
)

type NotificationController struct {
	repo NotificationRepository
}

func NewNotificationController(repo NotificationRepository) *NotificationController {
	return &NotificationController{repo: repo}
}

// @Summary      List my notifications
// @Tags         Me
// @Produce      json
// @Success      200 {array} Notification
// @Failure      401 {object} responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /me/notifications [get]
func (ctl *NotificationController) ListMine(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	notifications, err := ctl.repo.ListByUser(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// @Summary      Mark all my notifications read
// @Tags         Me
// @Produce      json
// @Success      200 {object} responses.OkResponse
// @Failure      401 {object} responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /me/notifications [post]
func (ctl *NotificationController) MarkAllRead(c *gin.Context) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	if err := ctl.repo.MarkAllRead(userID); err != nil {
		responses.InternalServerError(c, "Failed to update notifications")
		return
	}
	responses.SendOk(c)
}
