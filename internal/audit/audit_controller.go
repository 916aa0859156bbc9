package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/internal/common"
	"github.com/clubhub-app/clubhub/pkg/responses"
)

type AuditController struct {
	repo AuditRepository
	db   *gorm.DB
}

func NewAuditController(repo AuditRepository, db *gorm.DB) *AuditController {
	return &AuditController{repo: repo, db: db}
}

func (ctl *AuditController) requireAdmin(c *gin.Context) (uint, bool) {
	userID, ok := common.GetCurrentUserID(c)
	if !ok {
		responses.Unauthorized(c, "User not authenticated")
		return 0, false
	}
	clubID, err := strconv.ParseUint(c.Param("club_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid club ID")
		return 0, false
	}
	isAdmin, err := common.IsActiveAdmin(ctl.db, uint(clubID), userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to resolve membership")
		return 0, false
	}
	if !isAdmin {
		responses.Forbidden(c, "Admin access required")
		return 0, false
	}
	return uint(clubID), true
}

// @Summary      List audit logs
// @Description  Offset/limit pagination with category/result/correlation/time filters, newest first.
// @Tags         Audit
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Param        limit query int false "Page size" default(50)
// @Param        offset query int false "Offset" default(0)
// @Param        eventCategory query string false "Filter by category"
// @Param        result query string false "Filter by result"
// @Param        correlationId query string false "Filter by correlation id"
// @Param        createdAfter query string false "RFC3339 lower bound"
// @Param        createdBefore query string false "RFC3339 upper bound"
// @Success      200 {array} AuditLog
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Admin access required"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/audit-logs [get]
func (ctl *AuditController) List(c *gin.Context) {
	clubID, ok := ctl.requireAdmin(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	logs, err := ctl.repo.ListByClub(clubID, ListFilter{
		EventCategory: c.Query("eventCategory"),
		Result:        c.Query("result"),
		CorrelationID: c.Query("correlationId"),
		CreatedAfter:  c.Query("createdAfter"),
		CreatedBefore: c.Query("createdBefore"),
		Offset:        offset,
		Limit:         limit,
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to list audit logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}

// @Summary      Query audit logs (cursor pagination)
// @Description  Token-cursor variant keyed by the last-seen log id.
// @Tags         Audit
// @Accept       json
// @Produce      json
// @Param        club_id path uint true "Club ID"
// @Param        page body PageRequest true "Page size and token"
// @Success      200 {object} PageResponse
// @Failure      400 {object} responses.ErrorResponse "Malformed page token"
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse "Admin access required"
// @Security     ApiKeyAuth
// @Router       /clubs/{club_id}/audit-logs/query [post]
func (ctl *AuditController) QueryPage(c *gin.Context) {
	clubID, ok := ctl.requireAdmin(c)
	if !ok {
		return
	}

	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid page request: "+err.Error())
		return
	}

	var afterID uint64
	if req.PageToken != "" {
		var err error
		afterID, err = strconv.ParseUint(req.PageToken, 10, 32)
		if err != nil {
			responses.BadRequest(c, "Malformed page token")
			return
		}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	logs, err := ctl.repo.ListPage(clubID, uint(afterID), pageSize)
	if err != nil {
		responses.InternalServerError(c, "Failed to list audit logs")
		return
	}

	resp := PageResponse{Items: logs}
	if len(logs) == pageSize {
		resp.NextPageToken = strconv.FormatUint(uint64(logs[len(logs)-1].ID), 10)
	}
	c.JSON(http.StatusOK, resp)
}
