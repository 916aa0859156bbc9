package event

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/config"
	"github.com/clubhub-app/clubhub/internal/audit"
	"github.com/clubhub-app/clubhub/internal/club"
	"github.com/clubhub-app/clubhub/internal/middleware"
	"github.com/clubhub-app/clubhub/internal/notification"
)

func RegisterEventRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	ctl := NewEventController(
		NewEventRepository(db),
		club.NewClubRepository(db),
		audit.NewAuditRepository(db),
		notification.NewNotificationRepository(db),
		db,
		appConfig,
	)

	events := router.Group("/clubs/:club_id/events")
	events.Use(middleware.AuthMiddleware(db, appConfig.JWT.Secret))
	{
		events.GET("", ctl.List)
		events.POST("", ctl.Create)
		events.GET("/:event_id", ctl.Get)
		events.POST("/:event_id/register", ctl.Register)
		events.DELETE("/:event_id/register", ctl.Unregister)
	}
}
