package application

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/config"
	"github.com/clubhub-app/clubhub/internal/audit"
	"github.com/clubhub-app/clubhub/internal/club"
	"github.com/clubhub-app/clubhub/internal/membership"
	"github.com/clubhub-app/clubhub/internal/middleware"
	"github.com/clubhub-app/clubhub/internal/notification"
)

func RegisterApplicationRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	ctl := NewApplicationController(
		NewApplicationRepository(db),
		club.NewClubRepository(db),
		membership.NewMembershipRepository(db),
		audit.NewAuditRepository(db),
		notification.NewNotificationRepository(db),
		db,
		appConfig,
	)

	clubScoped := router.Group("/clubs/:club_id/applications")
	clubScoped.Use(middleware.AuthMiddleware(db, appConfig.JWT.Secret))
	{
		clubScoped.POST("", ctl.Apply)
		clubScoped.GET("", ctl.List)
		clubScoped.GET("/me", ctl.GetMine)
		clubScoped.POST("/:application_id/approve", ctl.Approve)
		clubScoped.POST("/:application_id/reject", ctl.Reject)
	}

	mine := router.Group("/me/applications")
	mine.Use(middleware.AuthMiddleware(db, appConfig.JWT.Secret))
	{
		mine.GET("", ctl.ListMine)
		mine.POST("/:application_id/cancel", ctl.Cancel)
	}
}
