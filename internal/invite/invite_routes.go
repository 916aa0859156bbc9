package invite

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

// RegisterInviteRoutes wires the admin invite management surface, the public
// preview endpoint, and the authenticated accept endpoint.
func RegisterInviteRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	ctl := NewInviteController(
		NewInviteRepository(db),
		club.NewClubRepository(db),
		membership.NewMembershipRepository(db),
		audit.NewAuditRepository(db),
		notification.NewNotificationRepository(db),
		db,
		appConfig,
	)

	admin := router.Group("/clubs/:club_id/invites")
	admin.Use(middleware.AuthMiddleware(db, appConfig.JWT.Secret))
	{
		admin.GET("", ctl.List)
		admin.POST("", ctl.Create)
		admin.POST("/:invite_id/revoke", ctl.Revoke)
	}

	// Preview needs no session so a logged-out recipient can see the club.
	router.GET("/invites/:token", ctl.Preview)

	accept := router.Group("/invites/:token/accept")
	accept.Use(middleware.AuthMiddleware(db, appConfig.JWT.Secret))
	{
		accept.POST("", ctl.Accept)
	}
}
