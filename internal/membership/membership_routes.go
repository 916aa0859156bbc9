package membership

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/config"
	"github.com/clubhub-app/clubhub/internal/audit"
	"github.com/clubhub-app/clubhub/internal/middleware"
)

func RegisterMembershipRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewMembershipRepository(db)
	auditRepo := audit.NewAuditRepository(db)
	controller := NewMembershipController(repo, auditRepo, db)

	members := router.Group("/clubs/:club_id/members")
	members.Use(middleware.AuthMiddleware(db, appConfig.JWT.Secret))
	{
		members.GET("", controller.ListMembers)
		members.GET("/me", controller.GetMine)
		members.DELETE("/me", controller.Leave)
		members.PATCH("/me/settings", controller.UpdateSettings)
		members.PATCH("/by-user/:user_id", controller.AdminUpdateMember)
	}
}
