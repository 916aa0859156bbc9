package audit

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/config"
	"github.com/clubhub-app/clubhub/internal/middleware"
)

func RegisterAuditRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewAuditRepository(db)
	controller := NewAuditController(repo, db)

	logs := router.Group("/clubs/:club_id/audit-logs")
	logs.Use(middleware.AuthMiddleware(db, appConfig.JWT.Secret))
	{
		logs.GET("", controller.List)
		logs.POST("/query", controller.QueryPage)
	}
}
