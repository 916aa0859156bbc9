package club

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/config"
	"github.com/clubhub-app/clubhub/internal/audit"
	"github.com/clubhub-app/clubhub/internal/middleware"
)

func RegisterClubRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewClubRepository(db)
	auditRepo := audit.NewAuditRepository(db)
	controller := NewClubController(repo, auditRepo, db)

	authed := middleware.AuthMiddleware(db, appConfig.JWT.Secret)

	clubs := router.Group("/clubs")
	clubs.Use(authed)
	{
		clubs.GET("", controller.ListMine)
		clubs.POST("", controller.Create)
		clubs.GET("/:club_id", controller.Get)
		clubs.PATCH("/:club_id", controller.Update)
		clubs.DELETE("/:club_id", controller.Disband)
		clubs.POST("/:club_id/disband", controller.Disband)
	}

	search := router.Group("/me/clubs")
	search.Use(authed)
	{
		search.GET("/search", controller.Search)
	}
}
