package notification

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/config"
	"github.com/clubhub-app/clubhub/internal/middleware"
)

func RegisterNotificationRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewNotificationRepository(db)
	controller := NewNotificationController(repo)

	me := router.Group("/me/notifications")
	me.Use(middleware.AuthMiddleware(db, appConfig.JWT.Secret))
	{
		me.GET("", controller.ListMine)
		me.POST("", controller.MarkAllRead)
	}
}
